// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// schemaTag is one name available to a --where expression.
type schemaTag struct {
	Name string
	Type string
	Func bool
}

// print renders the tag into its display form.
func (t schemaTag) print() string {
	if t.Func {
		return t.Name + t.Type
	}
	return fmt.Sprintf("%-12s %s", t.Name, t.Type)
}

// DumpSchema writes the fields and methods a --where expression can use,
// taken from the expr tags of the environment type, to w. If w is nil,
// os.Stdout is used.
func DumpSchema(typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Names available to --where. Array records expose their item's values as lhs
and rhs, and the item's kind as itemKind.`)
	fmt.Fprintln(w, "")

	tags := dumpSchemaWalker(typ)
	if len(tags) == 0 {
		log.Debugf("No tags found for type: %s", typ.Name())
		return
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Func != tags[j].Func {
			return !tags[i].Func
		}
		return tags[i].Name < tags[j].Name
	})

	for _, tag := range tags {
		fmt.Fprintln(w, tag.print())
	}
}

// dumpSchemaWalker collects expr-tagged fields and exported methods of typ.
func dumpSchemaWalker(typ reflect.Type) []schemaTag {
	tags := make([]schemaTag, 0)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return tags
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		name, ok := field.Tag.Lookup("expr")
		if !ok || name == "-" {
			continue
		}
		tags = append(tags, schemaTag{Name: name, Type: field.Type.String()})
	}

	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		var params []string
		// In 0 is the receiver.
		for p := 1; p < m.Type.NumIn(); p++ {
			params = append(params, m.Type.In(p).String())
		}
		tags = append(tags, schemaTag{Name: m.Name, Type: "(" + strings.Join(params, ", ") + ")", Func: true})
	}

	return tags
}
