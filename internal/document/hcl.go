// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/tfctl/datadiff/internal/log"
)

// decodeHCL reads an HCL native syntax file. Attributes become keys.
// Blocks nest under their type and labels and always end in a list of bodies,
// so repeated blocks line up as array elements:
//
//	service "web" { port = 80 }  =>  {"service": {"web": [{"port": 80}]}}
//
// Expressions are evaluated with a small function library and no variables.
// One that cannot be evaluated statically (var.x, local.y) is kept as its
// source text.
func decodeHCL(data []byte, filename string) (any, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected HCL body type %T", file.Body)
	}

	return bodyToGo(body, data, evalContext()), nil
}

func bodyToGo(body *hclsyntax.Body, src []byte, ctx *hcl.EvalContext) map[string]any {
	out := make(map[string]any, len(body.Attributes))

	for name, attr := range body.Attributes {
		out[name] = exprToGo(attr.Expr, src, ctx)
	}

	for _, block := range body.Blocks {
		keys := append([]string{block.Type}, block.Labels...)
		parent := out
		for _, key := range keys[:len(keys)-1] {
			child, ok := parent[key].(map[string]any)
			if !ok {
				if _, taken := parent[key]; taken {
					log.Warnf("%s: block %q collides with an attribute, skipped", block.TypeRange, key)
					parent = nil
					break
				}
				child = map[string]any{}
				parent[key] = child
			}
			parent = child
		}
		if parent == nil {
			continue
		}

		last := keys[len(keys)-1]
		list, _ := parent[last].([]any)
		parent[last] = append(list, bodyToGo(block.Body, src, ctx))
	}

	return out
}

func exprToGo(expr hclsyntax.Expression, src []byte, ctx *hcl.EvalContext) any {
	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		text := string(expr.Range().SliceBytes(src))
		log.Tracef("hcl expression kept as text at %s: %s", expr.Range(), diags.Error())
		return text
	}
	return ctyToGo(val)
}

// ctyToGo converts a cty value to the generic value tree.
func ctyToGo(val cty.Value) any {
	if !val.IsKnown() || val.IsNull() {
		return nil
	}

	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True()
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty == cty.String:
		return val.AsString()
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		result := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			result = append(result, ctyToGo(elem))
		}
		return result
	case ty.IsMapType() || ty.IsObjectType():
		result := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			result[key.AsString()] = ctyToGo(elem)
		}
		return result
	}
	return val.GoString()
}

// evalContext offers the pure functions that commonly appear in tfvars and
// config files.
func evalContext() *hcl.EvalContext {
	funcs := map[string]function.Function{
		"abs":        stdlib.AbsoluteFunc,
		"ceil":       stdlib.CeilFunc,
		"floor":      stdlib.FloorFunc,
		"max":        stdlib.MaxFunc,
		"min":        stdlib.MinFunc,
		"format":     stdlib.FormatFunc,
		"join":       stdlib.JoinFunc,
		"lower":      stdlib.LowerFunc,
		"upper":      stdlib.UpperFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"concat":     stdlib.ConcatFunc,
		"distinct":   stdlib.DistinctFunc,
		"flatten":    stdlib.FlattenFunc,
		"keys":       stdlib.KeysFunc,
		"length":     stdlib.LengthFunc,
		"lookup":     stdlib.LookupFunc,
		"merge":      stdlib.MergeFunc,
		"range":      stdlib.RangeFunc,
		"sort":       stdlib.SortFunc,
		"values":     stdlib.ValuesFunc,
		"zipmap":     stdlib.ZipmapFunc,
		"coalesce":   stdlib.CoalesceFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"try":        tryfunc.TryFunc,
		"can":        tryfunc.CanFunc,
	}
	return &hcl.EvalContext{Functions: funcs}
}
