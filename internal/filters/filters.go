// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/match"

	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// filterRegex is the pattern used to parse filter expressions into target,
// operator, and value components. Operators are one of = ^ ~ < > @ or /,
// optionally prefixed with '!'. Examples: "status" (bare glob),
// "path^metadata" (target + operator + value), "depth>3".
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter targets.
const (
	TargetPath  = "path"
	TargetKey   = "key"
	TargetDepth = "depth"
	TargetGlob  = "glob"
)

// Filter is a single parsed --ignore expression.
type Filter struct {
	Target  string `yaml:"target" json:"Target"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`

	re *regexp.Regexp
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unknown target, bad regex or malformed expression) are
// logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override for situations where the value
	// contains commas.
	delim := ","
	if d, ok := os.LookupEnv("DATADIFF_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		// parts[1] is the optional target
		// parts[2] is the optional operator (may include negation like "!")
		// parts[3] is the value
		target := strings.TrimSpace(parts[1])
		operand := parts[2]
		value := parts[3]

		// No operator means the whole entry is a glob over the dotted path.
		if operand == "" {
			filters = append(filters, Filter{Target: TargetGlob, Value: filterSpec})
			continue
		}

		if target == "" {
			target = TargetPath
		}
		if target != TargetPath && target != TargetKey && target != TargetDepth {
			log.Error(fmt.Sprintf("invalid filter: unknown target %q in %s", target, filterSpec))
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		f := Filter{Target: target, Negate: negate, Operand: operand, Value: value}
		if operand == "/" {
			re, err := regexp.Compile(value)
			if err != nil {
				log.Error("invalid regex: " + value)
				continue
			}
			f.re = re
		}

		filters = append(filters, f)
	}

	return filters
}

// Matches reports whether the node at key beneath path is selected by f.
func (f Filter) Matches(path deepdiff.Path, key any) bool {
	full := make(deepdiff.Path, 0, len(path)+1)
	full = append(append(full, path...), key)

	switch f.Target {
	case TargetGlob:
		return match.Match(full.String(), f.Value)
	case TargetPath:
		return checkStringOperand(full.String(), f)
	case TargetDepth:
		return checkNumericOperand(float64(len(full)), f)
	case TargetKey:
		if i, ok := key.(int); ok && f.Operand != "@" && f.Operand != "/" && f.Operand != "^" {
			return checkNumericOperand(float64(i), f)
		}
		return checkStringOperand(fmt.Sprint(key), f)
	}

	log.Error("unsupported filter target: " + f.Target)
	return false
}

// Predicate returns a hook that skips every node matched by any of filters.
func Predicate(filters []Filter) deepdiff.Predicate {
	return func(path deepdiff.Path, key any) bool {
		for _, f := range filters {
			if f.Matches(path, key) {
				log.Debugf("ignoring %s", append(append(deepdiff.Path{}, path...), key))
				return true
			}
		}
		return false
	}
}

// checkNumericOperand compares a numeric value against the filter value using
// numeric semantics. Supported operands: =, >, < and the negated form via
// filter.Negate (e.g., != is represented as Negate + "=").
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Error("invalid numeric value: " + filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		re := filter.re
		if re == nil {
			var err error
			if re, err = regexp.Compile(filter.Value); err != nil {
				log.Error("invalid regex: " + filter.Value)
				return false
			}
		}
		return re.MatchString(value) == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
