// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// SortChanges stable-sorts changes by the comma separated fields in spec.
// Fields are kind, path and depth. A leading "-" sorts descending and a
// leading "!" makes path comparison case sensitive. An empty spec keeps
// traversal order.
func SortChanges(changes []deepdiff.Change, spec string) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(changes, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)

			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}

			oneKind, onePath, _, _ := rowOf(changes[one])
			twoKind, twoPath, _, _ := rowOf(changes[two])

			var oneValue, twoValue string
			switch field {
			case "depth":
				oneDepth, twoDepth := depthOf(changes[one]), depthOf(changes[two])
				if oneDepth != twoDepth {
					if ascending {
						return oneDepth < twoDepth
					}
					return oneDepth > twoDepth
				}
				continue
			case "kind":
				oneValue, twoValue = oneKind, twoKind
			case "path":
				oneValue, twoValue = onePath, twoPath
				if !caseSensitive {
					oneValue, twoValue = strings.ToLower(oneValue), strings.ToLower(twoValue)
				}
			default:
				log.Debugf("ignoring unknown sort field %q", field)
				continue
			}

			if oneValue != twoValue {
				if ascending {
					return oneValue < twoValue
				}
				return oneValue > twoValue
			}
		}
		return false
	})
}

// depthOf is the number of path elements to the changed value, counting the
// index of an array record.
func depthOf(ch deepdiff.Change) int {
	if ch.Kind == deepdiff.KindArray {
		return len(ch.Path) + 1
	}
	return len(ch.Path)
}
