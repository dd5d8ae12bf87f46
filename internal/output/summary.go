// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// Counts tallies a change set by effect. Array records count by their item.
type Counts struct {
	Edited  int
	Added   int
	Removed int
}

// Total is the number of records counted.
func (c Counts) Total() int {
	return c.Edited + c.Added + c.Removed
}

// Count tallies changes.
func Count(changes []deepdiff.Change) Counts {
	var c Counts
	for _, ch := range changes {
		kind := ch.Kind
		if kind == deepdiff.KindArray && ch.Item != nil {
			kind = ch.Item.Kind
		}
		switch kind {
		case deepdiff.KindEdit:
			c.Edited++
		case deepdiff.KindNew:
			c.Added++
		case deepdiff.KindDeleted:
			c.Removed++
		}
	}
	return c
}

// Summary is a one line description of a change set between two documents,
// for example "3 changes (1 edited, 1 added, 1 removed) between a.json
// (json, 120 B) and b.json (json, 131 B)".
func Summary(changes []deepdiff.Change, left, right fmt.Stringer) string {
	c := Count(changes)

	var sb strings.Builder
	sb.WriteString(humanize.Comma(int64(c.Total())))
	sb.WriteString(" " + english.PluralWord(c.Total(), "change", ""))

	if c.Total() > 0 {
		var parts []string
		for _, p := range []struct {
			n    int
			verb string
		}{{c.Edited, "edited"}, {c.Added, "added"}, {c.Removed, "removed"}} {
			if p.n > 0 {
				parts = append(parts, humanize.Comma(int64(p.n))+" "+p.verb)
			}
		}
		sb.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}

	if left != nil && right != nil {
		fmt.Fprintf(&sb, " between %s and %s", left, right)
	}
	return sb.String()
}
