// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/datadiff/internal/config"
	"github.com/tfctl/datadiff/pkg/deepdiff"
)

// Output formats understood by Spit.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// ErrUnknownOutput is returned for an unsupported --output value.
var ErrUnknownOutput = errors.New("unknown output format")

// Options controls how change sets are rendered.
type Options struct {
	Format  string
	Sort    string
	Color   bool
	Titles  bool
	Padding int
	// Header is printed above the text table when set.
	Header string
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided and is used for nil and
// undefined.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || value == deepdiff.Undefined {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		if value == "" {
			return `""`
		}
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return value.String()
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Spit sorts changes per opts.Sort and writes them to w in opts.Format. If w
// is nil, os.Stdout is used.
func Spit(changes []deepdiff.Change, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}
	if changes == nil {
		changes = []deepdiff.Change{}
	}

	SortChanges(changes, opts.Sort)

	switch opts.Format {
	case FormatJSON:
		jsonOutput, err := json.MarshalIndent(changes, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err

	case FormatRaw:
		enc := json.NewEncoder(w)
		for _, ch := range changes {
			if err := enc.Encode(ch); err != nil {
				return fmt.Errorf("json encode %s: %w", ch.Path, err)
			}
		}
		return nil

	case FormatYAML:
		docs := make([]yaml.MapSlice, 0, len(changes))
		for _, ch := range changes {
			docs = append(docs, changeToMapSlice(ch))
		}
		yamlOutput, err := yaml.Marshal(docs)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err

	case "", FormatText:
		TableWriter(changes, opts, w)
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownOutput, opts.Format)
}

// changeToMapSlice keeps the record's keys in wire order for YAML.
func changeToMapSlice(ch deepdiff.Change) yaml.MapSlice {
	ms := yaml.MapSlice{{Key: "kind", Value: string(ch.Kind)}}
	if len(ch.Path) > 0 {
		ms = append(ms, yaml.MapItem{Key: "path", Value: []any(ch.Path)})
	}

	switch ch.Kind {
	case deepdiff.KindEdit:
		ms = append(ms, yaml.MapItem{Key: "lhs", Value: yamlValue(ch.LHS)}, yaml.MapItem{Key: "rhs", Value: yamlValue(ch.RHS)})
	case deepdiff.KindNew:
		ms = append(ms, yaml.MapItem{Key: "rhs", Value: yamlValue(ch.RHS)})
	case deepdiff.KindDeleted:
		ms = append(ms, yaml.MapItem{Key: "lhs", Value: yamlValue(ch.LHS)})
	case deepdiff.KindArray:
		ms = append(ms, yaml.MapItem{Key: "index", Value: ch.Index})
		if ch.Item != nil {
			ms = append(ms, yaml.MapItem{Key: "item", Value: changeToMapSlice(*ch.Item)})
		}
	}
	return ms
}

// yamlValue maps values yaml.v2 cannot express onto what JSON would show.
func yamlValue(v any) any {
	if v == deepdiff.Undefined {
		return nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		if _, isTime := v.(time.Time); !isTime {
			return s.String()
		}
	}
	return v
}

// rowOf flattens a change for the table: array records show the item's kind
// and the element's path.
func rowOf(ch deepdiff.Change) (kind, path string, lhs, rhs any) {
	if ch.Kind == deepdiff.KindArray && ch.Item != nil {
		p := append(append(deepdiff.Path{}, ch.Path...), ch.Index)
		return "A/" + string(ch.Item.Kind), p.String(), ch.Item.LHS, ch.Item.RHS
	}
	return string(ch.Kind), ch.Path.String(), ch.LHS, ch.RHS
}

// TableWriter renders the change set in a tabular form honoring color, titles
// and padding options. Output is written to w. If w is nil, os.Stdout is used.
func TableWriter(changes []deepdiff.Change, opts Options, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	// We return early if there are no results to display.
	if len(changes) == 0 {
		return
	}

	// We initialize the table styles.
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	// And then color styles if --color is present.
	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	rows := make([][]string, 0, len(changes))
	for _, ch := range changes {
		kind, path, lhs, rhs := rowOf(ch)
		if path == "" {
			path = "."
		}
		rows = append(rows, []string{kind, path, InterfaceToString(lhs, "-"), InterfaceToString(rhs, "-")})
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	if pad == 0 {
		pad = 2
	}
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers("KIND", "PATH", "LEFT", "RIGHT").BorderHeader(false)
	}
	fmt.Fprintln(w, t)
	log.Debugf("rendered %d rows", len(rows))
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
