// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ErrNoSelection is returned when the chooser is left without picking two
// documents.
var ErrNoSelection = errors.New("two documents were not selected")

// Candidate is a file offered by the chooser.
type Candidate struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// ListDocuments returns the regular files in dir, newest first.
func ListDocuments(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var items []Candidate
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		items = append(items, Candidate{
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ModTime.After(items[j].ModTime)
	})
	return items, nil
}

// SelectDocuments lets the user pick two of items and returns their paths in
// the order they were picked. Typing narrows the list by file name. The
// chooser draws on stderr.
func SelectDocuments(items []Candidate) ([]string, error) {
	if len(items) < 2 {
		return nil, fmt.Errorf("%w: need at least two files, found %d", ErrNoSelection, len(items))
	}

	p := tea.NewProgram(newModel(items, time.Now()), tea.WithOutput(os.Stderr))
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("chooser: %w", err)
	}

	selected := m.(model).selected
	if len(selected) != 2 {
		return nil, ErrNoSelection
	}
	return []string{selected[0].Path, selected[1].Path}, nil
}

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))
	markStyle   = lipgloss.NewStyle().Bold(true)
)

type model struct {
	items    []Candidate
	filter   textinput.Model
	cursor   int
	selected []Candidate
	now      time.Time
}

func newModel(items []Candidate, now time.Time) model {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Focus()
	ti.Cursor.SetMode(cursor.CursorBlink)

	return model{items: items, filter: ti, now: now}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// visible is the items whose file name contains the filter text.
func (m model) visible() []Candidate {
	f := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if f == "" {
		return m.items
	}

	var out []Candidate
	for _, c := range m.items {
		if strings.Contains(strings.ToLower(filepath.Base(c.Path)), f) {
			out = append(out, c)
		}
	}
	return out
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		visible := m.visible()

		switch key.String() {
		case "esc", "ctrl+c":
			m.selected = nil
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(visible)-1 {
				m.cursor++
			}
			return m, nil
		case " ":
			if m.cursor >= len(visible) {
				return m, nil
			}
			current := visible[m.cursor]
			if i := indexOf(m.selected, current); i >= 0 {
				m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, current)
			}
			return m, nil
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString("Select two documents, left first:\n\n")
	b.WriteString(promptStyle.Render("filter> ") + m.filter.View() + "\n\n")

	for i, c := range m.visible() {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		switch indexOf(m.selected, c) {
		case 0:
			mark = markStyle.Render("L")
		case 1:
			mark = markStyle.Render("R")
		}

		fmt.Fprintf(&b, "%s [%s] %-40s %9s  %s\n", cursor, mark, filepath.Base(c.Path),
			humanize.Bytes(uint64(c.Size)), humanize.RelTime(c.ModTime, m.now, "ago", "from now")) //nolint:gosec
	}
	b.WriteString("\nUP/DOWN: move, SPACE: toggle, ENTER: go, ESC: quit\n")
	return b.String()
}

func indexOf(selected []Candidate, c Candidate) int {
	for i, s := range selected {
		if s.Path == c.Path {
			return i
		}
	}
	return -1
}
