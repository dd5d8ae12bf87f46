// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/datadiff/internal/filters"
)

func TestCompare(t *testing.T) {
	left := map[string]any{
		"name":   "web",
		"ports":  []any{80.0, 443.0},
		"status": map[string]any{"phase": "Running"},
	}
	right := map[string]any{
		"name":   "api",
		"ports":  []any{443.0, 80.0},
		"status": map[string]any{"phase": "Pending"},
	}

	where, err := filters.Where(`kind == "E" && depth == 1`)
	require.NoError(t, err)

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"positional", Options{}, []string{"name", "ports[1]", "ports[0]", "status.phase"}},
		{"unordered", Options{Unordered: true}, []string{"name", "status.phase"}},
		{"ignore", Options{Hook: filters.NewHook(filters.BuildFilters("status"))}, []string{"name", "ports[1]", "ports[0]"}},
		{"where", Options{Where: where}, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(left, right, tt.opts)
			require.NoError(t, err)

			paths := make([]string, 0, len(got))
			for _, ch := range got {
				paths = append(paths, ch.Path.String())
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestCompareWhereError(t *testing.T) {
	where, err := filters.Where(`lhs > 1`)
	require.NoError(t, err)

	_, err = Compare(map[string]any{"a": "x"}, map[string]any{"a": "y"}, Options{Where: where})
	assert.Error(t, err)
}

func TestDelta(t *testing.T) {
	left := map[string]any{"name": "web", "replicas": 1}
	right := map[string]any{"name": "web", "replicas": 2.0}

	out, err := Delta(left, right, false)
	require.NoError(t, err)
	assert.Contains(t, out, `"replicas": 1`)
	assert.Contains(t, out, `"replicas": 2`)

	// Numbers of different Go kinds are equal once shaped as JSON.
	out, err = Delta(map[string]any{"a": 1}, map[string]any{"a": 1.0}, false)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = Delta([]any{1}, []any{2}, false)
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = Delta(map[string]any{"a": make(chan int)}, map[string]any{}, false)
	assert.Error(t, err)
}

func TestDeltaNonFinite(t *testing.T) {
	left := map[string]any{"ratio": math.NaN(), "limits": []any{math.Inf(1), 1.0}}
	right := map[string]any{"ratio": 0.5, "limits": []any{math.Inf(-1), 1.0}}

	out, err := Delta(left, right, false)
	require.NoError(t, err)
	assert.Contains(t, out, `"NaN"`)
	assert.Contains(t, out, `"Infinity"`)
	assert.Contains(t, out, `"-Infinity"`)

	out, err = Delta(map[string]any{"r": math.NaN()}, map[string]any{"r": math.NaN()}, false)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for i, name := range []string{"old.json", "new.json", "mid.json"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o600))
		mtime := now.Add(-time.Duration([]int{3, 1, 2}[i]) * time.Hour)
		require.NoError(t, os.Chtimes(p, mtime, mtime))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	items, err := ListDocuments(dir)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, filepath.Join(dir, "new.json"), items[0].Path)
	assert.Equal(t, filepath.Join(dir, "mid.json"), items[1].Path)
	assert.Equal(t, filepath.Join(dir, "old.json"), items[2].Path)
	assert.Equal(t, int64(2), items[0].Size)

	_, err = ListDocuments(filepath.Join(dir, "absent"))
	assert.Error(t, err)

	_, err = SelectDocuments(items[:1])
	assert.ErrorIs(t, err, ErrNoSelection)
}

func press(m tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func TestModel(t *testing.T) {
	var (
		down  = tea.KeyMsg{Type: tea.KeyDown}
		up    = tea.KeyMsg{Type: tea.KeyUp}
		space = tea.KeyMsg{Type: tea.KeySpace}
		enter = tea.KeyMsg{Type: tea.KeyEnter}
		quit  = tea.KeyMsg{Type: tea.KeyEsc}
	)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := []Candidate{
		{Path: "/d/a.json", Size: 1024, ModTime: now.Add(-time.Hour)},
		{Path: "/d/b.json", Size: 2048, ModTime: now.Add(-2 * time.Hour)},
		{Path: "/d/c.json", Size: 10, ModTime: now.Add(-3 * time.Hour)},
	}
	start := newModel(items, now)

	t.Run("pick two in order", func(t *testing.T) {
		m, _ := press(start, down, down, space, up, up, space)
		got := m.(model)
		require.Len(t, got.selected, 2)
		assert.Equal(t, "/d/c.json", got.selected[0].Path)
		assert.Equal(t, "/d/a.json", got.selected[1].Path)

		_, cmd := press(m, enter)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})

	t.Run("toggle off", func(t *testing.T) {
		m, _ := press(start, space, space)
		assert.Empty(t, m.(model).selected)
	})

	t.Run("third pick ignored", func(t *testing.T) {
		m, _ := press(start, space, down, space, down, space)
		assert.Len(t, m.(model).selected, 2)
	})

	t.Run("enter needs two", func(t *testing.T) {
		_, cmd := press(start, space, enter)
		assert.Nil(t, cmd)
	})

	t.Run("cursor stays in range", func(t *testing.T) {
		m, _ := press(start, up, down, down, down, down)
		assert.Equal(t, 2, m.(model).cursor)
	})

	t.Run("quit clears", func(t *testing.T) {
		m, cmd := press(start, space, down, space, quit)
		assert.Empty(t, m.(model).selected)
		require.NotNil(t, cmd)
	})

	t.Run("filter narrows", func(t *testing.T) {
		typed := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("C.J")}
		m, _ := press(start, down, down, typed)
		got := m.(model)
		require.Len(t, got.visible(), 1)
		assert.Equal(t, 0, got.cursor)

		m, _ = press(m, space)
		require.Len(t, m.(model).selected, 1)
		assert.Equal(t, "/d/c.json", m.(model).selected[0].Path)
		assert.NotContains(t, m.View(), "a.json")
	})

	t.Run("no match", func(t *testing.T) {
		typed := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")}
		m, _ := press(start, typed, space)
		assert.Empty(t, m.(model).visible())
		assert.Empty(t, m.(model).selected)
	})

	t.Run("view", func(t *testing.T) {
		m, _ := press(start, down, space)
		view := m.View()
		assert.Contains(t, view, "> [L] b.json")
		assert.Contains(t, view, "2.0 kB")
		assert.Contains(t, view, "1 hour ago")
	})
}
