// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{Container: "/ws/a", Branch: "main", RepoID: "github.com/acme/a", Dirty: false},
		{Container: "/ws/b", Branch: "feature/x", RepoID: "github.com/acme/b", Dirty: true},
		{Container: "/ws/c", Branch: "main", RepoID: "github.com/acme/c", Issue: "missing worktree dir"},
	}
}

func TestNewStatusModel_StartsUnfiltered(t *testing.T) {
	m := NewStatusModel(sampleRows())
	assert.Len(t, m.rows, 3)
	assert.Equal(t, FilterNone, m.filter)
	assert.Equal(t, 0, m.cursor)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendKey(t *testing.T, m StatusModel, k string) StatusModel {
	t.Helper()
	var msg tea.Msg
	switch k {
	case "up", "down", "home", "end":
		msg = tea.KeyMsg{Type: map[string]tea.KeyType{
			"up": tea.KeyUp, "down": tea.KeyDown, "home": tea.KeyHome, "end": tea.KeyEnd,
		}[k]}
	default:
		msg = key(k)
	}
	updated, _ := m.Update(msg)
	next, ok := updated.(StatusModel)
	require.True(t, ok)
	return next
}

func TestUpdate_CursorNavigationClampsAtBounds(t *testing.T) {
	m := NewStatusModel(sampleRows())

	m = sendKey(t, m, "up")
	assert.Equal(t, 0, m.cursor, "cursor must not go negative")

	m = sendKey(t, m, "down")
	m = sendKey(t, m, "down")
	assert.Equal(t, 2, m.cursor)

	m = sendKey(t, m, "down")
	assert.Equal(t, 2, m.cursor, "cursor must not exceed the last row")
}

func TestUpdate_FilterDirtyNarrowsRows(t *testing.T) {
	m := NewStatusModel(sampleRows())

	m = sendKey(t, m, "1")
	require.Len(t, m.rows, 1)
	assert.True(t, m.rows[0].Dirty)
	assert.Equal(t, FilterDirty, m.filter)
	assert.Equal(t, 0, m.cursor, "changing filter resets the cursor")
}

func TestUpdate_FilterIssueNarrowsRows(t *testing.T) {
	m := NewStatusModel(sampleRows())

	m = sendKey(t, m, "3")
	require.Len(t, m.rows, 1)
	assert.Equal(t, "missing worktree dir", m.rows[0].Issue)
}

func TestUpdate_FilterCleanExcludesDirtyAndIssues(t *testing.T) {
	m := NewStatusModel(sampleRows())

	m = sendKey(t, m, "2")
	require.Len(t, m.rows, 1)
	assert.Equal(t, "/ws/a", m.rows[0].Container)
}

func TestUpdate_FilterAllRestoresEveryRow(t *testing.T) {
	m := NewStatusModel(sampleRows())
	m = sendKey(t, m, "1")
	m = sendKey(t, m, "0")
	assert.Len(t, m.rows, 3)
	assert.Equal(t, FilterNone, m.filter)
}

func TestUpdate_QuitReturnsQuitCmd(t *testing.T) {
	m := NewStatusModel(sampleRows())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}

func TestView_RendersFilterLabelWhenNarrowed(t *testing.T) {
	m := NewStatusModel(sampleRows())
	m.width, m.height, m.ready = 100, 40, true
	m = sendKey(t, m, "1")

	out := m.View()
	assert.True(t, strings.Contains(out, "Filter: dirty"))
}

func TestView_NotReadyShowsInitializing(t *testing.T) {
	m := NewStatusModel(sampleRows())
	assert.Equal(t, "Initializing...", m.View())
}
