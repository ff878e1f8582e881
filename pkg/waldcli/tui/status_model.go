// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package tui renders the live "wald status --tui" dashboard.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Row is one worktree line in the status dashboard: a single branch
// planted inside a baum.
type Row struct {
	Container string
	RepoID    string
	Branch    string
	Path      string
	Dirty     bool
	Unpushed  bool
	Issue     string // non-empty when doctor flagged this worktree's baum
}

// FilterType narrows the visible rows.
type FilterType string

const (
	FilterNone  FilterType = ""
	FilterDirty FilterType = "dirty"
	FilterClean FilterType = "clean"
	FilterIssue FilterType = "issue"
)

// StatusModel is the bubbletea model backing the status dashboard.
type StatusModel struct {
	rows     []Row
	allRows  []Row
	cursor   int
	filter   FilterType
	width    int
	height   int
	ready    bool
}

// NewStatusModel returns a dashboard model over rows.
func NewStatusModel(rows []Row) StatusModel {
	return StatusModel{rows: rows, allRows: rows}
}

func (m StatusModel) Init() tea.Cmd {
	return nil
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.rows) - 1
		case "1":
			m.setFilter(FilterDirty)
		case "2":
			m.setFilter(FilterClean)
		case "3":
			m.setFilter(FilterIssue)
		case "0":
			m.setFilter(FilterNone)
		}
	}
	return m, nil
}

func (m StatusModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())
	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m StatusModel) renderHeader() string {
	title := fmt.Sprintf(" wald status --tui (%d", len(m.rows))
	if m.filter != FilterNone {
		title += fmt.Sprintf(" of %d", len(m.allRows))
	}
	title += ")"
	if m.filter != FilterNone {
		title += fmt.Sprintf(" [Filter: %s]", m.filter)
	}
	return HeaderStyle.Render(title)
}

func (m StatusModel) renderRows() string {
	if len(m.rows) == 0 {
		return SubtleStyle.Render("  no planted baums found")
	}

	visibleHeight := m.height - 8
	if visibleHeight < 1 {
		visibleHeight = 10
	}

	start := m.cursor - visibleHeight/2
	if start < 0 {
		start = 0
	}
	end := start + visibleHeight
	if end > len(m.rows) {
		end = len(m.rows)
		start = end - visibleHeight
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderRow(m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}
	if len(m.rows) > visibleHeight {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("  (%d-%d of %d)", start+1, end, len(m.rows))))
	}
	return b.String()
}

func renderRow(r Row, isCursor bool) string {
	container := r.Container
	if len(container) > 30 {
		container = "..." + container[len(container)-27:]
	}
	branch := r.Branch
	if len(branch) > 20 {
		branch = branch[:17] + "..."
	}

	status := "clean"
	switch {
	case r.Issue != "":
		status = "issue: " + r.Issue
	case r.Dirty && r.Unpushed:
		status = "dirty, unpushed"
	case r.Dirty:
		status = "dirty"
	case r.Unpushed:
		status = "unpushed"
	}

	line := fmt.Sprintf("  %-30s %-20s %-10s %s", container, branch, r.RepoID, status)

	switch {
	case isCursor:
		return CursorStyle.Render(line)
	case r.Issue != "":
		return UnhealthyStyle.Render(line)
	case r.Dirty || r.Unpushed:
		return DirtyStyle.Render(line)
	default:
		return line
	}
}

func (m StatusModel) renderFooter() string {
	actions := []string{
		"↑↓/j/k: Navigate",
		"1: Dirty", "2: Clean", "3: Issues", "0: All",
		"q: Quit",
	}
	return SubtleStyle.Render("  " + strings.Join(actions, "  │  "))
}

func (m *StatusModel) setFilter(filter FilterType) {
	m.filter = filter
	switch filter {
	case FilterNone:
		m.rows = m.allRows
	case FilterDirty:
		m.rows = filterRows(m.allRows, func(r Row) bool { return r.Dirty })
	case FilterClean:
		m.rows = filterRows(m.allRows, func(r Row) bool { return !r.Dirty && r.Issue == "" })
	case FilterIssue:
		m.rows = filterRows(m.allRows, func(r Row) bool { return r.Issue != "" })
	}
	m.cursor = 0
}

func filterRows(rows []Row, keep func(Row) bool) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
