package ui

import (
	"strings"

	"devtail/internal/model"
)

// refreshRows rebuilds the visible row slice and the viewport content from
// the ring. Rows hidden by a category toggle stay in the ring and come back
// when the category is toggled on again.
func (m *Model) refreshRows() {
	entries, total, dropped := m.ring.Snapshot()
	m.total, m.dropped = total, dropped
	if len(m.hidden) == 0 {
		m.rows = entries
	} else {
		rows := make([]model.Entry, 0, len(entries))
		for _, e := range entries {
			if m.hidden[e.Category] {
				continue
			}
			rows = append(rows, e)
		}
		m.rows = rows
	}
	if m.follow {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// eviction shifts indices, so a stale anchor is dropped rather than moved
	if m.selAnchor >= len(m.rows) {
		m.selAnchor = -1
	}
	m.viewport.SetContent(m.renderRows())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// syncCursor clamps the cursor, re-renders the highlight and keeps the cursor
// line inside the viewport.
func (m *Model) syncCursor() {
	if m.cursor < 0 {
		m.cursor = 0
	}
	if n := len(m.rows); n > 0 && m.cursor >= n {
		m.cursor = n - 1
	}
	m.viewport.SetContent(m.renderRows())
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m *Model) renderRows() string {
	if len(m.rows) == 0 {
		return m.styles.Status.Render("waiting for log lines...")
	}
	var b strings.Builder
	b.Grow(len(m.rows) * 48)
	for i := range m.rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(i))
	}
	return b.String()
}

func (m *Model) inSelection(i int) bool {
	if m.selectAll {
		return true
	}
	if m.selAnchor < 0 {
		return false
	}
	lo, hi := m.selAnchor, m.cursor
	if lo > hi {
		lo, hi = hi, lo
	}
	return i >= lo && i <= hi
}

func (m *Model) renderRow(i int) string {
	e := m.rows[i]
	prefix := ""
	if m.timestamps {
		prefix = e.When.Format("15:04:05") + " "
	}
	w := m.viewport.Width
	if w <= 0 {
		w = 80
	}
	avail := w - runeLen(prefix)
	if avail < 8 {
		avail = 8
	}
	text := truncateRunes(e.Text, avail)
	// selection and cursor highlights replace the category color; mixing a
	// background over an already styled string garbles the escape sequences
	if m.inSelection(i) {
		return m.styles.Selected.Render(padRight(prefix+text, w))
	}
	if i == m.cursor && !m.follow {
		return m.styles.Cursor.Render(padRight(prefix+text, w))
	}
	st, ok := m.styles.Category[e.Category]
	if !ok {
		st = m.styles.Base
	}
	if prefix != "" {
		return m.styles.Gutter.Render(prefix) + st.Render(text)
	}
	return st.Render(text)
}

// selectionText returns the text to copy and how many lines it spans: the
// whole display after select-all, the anchored range while selecting, or the
// cursor line otherwise.
func (m *Model) selectionText() (string, int) {
	if len(m.rows) == 0 {
		return "", 0
	}
	if m.selectAll {
		parts := make([]string, 0, len(m.rows))
		for i := range m.rows {
			parts = append(parts, m.rows[i].Text)
		}
		return strings.Join(parts, "\n"), len(parts)
	}
	if m.selAnchor >= 0 {
		lo, hi := m.selAnchor, m.cursor
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo < 0 {
			lo = 0
		}
		if hi >= len(m.rows) {
			hi = len(m.rows) - 1
		}
		parts := make([]string, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			parts = append(parts, m.rows[i].Text)
		}
		return strings.Join(parts, "\n"), len(parts)
	}
	if m.cursor < len(m.rows) {
		return m.rows[m.cursor].Text, 1
	}
	return "", 0
}
