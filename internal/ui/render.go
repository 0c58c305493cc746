package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"devtail/internal/util/logx"
)

func (m *Model) View() string {
	v := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFilterLine(),
		m.renderStatus(),
	)
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderHeader() string {
	left := m.styles.Title.Render("devtail")
	if m.cfg.Title != "" {
		left += m.styles.Base.Render(" — " + m.cfg.Title)
	}
	parts := []string{left}
	for _, s := range m.sources {
		label := string(s.src.Stream)
		switch {
		case s.dead:
			parts = append(parts, m.styles.BadgeWait.Render(label+":stopped"))
		case s.waiting:
			parts = append(parts, m.styles.BadgeWait.Render(label+":waiting "+m.spin.View()))
		default:
			parts = append(parts, m.styles.Badge.Render(label+":live"))
		}
	}
	return m.styles.Header.Width(m.termWidth).Render(strings.Join(parts, "  "))
}

// renderFilterLine shows the inline editor while editing, the active filter
// summary when one is set, and otherwise a spacer to keep the layout stable.
func (m *Model) renderFilterLine() string {
	if m.inlineMode == inlineFilter {
		return "filter: " + m.filterInput.View()
	}
	if m.criteria.Active() {
		return m.styles.FilterOn.Render("filter: " + m.describeCriteria() + "    [F]=clear")
	}
	if m.termWidth > 0 {
		return strings.Repeat(" ", m.termWidth)
	}
	return ""
}

func (m *Model) describeCriteria() string {
	switch {
	case m.criteria.Expr != "":
		return "expr: " + m.criteria.Expr
	case len(m.criteria.Categories) > 0:
		cats := make([]string, 0, len(m.criteria.Categories))
		for c := range m.criteria.Categories {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		return "cat: " + strings.Join(cats, ",")
	case m.criteria.UseRegex:
		return "/" + m.criteria.Query + "/"
	default:
		return m.criteria.Query
	}
}

func (m *Model) renderStatus() string {
	rateStr := "0/s"
	if m.rateEWMA >= 0.05 {
		rateStr = fmt.Sprintf("%.1f/s", m.rateEWMA)
	}
	curDisp := 0
	if len(m.rows) > 0 {
		curDisp = m.cursor + 1
	}
	hint := "[?]=help"
	if m.inlineMode == inlineFilter {
		hint = "[enter]=apply [esc]=cancel"
	}
	status := fmt.Sprintf("[%s] | line:%d/%d rate:%s follow:%v buffered:%d",
		map[state]string{stateRunning: "Running", statePaused: "Paused"}[m.state],
		curDisp, len(m.rows), rateStr, m.follow, m.total)
	if m.dropped > 0 {
		status += fmt.Sprintf(" evicted:%d", m.dropped)
	}
	if m.skipped > 0 {
		status += fmt.Sprintf(" filtered-out:%d", m.skipped)
	}
	if len(m.hidden) > 0 {
		status += fmt.Sprintf(" hidden-cats:%d", len(m.hidden))
	}
	status += " | " + hint
	if m.lastMsg != "" {
		status += " | " + m.lastMsg
	}
	return m.styles.Status.Render(status)
}

func (m *Model) renderHelp() string {
	// Build an organized, navigable help menu
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	// Ensure selection is in range
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "")
			lines = append(lines, currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		key := keyLabel(it.key)
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, key, it.text))
	}
	// Adjust viewport to keep selection visible
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			if lineIndexOfSel-1 >= 0 {
				m.modalVP.YOffset = lineIndexOfSel - 1
			} else {
				m.modalVP.YOffset = 0
			}
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = lineIndexOfSel - m.modalVP.Height + 2
			if m.modalVP.YOffset < 0 {
				m.modalVP.YOffset = 0
			}
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openDetailModal() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	e := m.rows[m.cursor]
	m.modalActive = true
	m.modalKind = modalDetail
	m.modalTitle = "Line"
	m.modalBody = fmt.Sprintf("%s\n\nstream:   %s\ncategory: %s\narrived:  %s",
		e.Text, e.Stream, e.Category, e.When.Format(time.RFC3339))
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modalKind {
	case modalHelp:
		// Update content dynamically for help menu
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalDetail:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	case modalLogs:
		header := m.styles.Help.Render(fmt.Sprintf("buffered: %d  evicted: %d  filtered-out: %d  follow: %v",
			m.total, m.dropped, m.skipped, m.follow))
		content = header + "\n" + m.modalVP.View() + "\n[esc/enter]=close"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	// Center the modal box; the dimmed stream stays visible around it
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}
