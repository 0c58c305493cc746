package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"devtail/internal/classify"
	"devtail/internal/filter"
	"devtail/internal/model"
	"devtail/internal/util/logx"
)

// Category slots for the 1-8 visibility toggles, in classification priority
// order.
var categoryOrder = []model.Category{
	model.CategoryError,
	model.CategoryWarn,
	model.CategoryInfo,
	model.CategorySuccess,
	model.CategoryTool,
	model.CategoryRoute,
	model.CategoryDim,
	model.CategoryNone,
}

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navigation", text: "Previous line", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Next line", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navigation", text: "Page up", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navigation", text: "Page down", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom, resume follow", key: km.Bottom},

		{group: "Filter", text: "Edit filter (text, /regex/, expr:, cat:)", key: km.Filter},
		{group: "Filter", text: "Clear filter", key: km.ClearFilter},
		{group: "Filter", text: "Toggle category visibility", key: tea.Key{Type: tea.KeyRunes, Runes: []rune{'1'}}},

		{group: "Selection", text: "Start/cancel selection", key: km.Select},
		{group: "Selection", text: "Select all", key: km.SelectAll},
		{group: "Selection", text: "Copy selection", key: km.Copy},

		{group: "Views", text: "Line detail", key: km.Detail},
		{group: "Views", text: "Toggle timestamps", key: km.Timestamps},
		{group: "Views", text: "Switch theme", key: km.Theme},
		{group: "Views", text: "Application logs", key: km.AppLogs},

		{group: "Control", text: "Pause/Resume", key: km.Pause},
		{group: "Control", text: "Toggle follow", key: km.Follow},
		{group: "Control", text: "Clear display", key: km.Clear},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		// Reserve 1 line for the header, 1 for the filter line, 1 for status
		h := msg.Height - 3
		if h < 1 {
			h = 1
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = h
		m.filterInput.Width = msg.Width - 4
		m.refreshRows()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.KeyMsg:
		if m.modalActive {
			// Help modal navigation and actions
			if m.modalKind == modalHelp {
				if msg.Type == tea.KeyUp {
					if m.helpSel > 0 {
						m.helpSel--
						m.modalVP.SetContent(m.renderHelp())
					}
					return m, nil
				}
				if msg.Type == tea.KeyDown {
					if m.helpSel+1 < len(m.helpItems) {
						m.helpSel++
						m.modalVP.SetContent(m.renderHelp())
					}
					return m, nil
				}
				if msg.Type == tea.KeyEnter {
					if len(m.helpItems) > 0 {
						it := m.helpItems[m.helpSel]
						m.modalActive = false
						return m, keyCmd(it.key)
					}
					return m, nil
				}
				if msg.Type == tea.KeyEsc || (msg.Type == tea.KeyRunes && (msg.String() == "q" || msg.String() == "?")) {
					m.modalActive = false
					return m, nil
				}
				// ignore other keys in help modal
				return m, nil
			}
			if msg.Type == tea.KeyRunes && (msg.String() == "c" || msg.String() == "C") && m.modalKind == modalDetail {
				m.copyText(m.modalBody)
				m.lastMsg = "copied to clipboard"
				return m, nil
			}
			if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || (msg.Type == tea.KeyRunes && msg.String() == "q") {
				m.modalActive = false
				return m, nil
			}
			// Otherwise, scroll the modal viewport
			var cmd tea.Cmd
			m.modalVP, cmd = m.modalVP.Update(msg)
			return m, cmd
		}
		// Inline filter editing on the bottom line: Enter applies, Esc cancels
		if m.inlineMode == inlineFilter {
			if msg.Type == tea.KeyEnter {
				m.applyFilterQuery(strings.TrimSpace(m.filterInput.Value()))
				m.inlineMode = inlineNone
				m.filterInput.Blur()
				return m, nil
			}
			if msg.Type == tea.KeyEsc {
				m.inlineMode = inlineNone
				m.filterInput.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			return m, cmd
		}

		// Shortcuts
		switch {
		case keyMatches(msg, m.keymap.Pause):
			if m.state == stateRunning {
				m.state = statePaused
				m.lastMsg = "paused; new lines queue up until resume"
			} else {
				m.state = stateRunning
				m.lastMsg = ""
			}
			return m, nil
		case keyMatches(msg, m.keymap.Follow):
			m.follow = !m.follow
			if m.follow {
				m.lastMsg = "follow on"
				m.refreshRows()
			} else {
				m.lastMsg = "follow off"
			}
			return m, nil
		case keyMatches(msg, m.keymap.Filter):
			m.inlineMode = inlineFilter
			m.filterInput.Focus()
			return m, textinput.Blink
		case keyMatches(msg, m.keymap.ClearFilter):
			m.filterInput.SetValue("")
			m.applyFilterQuery("")
			return m, nil
		case keyMatches(msg, m.keymap.Clear):
			m.ring.ClearVisible()
			m.cursor = 0
			m.selAnchor = -1
			m.selectAll = false
			m.refreshRows()
			m.lastMsg = "display cleared"
			logx.Infof("display cleared by user")
			return m, nil
		case keyMatches(msg, m.keymap.Copy):
			if text, n := m.selectionText(); n > 0 {
				m.copyText(text)
				if n == 1 {
					m.lastMsg = "copied line to clipboard"
				} else {
					m.lastMsg = fmt.Sprintf("copied %d lines to clipboard", n)
				}
				m.selAnchor = -1
				m.selectAll = false
				m.syncCursor()
			}
			return m, nil
		case keyMatches(msg, m.keymap.Select):
			if m.selAnchor >= 0 {
				m.selAnchor = -1
			} else {
				m.selAnchor = m.cursor
				m.follow = false
			}
			m.selectAll = false
			m.syncCursor()
			return m, nil
		case keyMatches(msg, m.keymap.SelectAll):
			m.selectAll = !m.selectAll
			m.selAnchor = -1
			m.syncCursor()
			return m, nil
		case keyMatches(msg, m.keymap.Detail):
			m.openDetailModal()
			return m, nil
		case keyMatches(msg, m.keymap.Top):
			m.cursor = 0
			m.follow = false
			m.syncCursor()
			return m, nil
		case keyMatches(msg, m.keymap.Bottom):
			m.follow = true
			m.refreshRows()
			return m, nil
		case keyMatches(msg, m.keymap.Timestamps):
			m.timestamps = !m.timestamps
			m.refreshRows()
			return m, nil
		case keyMatches(msg, m.keymap.Theme):
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
			m.cfg.Theme = m.theme.Name
			m.refreshRows()
			m.lastMsg = "theme: " + m.theme.Name
			return m, nil
		case keyMatches(msg, m.keymap.AppLogs):
			m.openAppLogsModal()
			return m, nil
		case keyMatches(msg, m.keymap.Help):
			m.openHelpModal()
			return m, nil
		case msg.Type == tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			m.follow = false
			m.syncCursor()
			return m, nil
		case msg.Type == tea.KeyDown:
			if m.cursor+1 < len(m.rows) {
				m.cursor++
			}
			m.syncCursor()
			return m, nil
		case msg.Type == tea.KeyPgUp:
			m.cursor -= m.viewport.Height
			m.follow = false
			m.syncCursor()
			return m, nil
		case msg.Type == tea.KeyPgDown:
			m.cursor += m.viewport.Height
			m.syncCursor()
			return m, nil
		case msg.Type == tea.KeyEsc:
			m.selAnchor = -1
			m.selectAll = false
			m.syncCursor()
			return m, nil
		case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '8':
			cat := categoryOrder[msg.Runes[0]-'1']
			if m.hidden[cat] {
				delete(m.hidden, cat)
				m.lastMsg = fmt.Sprintf("showing %s lines", cat)
			} else {
				m.hidden[cat] = true
				m.lastMsg = fmt.Sprintf("hiding %s lines", cat)
			}
			m.refreshRows()
			return m, nil
		case keyMatches(msg, m.keymap.Quit):
			return m, tea.Quit
		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit
		}
		return m, nil
	case startedMsg:
		m.lastMsg = fmt.Sprintf("tailing %s and %s", m.cfg.OutPath, m.cfg.ErrPath)
		return m, nil
	case toastMsg:
		m.lastMsg = msg.text
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tickMsg:
		// Pull lines non-blocking, classify, push accepted ones to the ring.
		// A line the active filter rejects is counted and gone; changing the
		// filter later never brings it back.
		arrived := 0
		if m.state == stateRunning {
			for _, s := range m.sources {
				if s.lines == nil {
					continue
				}
				for i := 0; i < 500; i++ { // limit per tick per source
					select {
					case l, ok := <-s.lines:
						if !ok {
							s.lines = nil
							s.dead = true
							logx.Warnf("tail %s: stopped", s.src.Path)
							m.lastMsg = fmt.Sprintf("stopped tailing %s", s.src.Path)
							i = 999999
							break
						}
						text := classify.Strip(l.Text)
						e := model.Entry{
							Text:     text,
							Stream:   l.Stream,
							Category: m.rules.Classify(text, l.Stream),
							When:     l.When,
						}
						if m.eval != nil && m.criteria.Active() && !m.eval.Match(e, m.criteria) {
							m.skipped++
							continue
						}
						m.ring.Push(e)
						arrived++
						m.rowsDirty = true
					default:
						i = 999999
					}
				}
			}
		}
		// Drain tailer errors
		for _, s := range m.sources {
			if s.errs == nil {
				continue
			}
			for j := 0; j < 20; j++ {
				select {
				case err, ok := <-s.errs:
					if !ok {
						s.errs = nil
						j = 999999
						break
					}
					s.lastErr = err.Error()
					logx.Errorf("tail %s: %v", s.src.Path, err)
					m.lastMsg = fmt.Sprintf("tail error (%s): %v", s.src.Stream, err)
				default:
					j = 999999
				}
			}
		}
		// Existence poll drives the waiting badges in the header
		for _, s := range m.sources {
			if _, err := os.Stat(s.src.Path); err != nil {
				s.waiting = os.IsNotExist(err)
			} else {
				s.waiting = false
			}
		}
		m.noteRate(arrived)
		if m.rowsDirty {
			m.refreshRows()
			m.rowsDirty = false
		}
		if m.dropped > m.prevDropped {
			logx.Debugf("ring: evicted %d lines (cap %d)", m.dropped-m.prevDropped, m.cfg.MaxLines)
			m.prevDropped = m.dropped
		}
		return m, tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.filterInput, _ = m.filterInput.Update(msg)
	return m, cmd
}

// applyFilterQuery installs a new arrival-time filter. Supported forms:
// plain substring, /regex/, expr:<govaluate>, cat:<list>. The parsed criteria
// and the compiled evaluator are committed together; a query that fails to
// compile leaves the previous filter fully in effect.
func (m *Model) applyFilterQuery(q string) {
	c := filter.Criteria{}
	switch {
	case q == "":
	case strings.HasPrefix(q, "expr:"):
		c.Expr = strings.TrimSpace(strings.TrimPrefix(q, "expr:"))
	case strings.HasPrefix(q, "cat:"):
		cats := map[model.Category]bool{}
		for _, name := range strings.Split(strings.TrimPrefix(q, "cat:"), ",") {
			name = strings.TrimSpace(strings.ToLower(name))
			if name != "" {
				cats[model.Category(name)] = true
			}
		}
		c.Categories = cats
	case strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") && len(q) > 2:
		c.UseRegex = true
		c.Query = q[1 : len(q)-1]
	default:
		c.Query = q
	}
	ev, err := filter.NewEvaluator(c)
	if err != nil {
		m.lastMsg = fmt.Sprintf("bad filter: %v", err)
		logx.Warnf("filter: %v", err)
		return
	}
	m.criteria = c
	m.eval = ev
	if m.criteria.Active() {
		m.lastMsg = fmt.Sprintf("filter on: only new lines matching %q", q)
		logx.Infof("filter: applied %q", q)
	} else {
		m.lastMsg = "filter cleared"
		logx.Infof("filter: cleared")
	}
}

// noteRate folds this tick's arrivals into the lines/sec EWMA.
func (m *Model) noteRate(arrived int) {
	now := time.Now()
	if !m.rateLast.IsZero() {
		if dt := now.Sub(m.rateLast).Seconds(); dt > 0 {
			const alpha = 0.3
			m.rateEWMA = alpha*(float64(arrived)/dt) + (1-alpha)*m.rateEWMA
		}
	}
	m.rateLast = now
}
