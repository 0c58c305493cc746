package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"devtail/internal/ingest"
	"devtail/internal/util/logx"
)

// IO and pipeline orchestration. Each monitored file gets its own tailer so a
// tailer that dies does not take the other one down with it.
func setupPipeline(m *Model) tea.Cmd {
	for _, s := range m.sources {
		s.lines, s.errs = ingest.Read(m.ctx, ingest.Options{Source: s.src, Poll: m.cfg.Poll})
		logx.Infof("ingest: tailing %s as %s (poll=%v)", s.src.Path, s.src.Stream, m.cfg.Poll)
	}
	return func() tea.Msg { return startedMsg{} }
}

type startedMsg struct{}
type tickMsg struct{}

// Simple UI toast/status message
type toastMsg struct{ text string }
