package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"devtail/internal/classify"
	"devtail/internal/config"
	"devtail/internal/model"
)

func initialModel(ctx context.Context, cfg *config.Config) *Model {
	m := &Model{
		ctx:         ctx,
		cfg:         cfg,
		rules:       classify.NewRuleset(cfg.Keywords),
		ring:        model.NewRing(cfg.MaxLines),
		state:       stateRunning,
		styles:      NewStyles(GetTheme(cfg.Theme)),
		theme:       GetTheme(cfg.Theme),
		keymap:      DefaultKeyMap(),
		filterInput: textinput.New(),
		spin:        spinner.New(),
		follow:      true,
		timestamps:  cfg.Timestamps,
		hidden:      map[model.Category]bool{},
		selAnchor:   -1,
		rowsDirty:   true,
	}
	m.spin.Spinner = spinner.Dot
	m.filterInput.Placeholder = "filter... (text, /regex/ or expr:)"
	m.filterInput.CharLimit = 256
	m.filterInput.Prompt = "/"
	m.viewport = viewport.New(80, 20)
	for _, src := range cfg.Sources() {
		m.sources = append(m.sources, &sourceState{src: src, waiting: true})
	}
	return m
}

func Run(ctx context.Context, cfg *config.Config) error {
	m := initialModel(ctx, cfg)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(setupPipeline(m), m.spin.Tick, tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} }))
}
