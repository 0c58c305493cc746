package ui

import (
	"github.com/charmbracelet/lipgloss"

	"devtail/internal/model"
)

// Theme is a named palette. The default mirrors the Catppuccin Mocha colors
// most dev-server tooling ships with.
type Theme struct {
	Name    string
	Bg      lipgloss.Color
	Fg      lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Accent  lipgloss.Color
	Error   lipgloss.Color
	Warn    lipgloss.Color
	Info    lipgloss.Color
	Success lipgloss.Color
	Tool    lipgloss.Color
	Route   lipgloss.Color
	Dim     lipgloss.Color
}

var themes = []Theme{
	{
		Name:    "mocha",
		Bg:      lipgloss.Color("#1e1e2e"),
		Fg:      lipgloss.Color("#cdd6f4"),
		Surface: lipgloss.Color("#313244"),
		Overlay: lipgloss.Color("#45475a"),
		Accent:  lipgloss.Color("#89b4fa"),
		Error:   lipgloss.Color("#f38ba8"),
		Warn:    lipgloss.Color("#fab387"),
		Info:    lipgloss.Color("#89b4fa"),
		Success: lipgloss.Color("#a6e3a1"),
		Tool:    lipgloss.Color("#cba6f7"),
		Route:   lipgloss.Color("#94e2d5"),
		Dim:     lipgloss.Color("#6c7086"),
	},
	{
		Name:    "dark",
		Bg:      lipgloss.Color("0"),
		Fg:      lipgloss.Color("252"),
		Surface: lipgloss.Color("236"),
		Overlay: lipgloss.Color("240"),
		Accent:  lipgloss.Color("81"),
		Error:   lipgloss.Color("196"),
		Warn:    lipgloss.Color("220"),
		Info:    lipgloss.Color("45"),
		Success: lipgloss.Color("76"),
		Tool:    lipgloss.Color("135"),
		Route:   lipgloss.Color("51"),
		Dim:     lipgloss.Color("242"),
	},
}

func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

func NextTheme(name string) Theme {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

type Styles struct {
	Base       lipgloss.Style
	Header     lipgloss.Style
	Title      lipgloss.Style
	Status     lipgloss.Style
	Badge      lipgloss.Style
	BadgeWait  lipgloss.Style
	Selected   lipgloss.Style
	Cursor     lipgloss.Style
	Gutter     lipgloss.Style
	FilterOff  lipgloss.Style
	FilterOn   lipgloss.Style
	Help       lipgloss.Style
	Toast      lipgloss.Style
	PopupBox   lipgloss.Style
	PopupTitle lipgloss.Style
	Category   map[model.Category]lipgloss.Style
}

func NewStyles(th Theme) Styles {
	s := Styles{}
	s.Base = lipgloss.NewStyle().Foreground(th.Fg)
	s.Header = lipgloss.NewStyle().Background(th.Surface).Foreground(th.Fg).Padding(0, 1)
	s.Title = lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	s.Status = lipgloss.NewStyle().Foreground(th.Dim)
	s.Badge = lipgloss.NewStyle().Foreground(th.Success)
	s.BadgeWait = lipgloss.NewStyle().Foreground(th.Warn)
	s.Selected = lipgloss.NewStyle().Background(th.Overlay)
	s.Cursor = lipgloss.NewStyle().Background(th.Surface)
	s.Gutter = lipgloss.NewStyle().Foreground(th.Dim)
	s.FilterOff = lipgloss.NewStyle().Foreground(th.Dim)
	s.FilterOn = lipgloss.NewStyle().Foreground(th.Accent)
	s.Help = lipgloss.NewStyle().Foreground(th.Dim)
	s.Toast = lipgloss.NewStyle().Foreground(th.Bg).Background(th.Accent).Padding(0, 1)
	s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(th.Overlay).Padding(1, 2)
	s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	s.Category = map[model.Category]lipgloss.Style{
		model.CategoryError:   lipgloss.NewStyle().Foreground(th.Error).Bold(true),
		model.CategoryWarn:    lipgloss.NewStyle().Foreground(th.Warn),
		model.CategoryInfo:    lipgloss.NewStyle().Foreground(th.Info),
		model.CategorySuccess: lipgloss.NewStyle().Foreground(th.Success),
		model.CategoryTool:    lipgloss.NewStyle().Foreground(th.Tool),
		model.CategoryRoute:   lipgloss.NewStyle().Foreground(th.Route),
		model.CategoryDim:     lipgloss.NewStyle().Foreground(th.Dim),
		model.CategoryNone:    lipgloss.NewStyle().Foreground(th.Fg),
	}
	return s
}
