package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"devtail/internal/classify"
	"devtail/internal/config"
	"devtail/internal/filter"
	"devtail/internal/ingest"
	"devtail/internal/model"
)

type state int

const (
	stateRunning state = iota
	statePaused
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalDetail
	modalLogs
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineFilter
)

// sourceState tracks one tailed file and its pipeline channels. waiting means
// the file does not exist yet; dead means the tailer gave up on it.
type sourceState struct {
	src     model.Source
	lines   <-chan ingest.Line
	errs    <-chan error
	waiting bool
	dead    bool
	lastErr string
}

type Model struct {
	ctx   context.Context
	cfg   *config.Config
	rules classify.Ruleset

	// Pipeline
	sources []*sourceState

	// Data
	ring        *model.Ring
	rows        []model.Entry
	total       uint64
	dropped     uint64
	prevDropped uint64
	// lines rejected by the active filter on arrival; they are gone for good
	skipped uint64

	// UI
	styles      Styles
	theme       Theme
	keymap      KeyMap
	filterInput textinput.Model
	viewport    viewport.Model
	spin        spinner.Model
	termWidth   int
	termHeight  int

	// Dirty flag to minimize viewport rebuilds
	rowsDirty bool

	// Filter
	criteria filter.Criteria
	eval     *filter.Evaluator
	hidden   map[model.Category]bool

	// status
	state      state
	follow     bool
	timestamps bool
	lastMsg    string

	// Selection: cursor is an index into rows, selAnchor marks the other end
	// of a range (-1 when none)
	cursor    int
	selAnchor int
	selectAll bool

	// Entry rate (lines/sec), EWMA-smoothed
	rateEWMA float64
	rateLast time.Time

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Help menu state
	helpItems []helpItem
	helpSel   int

	// Inline input mode (instead of modal for the filter line)
	inlineMode inlineMode
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
