package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Pause       tea.Key
	Follow      tea.Key
	Filter      tea.Key
	ClearFilter tea.Key
	Clear       tea.Key
	Copy        tea.Key
	Select      tea.Key
	SelectAll   tea.Key
	Detail      tea.Key
	Top         tea.Key
	Bottom      tea.Key
	Timestamps  tea.Key
	Theme       tea.Key
	AppLogs     tea.Key
	Help        tea.Key
	Quit        tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pause:       tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		Follow:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'t'}},
		Filter:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Clear:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'C'}},
		Copy:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Select:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'v'}},
		SelectAll:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'a'}},
		Detail:      tea.Key{Type: tea.KeyEnter},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		Timestamps:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'T'}},
		Theme:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'S'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
