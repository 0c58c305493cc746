package classify

import (
	"testing"

	"devtail/internal/model"
)

func TestStripRemovesColorSequences(t *testing.T) {
	in := "\x1b[31mERROR\x1b[0m something \x1b[1;32mgreen\x1b[m done"
	want := "ERROR something green done"
	if got := Strip(in); got != want {
		t.Fatalf("Strip = %q, want %q", got, want)
	}
}

func TestStripIdempotent(t *testing.T) {
	in := "\x1b[31mred\x1b[0m plain tail"
	once := Strip(in)
	if twice := Strip(once); twice != once {
		t.Fatalf("second strip changed %q to %q", once, twice)
	}
}

func TestStripLeavesEverythingElse(t *testing.T) {
	// Only m-terminated color sequences go; cursor controls and bare
	// bracket text stay.
	cases := map[string]string{
		"\x1b[2Jcleared \x1b[31mred\x1b[0m": "\x1b[2Jcleared red",
		"no escapes [31m here":             "no escapes [31m here",
		"":                                 "",
	}
	for in, want := range cases {
		if got := Strip(in); got != want {
			t.Fatalf("Strip(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStderrAlwaysError(t *testing.T) {
	r := Default()
	lines := []string{
		"ready compiled success",
		"GET /api/users 200",
		"2024-01-01 starting up",
		"perfectly ordinary line",
	}
	for _, line := range lines {
		if got := r.Classify(line, model.StreamStderr); got != model.CategoryError {
			t.Fatalf("Classify(%q, stderr) = %s, want error", line, got)
		}
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	r := Default()
	cases := []struct {
		line string
		want model.Category
	}{
		{"Error: connect ECONNREFUSED", model.CategoryError},
		{"request failed with status 500", model.CategoryError},
		{"Unhandled promise rejection", model.CategoryError},
		{"Traceback (most recent call last):", model.CategoryError},
		{"WARNING: deprecated API usage", model.CategoryWarn},
		{"[chatbot] composing reply", model.CategoryTool},
		{"[tool:search] querying index", model.CategoryTool},
		{"GET /api/users 200 4ms", model.CategoryRoute},
		{"POST /login 302", model.CategoryRoute},
		{"ready in 230ms", model.CategorySuccess},
		{"✓ compiled client successfully", model.CategorySuccess},
		{"compiling client bundle", model.CategoryInfo},
		{"hmr update /src/App.tsx", model.CategoryInfo},
		{"2024-01-01 starting up", model.CategoryDim},
		{"listening on port 3005", model.CategoryNone},
		{"", model.CategoryNone},
	}
	for _, c := range cases {
		if got := r.Classify(c.line, model.StreamStdout); got != c.want {
			t.Errorf("Classify(%q) = %s, want %s", c.line, got, c.want)
		}
	}
}

func TestDatePrefixLosesToEarlierRules(t *testing.T) {
	r := Default()
	if got := r.Classify("2024-01-01 error during startup", model.StreamStdout); got != model.CategoryError {
		t.Fatalf("date+error line = %s, want error", got)
	}
	if got := r.Classify("2024-01-01 GET /health 200", model.StreamStdout); got != model.CategoryRoute {
		t.Fatalf("date+route line = %s, want route", got)
	}
}

func TestCustomKeywords(t *testing.T) {
	r := NewRuleset(Keywords{Error: []string{"PANIC"}})
	if got := r.Classify("panic: runtime error", model.StreamStdout); got != model.CategoryError {
		t.Fatalf("custom keyword miss: got %s", got)
	}
	// lists not provided are disabled, date prefix still applies
	if got := r.Classify("warning: something", model.StreamStdout); got != model.CategoryNone {
		t.Fatalf("disabled warn list still matched: %s", got)
	}
	if got := r.Classify("2024-06-07 quiet", model.StreamStdout); got != model.CategoryDim {
		t.Fatalf("date prefix = %s, want dim", got)
	}
}
