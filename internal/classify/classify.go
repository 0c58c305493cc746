package classify

import (
	"regexp"
	"strings"

	"devtail/internal/model"
)

// ansiRE matches the color-setting escape sequences dev servers emit:
// ESC '[' digits/semicolons 'm'. Other escape sequences are left alone.
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Strip removes ANSI color sequences from s. Stripping an already-stripped
// line is a no-op.
func Strip(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiRE.ReplaceAllString(s, "")
}

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Keywords holds the per-category keyword lists a Ruleset matches on.
// Matching is case-insensitive substring containment; the lists control what
// is matched, never the order in which categories are tried.
type Keywords struct {
	Error       []string
	Warn        []string
	ToolMarkers []string
	RouteVerbs  []string
	Success     []string
	Info        []string
}

// DefaultKeywords is tuned for the output of a typical web dev server:
// bundler chatter, HTTP access lines, bracketed tool/agent tags.
func DefaultKeywords() Keywords {
	return Keywords{
		Error:       []string{"error", "err:", "failed", "exception", "traceback", "unhandled"},
		Warn:        []string{"warn", "warning", "deprecated"},
		ToolMarkers: []string{"[chatbot]", "[tool"},
		RouteVerbs:  []string{"get", "post", "patch", "delete", "put"},
		Success:     []string{"ready", "compiled", "success", "✓", "✅"},
		Info:        []string{"compiling", "building", "hmr"},
	}
}

// Ruleset classifies cleaned lines into categories. Rules are evaluated in a
// fixed priority order and the first match wins: stderr identity, error,
// warn, tool, route, success, info, date-prefix, none.
type Ruleset struct {
	errorKw   []string
	warnKw    []string
	toolKw    []string
	routeKw   []string
	successKw []string
	infoKw    []string
}

// NewRuleset builds a Ruleset from kw. Empty lists disable their category;
// keyword case is irrelevant.
func NewRuleset(kw Keywords) Ruleset {
	routes := make([]string, 0, len(kw.RouteVerbs))
	for _, v := range kw.RouteVerbs {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		routes = append(routes, v+" /")
	}
	return Ruleset{
		errorKw:   lowerAll(kw.Error),
		warnKw:    lowerAll(kw.Warn),
		toolKw:    lowerAll(kw.ToolMarkers),
		routeKw:   routes,
		successKw: lowerAll(kw.Success),
		infoKw:    lowerAll(kw.Info),
	}
}

// Default returns the Ruleset built from DefaultKeywords.
func Default() Ruleset { return NewRuleset(DefaultKeywords()) }

// Classify maps a cleaned line plus its stream identity to a category.
// Deterministic: same inputs, same answer.
func (r Ruleset) Classify(line string, stream model.Stream) model.Category {
	if stream == model.StreamStderr {
		return model.CategoryError
	}
	l := strings.ToLower(line)
	switch {
	case containsAny(l, r.errorKw):
		return model.CategoryError
	case containsAny(l, r.warnKw):
		return model.CategoryWarn
	case containsAny(l, r.toolKw):
		return model.CategoryTool
	case containsAny(l, r.routeKw):
		return model.CategoryRoute
	case containsAny(l, r.successKw):
		return model.CategorySuccess
	case containsAny(l, r.infoKw):
		return model.CategoryInfo
	case dateRE.MatchString(line):
		return model.CategoryDim
	}
	return model.CategoryNone
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
