package filter

import (
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"devtail/internal/model"
)

type Criteria struct {
	Query      string // plain contains or regex if /.../
	UseRegex   bool
	Categories map[model.Category]bool // empty = all categories pass
	Expr       string                  // govaluate expression over text/stream/category
}

// Active reports whether the criteria restrict anything at all.
func (c Criteria) Active() bool {
	return c.Query != "" || c.Expr != "" || len(c.Categories) > 0
}

type Evaluator struct {
	re   *regexp.Regexp
	expr *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	var re *regexp.Regexp
	var expr *govaluate.EvaluableExpression
	var err error
	if c.UseRegex && c.Query != "" {
		re, err = regexp.Compile(c.Query)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
	}
	return &Evaluator{re: re, expr: expr}, nil
}

// Match reports whether an entry passes the criteria. It is consulted once,
// when the entry arrives; entries that fail never reach the display buffer
// and are not reconsidered when the criteria change later.
func (e *Evaluator) Match(entry model.Entry, c Criteria) bool {
	if len(c.Categories) > 0 {
		if !c.Categories[entry.Category] {
			return false
		}
	}
	if c.Query != "" {
		if e.re != nil {
			if !e.re.MatchString(entry.Text) {
				return false
			}
		} else {
			if !strings.Contains(strings.ToLower(entry.Text), strings.ToLower(c.Query)) {
				return false
			}
		}
	}
	if e.expr != nil {
		params := map[string]any{
			"text":     entry.Text,
			"stream":   string(entry.Stream),
			"category": string(entry.Category),
		}
		result, err := e.expr.Evaluate(params)
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}
