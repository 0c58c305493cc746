package filter

import (
	"testing"

	"devtail/internal/model"
)

func entry(text string, cat model.Category) model.Entry {
	return model.Entry{Text: text, Stream: model.StreamStdout, Category: cat}
}

func TestPlainQueryCaseInsensitive(t *testing.T) {
	c := Criteria{Query: "foo"}
	ev, err := NewEvaluator(c)
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(entry("foobar appeared", model.CategoryNone), c) {
		t.Fatalf("%q should match query %q", "foobar appeared", "foo")
	}
	if !ev.Match(entry("FOOBAR appeared", model.CategoryNone), c) {
		t.Fatalf("match should ignore case")
	}
	if ev.Match(entry("bar appeared", model.CategoryNone), c) {
		t.Fatalf("%q should not match query %q", "bar appeared", "foo")
	}
}

func TestRegexQuery(t *testing.T) {
	c := Criteria{Query: "ba+r", UseRegex: true}
	ev, err := NewEvaluator(c)
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(entry("a baaar here", model.CategoryNone), c) {
		t.Fatalf("regex should match")
	}
	if ev.Match(entry("a bzr here", model.CategoryNone), c) {
		t.Fatalf("regex should not match")
	}
}

func TestBadRegexErrors(t *testing.T) {
	if _, err := NewEvaluator(Criteria{Query: "[", UseRegex: true}); err == nil {
		t.Fatalf("expected compile error for bad regex")
	}
}

func TestCategoryGate(t *testing.T) {
	c := Criteria{Categories: map[model.Category]bool{model.CategoryError: true, model.CategoryWarn: true}}
	ev, err := NewEvaluator(c)
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(entry("boom", model.CategoryError), c) {
		t.Fatalf("enabled category rejected")
	}
	if ev.Match(entry("fine", model.CategoryInfo), c) {
		t.Fatalf("disabled category accepted")
	}
}

func TestExpression(t *testing.T) {
	c := Criteria{Expr: `category == "error" && stream == "stdout"`}
	ev, err := NewEvaluator(c)
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(entry("boom", model.CategoryError), c) {
		t.Fatalf("expression should match error entry")
	}
	if ev.Match(entry("fine", model.CategoryInfo), c) {
		t.Fatalf("expression should reject info entry")
	}
}

func TestExpressionEvalErrorRejects(t *testing.T) {
	// unknown identifiers fail evaluation; the entry is dropped rather
	// than shown
	c := Criteria{Expr: `nosuchfield == "x"`}
	ev, err := NewEvaluator(c)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Match(entry("anything", model.CategoryNone), c) {
		t.Fatalf("failing expression should reject")
	}
}

func TestBadExpressionErrors(t *testing.T) {
	if _, err := NewEvaluator(Criteria{Expr: `category ==`}); err == nil {
		t.Fatalf("expected parse error for bad expression")
	}
}
