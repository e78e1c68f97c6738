package adoc

import (
	"strings"
	"testing"
)

func newTestPreprocessor(src string, meta *DocumentMeta) *Preprocessor {
	diags := newDiagnosticSink(false)
	scope := NewParseScope(meta, diags, NoopResolver{}, "test.adoc")
	stack := NewSourceStack([]byte(src), "test.adoc", 64)
	lexer := NewLexer(stack)
	return NewPreprocessor(lexer, scope, SafeModeUnsafe, "")
}

func collectPreprocessedLines(p *Preprocessor) []string {
	var lines []string
	for {
		l, ok := p.NextLine()
		if !ok {
			break
		}
		lines = append(lines, l.Src)
	}
	return lines
}

func TestHandleIfdefInlineBodyEmitsWhenSatisfied(t *testing.T) {
	meta := NewDocumentMeta(JobSettings{})
	meta.SetFromHeader("flag", BoolAttr(true))
	p := newTestPreprocessor("ifdef::flag[shown text]\nafter\n", meta)

	got := collectPreprocessedLines(p)
	want := []string{"shown text", "after"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("lines = %v, want %v", got, want)
	}
}

func TestHandleIfdefInlineBodyDropsWhenUnsatisfied(t *testing.T) {
	meta := NewDocumentMeta(JobSettings{})
	p := newTestPreprocessor("ifdef::flag[shown text]\nafter\n", meta)

	got := collectPreprocessedLines(p)
	want := []string{"after"}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("lines = %v, want %v (the unsatisfied inline body must not be emitted)", got, want)
	}
}

func TestHandleIfndefInlineBodyEmitsWhenNegatedConditionHolds(t *testing.T) {
	meta := NewDocumentMeta(JobSettings{})
	p := newTestPreprocessor("ifndef::flag[shown text]\n", meta)

	got := collectPreprocessedLines(p)
	if len(got) != 1 || got[0] != "shown text" {
		t.Fatalf("lines = %v, want [\"shown text\"]: flag is unset so ifndef is satisfied", got)
	}
}

func TestHandleIfdefInlineBodySubstitutesAttrRefs(t *testing.T) {
	meta := NewDocumentMeta(JobSettings{})
	meta.SetFromHeader("flag", BoolAttr(true))
	meta.SetFromHeader("name", StringAttr("World"))
	p := newTestPreprocessor("ifdef::flag[Hello, {name}!]\n", meta)

	got := collectPreprocessedLines(p)
	if len(got) != 1 || got[0] != "Hello, World!" {
		t.Fatalf("lines = %v, want [\"Hello, World!\"]", got)
	}
}

func TestIfdefBlockFormSkipsUntilEndif(t *testing.T) {
	meta := NewDocumentMeta(JobSettings{})
	src := "ifdef::flag[]\nsuppressed\nendif::[]\nshown\n"
	p := newTestPreprocessor(src, meta)

	got := collectPreprocessedLines(p)
	want := []string{"shown"}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("lines = %v, want %v: the block form must suppress its body when flag is unset", got, want)
	}
}

func TestIfdefBlockFormEmitsBodyWhenSatisfied(t *testing.T) {
	meta := NewDocumentMeta(JobSettings{})
	meta.SetFromHeader("flag", BoolAttr(true))
	src := "ifdef::flag[]\nincluded\nendif::[]\nafter\n"
	p := newTestPreprocessor(src, meta)

	got := collectPreprocessedLines(p)
	want := []string{"included", "after"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("lines = %v, want %v", got, want)
	}
}

func TestApplyLinesSelectionDropsUnselectedLinesOutright(t *testing.T) {
	content := []byte("one\ntwo\nthree\nfour\nfive")
	got := string(applyLinesSelection(content, "2..3"))
	if want := "two\nthree"; got != want {
		t.Errorf("applyLinesSelection = %q, want %q", got, want)
	}
	if strings.Contains(got, "one") || strings.Contains(got, "four") || strings.Contains(got, "five") {
		t.Errorf("excluded lines leaked into the result: %q", got)
	}
}

func TestApplyLinesSelectionOpenEndedRange(t *testing.T) {
	content := []byte("a\nb\nc\nd")
	got := string(applyLinesSelection(content, "3..-1"))
	if want := "c\nd"; got != want {
		t.Errorf("applyLinesSelection = %q, want %q", got, want)
	}
}

func TestApplyLinesSelectionEmptySpecReturnsUnchanged(t *testing.T) {
	content := []byte("a\nb\nc")
	if got := string(applyLinesSelection(content, "")); got != "a\nb\nc" {
		t.Errorf("applyLinesSelection with empty spec = %q, want unchanged content", got)
	}
}

func TestApplyTagsSelectionIncludesOnlyTaggedRegion(t *testing.T) {
	content := []byte("before\n// tag::keep[]\nkept line\n// end::keep[]\nafter")
	got := string(applyTagsSelection(content, "keep"))
	if want := "kept line"; got != want {
		t.Errorf("applyTagsSelection = %q, want %q (unselected lines dropped, not sentineled)", got, want)
	}
}

func TestApplyTagsSelectionMultipleTagsUnion(t *testing.T) {
	content := []byte("// tag::a[]\nA\n// end::a[]\nskip\n// tag::b[]\nB\n// end::b[]")
	got := string(applyTagsSelection(content, "a;b"))
	if want := "A\nB"; got != want {
		t.Errorf("applyTagsSelection = %q, want %q", got, want)
	}
}
