package adoc

import "testing"

func newTestBlockParser(src string) *BlockParser {
	meta := NewDocumentMeta(JobSettings{})
	diags := newDiagnosticSink(false)
	scope := NewParseScope(meta, diags, NoopResolver{}, "test.adoc")
	stack := NewSourceStack([]byte(src), "test.adoc", 64)
	lexer := NewLexer(stack)
	pre := NewPreprocessor(lexer, scope, SafeModeUnsafe, "")
	return NewBlockParser(pre, scope, "")
}

func TestParseAttrListPositionalAndNamed(t *testing.T) {
	bp := newTestBlockParser("")
	al := bp.parseAttrList(`source,ruby,id="snippet-1"`, SourceLocation{})

	if len(al.Positional) != 2 {
		t.Fatalf("Positional = %v, want 2 entries", al.Positional)
	}
	if got := al.Peek(0).PlainText(); got != "source" {
		t.Errorf("Positional[0] = %q, want source", got)
	}
	if got := al.Peek(1).PlainText(); got != "ruby" {
		t.Errorf("Positional[1] = %q, want ruby", got)
	}
	if got, ok := al.Str("id"); !ok || got != "snippet-1" {
		t.Errorf("Named[id] = %q, %v, want snippet-1, true", got, ok)
	}
}

func TestParseAttrListShorthandIDRoleOption(t *testing.T) {
	bp := newTestBlockParser("")
	al := bp.parseAttrList(`#intro.lead%hardbreaks`, SourceLocation{})

	if al.ID != "intro" {
		t.Errorf("ID = %q, want intro", al.ID)
	}
	if !al.HasRole("lead") {
		t.Errorf("Roles = %v, want lead present", al.Roles)
	}
	if !al.HasOption("hardbreaks") {
		t.Errorf("Options = %v, want hardbreaks present", al.Options)
	}
}

func TestParseAttrListQuotedValueSuspendsDelimiters(t *testing.T) {
	bp := newTestBlockParser("")
	al := bp.parseAttrList(`title="a, b.c"`, SourceLocation{})

	if got, ok := al.Str("title"); !ok || got != "a, b.c" {
		t.Errorf("Named[title] = %q, %v, want \"a, b.c\", true (comma/dot inside quotes must not split)", got, ok)
	}
}

func TestParseAttrListBackslashEscape(t *testing.T) {
	bp := newTestBlockParser("")
	al := bp.parseAttrList(`a\,b`, SourceLocation{})

	if len(al.Positional) != 1 {
		t.Fatalf("Positional = %v, want a single escaped-comma positional slot", al.Positional)
	}
	if got := al.Peek(0).PlainText(); got != "a,b" {
		t.Errorf("Positional[0] = %q, want \"a,b\"", got)
	}
}

func TestParseAttrListEmpty(t *testing.T) {
	bp := newTestBlockParser("")
	al := bp.parseAttrList("", SourceLocation{})
	if len(al.Positional) != 0 || len(al.Named) != 0 || al.ID != "" {
		t.Errorf("empty attr list should parse to a fully empty AttrList, got %+v", al)
	}
}
