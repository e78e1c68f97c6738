package adoc

import "testing"

func TestInlineNodesPlainText(t *testing.T) {
	tests := []struct {
		name string
		n    InlineNodes
		want string
	}{
		{
			"plain text node",
			InlineNodes{{Kind: INText, Text: "hello"}},
			"hello",
		},
		{
			"special char unescaped back to literal",
			InlineNodes{{Kind: INText, Text: "a "}, {Kind: INSpecialChar, SpecialChar: SpecialAmpersand}, {Kind: INText, Text: " b"}},
			"a & b",
		},
		{
			"nested formatting flattens to its text",
			InlineNodes{{Kind: INBold, Children: InlineNodes{{Kind: INText, Text: "strong"}}}},
			"strong",
		},
		{
			"attribute reference renders as {name}",
			InlineNodes{{Kind: INAttributeReference, AttrName: "version"}},
			"{version}",
		},
		{
			"line break becomes a newline",
			InlineNodes{{Kind: INText, Text: "a"}, {Kind: INLineBreak}, {Kind: INText, Text: "b"}},
			"a\nb",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.PlainText(); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlockContextStringIsClosedAndStable(t *testing.T) {
	if got := CtxParagraph.String(); got != "paragraph" {
		t.Errorf("CtxParagraph.String() = %q, want paragraph", got)
	}
	if got := BlockContext(9999).String(); got != "unknown" {
		t.Errorf("out-of-range BlockContext.String() = %q, want unknown", got)
	}
}

func TestAdmonitionFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  BlockContext
		ok    bool
	}{
		{"NOTE", CtxAdmonitionNote, true},
		{"CAUTION", CtxAdmonitionCaution, true},
		{"BOGUS", 0, false},
	}
	for _, tt := range tests {
		ctx, ok := admonitionFromLabel(tt.label)
		if ok != tt.ok {
			t.Errorf("admonitionFromLabel(%q) ok = %v, want %v", tt.label, ok, tt.ok)
			continue
		}
		if ok && ctx != tt.want {
			t.Errorf("admonitionFromLabel(%q) = %v, want %v", tt.label, ctx, tt.want)
		}
	}
}
