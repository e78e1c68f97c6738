package adoc

import "testing"

func TestFootnoteRegistryDefineAndLookup(t *testing.T) {
	r := NewFootnoteRegistry()
	content := InlineNodes{{Kind: INText, Text: "a note"}}
	r.Define("note1", content)

	got, ok := r.Lookup("note1")
	if !ok || got.PlainText() != "a note" {
		t.Errorf("Lookup(\"note1\") = %v, %v, want \"a note\", true", got, ok)
	}
}

// TestFootnoteRegistryBareReferenceReusesContent exercises the rule that a
// footnote id declared once with content may later be re-referenced with
// empty content, resolving back to the original.
func TestFootnoteRegistryBareReferenceReusesContent(t *testing.T) {
	r := NewFootnoteRegistry()
	r.Define("shared", InlineNodes{{Kind: INText, Text: "first definition"}})
	r.Define("shared", InlineNodes{}) // bare re-reference, no new content

	got, ok := r.Lookup("shared")
	if !ok || got.PlainText() != "first definition" {
		t.Errorf("Lookup(\"shared\") after bare re-reference = %v, %v, want original content preserved", got, ok)
	}
}

func TestFootnoteRegistryNextAutoIDIncrements(t *testing.T) {
	r := NewFootnoteRegistry()
	first := r.NextAutoID()
	r.Define(first, InlineNodes{{Kind: INText, Text: "x"}})
	second := r.NextAutoID()

	if first == second {
		t.Errorf("NextAutoID should change after a Define: got %q twice", first)
	}
}
