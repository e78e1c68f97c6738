package adoc

import "testing"

func TestAnchorRegistryDeclareRejectsDuplicate(t *testing.T) {
	r := NewAnchorRegistry()
	if !r.Declare("intro", InlineNodes{{Kind: INText, Text: "Intro"}}) {
		t.Fatal("first Declare should succeed")
	}
	if r.Declare("intro", InlineNodes{{Kind: INText, Text: "Intro Again"}}) {
		t.Error("second Declare with the same id should report false")
	}
	if !r.Has("intro") {
		t.Error("Has(\"intro\") should be true after Declare")
	}
}

func TestAnchorRegistryReftext(t *testing.T) {
	r := NewAnchorRegistry()
	r.Declare("sec-1", InlineNodes{{Kind: INText, Text: "Section One"}})
	nodes, ok := r.Reftext("sec-1")
	if !ok || nodes.PlainText() != "Section One" {
		t.Errorf("Reftext(\"sec-1\") = %v, %v, want \"Section One\", true", nodes, ok)
	}
	if _, ok := r.Reftext("missing"); ok {
		t.Error("Reftext on an undeclared id should report false")
	}
}

func TestAnchorRegistryUniqueIDSuffixesOnCollision(t *testing.T) {
	r := NewAnchorRegistry()
	r.Declare("intro", nil)

	first := r.UniqueID("intro", "_")
	if first != "intro_2" {
		t.Errorf("UniqueID on first collision = %q, want intro_2", first)
	}

	r.Declare(first, nil)
	second := r.UniqueID("intro", "_")
	if second != "intro_3" {
		t.Errorf("UniqueID on second collision = %q, want intro_3", second)
	}

	if got := r.UniqueID("never-used", "_"); got != "never-used" {
		t.Errorf("UniqueID on a fresh id = %q, want unchanged", got)
	}
}

func TestXrefRegistryRecord(t *testing.T) {
	r := NewXrefRegistry()
	r.Record("intro", SourceLocation{Start: 10}, true)
	r.Record("missing-target", SourceLocation{Start: 20}, false)

	if len(r.Refs) != 2 {
		t.Fatalf("len(Refs) = %d, want 2", len(r.Refs))
	}
	if !r.Refs[0].Resolved || r.Refs[1].Resolved {
		t.Errorf("Refs = %+v, want [resolved=true, resolved=false]", r.Refs)
	}
}
