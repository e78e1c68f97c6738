package adoc

import "testing"

func TestPassthroughTableStoreAndLookup(t *testing.T) {
	tbl := newPassthroughTable()
	nodes := InlineNodes{{Kind: INText, Text: "<raw>"}}
	placeholder := tbl.Store(nodes)
	if placeholder != "^00000" {
		t.Errorf("placeholder = %q, want ^00000 for the first entry", placeholder)
	}
	got, ok := tbl.Lookup(placeholder)
	if !ok || len(got) != 1 || got[0].Text != "<raw>" {
		t.Errorf("Lookup(%q) = %+v, %v, want the stored node back", placeholder, got, ok)
	}
}

func TestPassthroughTableStoreIncrementsIndex(t *testing.T) {
	tbl := newPassthroughTable()
	tbl.Store(InlineNodes{{Kind: INText, Text: "first"}})
	second := tbl.Store(InlineNodes{{Kind: INText, Text: "second"}})
	if second != "^00001" {
		t.Errorf("second placeholder = %q, want ^00001", second)
	}
}

func TestPassthroughTableLookupUnknownPlaceholder(t *testing.T) {
	tbl := newPassthroughTable()
	if _, ok := tbl.Lookup("^09999"); ok {
		t.Error("Lookup on an empty table should fail")
	}
	if _, ok := tbl.Lookup("not-a-placeholder"); ok {
		t.Error("Lookup on a malformed lexeme should fail")
	}
}
