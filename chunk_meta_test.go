package adoc

import "testing"

func TestParseChunkMetaTitleAndAttrList(t *testing.T) {
	bp := newTestBlockParser(".Example Title\n[source,ruby]\nputs 1\n")
	meta := bp.parseChunkMeta()

	if !meta.HasTitle || meta.Title.PlainText() != "Example Title" {
		t.Errorf("Title = %q, HasTitle = %v, want \"Example Title\", true", meta.Title.PlainText(), meta.HasTitle)
	}
	if got := meta.Attrs.Peek(0).PlainText(); got != "source" {
		t.Errorf("Attrs.Positional[0] = %q, want source", got)
	}
	if got := meta.Attrs.Peek(1).PlainText(); got != "ruby" {
		t.Errorf("Attrs.Positional[1] = %q, want ruby", got)
	}

	line, ok := bp.ConsumeLine()
	if !ok || line.Src != "puts 1" {
		t.Errorf("remaining line = %q, %v, want \"puts 1\", true", line, ok)
	}
}

func TestParseChunkMetaMergesMultipleAttrListsLaterWins(t *testing.T) {
	bp := newTestBlockParser(`[id=first,role=a]
[id=second]
text
`)
	meta := bp.parseChunkMeta()

	if meta.Attrs.ID != "second" {
		t.Errorf("ID = %q, want second (later attr list wins)", meta.Attrs.ID)
	}
	if !meta.Attrs.HasRole("a") {
		t.Errorf("Roles = %v, want role \"a\" carried over from the first list", meta.Attrs.Roles)
	}
}

func TestParseChunkMetaDoubleDotIsNotATitle(t *testing.T) {
	bp := newTestBlockParser("..Not a title\nmore text\n")
	meta := bp.parseChunkMeta()

	if meta.HasTitle {
		t.Errorf("HasTitle = true, want false: a line starting with \"..\" is literal text, not a title")
	}
	line, ok := bp.ConsumeLine()
	if !ok || line.Src != "..Not a title" {
		t.Errorf("first line = %q, %v, want \"..Not a title\", true (left unconsumed)", line, ok)
	}
}

func TestParseChunkMetaEmptyYieldsNoTitleNoAttrs(t *testing.T) {
	bp := newTestBlockParser("just a paragraph\n")
	meta := bp.parseChunkMeta()

	if meta.HasTitle {
		t.Error("HasTitle = true, want false")
	}
	if meta.Attrs.ID != "" || len(meta.Attrs.Positional) != 0 {
		t.Errorf("Attrs = %+v, want empty", meta.Attrs)
	}
}
