package adoc

import "testing"

func TestHeadingLevelDoesNotMatchAttrDecl(t *testing.T) {
	if _, ok := headingLevel(":foo: bar"); ok {
		t.Error("headingLevel should not treat an attribute decl as a heading")
	}
}

func TestMatchAttrDeclUnsetForms(t *testing.T) {
	name, val, isUnset, ok := matchAttrDecl(":name!:")
	if !ok || name != "name" || !isUnset {
		t.Errorf("matchAttrDecl(\":name!:\") = (%q,%q,%v,%v), want unset", name, val, isUnset, ok)
	}
	name2, _, isUnset2, ok2 := matchAttrDecl(":!name2:")
	if !ok2 || name2 != "name2" || !isUnset2 {
		t.Errorf("matchAttrDecl(\":!name2:\") = (%q,_,%v,%v), want unset", name2, isUnset2, ok2)
	}
	name3, val3, isUnset3, ok3 := matchAttrDecl(":author: Jane Doe")
	if !ok3 || name3 != "author" || isUnset3 || val3 != "Jane Doe" {
		t.Errorf("matchAttrDecl(\":author: Jane Doe\") = (%q,%q,%v,%v), want (author, Jane Doe, false, true)", name3, val3, isUnset3, ok3)
	}
}

func TestParseAuthorLineSingleAuthor(t *testing.T) {
	authors := parseAuthorLine("Jane Q. Doe <jane@example.com>")
	if len(authors) != 1 {
		t.Fatalf("authors = %+v, want 1", authors)
	}
	a := authors[0]
	if a.FirstName != "Jane" || a.MiddleName != "Q." || a.LastName != "Doe" || a.Email != "jane@example.com" {
		t.Errorf("author = %+v, want FirstName=Jane MiddleName=Q. LastName=Doe Email=jane@example.com", a)
	}
}

func TestParseAuthorLineMultipleAuthors(t *testing.T) {
	authors := parseAuthorLine("Jane Doe <jane@example.com>; John Smith <john@example.com>")
	if len(authors) != 2 {
		t.Fatalf("authors = %+v, want 2", authors)
	}
	if authors[1].FirstName != "John" || authors[1].LastName != "Smith" {
		t.Errorf("authors[1] = %+v, want FirstName=John LastName=Smith", authors[1])
	}
}

func TestParseRevisionLine(t *testing.T) {
	rev, ok := parseRevisionLine("v1.0, 2020-01-01: Initial release")
	if !ok {
		t.Fatal("parseRevisionLine returned ok=false")
	}
	if rev.Number != "1.0" || rev.Date != "2020-01-01" || rev.Remark != "Initial release" {
		t.Errorf("rev = %+v, want Number=1.0 Date=2020-01-01 Remark=\"Initial release\"", rev)
	}
}

func TestParseBlockBodyParagraphDefault(t *testing.T) {
	bp := newTestBlockParser("just some text\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxParagraph {
		t.Errorf("Context = %v, want CtxParagraph", blk.Context)
	}
}

func TestParseBlockBodySourceStyleBecomesLiteral(t *testing.T) {
	bp := newTestBlockParser("[source,go]\nfunc main() {}\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxLiteral {
		t.Errorf("Context = %v, want CtxLiteral for a [source] paragraph", blk.Context)
	}
}

func TestParseBlockBodyAdmonitionLabel(t *testing.T) {
	bp := newTestBlockParser("NOTE: remember this.\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxAdmonitionNote {
		t.Fatalf("Context = %v, want CtxAdmonitionNote", blk.Context)
	}
	if got := blk.Content.Simple.PlainText(); got != "remember this." {
		t.Errorf("Simple = %q, want \"remember this.\" (label stripped)", got)
	}
}

func TestParseBlockBodyDelimitedListingBlock(t *testing.T) {
	bp := newTestBlockParser("----\ncode line\n----\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxListing {
		t.Fatalf("Context = %v, want CtxListing", blk.Context)
	}
	if got := blk.Content.Simple.PlainText(); got != "code line" {
		t.Errorf("Simple = %q, want \"code line\"", got)
	}
}

func TestParseBlockBodyDelimitedOpenBlockIsCompound(t *testing.T) {
	bp := newTestBlockParser("--\ninner paragraph\n--\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxOpen {
		t.Fatalf("Context = %v, want CtxOpen", blk.Context)
	}
	if blk.Content.Kind != ContentCompound || len(blk.Content.Blocks) != 1 {
		t.Fatalf("Content = %+v, want one nested paragraph block", blk.Content)
	}
}

func TestParseBlockBodyCommentBlockYieldsNoContent(t *testing.T) {
	bp := newTestBlockParser("////\nhidden text\n////\nafter\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxComment || blk.Content.Kind != ContentEmpty {
		t.Fatalf("block = %+v, want an empty CtxComment block", blk)
	}
	line, ok := bp.ConsumeLine()
	if !ok || line.Src != "after" {
		t.Errorf("remaining line = %q, %v, want \"after\" left after the comment block", line, ok)
	}
}

func TestParseBlockBodyImageBlock(t *testing.T) {
	bp := newTestBlockParser("image::diagram.png[Diagram]\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxImage {
		t.Fatalf("Context = %v, want CtxImage", blk.Context)
	}
	if got, ok := meta.Attrs.Str("target"); !ok || got != "diagram.png" {
		t.Errorf("target attr = %q, %v, want diagram.png", got, ok)
	}
}

func TestParseBlockBodyTOCMacro(t *testing.T) {
	bp := newTestBlockParser("toc::[]\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxTableOfContents {
		t.Errorf("Context = %v, want CtxTableOfContents", blk.Context)
	}
}

func TestParseBlockBodyAttributeDecl(t *testing.T) {
	bp := newTestBlockParser(":myattr: value\n")
	meta := bp.parseChunkMeta()
	blk := bp.parseBlockBody(meta)
	if blk.Context != CtxDocumentAttributeDecl {
		t.Fatalf("Context = %v, want CtxDocumentAttributeDecl", blk.Context)
	}
	if got, ok := bp.scope.Meta.Get("myattr"); !ok || got.String() != "value" {
		t.Errorf("myattr = %+v, %v, want value", got, ok)
	}
}
