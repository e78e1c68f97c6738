package adoc

import "testing"

func TestParseSimpleArticleWithSections(t *testing.T) {
	src := `= My Document
Jane Doe <jane@example.com>

== Introduction

This is the intro paragraph.

== Details

* first point
* second point
`
	result, fatal := Parse([]byte(src), "doc.adoc", JobSettings{}, nil)
	if fatal != nil {
		t.Fatalf("Parse returned fatal diagnostic: %v", fatal)
	}
	doc := result.Document
	if !doc.Header.HasTitle || doc.Header.Title.PlainText() != "My Document" {
		t.Fatalf("Header.Title = %q, want My Document", doc.Header.Title.PlainText())
	}
	if len(doc.Header.Authors) != 1 || doc.Header.Authors[0].FirstName != "Jane" {
		t.Fatalf("Authors = %+v, want one author named Jane", doc.Header.Authors)
	}
	if doc.Content.Kind != DocContentSectioned || len(doc.Content.Sections) != 2 {
		t.Fatalf("Content = %+v, want 2 top-level sections", doc.Content)
	}
	intro := doc.Content.Sections[0]
	if intro.Heading.PlainText() != "Introduction" || len(intro.Blocks) != 1 {
		t.Fatalf("Sections[0] = %+v, want Introduction with one paragraph", intro)
	}
	details := doc.Content.Sections[1]
	if details.Heading.PlainText() != "Details" || len(details.Blocks) != 1 {
		t.Fatalf("Sections[1] = %+v, want Details with one list block", details)
	}
	if details.Blocks[0].Content.Kind != ContentList || len(details.Blocks[0].Content.Items) != 2 {
		t.Errorf("Details block = %+v, want a 2-item list", details.Blocks[0].Content)
	}
}

func TestParseDocumentWithoutHeadingsProducesFlatBlocks(t *testing.T) {
	src := "First paragraph.\n\nSecond paragraph.\n"
	result, fatal := Parse([]byte(src), "doc.adoc", JobSettings{}, nil)
	if fatal != nil {
		t.Fatalf("Parse returned fatal diagnostic: %v", fatal)
	}
	doc := result.Document
	if doc.Content.Kind != DocContentBlocks || len(doc.Content.Blocks) != 2 {
		t.Fatalf("Content = %+v, want 2 flat blocks", doc.Content)
	}
	if got := doc.Content.Blocks[0].Content.Simple.PlainText(); got != "First paragraph." {
		t.Errorf("Blocks[0] = %q, want \"First paragraph.\"", got)
	}
}

func TestParseDocumentAttributeDeclarationAffectsLaterSubstitution(t *testing.T) {
	src := ":greeting: Hello\n\n{greeting}, world.\n"
	result, fatal := Parse([]byte(src), "doc.adoc", JobSettings{}, nil)
	if fatal != nil {
		t.Fatalf("Parse returned fatal diagnostic: %v", fatal)
	}
	doc := result.Document
	if len(doc.Content.Blocks) != 2 {
		t.Fatalf("Blocks = %+v, want the attribute decl plus the paragraph", doc.Content.Blocks)
	}
	if got := doc.Content.Blocks[1].Content.Simple.PlainText(); got != "Hello, world." {
		t.Errorf("paragraph text = %q, want \"Hello, world.\"", got)
	}
}

func TestParseUnclosedDelimitedBlockReportsWarningNotFatal(t *testing.T) {
	src := "====\nexample text\n"
	result, fatal := Parse([]byte(src), "doc.adoc", JobSettings{}, nil)
	if fatal != nil {
		t.Fatalf("Parse returned fatal diagnostic: %v, want a recoverable warning", fatal)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Kind == DiagUnclosedDelimitedBlock {
			found = true
		}
	}
	if !found {
		t.Error("expected a DiagUnclosedDelimitedBlock warning for the unclosed example block")
	}
}

func TestParseStrictModeAbortsOnWarning(t *testing.T) {
	src := "====\nexample text\n"
	_, fatal := Parse([]byte(src), "doc.adoc", JobSettings{Strict: true}, nil)
	if fatal == nil {
		t.Fatal("Parse returned no fatal diagnostic, want abort in strict mode on an unclosed block warning")
	}
}

func TestParseTableOfContentsBuiltWhenSectioned(t *testing.T) {
	src := "= Title\n\n== One\n\ntext\n"
	result, fatal := Parse([]byte(src), "doc.adoc", JobSettings{}, nil)
	if fatal != nil {
		t.Fatalf("Parse returned fatal diagnostic: %v", fatal)
	}
	doc := result.Document
	if doc.TOC == nil || len(doc.TOC.Nodes) != 1 || doc.TOC.Nodes[0].Title.PlainText() != "One" {
		t.Fatalf("TOC = %+v, want one node titled One", doc.TOC)
	}
}
