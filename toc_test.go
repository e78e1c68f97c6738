package adoc

import "testing"

func sectionHeading(level int, text string, children ...*Section) *Section {
	return &Section{
		Level:    level,
		ID:       "id-" + text,
		Heading:  InlineNodes{{Kind: INText, Text: text}},
		Sections: children,
	}
}

func TestBuildTOCDefaultDepthOmitsDeeperSections(t *testing.T) {
	bp := newTestBlockParser("")
	grandchild := sectionHeading(3, "Grandchild")
	child := sectionHeading(2, "Child", grandchild)
	root := sectionHeading(1, "Root", child)

	toc := bp.buildTOC([]*Section{root})

	if toc.Title != "Table of Contents" {
		t.Errorf("Title = %q, want default \"Table of Contents\"", toc.Title)
	}
	if len(toc.Nodes) != 1 || toc.Nodes[0].Title.PlainText() != "Root" {
		t.Fatalf("Nodes = %+v, want one root node \"Root\"", toc.Nodes)
	}
	rootNode := toc.Nodes[0]
	if len(rootNode.Children) != 1 || rootNode.Children[0].Title.PlainText() != "Child" {
		t.Fatalf("Children = %+v, want one child \"Child\" (level 2, within default toclevels=2)", rootNode.Children)
	}
	if len(rootNode.Children[0].Children) != 0 {
		t.Errorf("grandchild Children = %+v, want none: level 3 exceeds the default toclevels=2 cutoff", rootNode.Children[0].Children)
	}
}

func TestBuildTOCHonorsTOCLevelsAttribute(t *testing.T) {
	bp := newTestBlockParser("")
	bp.scope.Meta.SetFromHeader("toclevels", StringAttr("3"))
	grandchild := sectionHeading(3, "Grandchild")
	child := sectionHeading(2, "Child", grandchild)
	root := sectionHeading(1, "Root", child)

	toc := bp.buildTOC([]*Section{root})

	rootNode := toc.Nodes[0]
	childNode := rootNode.Children[0]
	if len(childNode.Children) != 1 || childNode.Children[0].Title.PlainText() != "Grandchild" {
		t.Fatalf("Children = %+v, want Grandchild included once toclevels=3", childNode.Children)
	}
}

func TestBuildTOCCustomTitle(t *testing.T) {
	bp := newTestBlockParser("")
	bp.scope.Meta.SetFromHeader("toc-title", StringAttr("Contents"))
	root := sectionHeading(1, "Root")

	toc := bp.buildTOC([]*Section{root})
	if toc.Title != "Contents" {
		t.Errorf("Title = %q, want Contents", toc.Title)
	}
}

func TestBuildTOCNodeCarriesIDAndLevel(t *testing.T) {
	root := sectionHeading(1, "Root")
	root.ID = "root-id"
	node := buildTOCNode(root, 2)
	if node.Level != 1 || node.ID != "root-id" {
		t.Errorf("node = %+v, want Level=1 ID=root-id", node)
	}
}
