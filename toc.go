package adoc

import "strconv"

// buildTOC assembles a TableOfContents from the parsed section tree,
// honoring the `toclevels` attribute as a depth cutoff. Sections beyond the configured depth are simply omitted from the
// tree, not truncated mid-branch.
func (bp *BlockParser) buildTOC(sections []*Section) *TableOfContents {
	maxLevel := 2
	if v := bp.scope.Meta.GetString("toclevels", "2"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxLevel = n
		}
	}
	toc := &TableOfContents{Title: bp.scope.Meta.GetString("toc-title", "Table of Contents")}
	for _, s := range sections {
		if node := buildTOCNode(s, maxLevel); node != nil {
			toc.Nodes = append(toc.Nodes, node)
		}
	}
	return toc
}

func buildTOCNode(s *Section, maxLevel int) *TOCNode {
	if s.Level > maxLevel {
		return nil
	}
	node := &TOCNode{Level: s.Level, ID: s.ID, Title: s.Heading}
	for _, child := range s.Sections {
		if c := buildTOCNode(child, maxLevel); c != nil {
			node.Children = append(node.Children, c)
		}
	}
	return node
}
