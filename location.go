// Package adoc implements the parsing pipeline for the AsciiDoc markup
// language: a byte-level lexer, a preprocessor (includes, conditionals,
// attribute substitution), a two-level block/inline parser, and the
// document-attribute and substitution models that glue them together.
//
// The package produces a typed document tree (see Document, Block, Inline)
// annotated with precise source locations; it does not render output —
// HTML and other back ends are external consumers that walk the tree.
//
//	src, _ := os.ReadFile("doc.adoc")
//	result, err := adoc.Parse(src, "doc.adoc", adoc.JobSettings{}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Document)
package adoc

// SourceLocation is an inclusive-start, exclusive-end byte span inside a
// single logical source frame. IncludeDepth and FrameID let a location
// survive include splicing: two spans with different FrameIDs never
// overlap even if their Start/End ranges coincide numerically.
type SourceLocation struct {
	Start        int
	End          int
	IncludeDepth int
	FrameID      int
}

// Len reports the number of bytes the location spans.
func (l SourceLocation) Len() int { return l.End - l.Start }

// IsEmpty reports whether the location spans zero bytes.
func (l SourceLocation) IsEmpty() bool { return l.Start >= l.End }

// Merge combines two locations from the same frame into one spanning both
// (smallest Start to largest End). Panics if the locations aren't from the
// same frame; adjacency is not checked, so merging two disjoint spans also
// covers the gap between them.
func (l SourceLocation) Merge(other SourceLocation) SourceLocation {
	if l.FrameID != other.FrameID {
		panic("adoc: cannot merge locations from different source frames")
	}
	start, end := l.Start, l.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return SourceLocation{Start: start, End: end, IncludeDepth: l.IncludeDepth, FrameID: l.FrameID}
}

// Contains reports whether other lies entirely within l (same frame).
func (l SourceLocation) Contains(other SourceLocation) bool {
	return l.FrameID == other.FrameID && l.Start <= other.Start && other.End <= l.End
}
