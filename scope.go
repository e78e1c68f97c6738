package adoc

// ParseScope bundles the single-owner mutable cells shared by the root
// parser and any AsciiDoc-table-cell sub-parser spawned synchronously
// within the same parse. Sub-parsers never outlive the root, so a
// plain shared pointer (no locking, no refcounting) is sufficient.
type ParseScope struct {
	Callouts  *CalloutRegistry
	Anchors   *AnchorRegistry
	Xrefs     *XrefRegistry
	Footnotes *FootnoteRegistry
	Meta      *DocumentMeta
	Diags     *DiagnosticSink
	Resolver  IncludeResolver
	File      string
}

// NewParseScope constructs a root scope.
func NewParseScope(meta *DocumentMeta, diags *DiagnosticSink, resolver IncludeResolver, file string) *ParseScope {
	return &ParseScope{
		Callouts:  NewCalloutRegistry(),
		Anchors:   NewAnchorRegistry(),
		Xrefs:     NewXrefRegistry(),
		Footnotes: NewFootnoteRegistry(),
		Meta:      meta,
		Diags:     diags,
		Resolver:  resolver,
		File:      file,
	}
}

// ForCell returns a scope for an embedded AsciiDoc table cell: it shares
// Callouts/Anchors/Xrefs/Footnotes/Meta/Diags/Resolver by reference (cell
// content participates in the same global numbering and id-uniqueness
// space) but the block-list/TOC state of the root document is not carried
// — the caller constructs a fresh block-parser context for the cell, only
// passing this ParseScope along.
func (s *ParseScope) ForCell() *ParseScope { return s }

func (s *ParseScope) addDiag(sev Severity, kind DiagnosticKind, message string, loc SourceLocation, cause error) (abort bool) {
	d := newDiagnostic(sev, kind, message, s.File, loc, cause)
	return s.Diags.Add(d)
}
