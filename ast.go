package adoc

import "strings"

// BlockContext is the closed set of block kinds.
type BlockContext int

const (
	CtxParagraph BlockContext = iota
	CtxListing
	CtxLiteral
	CtxPassthrough
	CtxQuote
	CtxVerse
	CtxExample
	CtxSidebar
	CtxOpen
	CtxComment
	CtxTable
	CtxImage
	CtxAdmonitionTip
	CtxAdmonitionNote
	CtxAdmonitionImportant
	CtxAdmonitionWarning
	CtxAdmonitionCaution
	CtxUnorderedList
	CtxOrderedList
	CtxDescriptionList
	CtxCalloutList
	CtxDiscreteHeading
	CtxDocumentAttributeDecl
	CtxTableOfContents
)

func (c BlockContext) String() string {
	names := [...]string{
		"paragraph", "listing", "literal", "passthrough", "quote", "verse",
		"example", "sidebar", "open", "comment", "table", "image",
		"admonition_tip", "admonition_note", "admonition_important",
		"admonition_warning", "admonition_caution", "unordered_list",
		"ordered_list", "description_list", "callout_list",
		"discrete_heading", "document_attribute_decl", "table_of_contents",
	}
	if int(c) < 0 || int(c) >= len(names) {
		return "unknown"
	}
	return names[c]
}

// admonitionFromLabel maps a recognized admonition label to its context.
func admonitionFromLabel(label string) (BlockContext, bool) {
	switch label {
	case "TIP":
		return CtxAdmonitionTip, true
	case "NOTE":
		return CtxAdmonitionNote, true
	case "IMPORTANT":
		return CtxAdmonitionImportant, true
	case "WARNING":
		return CtxAdmonitionWarning, true
	case "CAUTION":
		return CtxAdmonitionCaution, true
	default:
		return 0, false
	}
}

// ChunkMeta is the block prelude: optional title and attribute list
// preceding a block in source order.
type ChunkMeta struct {
	Title   InlineNodes
	HasTitle bool
	Attrs   *AttrList
	Loc     SourceLocation
}

// ListVariant distinguishes the kind of list a Content.List holds.
type ListVariant int

const (
	ListUnordered ListVariant = iota
	ListOrdered
	ListDescription
	ListCallout
)

// ContentKind discriminates Block.Content's sum-type variants.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentSimple
	ContentCompound
	ContentList
	ContentTable
	ContentDocAttr
)

// BlockContent is the sum type {Empty, Simple, Compound, List, Table,
// DocumentAttribute}.
type BlockContent struct {
	Kind ContentKind

	Simple InlineNodes // ContentSimple
	Blocks []*Block    // ContentCompound

	ListVariant ListVariant // ContentList
	ListDepth   int
	Items       []*ListItem

	Table *Table // ContentTable

	AttrName  string // ContentDocAttr
	AttrValue AttrValue
}

// Block is a logical node in the document tree.
type Block struct {
	Meta    ChunkMeta
	Context BlockContext
	Content BlockContent
	Loc     SourceLocation
}

// ListItemTypeMeta discriminates ListItem.TypeMeta's variants.
type ListItemTypeMetaKind int

const (
	ItemMetaNone ListItemTypeMetaKind = iota
	ItemMetaChecklist
	ItemMetaCallout
)

type ListItemTypeMeta struct {
	Kind ListItemTypeMetaKind

	Checked      bool   // ItemMetaChecklist
	CheckboxSrc  string // ItemMetaChecklist

	Callouts []Callout // ItemMetaCallout
}

// ListItem is one entry of a List block.
type ListItem struct {
	Marker    string
	MarkerSrc string
	Principle InlineNodes
	TypeMeta  ListItemTypeMeta
	Blocks    []*Block
	Loc       SourceLocation

	// Description-list-only: the term precedes "::"/":::"/";;".
	Term InlineNodes
	IsDescription bool
}

// Callout is a numbered reference bound to a callout-list item.
// Numbering is global across the whole document, tracked via the shared
// CalloutRegistry on ParseScope.
type Callout struct {
	ListIdx    int
	CalloutIdx int
	Number     int
}

// Table is the parsed content of a delimited table block.
type Table struct {
	Format       string // "psv" | "csv" | "dsv" | "tsv"
	Cols         []ColumnSpec
	Header       []Row
	Body         []Row
	Footer       []Row
	HasHeader    bool
	HasFooter    bool
}

type ColumnSpec struct {
	Width     int    // proportional integer width; 0 if unset
	Percent   bool   // width is a percentage
	Auto      bool   // '~' auto width
	HAlign    string // "<" | "^" | ">"
	VAlign    string // "<" | "^" | ">"
	Style     string // one of a,d,e,h,l,m,s (default style for the column)
	Repeat    int    // `N*` repeat factor, already expanded by the time Cols is final
}

type Row struct {
	Cells []Cell
}

type Cell struct {
	Content   InlineNodes
	AsciiDoc  []*Block // set when cell style == 'a'
	Style     string
	ColSpan   int
	RowSpan   int
	HAlign    string
	VAlign    string
	Loc       SourceLocation
}

// DocType controls section rules and header behavior.
type DocType int

const (
	DocTypeArticle DocType = iota
	DocTypeBook
	DocTypeManpage
	DocTypeInline
)

func (t DocType) String() string {
	switch t {
	case DocTypeArticle:
		return "article"
	case DocTypeBook:
		return "book"
	case DocTypeManpage:
		return "manpage"
	case DocTypeInline:
		return "inline"
	default:
		return "article"
	}
}

// Section is a heading plus its nested blocks and sub-sections.
type Section struct {
	Level   int
	ID      string
	HasID   bool
	Heading InlineNodes
	Blocks  []*Block
	Meta    ChunkMeta
	Sections []*Section
	Loc     SourceLocation
}

// DocContentKind discriminates Document content's {Blocks, Sectioned}.
type DocContentKind int

const (
	DocContentBlocks DocContentKind = iota
	DocContentSectioned
)

type DocContent struct {
	Kind DocContentKind

	Blocks []*Block // DocContentBlocks

	Preamble []*Block // DocContentSectioned, may be empty
	Sections []*Section
}

// Header is the optional document header: title, author line(s), revision
// line, and header-scoped attribute entries.
type Header struct {
	HasTitle bool
	Title    InlineNodes
	Authors  []Author
	Revision RevisionLine
	HasRevision bool
	Loc      SourceLocation
}

type Author struct {
	FirstName, MiddleName, LastName string
	Email                           string
}

type RevisionLine struct {
	Number string
	Date   string
	Remark string
}

// Document is the top-level parse product.
type Document struct {
	Header  *Header
	Content DocContent
	TOC     *TableOfContents
	Meta    *DocumentMeta
}

// TableOfContents is assembled from the section tree.
type TableOfContents struct {
	Title string
	Nodes []*TOCNode
}

type TOCNode struct {
	Level    int
	ID       string
	Title    InlineNodes
	Children []*TOCNode
}

// --- Inline AST ---

// InlineKind is the closed set of inline node variants.
type InlineKind int

const (
	INText InlineKind = iota
	INBold
	INItalic
	INMono
	INHighlight
	INSubscript
	INSuperscript
	INPassthrough
	INQuote
	INFootnote
	INTextSpan
	INSymbol
	INLineBreak
	INNewline
	INSpecialChar
	INAttributeReference
	INIndexTerm
	INCalloutNum
	INCalloutTuck
	INMacro
	INIncludeBoundary
	INDiscarded
)

// SpecialCharKind discriminates INSpecialChar's payload.
type SpecialCharKind int

const (
	SpecialAmpersand SpecialCharKind = iota
	SpecialLessThan
	SpecialGreaterThan
)

// SymbolKind discriminates INSymbol's payload (curly quotes, dashes, ...).
type SymbolKind int

const (
	SymLeftDoubleQuote SymbolKind = iota
	SymRightDoubleQuote
	SymLeftSingleQuote
	SymRightSingleQuote
	SymApostrophe
	SymEmDash
	SymEllipsis
	SymCopyright
	SymTrademark
	SymRegistered
	SymRightArrow
	SymLeftArrow
	SymRightDoubleArrow
	SymLeftDoubleArrow
)

// MacroKind discriminates INMacro's payload.
type MacroKind int

const (
	MacroLink MacroKind = iota
	MacroImage
	MacroXref
	MacroKeyboard
	MacroButton
	MacroMenu
	MacroPass
	MacroAnchor
	MacroFootnote
	MacroPlugin
)

// IncludeBoundaryKind discriminates INIncludeBoundary's payload.
type IncludeBoundaryKind int

const (
	IncludeBegin IncludeBoundaryKind = iota
	IncludeEnd
)

// Inline is one node of inline content. Rather than a Go interface per
// variant (which would require type-switch boilerplate throughout the
// inline parser and substitution engine, and complicate the arena-style
// build-once-never-mutate-after-commit lifecycle), Inline is a single
// tagged struct: most variants here share the same three payload slots
// (Text, Children, attributes) and differ only in Kind plus one or two
// kind-specific fields, so a discriminated union pulls its weight more
// than a parallel type per variant would.
type Inline struct {
	Kind InlineKind
	Loc  SourceLocation

	Text     string       // Text, Symbol(rendered fallback), CalloutTuck prefix
	Children InlineNodes  // Bold/Italic/Mono/Highlight/Sub/Sup/Quote/Highlight body, Footnote body

	SpecialChar SpecialCharKind
	Symbol      SymbolKind

	// AttributeReference
	AttrName string

	// IndexTerm
	IndexTerms []string // term, subterm, subsubterm
	Concealed  bool

	// CalloutNum / CalloutTuck
	Callout Callout

	// Macro
	MacroKind MacroKind
	Target    string
	Attrs     *AttrList
	// Xref-specific
	XrefResolved bool
	// Footnote-specific
	FootnoteID string

	// IncludeBoundary
	BoundaryKind  IncludeBoundaryKind
	BoundaryDepth int

	// Passthrough
	PassthroughIndex int
}

// InlineNodes is the ordered sequence of inline content nodes produced for
// one paragraph/title/cell.
type InlineNodes []Inline

// PlainText strips all formatting and returns the node sequence's text
// content, used for section-id slugging, attribute-value rendering in
// reduced-sub contexts, and AttrList named-value extraction.
func (n InlineNodes) PlainText() string {
	var b strings.Builder
	for _, node := range n {
		node.writePlainText(&b)
	}
	return b.String()
}

func (n Inline) writePlainText(b *strings.Builder) {
	switch n.Kind {
	case INText:
		b.WriteString(n.Text)
	case INSpecialChar:
		switch n.SpecialChar {
		case SpecialAmpersand:
			b.WriteByte('&')
		case SpecialLessThan:
			b.WriteByte('<')
		case SpecialGreaterThan:
			b.WriteByte('>')
		}
	case INLineBreak, INNewline:
		b.WriteByte('\n')
	case INAttributeReference:
		b.WriteByte('{')
		b.WriteString(n.AttrName)
		b.WriteByte('}')
	default:
		for _, c := range n.Children {
			c.writePlainText(b)
		}
		if n.Text != "" {
			b.WriteString(n.Text)
		}
	}
}
