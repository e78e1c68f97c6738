package adoc

import (
	"regexp"
	"strings"
)

// BlockParser groups tokens into lines, lines into blocks, and blocks into
// a sectioned document tree. It owns the per-parse context: subs defaults,
// leveloffset, the list stack (kept implicit via recursion depth in this
// implementation), and references into the shared ParseScope.
type BlockParser struct {
	pre     *Preprocessor
	scope   *ParseScope
	docDir  string
	buf     []*Line // lookahead/pushback buffer; may hold several lines
	isCell  bool    // true when this parser is an embedded AsciiDoc-cell sub-parser
}

// NewBlockParser constructs a root block parser.
func NewBlockParser(pre *Preprocessor, scope *ParseScope, docDir string) *BlockParser {
	return &BlockParser{pre: pre, scope: scope, docDir: docDir}
}

// ConsumeLine returns the next line, consuming it.
func (bp *BlockParser) ConsumeLine() (*Line, bool) {
	if len(bp.buf) > 0 {
		l := bp.buf[0]
		bp.buf = bp.buf[1:]
		return l, true
	}
	return bp.pre.NextLine()
}

// PeekLine returns the next line without consuming it.
func (bp *BlockParser) PeekLine() (*Line, bool) {
	if len(bp.buf) > 0 {
		return bp.buf[0], true
	}
	l, ok := bp.pre.NextLine()
	if !ok {
		return nil, false
	}
	bp.buf = append(bp.buf, l)
	return l, true
}

// PushbackLine returns a line to the front of the buffer (used when a
// lookahead check decides a consumed line actually belongs to the next
// construct).
func (bp *BlockParser) PushbackLine(l *Line) {
	bp.buf = append([]*Line{l}, bp.buf...)
}

// pushbackLines restores a run of previously-consumed lines to the front
// of the buffer, in their original order.
func (bp *BlockParser) pushbackLines(lines []*Line) {
	for i := len(lines) - 1; i >= 0; i-- {
		bp.PushbackLine(lines[i])
	}
}

func (bp *BlockParser) skipBlankLines() {
	for {
		l, ok := bp.PeekLine()
		if !ok || !l.IsBlank() {
			return
		}
		bp.ConsumeLine()
	}
}

// ParseDocument is the top-level entry point for the block parser: parse an
// optional header, then repeatedly parse either a level-1 section or a
// block.
func (bp *BlockParser) ParseDocument() *Document {
	doc := &Document{Meta: bp.scope.Meta}
	header := bp.parseHeader()
	doc.Header = header
	bp.scope.Meta.CloseHeader()

	bp.skipBlankLines()

	var preamble []*Block
	var sections []*Section
	var flatBlocks []*Block
	sectioned := false

	for {
		bp.skipBlankLines()
		if _, ok := bp.PeekLine(); !ok {
			break
		}
		meta := bp.parseChunkMeta()
		line, ok := bp.PeekLine()
		if !ok {
			break
		}
		if lvl, ok2 := headingLevel(line.Src); ok2 && bp.scope.Meta.Doctype() != DocTypeInline {
			effLvl := lvl + bp.pre.lexer.stack.CurrentLeveloffset()
			if effLvl == 1 || (!sectioned && effLvl >= 1) {
				sectioned = true
				sec := bp.parseSection(effLvl, meta)
				sections = append(sections, sec)
				continue
			}
		}
		blk := bp.parseBlockBody(meta)
		if blk == nil {
			continue
		}
		if sectioned {
			preamble = append(preamble, blk)
		} else {
			flatBlocks = append(flatBlocks, blk)
		}
	}

	if sectioned {
		doc.Content = DocContent{Kind: DocContentSectioned, Preamble: preamble, Sections: sections}
		doc.TOC = bp.buildTOC(sections)
	} else {
		doc.Content = DocContent{Kind: DocContentBlocks, Blocks: flatBlocks}
	}
	return doc
}

var headingRe = regexp.MustCompile(`^(=+)\s+(\S.*?)\s*$`)

// headingLevel reports the 1-indexed `=`-run level of a heading line
// (level = run length - 1), or false if line isn't one.
func headingLevel(line string) (int, bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	return len(m[1]) - 1, true
}

// parseHeader consumes an optional document header: a level-0 `= Title`
// heading, an author line, a revision line, and header-attribute decls.
func (bp *BlockParser) parseHeader() *Header {
	bp.skipBlankLines()
	line, ok := bp.PeekLine()
	if !ok {
		return nil
	}
	lvl, isHeading := headingLevel(line.Src)
	if !isHeading || lvl != 0 {
		return nil
	}
	bp.ConsumeLine()
	h := &Header{HasTitle: true, Loc: lineLoc(line)}
	m := headingRe.FindStringSubmatch(line.Src)
	h.Title = bp.ParseInline(m[2], SubsNormal())

	if al, ok := bp.PeekLine(); ok && !al.IsBlank() && isAuthorLine(al.Src) {
		bp.ConsumeLine()
		h.Authors = parseAuthorLine(al.Src)
		if al.Src != "" {
			if a0 := h.Authors; len(a0) > 0 {
				bp.scope.Meta.SetFromHeader("author", StringAttr(authorFullName(a0[0])))
				bp.scope.Meta.SetFromHeader("email", StringAttr(a0[0].Email))
			}
		}
		if rl, ok := bp.PeekLine(); ok && !rl.IsBlank() && isRevisionLine(rl.Src) {
			bp.ConsumeLine()
			h.Revision, h.HasRevision = parseRevisionLine(rl.Src)
			bp.scope.Meta.SetFromHeader("revdate", StringAttr(h.Revision.Date))
			bp.scope.Meta.SetFromHeader("revnumber", StringAttr(h.Revision.Number))
			bp.scope.Meta.SetFromHeader("revremark", StringAttr(h.Revision.Remark))
		}
	}

	// Header-scoped `:name: value` declarations.
	for {
		line, ok := bp.PeekLine()
		if !ok || line.IsBlank() {
			break
		}
		if name, val, isUnset, isDecl := matchAttrDecl(line.Src); isDecl {
			bp.ConsumeLine()
			if isUnset {
				bp.scope.Meta.SetFromHeader(name, BoolAttr(false))
			} else {
				bp.scope.Meta.SetFromHeader(name, StringAttr(val))
			}
			continue
		}
		break
	}
	bp.scope.Meta.SetFromHeader("doctitle", StringAttr(h.Title.PlainText()))
	return h
}

var authorLineRe = regexp.MustCompile(`^[^;<]+(<[^>]+>)?(;\s*[^;<]+(<[^>]+>)?)*$`)

func isAuthorLine(line string) bool {
	return authorLineRe.MatchString(line) && !strings.HasPrefix(line, ":")
}

// parseAuthorLine parses the header author line: `Name Surname <email>;
// Name2 ...` semicolon-separated.
func parseAuthorLine(line string) []Author {
	var authors []Author
	for _, part := range strings.Split(line, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		email := ""
		name := part
		if i := strings.Index(part, "<"); i >= 0 {
			if j := strings.Index(part, ">"); j > i {
				email = part[i+1 : j]
				name = strings.TrimSpace(part[:i])
			}
		}
		fields := strings.Fields(strings.ReplaceAll(name, "_", " "))
		a := Author{Email: email}
		switch len(fields) {
		case 0:
		case 1:
			a.FirstName = fields[0]
		case 2:
			a.FirstName, a.LastName = fields[0], fields[1]
		default:
			a.FirstName = fields[0]
			a.MiddleName = fields[1]
			a.LastName = strings.Join(fields[2:], " ")
		}
		authors = append(authors, a)
	}
	return authors
}

func authorFullName(a Author) string {
	parts := []string{a.FirstName, a.MiddleName, a.LastName}
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

var revisionLineRe = regexp.MustCompile(`^v?([^,:]+)?(,\s*([^:]+))?(:\s*(.*))?$`)

func isRevisionLine(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" && (strings.HasPrefix(t, "v") || strings.ContainsAny(t, ",:")) && !strings.HasPrefix(t, ":")
}

func parseRevisionLine(line string) (RevisionLine, bool) {
	m := revisionLineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return RevisionLine{}, false
	}
	return RevisionLine{Number: strings.TrimSpace(m[1]), Date: strings.TrimSpace(m[3]), Remark: strings.TrimSpace(m[5])}, true
}

var attrDeclRe = regexp.MustCompile(`^:(!?)([A-Za-z0-9_][A-Za-z0-9_\-]*)(!?):(\s+(.*))?$`)

// matchAttrDecl recognizes `:name: value` / `:name!:` / `:!name:` document
// attribute declaration lines.
func matchAttrDecl(line string) (name, value string, isUnset bool, ok bool) {
	m := attrDeclRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false, false
	}
	unset := m[1] == "!" || m[3] == "!"
	return m[2], strings.TrimSpace(m[5]), unset, true
}

// parseBlock dispatches on the first non-meta line, per an ordered
// block-dispatch rule set.
func (bp *BlockParser) parseBlock() *Block {
	meta := bp.parseChunkMeta()
	return bp.parseBlockBody(meta)
}

// parseBlockBody dispatches on the first non-meta line using a ChunkMeta
// already consumed by the caller (used when the caller needed to peek past
// the meta to decide between a heading and an ordinary block).
func (bp *BlockParser) parseBlockBody(meta ChunkMeta) *Block {
	line, ok := bp.PeekLine()
	if !ok {
		return nil
	}
	if line.IsBlank() {
		bp.ConsumeLine()
		return nil
	}

	if _, runLen, isDelim := AtDelimiterLine(line.Src); isDelim && runLen >= 2 {
		return bp.parseDelimitedBlock(meta)
	}
	if strings.HasPrefix(line.Src, "image::") {
		return bp.parseImageBlock(meta)
	}
	if strings.HasPrefix(line.Src, "toc::") {
		bp.ConsumeLine()
		return &Block{Meta: meta, Context: CtxTableOfContents, Loc: lineLoc(line)}
	}
	if _, isHeading := headingLevel(line.Src); isHeading {
		// A heading encountered where a block was expected (inside a list
		// item, etc.) is structural noise here; treat as a paragraph start
		// so forward progress is guaranteed.
		return bp.parseParagraph(meta)
	}
	if isListMarkerLine(line.Src) {
		return bp.parseList(meta)
	}
	if label, ok := admonitionLabel(line.Src); ok {
		return bp.parseAdmonition(meta, label)
	}
	if isTableDelimiterLine(line.Src) {
		return bp.parseTableBlock(meta)
	}
	if name, val, isUnset, isDecl := matchAttrDecl(line.Src); isDecl {
		bp.ConsumeLine()
		v := StringAttr(val)
		if isUnset {
			v = BoolAttr(false)
		}
		if err := bp.scope.Meta.SetFromBody(name, v); err != nil {
			bp.scope.addDiag(SeverityWarning, DiagInvalidAttributeValue, err.Error(), lineLoc(line), err)
		}
		return &Block{Meta: meta, Context: CtxDocumentAttributeDecl, Content: BlockContent{Kind: ContentDocAttr, AttrName: name, AttrValue: v}, Loc: lineLoc(line)}
	}
	return bp.parseParagraph(meta)
}

var admonitionRe = regexp.MustCompile(`^(NOTE|TIP|IMPORTANT|WARNING|CAUTION):\s+(\S.*)$`)

func admonitionLabel(line string) (string, bool) {
	m := admonitionRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (bp *BlockParser) parseAdmonition(meta ChunkMeta, label string) *Block {
	ctx, _ := admonitionFromLabel(label)
	lines := NewContiguousLines()
	first, _ := bp.ConsumeLine()
	m := admonitionRe.FindStringSubmatch(first.Src)
	rewritten := &Line{Tokens: lexLine(m[2], lineLoc(first).Start, first.FrameID, first.IncludeDepth), Src: m[2], FrameID: first.FrameID, IncludeDepth: first.IncludeDepth}
	lines.Push(rewritten)
	bp.collectParagraphContinuation(lines)
	subs := bp.effectiveSubs(ctx, meta)
	nodes := bp.ParseInlineLines(lines, subs)
	return &Block{Meta: meta, Context: ctx, Content: BlockContent{Kind: ContentSimple, Simple: nodes}, Loc: lines.Loc()}
}

// parseParagraph accumulates contiguous lines into a ContiguousLines until
// a blank line, delimiter, or structural line.
func (bp *BlockParser) parseParagraph(meta ChunkMeta) *Block {
	lines := NewContiguousLines()
	first, ok := bp.ConsumeLine()
	if !ok {
		return nil
	}
	lines.Push(first)
	bp.collectParagraphContinuation(lines)

	ctx := CtxParagraph
	style := ""
	if s, ok := meta.Attrs.Str("style"); ok {
		style = s
	} else if p0 := meta.Attrs.Peek(0); p0 != nil {
		style = p0.PlainText()
	}
	switch style {
	case "source":
		ctx = CtxLiteral
	case "quote":
		ctx = CtxQuote
	case "verse":
		ctx = CtxVerse
	}
	subs := bp.effectiveSubs(ctx, meta)
	nodes := bp.ParseInlineLines(lines, subs)
	return &Block{Meta: meta, Context: ctx, Content: BlockContent{Kind: ContentSimple, Simple: nodes}, Loc: lines.Loc()}
}

func (bp *BlockParser) collectParagraphContinuation(lines *ContiguousLines) {
	for {
		line, ok := bp.PeekLine()
		if !ok || line.IsBlank() {
			return
		}
		if _, _, isDelim := AtDelimiterLine(line.Src); isDelim {
			return
		}
		if _, isHeading := headingLevel(line.Src); isHeading {
			return
		}
		if isListMarkerLine(line.Src) || isTableDelimiterLine(line.Src) {
			return
		}
		if _, _, _, isDecl := matchAttrDecl(line.Src); isDecl {
			return
		}
		bp.ConsumeLine()
		lines.Push(line)
	}
}

// effectiveSubs computes a block's Substitutions: the context default,
// customized by a `subs=` attribute.
func (bp *BlockParser) effectiveSubs(ctx BlockContext, meta ChunkMeta) Substitutions {
	base := defaultSubsFor(ctx)
	if val, ok := meta.Attrs.Str("subs"); ok {
		return ApplySubsAttr(base, val)
	}
	return base
}

var tableDelimRe = regexp.MustCompile(`^\s*(\|===|,===|:===|!===)\s*$`)

func isTableDelimiterLine(line string) bool { return tableDelimRe.MatchString(line) }

func (bp *BlockParser) parseImageBlock(meta ChunkMeta) *Block {
	line, _ := bp.ConsumeLine()
	rest := strings.TrimPrefix(line.Src, "image::")
	target := rest
	attrsRaw := ""
	if i := strings.Index(rest, "["); i >= 0 && strings.HasSuffix(rest, "]") {
		target = rest[:i]
		attrsRaw = rest[i+1 : len(rest)-1]
	}
	al := bp.parseAttrList(attrsRaw, lineLoc(line))
	al.Named["target"] = bp.ParseInlineReduced(target, SubsAttrValue())
	mergeAttrList(meta.Attrs, al)
	return &Block{Meta: meta, Context: CtxImage, Content: BlockContent{Kind: ContentEmpty}, Loc: lineLoc(line)}
}

// parseDelimitedBlock consumes a delimited block from its opening fence to
// its matching closing fence (same byte, same run length), dispatching on
// context and recursing into nested blocks for compound contexts (example,
// sidebar, quote, open).
func (bp *BlockParser) parseDelimitedBlock(meta ChunkMeta) *Block {
	open, _ := bp.ConsumeLine()
	fenceByte, fenceLen, _ := AtDelimiterLine(open.Src)
	ctx := delimitedContextFor(fenceByte, fenceLen, meta)
	loc := lineLoc(open)

	if ctx == CtxComment {
		bp.consumeUntilFence(fenceByte, fenceLen)
		return &Block{Meta: meta, Context: CtxComment, Content: BlockContent{Kind: ContentEmpty}, Loc: loc}
	}

	if isCompoundContext(ctx) {
		var blocks []*Block
		for {
			line, ok := bp.PeekLine()
			if !ok {
				bp.scope.addDiag(SeverityError, DiagUnclosedDelimitedBlock, "delimited block never closed", loc, nil)
				break
			}
			if b, n, isDelim := AtDelimiterLine(line.Src); isDelim && b == fenceByte && n == fenceLen {
				bp.ConsumeLine()
				break
			}
			blk := bp.parseBlock()
			if blk != nil {
				blocks = append(blocks, blk)
			}
		}
		return &Block{Meta: meta, Context: ctx, Content: BlockContent{Kind: ContentCompound, Blocks: blocks}, Loc: loc}
	}

	lines := NewContiguousLines()
	for {
		line, ok := bp.PeekLine()
		if !ok {
			bp.scope.addDiag(SeverityError, DiagUnclosedDelimitedBlock, "delimited block never closed", loc, nil)
			break
		}
		if b, n, isDelim := AtDelimiterLine(line.Src); isDelim && b == fenceByte && n == fenceLen {
			bp.ConsumeLine()
			break
		}
		bp.ConsumeLine()
		lines.Push(line)
	}
	subs := bp.effectiveSubs(ctx, meta)
	if ctx == CtxPassthrough {
		subs = SubsNone()
		if val, ok := meta.Attrs.Str("subs"); ok {
			subs = ApplySubsAttr(SubsNone(), val)
		}
	}
	nodes := bp.ParseInlineLines(lines, subs)
	return &Block{Meta: meta, Context: ctx, Content: BlockContent{Kind: ContentSimple, Simple: nodes}, Loc: loc}
}

func (bp *BlockParser) consumeUntilFence(fenceByte byte, fenceLen int) {
	for {
		line, ok := bp.ConsumeLine()
		if !ok {
			return
		}
		if b, n, isDelim := AtDelimiterLine(line.Src); isDelim && b == fenceByte && n == fenceLen {
			return
		}
	}
}

func isCompoundContext(ctx BlockContext) bool {
	switch ctx {
	case CtxExample, CtxSidebar, CtxOpen:
		return true
	default:
		return false
	}
}

// delimitedContextFor maps a fence byte/length plus any style override in
// meta to the resulting BlockContext.
func delimitedContextFor(b byte, n int, meta ChunkMeta) BlockContext {
	switch b {
	case '-':
		if n == 2 {
			return CtxOpen
		}
		return CtxListing
	case '.':
		return CtxLiteral
	case '=':
		return CtxExample
	case '*':
		return CtxSidebar
	case '_':
		style := ""
		if s, ok := meta.Attrs.Str("style"); ok {
			style = s
		} else if p0 := meta.Attrs.Peek(0); p0 != nil {
			style = p0.PlainText()
		}
		if style == "verse" {
			return CtxVerse
		}
		return CtxQuote
	case '/':
		return CtxComment
	case '+':
		return CtxPassthrough
	default:
		return CtxListing
	}
}
