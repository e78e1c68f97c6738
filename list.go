package adoc

import (
	"regexp"
	"strings"
)

var (
	unorderedMarkerRe  = regexp.MustCompile(`^(\s*)([*\-])+(\s+)(\S.*)$`)
	orderedMarkerRe    = regexp.MustCompile(`^(\s*)(\d+\.|[a-zA-Z]\.|[ivxlcdmIVXLCDM]+\)|\.+)(\s+)(\S.*)$`)
	calloutMarkerRe    = regexp.MustCompile(`^(\s*)<(\d+|\.)>\s+(\S.*)$`)
	descriptionTermRe  = regexp.MustCompile(`^(\s*)(\S.*?)(:{2,4}|;;)(\s+(\S.*))?$`)
	listContinuationRe = regexp.MustCompile(`^\s*\+\s*$`)
)

// isListMarkerLine reports whether line opens any list-item kind: unordered
// (*/-), ordered (digits/letters/roman numerals + '.'), description (term +
// '::'/':::'/';;' ), or callout (<N>).
func isListMarkerLine(line string) bool {
	if calloutMarkerRe.MatchString(line) {
		return true
	}
	if descriptionTermRe.MatchString(line) {
		return true
	}
	if m := unorderedMarkerRe.FindStringSubmatch(line); m != nil {
		return isRepeatedMarker(strings.TrimSpace(line), '*') || isRepeatedMarker(strings.TrimSpace(line), '-')
	}
	if orderedMarkerRe.MatchString(line) {
		return true
	}
	return false
}

// isRepeatedMarker reports whether the run of characters up to the first
// space consists solely of b (so "**" but not "*-").
func isRepeatedMarker(trimmed string, b byte) bool {
	i := 0
	for i < len(trimmed) && trimmed[i] == b {
		i++
	}
	if i == 0 {
		return false
	}
	return i < len(trimmed) && (trimmed[i] == ' ' || trimmed[i] == '\t')
}

// markerDepth returns the nesting depth implied by a marker's repeated
// run length (e.g. "**" -> 2), used to decide whether a following marker
// line starts a new nested list or continues the current one.
func markerDepth(marker string) int {
	if marker != "" && strings.Trim(marker, ".") == "" {
		return len(marker)
	}
	marker = strings.TrimRight(marker, ".")
	n := 0
	for _, c := range marker {
		if c == '*' || c == '-' {
			n++
		} else {
			return 1
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// parseList parses one list block, recursively descending into nested
// lists and attached continuation blocks.
func (bp *BlockParser) parseList(meta ChunkMeta) *Block {
	first, _ := bp.PeekLine()
	variant, depth := classifyListOpen(first.Src)
	loc := lineLoc(first)

	var items []*ListItem
	if variant == ListCallout {
		bp.scope.Callouts.NextList()
	}
	for {
		line, ok := bp.PeekLine()
		if !ok || line.IsBlank() {
			break
		}
		v2, d2 := classifyListOpen(line.Src)
		if v2 != variant {
			break
		}
		if variant != ListDescription && d2 != depth {
			break
		}
		item := bp.parseListItem(variant, depth)
		items = append(items, item)
	}
	return &Block{
		Meta: meta, Context: listContextFor(variant),
		Content: BlockContent{Kind: ContentList, ListVariant: variant, ListDepth: depth, Items: items},
		Loc:     loc,
	}
}

func listContextFor(v ListVariant) BlockContext {
	switch v {
	case ListOrdered:
		return CtxOrderedList
	case ListDescription:
		return CtxDescriptionList
	case ListCallout:
		return CtxCalloutList
	default:
		return CtxUnorderedList
	}
}

// classifyListOpen reports which ListVariant line opens and, for
// bullet/ordered lists, its nesting depth (marker run length).
func classifyListOpen(line string) (ListVariant, int) {
	if m := calloutMarkerRe.FindStringSubmatch(line); m != nil {
		return ListCallout, 1
	}
	if descriptionTermRe.MatchString(line) && !unorderedMarkerRe.MatchString(line) {
		return ListDescription, 1
	}
	trimmed := strings.TrimSpace(line)
	if isRepeatedMarker(trimmed, '*') {
		return ListUnordered, markerDepth(strings.SplitN(trimmed, " ", 2)[0])
	}
	if isRepeatedMarker(trimmed, '-') {
		return ListUnordered, 1
	}
	if m := orderedMarkerRe.FindStringSubmatch(line); m != nil {
		return ListOrdered, markerDepth(m[2])
	}
	return ListUnordered, 1
}

// parseListItem consumes one item's marker line plus any indented
// continuation lines and attached blocks (via explicit `+` continuation),
// and recurses into a nested list if the next line opens a deeper one.
func (bp *BlockParser) parseListItem(variant ListVariant, depth int) *ListItem {
	line, _ := bp.ConsumeLine()
	item := &ListItem{Loc: lineLoc(line)}

	var principalText string
	switch variant {
	case ListCallout:
		m := calloutMarkerRe.FindStringSubmatch(line.Src)
		item.MarkerSrc = "<" + m[2] + ">"
		principalText = m[3]
		explicit := -1
		if m[2] != "." {
			if n, ok := atoiSafe(m[2]); ok {
				explicit = n
			}
		}
		callout, valid := bp.scope.Callouts.Register(explicit)
		if !valid {
			bp.scope.addDiag(SeverityWarning, DiagCalloutNumberMismatch, "callout number out of sequence", item.Loc, nil)
		}
		item.TypeMeta = ListItemTypeMeta{Kind: ItemMetaCallout, Callouts: []Callout{callout}}
	case ListDescription:
		m := descriptionTermRe.FindStringSubmatch(line.Src)
		item.IsDescription = true
		item.Term = bp.ParseInline(m[2], SubsNormal())
		item.MarkerSrc = m[3]
		principalText = strings.TrimSpace(m[5])
	case ListOrdered:
		m := orderedMarkerRe.FindStringSubmatch(line.Src)
		item.MarkerSrc = m[2]
		principalText = m[4]
	default:
		m := unorderedMarkerRe.FindStringSubmatch(line.Src)
		trimmed := strings.TrimSpace(line.Src)
		markerEnd := strings.IndexAny(trimmed, " \t")
		if markerEnd < 0 {
			markerEnd = len(trimmed)
		}
		item.MarkerSrc = trimmed[:markerEnd]
		if m != nil {
			principalText = m[4]
		} else {
			principalText = strings.TrimSpace(trimmed[markerEnd:])
		}
	}

	if checked, src, rest, isChecklist := stripChecklistMarker(principalText); isChecklist {
		item.TypeMeta = ListItemTypeMeta{Kind: ItemMetaChecklist, Checked: checked, CheckboxSrc: src}
		principalText = rest
	}

	principalLines := NewContiguousLines()
	principalLines.Push(&Line{Tokens: lexLine(principalText, lineLoc(line).Start, line.FrameID, line.IncludeDepth), Src: principalText, FrameID: line.FrameID, IncludeDepth: line.IncludeDepth})

	for {
		next, ok := bp.PeekLine()
		if !ok || next.IsBlank() {
			break
		}
		if isListMarkerLine(next.Src) || listContinuationRe.MatchString(next.Src) {
			break
		}
		if _, _, isDelim := AtDelimiterLine(next.Src); isDelim {
			break
		}
		if leadingIndent(next.Src) == 0 {
			break
		}
		bp.ConsumeLine()
		principalLines.Push(next)
	}
	item.Principle = bp.ParseInlineLines(principalLines, SubsNormal())

	for {
		blank, ok := bp.PeekLine()
		if ok && blank.IsBlank() {
			after, ok2 := bp.peekPastBlank()
			if !ok2 || !listContinuationRe.MatchString(after.Src) {
				break
			}
			bp.ConsumeLine()
		}
		cont, ok := bp.PeekLine()
		if !ok || !listContinuationRe.MatchString(cont.Src) {
			break
		}
		bp.ConsumeLine()
		bp.skipBlankLines()
		blk := bp.parseBlock()
		if blk != nil {
			item.Blocks = append(item.Blocks, blk)
		}
	}

	if next, ok := bp.PeekLine(); ok && !next.IsBlank() {
		v2, d2 := classifyListOpen(next.Src)
		if (variant != ListDescription && d2 > depth) || (variant == ListDescription && v2 == ListDescription) {
			if d2 > depth || variant == ListDescription {
				nested := bp.parseList(ChunkMeta{Attrs: NewAttrList(SourceLocation{})})
				item.Blocks = append(item.Blocks, nested)
			}
		}
	}

	return item
}

// peekPastBlank peeks two lines ahead without permanently consuming the
// first (blank) one; used to decide whether a blank line is followed by a
// `+` continuation marker belonging to the current list item.
func (bp *BlockParser) peekPastBlank() (*Line, bool) {
	first, ok := bp.ConsumeLine()
	if !ok {
		return nil, false
	}
	second, ok2 := bp.PeekLine()
	bp.PushbackLine(first)
	return second, ok2
}

var checklistRe = regexp.MustCompile(`^\[([ xX*]?)\]\s+(.*)$`)

// stripChecklistMarker recognizes a leading `[ ]`/`[x]`/`[*]` checklist
// marker on a list item's principal text.
func stripChecklistMarker(text string) (checked bool, src string, rest string, ok bool) {
	m := checklistRe.FindStringSubmatch(text)
	if m == nil {
		return false, "", text, false
	}
	mark := m[1]
	return mark == "x" || mark == "X" || mark == "*", mark, m[2], true
}

func atoiSafe(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
