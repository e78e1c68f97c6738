package adoc

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseInlineLines joins a ContiguousLines run and parses it as inline
// content under the given Substitutions.
func (bp *BlockParser) ParseInlineLines(lines *ContiguousLines, subs Substitutions) InlineNodes {
	return bp.ParseInline(lines.JoinSrc(), subs)
}

// ParseInlineReduced parses a single attribute-value/title string under
// SubsAttrValue (special chars, inline formatting and character
// replacements; no attribute refs) — used for chunk-meta titles and
// attr-list slot values.
func (bp *BlockParser) ParseInlineReduced(s string, subs Substitutions) InlineNodes {
	return bp.ParseInline(s, subs)
}

// ParseInline runs the full inline-parsing pipeline over already-assembled
// source text: recursive-descent span matching followed by the ordered
// Substitutions pipeline. A ^NNNNN placeholder already stored in the
// lexer's passthrough table is spliced back as an INPassthrough node;
// passthrough syntax in s itself is not extracted into that table first.
func (bp *BlockParser) ParseInline(s string, subs Substitutions) InlineNodes {
	if s == "" {
		return nil
	}
	nodes := bp.scanSpans(s, 0)
	return bp.applySubs(nodes, subs)
}

// --- span scanning (constrained/unconstrained emphasis, macros, etc.) ---

type spanMarker struct {
	kind     InlineKind
	open     string
	close    string
	unconstr bool // `**`/`__`/`##`/`^^`-style: no word-boundary requirement
}

var spanMarkers = []spanMarker{
	{INBold, "**", "**", true},
	{INBold, "*", "*", false},
	{INItalic, "__", "__", true},
	{INItalic, "_", "_", false},
	{INMono, "``", "``", true},
	{INMono, "`", "`", false},
	{INHighlight, "##", "##", true},
	{INHighlight, "#", "#", false},
	{INSuperscript, "^", "^", false},
	{INSubscript, "~", "~", false},
}

var (
	passthroughPlaceholderRe = regexp.MustCompile(`^\^(\d{5})`)
	xrefShorthandRe          = regexp.MustCompile(`^<<([^,>]+)(?:,([^>]*))?>>`)
	attrRefInlineRe          = regexp.MustCompile(`^\{([A-Za-z0-9_][A-Za-z0-9_\-]*)\}`)
	lineBreakSuffixRe        = regexp.MustCompile(` \+$`)
	macroInlineRe            = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+\-]*):(/{0,2}[^\s\[]*)\[([^\]]*)\]`)
	indexTerm3Re             = regexp.MustCompile(`^\(\(\(([^)]+)\)\)\)`)
	indexTerm2Re             = regexp.MustCompile(`^\(\(([^)]+)\)\)`)
)

// scanSpans is the recursive-descent inline scanner. depth guards against
// runaway recursion on pathological input; the grammar itself is bounded
// by source length so depth rarely exceeds a handful of levels.
func (bp *BlockParser) scanSpans(s string, depth int) InlineNodes {
	var out InlineNodes
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Inline{Kind: INText, Text: text.String()})
			text.Reset()
		}
	}

	i := 0
	for i < len(s) {
		rest := s[i:]

		if m := passthroughPlaceholderRe.FindStringSubmatch(rest); m != nil {
			if nodes, ok := bp.pre.lexer.passthroughs.Lookup(m[0]); ok {
				flush()
				idx, _ := strconv.Atoi(m[1])
				out = append(out, Inline{Kind: INPassthrough, Children: nodes, PassthroughIndex: idx})
				i += len(m[0])
				continue
			}
		}

		if m := indexTerm3Re.FindStringSubmatch(rest); m != nil {
			flush()
			terms := splitIndexTerms(m[1])
			out = append(out, Inline{Kind: INIndexTerm, IndexTerms: terms, Concealed: true})
			i += len(m[0])
			continue
		}
		if m := indexTerm2Re.FindStringSubmatch(rest); m != nil {
			flush()
			terms := splitIndexTerms(m[1])
			out = append(out, Inline{Kind: INIndexTerm, IndexTerms: terms, Concealed: false})
			i += len(m[0])
			continue
		}

		if m := xrefShorthandRe.FindStringSubmatch(rest); m != nil {
			flush()
			target := strings.TrimSpace(m[1])
			var label InlineNodes
			if m[2] != "" {
				label = bp.scanSpans(m[2], depth+1)
			}
			resolved := bp.scope.Anchors.Has(target)
			if resolved {
				bp.scope.Xrefs.Record(target, SourceLocation{}, true)
			} else {
				bp.scope.Xrefs.Record(target, SourceLocation{}, false)
			}
			out = append(out, Inline{Kind: INMacro, MacroKind: MacroXref, Target: target, Children: label, XrefResolved: resolved})
			i += len(m[0])
			continue
		}

		if m := macroInlineRe.FindStringSubmatch(rest); m != nil {
			flush()
			name, target, attrsRaw := m[1], m[2], m[3]
			if kind, ok := macroKindByName(name); ok {
				al := bp.parseAttrList(attrsRaw, SourceLocation{})
				node := Inline{Kind: INMacro, MacroKind: kind, Target: target, Attrs: al}
				if kind == MacroFootnote {
					node.FootnoteID, node.Children = bp.resolveFootnote(target, attrsRaw)
				}
				out = append(out, node)
				i += len(m[0])
				continue
			}
		}

		if r, n := decodeCharReplacement(rest); n > 0 {
			flush()
			out = append(out, r)
			i += n
			continue
		}

		if lineBreakSuffixRe.MatchString(rest) && i+len(rest) == len(s) {
			flush()
			out = append(out, Inline{Kind: INLineBreak})
			i = len(s)
			continue
		}

		if matched, node, consumed := bp.tryMatchSpan(s, i, depth); matched {
			flush()
			out = append(out, node)
			i += consumed
			continue
		}

		_, sz := decodeRuneLen(s, i)
		text.WriteString(s[i : i+sz])
		i += sz
	}
	flush()
	return out
}

// tryMatchSpan attempts to match a formatting span (bold/italic/mono/
// highlight/sub/sup) starting at s[i]. Constrained spans require a
// non-word-character (or start-of-string) before the opener and a
// non-word-character (or end-of-string) after the closer.
func (bp *BlockParser) tryMatchSpan(s string, i int, depth int) (bool, Inline, int) {
	if depth > 32 {
		return false, Inline{}, 0
	}
	for _, m := range spanMarkers {
		if !strings.HasPrefix(s[i:], m.open) {
			continue
		}
		if !m.unconstr {
			if i > 0 && !isWordBoundaryBefore(s, i) {
				continue
			}
		}
		closeAt := findSpanClose(s, i+len(m.open), m.close, m.unconstr)
		if closeAt < 0 {
			continue
		}
		inner := s[i+len(m.open) : closeAt]
		if inner == "" {
			continue
		}
		end := closeAt + len(m.close)
		if !m.unconstr && end < len(s) && !isWordBoundaryRune(runeAt(s, end)) {
			continue
		}
		children := bp.scanSpans(inner, depth+1)
		return true, Inline{Kind: m.kind, Children: children}, end - i
	}
	return false, Inline{}, 0
}

func findSpanClose(s string, from int, close string, unconstr bool) int {
	for j := from; j+len(close) <= len(s); j++ {
		if s[j] == '\\' {
			j++
			continue
		}
		if strings.HasPrefix(s[j:], close) {
			if unconstr {
				return j
			}
			if j == from {
				continue
			}
			return j
		}
	}
	return -1
}

func isWordBoundaryBefore(s string, i int) bool {
	r := runeAt(s, prevRuneStart(s, i))
	return isWordBoundaryRune(r)
}

func isWordBoundaryRune(r rune) bool {
	if r == 0 {
		return true
	}
	return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
}

func prevRuneStart(s string, i int) int {
	j := i - 1
	for j > 0 && isUTF8Cont(s[j]) {
		j--
	}
	return j
}

func isUTF8Cont(b byte) bool { return b&0xC0 == 0x80 }

func decodeRuneLen(s string, i int) (rune, int) {
	r := runeAt(s, i)
	if r < 0x80 {
		return r, 1
	}
	switch {
	case r < 0x800:
		return r, 2
	case r < 0x10000:
		return r, 3
	default:
		return r, 4
	}
}

func macroKindByName(name string) (MacroKind, bool) {
	switch name {
	case "link", "http", "https", "ftp", "irc", "mailto":
		return MacroLink, true
	case "image":
		return MacroImage, true
	case "xref":
		return MacroXref, true
	case "kbd":
		return MacroKeyboard, true
	case "btn":
		return MacroButton, true
	case "menu":
		return MacroMenu, true
	case "pass":
		return MacroPass, true
	case "anchor":
		return MacroAnchor, true
	case "footnote", "footnoteref":
		return MacroFootnote, true
	default:
		return MacroPlugin, true
	}
}

func (bp *BlockParser) resolveFootnote(id, attrsRaw string) (string, InlineNodes) {
	if id == "" {
		newID := bp.scope.Footnotes.NextAutoID()
		nodes := bp.scanSpans(attrsRaw, 0)
		bp.scope.Footnotes.Define(newID, nodes)
		return newID, nodes
	}
	if existing, ok := bp.scope.Footnotes.Lookup(id); ok {
		return id, existing
	}
	nodes := bp.scanSpans(attrsRaw, 0)
	bp.scope.Footnotes.Define(id, nodes)
	return id, nodes
}

func splitIndexTerms(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// decodeCharReplacement recognizes the fixed SubCharReplacement mappings:
// `(C)`, `(TM)`, `(R)`, `--` (as an em dash), `...`, `->`, `<-`, `=>`, `<=`.
func decodeCharReplacement(s string) (Inline, int) {
	switch {
	case strings.HasPrefix(s, "(C)"):
		return Inline{Kind: INSymbol, Symbol: SymCopyright, Text: "©"}, 3
	case strings.HasPrefix(s, "(TM)"):
		return Inline{Kind: INSymbol, Symbol: SymTrademark, Text: "™"}, 4
	case strings.HasPrefix(s, "(R)"):
		return Inline{Kind: INSymbol, Symbol: SymRegistered, Text: "®"}, 3
	case strings.HasPrefix(s, "..."):
		return Inline{Kind: INSymbol, Symbol: SymEllipsis, Text: "…"}, 3
	case strings.HasPrefix(s, "<="):
		return Inline{Kind: INSymbol, Symbol: SymLeftDoubleArrow, Text: "⇐"}, 2
	case strings.HasPrefix(s, "=>"):
		return Inline{Kind: INSymbol, Symbol: SymRightDoubleArrow, Text: "⇒"}, 2
	case strings.HasPrefix(s, "->"):
		return Inline{Kind: INSymbol, Symbol: SymRightArrow, Text: "→"}, 2
	case strings.HasPrefix(s, "<-"):
		return Inline{Kind: INSymbol, Symbol: SymLeftArrow, Text: "←"}, 2
	case strings.HasPrefix(s, "--") && !strings.HasPrefix(s, "---"):
		return Inline{Kind: INSymbol, Symbol: SymEmDash, Text: "—"}, 2
	case strings.HasPrefix(s, "'") && len(s) >= 2 && isWordBoundaryRune(runeAt(s, 1)) == false:
		return Inline{Kind: INSymbol, Symbol: SymApostrophe, Text: "’"}, 1
	default:
		return Inline{}, 0
	}
}

// --- substitutions application ---

// applySubs walks the span tree applying each enabled step in order. Spans
// already structurally identified (bold/italic/macros/...) are left as-is;
// steps act on the remaining INText leaves and on Document-level concerns
// (attribute refs, special chars, callouts) not already captured above.
func (bp *BlockParser) applySubs(nodes InlineNodes, subs Substitutions) InlineNodes {
	if subs.Has(SubCallouts) {
		nodes = bp.expandCallouts(nodes)
	}
	var out InlineNodes
	for _, n := range nodes {
		out = append(out, bp.applySubsToNode(n, subs))
	}
	return out
}

var calloutLineSuffixRe = regexp.MustCompile(`(?m)[ \t]*<(\d+|\.)>[ \t]*$`)

// expandCallouts scans verbatim text leaves for trailing `<N>`/`<.>`
// markers — one per source line — and splits them out into INCalloutNum
// nodes. An explicit `<N>` keeps N; a `<.>` takes its 1-based position
// among the markers of this call. Only Callout.Number is set: the shared
// CalloutRegistry is neither consulted nor updated here.
func (bp *BlockParser) expandCallouts(nodes InlineNodes) InlineNodes {
	var out InlineNodes
	seq := 0
	for _, n := range nodes {
		if n.Kind != INText || !strings.Contains(n.Text, "<") {
			out = append(out, n)
			continue
		}
		matches := calloutLineSuffixRe.FindAllStringSubmatchIndex(n.Text, -1)
		if matches == nil {
			out = append(out, n)
			continue
		}
		pos := 0
		for _, m := range matches {
			out = append(out, Inline{Kind: INText, Text: n.Text[pos:m[0]]})
			seq++
			num := seq
			marker := n.Text[m[2]:m[3]]
			if marker != "." {
				if n2, ok := atoiSafe(marker); ok {
					num = n2
				}
			}
			out = append(out, Inline{Kind: INCalloutNum, Callout: Callout{Number: num}})
			pos = m[1]
		}
		out = append(out, Inline{Kind: INText, Text: n.Text[pos:]})
	}
	return out
}

func (bp *BlockParser) applySubsToNode(n Inline, subs Substitutions) Inline {
	switch n.Kind {
	case INText:
		if subs.Has(SubSpecialChars) {
			n = expandSpecialChars(n)
		}
		if subs.Has(SubAttrRefs) {
			n = bp.expandAttrRefsInText(n)
		}
		return n
	default:
		if len(n.Children) > 0 {
			n.Children = bp.applySubs(n.Children, subs)
		}
		return n
	}
}

// expandSpecialChars splits an INText's literal `&`/`<`/`>` into
// INSpecialChar nodes; since text leaves are atomic, we represent the
// split as nested Children when any are found, otherwise leave as-is.
func expandSpecialChars(n Inline) Inline {
	if !strings.ContainsAny(n.Text, "&<>") {
		return n
	}
	var children InlineNodes
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			children = append(children, Inline{Kind: INText, Text: b.String()})
			b.Reset()
		}
	}
	for _, r := range n.Text {
		switch r {
		case '&':
			flush()
			children = append(children, Inline{Kind: INSpecialChar, SpecialChar: SpecialAmpersand})
		case '<':
			flush()
			children = append(children, Inline{Kind: INSpecialChar, SpecialChar: SpecialLessThan})
		case '>':
			flush()
			children = append(children, Inline{Kind: INSpecialChar, SpecialChar: SpecialGreaterThan})
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return Inline{Kind: INTextSpan, Children: children}
}

// expandAttrRefsInText finds `{name}` attribute references in a text leaf
// and resolves them against DocumentMeta: a defined attribute is replaced
// by its AttrValue.String() text, and an undefined one becomes an
// INAttributeReference node. The attribute-missing policy is not consulted
// here; the line-level drop happens earlier, in
// Preprocessor.substituteAttrRefs.
func (bp *BlockParser) expandAttrRefsInText(n Inline) Inline {
	if !strings.Contains(n.Text, "{") {
		return n
	}
	var children InlineNodes
	rest := n.Text
	for {
		loc := strings.IndexByte(rest, '{')
		if loc < 0 {
			if rest != "" {
				children = append(children, Inline{Kind: INText, Text: rest})
			}
			break
		}
		if loc > 0 {
			children = append(children, Inline{Kind: INText, Text: rest[:loc]})
		}
		m := attrRefInlineRe.FindStringSubmatch(rest[loc:])
		if m == nil {
			children = append(children, Inline{Kind: INText, Text: "{"})
			rest = rest[loc+1:]
			continue
		}
		name := m[1]
		if val, ok := bp.scope.Meta.Get(name); ok {
			children = append(children, Inline{Kind: INText, Text: val.String()})
		} else {
			children = append(children, Inline{Kind: INAttributeReference, AttrName: name})
		}
		rest = rest[loc+len(m[0]):]
	}
	if len(children) == 1 && children[0].Kind == INText {
		return children[0]
	}
	return Inline{Kind: INTextSpan, Children: children}
}
