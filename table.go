package adoc

import (
	"regexp"
	"strconv"
	"strings"
)

// parseTableBlock consumes a delimited table block: format
// is selected by the opening fence's separator character, columns by a
// `cols=` attribute (or by the cell count of the first non-blank line if
// absent), with the `header`/`footer` options (`%header` or
// `options=header`) promoting the first/last row groups.
func (bp *BlockParser) parseTableBlock(meta ChunkMeta) *Block {
	open, _ := bp.ConsumeLine()
	sep, format := tableFormatFor(strings.TrimSpace(open.Src))
	loc := lineLoc(open)

	var raw []*Line
	for {
		line, ok := bp.ConsumeLine()
		if !ok {
			bp.scope.addDiag(SeverityError, DiagTableNeverClosed, "table block never closed", loc, nil)
			break
		}
		if isTableDelimiterLine(line.Src) {
			break
		}
		raw = append(raw, line)
	}

	cols := parseColsAttr(meta.Attrs)
	rows := bp.splitTableRows(raw, sep, cols)
	if len(cols) == 0 && len(rows) > 0 {
		for range rows[0].Cells {
			cols = append(cols, ColumnSpec{HAlign: "<", VAlign: "<"})
		}
	}

	hasHeader := meta.Attrs.HasOption("header")
	hasFooter := meta.Attrs.HasOption("footer")
	var header, body, footer []Row
	switch {
	case hasHeader && hasFooter && len(rows) >= 2:
		header, footer, body = []Row{rows[0]}, []Row{rows[len(rows)-1]}, rows[1:len(rows)-1]
	case hasHeader && len(rows) >= 1:
		header, body = []Row{rows[0]}, rows[1:]
	case hasFooter && len(rows) >= 1:
		body, footer = rows[:len(rows)-1], []Row{rows[len(rows)-1]}
	default:
		body = rows
	}

	table := &Table{
		Format: format, Cols: cols, Header: header, Body: body, Footer: footer,
		HasHeader: hasHeader, HasFooter: hasFooter,
	}
	return &Block{Meta: meta, Context: CtxTable, Content: BlockContent{Kind: ContentTable, Table: table}, Loc: loc}
}

// tableFormatFor maps a table block's opening fence to its cell separator
// byte and format name.
func tableFormatFor(fence string) (byte, string) {
	if fence == "" {
		return '|', "psv"
	}
	switch fence[0] {
	case ',':
		return ',', "csv"
	case ':':
		return ':', "dsv"
	case '!':
		return '\t', "tsv"
	default:
		return '|', "psv"
	}
}

var colsSpecItemRe = regexp.MustCompile(`^(\d+)?(?:\*)?(?:([<^>])(?:\.([<^>]))?)?([a-z])?$`)

// parseColsAttr parses a `cols=` attribute value into column specs,
// expanding `N*spec` repeat factors.
func parseColsAttr(attrs *AttrList) []ColumnSpec {
	val, ok := attrs.Str("cols")
	if !ok {
		return nil
	}
	var out []ColumnSpec
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		repeat := 1
		if i := strings.Index(item, "*"); i > 0 {
			if n, err := strconv.Atoi(item[:i]); err == nil {
				repeat = n
				item = item[i+1:]
			}
		}
		spec := parseOneColSpec(item)
		for k := 0; k < repeat; k++ {
			out = append(out, spec)
		}
	}
	return out
}

func parseOneColSpec(item string) ColumnSpec {
	cs := ColumnSpec{HAlign: "<", VAlign: "<"}
	rest := item
	if i := strings.IndexByte(rest, '%'); i >= 0 {
		if n, err := strconv.Atoi(rest[:i]); err == nil {
			cs.Percent = true
			cs.Width = n
		}
		rest = rest[i+1:]
	} else if rest == "~" {
		cs.Auto = true
		rest = ""
	} else {
		j := 0
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		if j > 0 {
			cs.Width, _ = strconv.Atoi(rest[:j])
			rest = rest[j:]
		}
	}
	for len(rest) > 0 {
		c := rest[0]
		switch c {
		case '<', '^', '>':
			if strings.HasPrefix(rest, string(c)+".") && len(rest) > 2 {
				cs.HAlign = string(c)
				rest = rest[2:]
				continue
			}
			cs.HAlign = string(c)
			rest = rest[1:]
		case '.':
			rest = rest[1:]
			if len(rest) > 0 {
				cs.VAlign = string(rest[0])
				rest = rest[1:]
			}
		case 'a', 'd', 'e', 'h', 'l', 'm', 's':
			cs.Style = string(c)
			rest = rest[1:]
		default:
			rest = rest[1:]
		}
	}
	return cs
}

var cellSpecRe = regexp.MustCompile(`^(?:(\d+))?(?:\.(\d+))?(\+)?([<^>])?(?:\.([<^>]))?([adehlms])?$`)

// splitTableRows splits raw content lines into logical rows of cells. Each
// physical line that starts a new row begins with (optionally) a cell-spec
// prefix followed by the separator; a cell's content continues across
// lines until the next separator is found, honoring a backslash escape
// for a literal separator. Without cols, the row width is the cell count
// of the first non-blank line.
func (bp *BlockParser) splitTableRows(raw []*Line, sep byte, cols []ColumnSpec) []Row {
	var rows []Row
	var curCells []Cell
	var curText strings.Builder
	var curSpec string
	inSpec := true
	firstRowWidth := 0

	flushCell := func() {
		if curText.Len() == 0 && curSpec == "" && len(curCells) == 0 {
			return
		}
		cs := parseCellSpec(curSpec)
		content := strings.TrimSpace(curText.String())
		style := cs.style
		var asciidoc []*Block
		nodes := bp.ParseInline(content, defaultCellSubs(style))
		if style == "a" {
			asciidoc = bp.parseCellAsAsciidoc(content)
		}
		curCells = append(curCells, Cell{
			Content: nodes, AsciiDoc: asciidoc, Style: style,
			ColSpan: cs.colspan, RowSpan: cs.rowspan, HAlign: cs.halign, VAlign: cs.valign,
		})
		curText.Reset()
		curSpec = ""
		inSpec = true
	}
	flushRow := func() {
		if len(curCells) > 0 {
			rows = append(rows, Row{Cells: curCells})
			curCells = nil
		}
	}

	for _, line := range raw {
		s := line.Src
		i := 0
		atLineStart := true
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) && s[i+1] == sep {
				curText.WriteByte(sep)
				i += 2
				atLineStart = false
				inSpec = false
				continue
			}
			if c == sep {
				if atLineStart {
					flushCell()
				} else {
					flushCell()
				}
				i++
				atLineStart = false
				continue
			}
			if inSpec && atLineStart && isCellSpecByte(c) {
				curSpec += string(c)
				i++
				continue
			}
			inSpec = false
			atLineStart = false
			curText.WriteByte(c)
			i++
		}
		curText.WriteByte('\n')
		if pending := strings.TrimSpace(curText.String()) != ""; firstRowWidth == 0 && (len(curCells) > 0 || pending) {
			firstRowWidth = len(curCells)
			if pending {
				firstRowWidth++
			}
		}
	}
	flushCell()
	flushRow()

	groupCols := cols
	if len(groupCols) == 0 && firstRowWidth > 0 {
		groupCols = make([]ColumnSpec, firstRowWidth)
	}
	return regroupIntoRows(rowsFlatten(curCells, rows), groupCols)
}

func rowsFlatten(trailing []Cell, rows []Row) []Cell {
	var all []Cell
	for _, r := range rows {
		all = append(all, r.Cells...)
	}
	all = append(all, trailing...)
	return all
}

// regroupIntoRows re-slices a flat cell stream into fixed-width rows once
// the column count is known (len(cols); with no cols, every cell goes into
// a single row).
func regroupIntoRows(cells []Cell, cols []ColumnSpec) []Row {
	width := len(cols)
	if width == 0 {
		width = len(cells)
		if width == 0 {
			return nil
		}
	}
	var rows []Row
	for i := 0; i < len(cells); i += width {
		end := i + width
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, Row{Cells: cells[i:end]})
	}
	return rows
}

func isCellSpecByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.' || c == '+' || c == '<' || c == '^' || c == '>':
		return true
	case c == 'a' || c == 'd' || c == 'e' || c == 'h' || c == 'l' || c == 'm' || c == 's':
		return true
	}
	return false
}

type cellSpec struct {
	colspan, rowspan int
	halign, valign   string
	style            string
}

func parseCellSpec(raw string) cellSpec {
	cs := cellSpec{colspan: 1, rowspan: 1}
	m := cellSpecRe.FindStringSubmatch(raw)
	if m == nil {
		return cs
	}
	if m[1] != "" {
		cs.colspan, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		cs.rowspan, _ = strconv.Atoi(m[2])
	}
	cs.halign = m[4]
	cs.valign = m[5]
	cs.style = m[6]
	return cs
}

func defaultCellSubs(style string) Substitutions {
	switch style {
	case "l":
		return SubsVerbatim()
	case "a":
		return SubsNone()
	default:
		return SubsNormal()
	}
}

// parseCellAsAsciidoc sub-parses an `a`-style cell's content as a nested
// AsciiDoc document, sharing the root's ParseScope so callouts/anchors/
// xrefs/footnotes participate in the same global registries.
func (bp *BlockParser) parseCellAsAsciidoc(content string) []*Block {
	sub := &BlockParser{pre: bp.pre, scope: bp.scope.ForCell(), docDir: bp.docDir, isCell: true}
	cellLexer := NewLexer(NewSourceStack([]byte(content), bp.scope.File, 64))
	cellPre := NewPreprocessor(cellLexer, bp.scope, bp.pre.safeMode, bp.docDir)
	sub.pre = cellPre
	var blocks []*Block
	for {
		sub.skipBlankLines()
		if _, ok := sub.PeekLine(); !ok {
			break
		}
		blk := sub.parseBlock()
		if blk != nil {
			blocks = append(blocks, blk)
		}
	}
	return blocks
}
