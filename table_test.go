package adoc

import "testing"

func TestTableFormatForFence(t *testing.T) {
	tests := []struct {
		fence      string
		wantSep    byte
		wantFormat string
	}{
		{"|===", '|', "psv"},
		{",===", ',', "csv"},
		{":===", ':', "dsv"},
		{"!===", '\t', "tsv"},
		{"", '|', "psv"},
	}
	for _, tt := range tests {
		sep, format := tableFormatFor(tt.fence)
		if sep != tt.wantSep || format != tt.wantFormat {
			t.Errorf("tableFormatFor(%q) = (%q, %q), want (%q, %q)", tt.fence, sep, format, tt.wantSep, tt.wantFormat)
		}
	}
}

func TestParseColsAttrExpandsRepeatFactor(t *testing.T) {
	attrs := NewAttrList(SourceLocation{})
	attrs.Named["cols"] = InlineNodes{{Kind: INText, Text: "2*,1"}}
	cols := parseColsAttr(attrs)
	if len(cols) != 3 {
		t.Fatalf("cols = %+v, want 3 (2* expands to two, plus the trailing 1)", cols)
	}
}

func TestParseOneColSpecAlignmentAndWidth(t *testing.T) {
	cs := parseOneColSpec("3>")
	if cs.Width != 3 || cs.HAlign != ">" {
		t.Errorf("parseOneColSpec(3>) = %+v, want Width=3 HAlign=>", cs)
	}
	cs2 := parseOneColSpec("~")
	if !cs2.Auto {
		t.Errorf("parseOneColSpec(~) = %+v, want Auto=true", cs2)
	}
	cs3 := parseOneColSpec("50%")
	if !cs3.Percent || cs3.Width != 50 {
		t.Errorf("parseOneColSpec(50%%) = %+v, want Percent=true Width=50", cs3)
	}
}

func TestParseTableBlockSimplePSV(t *testing.T) {
	bp := newTestBlockParser("|===\n|a |b\n|c |d\n|===\n")
	attrs := NewAttrList(SourceLocation{})
	attrs.Named["cols"] = InlineNodes{{Kind: INText, Text: "1,1"}}
	blk := bp.parseTableBlock(ChunkMeta{Attrs: attrs})

	if blk.Content.Kind != ContentTable {
		t.Fatalf("Content.Kind = %v, want ContentTable", blk.Content.Kind)
	}
	tbl := blk.Content.Table
	if tbl.Format != "psv" {
		t.Errorf("Format = %q, want psv", tbl.Format)
	}
	if len(tbl.Body) != 2 {
		t.Fatalf("Body = %+v, want 2 rows", tbl.Body)
	}
	if got := tbl.Body[0].Cells[0].Content.PlainText(); got != "a" {
		t.Errorf("Body[0].Cells[0] = %q, want a", got)
	}
	if got := tbl.Body[1].Cells[1].Content.PlainText(); got != "d" {
		t.Errorf("Body[1].Cells[1] = %q, want d", got)
	}
}

func TestParseTableBlockHeaderOption(t *testing.T) {
	bp := newTestBlockParser("|===\n|h1 |h2\n|v1 |v2\n|===\n")
	attrs := NewAttrList(SourceLocation{})
	attrs.Named["cols"] = InlineNodes{{Kind: INText, Text: "1,1"}}
	attrs.Options = append(attrs.Options, "header")
	blk := bp.parseTableBlock(ChunkMeta{Attrs: attrs})

	tbl := blk.Content.Table
	if !tbl.HasHeader || len(tbl.Header) != 1 {
		t.Fatalf("Header = %+v, HasHeader = %v, want one header row", tbl.Header, tbl.HasHeader)
	}
	if len(tbl.Body) != 1 {
		t.Errorf("Body = %+v, want 1 row", tbl.Body)
	}
	if got := tbl.Header[0].Cells[0].Content.PlainText(); got != "h1" {
		t.Errorf("Header[0].Cells[0] = %q, want h1", got)
	}
}

func TestParseTableBlockCSVFormat(t *testing.T) {
	bp := newTestBlockParser(",===\nbob,30\n,===\n")
	attrs := NewAttrList(SourceLocation{})
	attrs.Named["cols"] = InlineNodes{{Kind: INText, Text: "1,1"}}
	blk := bp.parseTableBlock(ChunkMeta{Attrs: attrs})

	tbl := blk.Content.Table
	if tbl.Format != "csv" {
		t.Fatalf("Format = %q, want csv", tbl.Format)
	}
	if len(tbl.Body) != 1 || len(tbl.Body[0].Cells) != 2 {
		t.Fatalf("Body = %+v, want one row of two cells", tbl.Body)
	}
	if got := tbl.Body[0].Cells[0].Content.PlainText(); got != "bob" {
		t.Errorf("Body[0].Cells[0] = %q, want bob", got)
	}
	if got := tbl.Body[0].Cells[1].Content.PlainText(); got != "30" {
		t.Errorf("Body[0].Cells[1] = %q, want 30", got)
	}
}

func TestParseTableBlockNeverClosedReportsDiagnostic(t *testing.T) {
	bp := newTestBlockParser("|===\n|only row\n")
	blk := bp.parseTableBlock(ChunkMeta{Attrs: NewAttrList(SourceLocation{})})

	if blk.Content.Table == nil {
		t.Fatal("Table = nil, want a best-effort table even when unclosed")
	}
	found := false
	for _, d := range bp.scope.Diags.Diagnostics {
		if d.Kind == DiagTableNeverClosed {
			found = true
		}
	}
	if !found {
		t.Error("expected a DiagTableNeverClosed diagnostic for an unclosed table")
	}
}

func TestParseCellSpecColspanAndStyle(t *testing.T) {
	cs := parseCellSpec("2+a")
	if cs.colspan != 2 || cs.style != "a" {
		t.Errorf("parseCellSpec(2+a) = %+v, want colspan=2 style=a", cs)
	}
	def := parseCellSpec("")
	if def.colspan != 1 || def.rowspan != 1 {
		t.Errorf("parseCellSpec(\"\") = %+v, want colspan=1 rowspan=1 defaults", def)
	}
}
