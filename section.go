package adoc

import (
	"strings"

	"golang.org/x/net/html"
)

// parseSection recursively parses one section at level, consuming its
// heading line (already confirmed by the caller), its own blocks, and any
// directly nested sections of level+1. A heading whose
// level skips more than one past the current nesting is accepted but
// flagged rather than rejected, per
// the resilience default.
func (bp *BlockParser) parseSection(level int, meta ChunkMeta) *Section {
	headingLine, _ := bp.ConsumeLine()
	m := headingRe.FindStringSubmatch(headingLine.Src)
	heading := bp.ParseInline(m[2], SubsNormal())
	loc := lineLoc(headingLine)

	sec := &Section{Level: level, Heading: heading, Meta: meta, Loc: loc}

	id, explicit := sectionIDFromMeta(meta)
	if !explicit && bp.scope.Meta.IsSet("sectids") {
		id = bp.computeSectionID(heading)
	}
	if id != "" {
		sep := bp.scope.Meta.GetString("idseparator", "_")
		unique := bp.scope.Anchors.UniqueID(id, sep)
		sec.ID, sec.HasID = unique, true
		bp.scope.Anchors.Declare(unique, heading)
	}

	for {
		bp.skipBlankLines()
		if _, ok := bp.PeekLine(); !ok {
			break
		}
		innerMeta, consumedMetaLines := bp.parseChunkMetaTracking()
		line, ok := bp.PeekLine()
		if !ok {
			break
		}
		if lvl, isHeading := headingLevel(line.Src); isHeading {
			effLvl := lvl + bp.pre.lexer.stack.CurrentLeveloffset()
			if effLvl <= level {
				bp.pushbackLines(consumedMetaLines)
				break
			}
			if effLvl > level+1 {
				bp.scope.addDiag(SeverityWarning, DiagSectionOutOfSequence, "section heading skips a nesting level", lineLoc(line), nil)
			}
			sec.Sections = append(sec.Sections, bp.parseSection(effLvl, innerMeta))
			continue
		}
		blk := bp.parseBlockBody(innerMeta)
		if blk != nil {
			sec.Blocks = append(sec.Blocks, blk)
		}
	}
	return sec
}

// sectionIDFromMeta extracts an explicit id from a section's attribute
// list (`[#id]` / `[id="..."]`), if present.
func sectionIDFromMeta(meta ChunkMeta) (string, bool) {
	if meta.Attrs.ID != "" {
		return meta.Attrs.ID, true
	}
	if s, ok := meta.Attrs.Str("id"); ok && s != "" {
		return s, true
	}
	return "", false
}

// computeSectionID implements the id-slugging algorithm: strip HTML-like
// tags (looping, since unescaping an entity can expose new tag
// delimiters), lowercase, collapse runs of non
// [A-Za-z0-9_] characters to idseparator, trim leading/trailing
// separators, and prepend idprefix when it is non-empty and the result
// does not already start with it.
func (bp *BlockParser) computeSectionID(heading InlineNodes) string {
	text := heading.PlainText()
	for {
		stripped := stripHTMLTags(text)
		unescaped := html.UnescapeString(stripped)
		if unescaped == text {
			text = stripped
			break
		}
		text = unescaped
	}
	lower := strings.ToLower(text)
	sep := bp.scope.Meta.GetString("idseparator", "_")
	var b strings.Builder
	lastWasSep := true
	for _, r := range lower {
		if isIDChar(r) {
			b.WriteRune(r)
			lastWasSep = false
		} else if !lastWasSep {
			b.WriteString(sep)
			lastWasSep = true
		}
	}
	id := strings.TrimSuffix(b.String(), sep)
	prefix := bp.scope.Meta.GetString("idprefix", "_")
	if prefix != "" && !strings.HasPrefix(id, prefix) {
		id = prefix + id
	}
	return id
}

func isIDChar(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z')
}

// stripHTMLTags removes anything that looks like an HTML/XML tag from s,
// using an html.Tokenizer over a synthetic document so malformed fragments
// (a bare '<' with no matching '>') degrade to passing the text through.
func stripHTMLTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			// dropped
		}
	}
}
