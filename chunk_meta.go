package adoc

import (
	"regexp"
	"strings"
)

var (
	titleLineRe = regexp.MustCompile(`^\.(\S.*)$`)
	attrListRe  = regexp.MustCompile(`^\[(.*)\]\s*$`)
)

// parseChunkMeta consumes any sequence of `.Title` lines and `[attrs]`
// lines preceding a block. Multiple attribute lists merge,
// later wins per key.
func (bp *BlockParser) parseChunkMeta() ChunkMeta {
	meta, _ := bp.parseChunkMetaTracking()
	return meta
}

// parseChunkMetaTracking is parseChunkMeta plus the raw lines it consumed,
// so a caller that discovers the meta doesn't actually belong to the
// construct it expected (e.g. a nested-section loop that peeked meta lines
// only to find the following heading belongs to an outer level) can push
// them back via PushbackLine in reverse order.
func (bp *BlockParser) parseChunkMetaTracking() (ChunkMeta, []*Line) {
	meta := ChunkMeta{Attrs: NewAttrList(SourceLocation{})}
	var firstLoc *SourceLocation
	var consumed []*Line
	for {
		line, ok := bp.PeekLine()
		if !ok || line.IsBlank() {
			break
		}
		if m := titleLineRe.FindStringSubmatch(line.Src); m != nil && !strings.HasPrefix(line.Src, "..") {
			bp.ConsumeLine()
			consumed = append(consumed, line)
			meta.Title = bp.ParseInlineReduced(m[1], SubsAttrValue())
			meta.HasTitle = true
			loc := line.Tokens[0].Loc
			if firstLoc == nil {
				firstLoc = &loc
			}
			continue
		}
		if m := attrListRe.FindStringSubmatch(line.Src); m != nil {
			bp.ConsumeLine()
			consumed = append(consumed, line)
			parsed := bp.parseAttrList(m[1], lineLoc(line))
			mergeAttrList(meta.Attrs, parsed)
			if firstLoc == nil {
				loc := lineLoc(line)
				firstLoc = &loc
			}
			continue
		}
		break
	}
	if firstLoc != nil {
		meta.Loc = *firstLoc
	}
	return meta, consumed
}

func lineLoc(l *Line) SourceLocation {
	if len(l.Tokens) == 0 {
		return SourceLocation{FrameID: l.FrameID, IncludeDepth: l.IncludeDepth}
	}
	return SourceLocation{
		Start: l.Tokens[0].Loc.Start, End: l.Tokens[len(l.Tokens)-1].Loc.End,
		FrameID: l.FrameID, IncludeDepth: l.IncludeDepth,
	}
}

func mergeAttrList(into, from *AttrList) {
	if from.ID != "" {
		into.ID = from.ID
	}
	into.Roles = append(into.Roles, from.Roles...)
	into.Options = append(into.Options, from.Options...)
	if len(from.Positional) > 0 {
		into.Positional = from.Positional
	}
	for k, v := range from.Named {
		into.Named[k] = v
	}
	into.Loc = from.Loc
}
