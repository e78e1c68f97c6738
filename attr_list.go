package adoc

import "strings"

type attrKind int

const (
	akPositional attrKind = iota
	akNamed
	akRole
	akID
	akOption
)

type quoteState int

const (
	qDefault quoteState = iota
	qDouble
	qSingle
)

// parseAttrList parses the content between `[` and `]` into an AttrList: a
// single-pass state machine doing positional/named/role/id/option
// classification driven by `.`/`#`/`%`/`=`/`,` delimiters, with single- and
// double-quote spans that suspend delimiter recognition, and a backslash
// escape for the next rune.
func (bp *BlockParser) parseAttrList(content string, loc SourceLocation) *AttrList {
	al := NewAttrList(loc)
	if strings.TrimSpace(content) == "" {
		return al
	}
	var attr, name strings.Builder
	kind := akPositional
	quotes := qDefault
	escaping := false

	commit := func() {
		if attr.Len() == 0 && kind != akID {
			return
		}
		val := attr.String()
		switch kind {
		case akPositional:
			nodes := bp.ParseInlineReduced(val, SubsAttrValue())
			al.Positional = append(al.Positional, &nodes)
		case akNamed:
			key := name.String()
			al.Named[key] = bp.ParseInlineReduced(val, SubsAttrValue())
			switch key {
			case "id":
				if val != "" {
					al.ID = val
				}
			case "role":
				al.Roles = append(al.Roles, strings.Fields(val)...)
			case "opts", "options":
				for _, o := range strings.Split(val, ",") {
					if o = strings.TrimSpace(o); o != "" {
						al.Options = append(al.Options, o)
					}
				}
			}
			name.Reset()
		case akRole:
			if val != "" {
				al.Roles = append(al.Roles, val)
			}
		case akID:
			if al.ID == "" && val != "" {
				al.ID = val
			}
		case akOption:
			if val != "" {
				al.Options = append(al.Options, val)
			}
		}
		attr.Reset()
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if escaping {
			attr.WriteRune(c)
			escaping = false
			continue
		}
		switch {
		case c == '\\' && quotes == qDefault:
			escaping = true
		case c == '.' && quotes == qDefault:
			commit()
			kind = akRole
		case c == '#' && quotes == qDefault:
			commit()
			kind = akID
		case c == '%' && quotes == qDefault:
			commit()
			kind = akOption
		case c == '\'' && quotes == qDefault:
			quotes = qSingle
		case c == '\'' && quotes == qSingle:
			quotes = qDefault
		case c == '"' && quotes == qDefault:
			quotes = qDouble
		case c == '"' && quotes == qDouble:
			quotes = qDefault
		case c == ',' && quotes == qDefault:
			commit()
			kind = akPositional
		case c == '=' && quotes == qDefault:
			name.Reset()
			name.WriteString(attr.String())
			attr.Reset()
			kind = akNamed
		case (c == ' ' || c == '\t') && quotes == qDefault && attr.Len() == 0:
			// leading whitespace in a slot: ignored
		default:
			attr.WriteRune(c)
		}
	}
	commit()
	return al
}
