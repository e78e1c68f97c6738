package adoc

import "strings"

// AttrValue is a sum of {String, Bool}. Bool(false) means "explicitly
// unset" (as produced by `:name!:`); Bool(true) is a truthy flag (as
// produced by a bare `:name:`); String("") is an empty-but-set string.
type AttrValue struct {
	isBool  bool
	boolVal bool
	strVal  string
}

// BoolAttr constructs a boolean AttrValue.
func BoolAttr(v bool) AttrValue { return AttrValue{isBool: true, boolVal: v} }

// StringAttr constructs a string AttrValue, including the empty string.
func StringAttr(v string) AttrValue { return AttrValue{strVal: v} }

// IsSet reports whether the value is "set" in the AsciiDoc sense: any
// String, or Bool(true). Bool(false) (an explicit unset) is not set.
func (v AttrValue) IsSet() bool {
	if v.isBool {
		return v.boolVal
	}
	return true
}

// IsBool reports whether the value is the Bool variant.
func (v AttrValue) IsBool() bool { return v.isBool }

// Bool returns the boolean payload; only meaningful when IsBool is true.
func (v AttrValue) Bool() bool { return v.boolVal }

// String returns the value rendered as a string: the string payload
// verbatim, the empty string for both bool variants.
func (v AttrValue) String() string {
	if v.isBool {
		if v.boolVal {
			return ""
		}
		return ""
	}
	return v.strVal
}

// Str returns the string payload and whether the value actually is a
// string variant (as opposed to Bool).
func (v AttrValue) Str() (string, bool) {
	if v.isBool {
		return "", false
	}
	return v.strVal, true
}

// AttrList is a parsed `[...]` attribute list attached to a block prelude
// or an inline macro.
type AttrList struct {
	// Positional holds ordered positional slots. Each slot is "take-once":
	// Take(i) nils it out on consumption so a later commit pass can detect
	// an already-consumed slot.
	Positional []*InlineNodes
	Named      map[string]InlineNodes
	Roles      []string
	Options    []string
	ID         string
	Loc        SourceLocation
}

// NewAttrList returns an empty, ready-to-populate AttrList.
func NewAttrList(loc SourceLocation) *AttrList {
	return &AttrList{Named: map[string]InlineNodes{}, Loc: loc}
}

// Take returns and clears positional slot i (0-indexed), or nil if the
// slot is out of range or already taken.
func (a *AttrList) Take(i int) *InlineNodes {
	if i < 0 || i >= len(a.Positional) {
		return nil
	}
	slot := a.Positional[i]
	a.Positional[i] = nil
	return slot
}

// Peek returns positional slot i without consuming it.
func (a *AttrList) Peek(i int) *InlineNodes {
	if i < 0 || i >= len(a.Positional) {
		return nil
	}
	return a.Positional[i]
}

// Str returns the plain-text rendering of a named attribute, if present.
func (a *AttrList) Str(name string) (string, bool) {
	nodes, ok := a.Named[name]
	if !ok {
		return "", false
	}
	return nodes.PlainText(), true
}

// HasOption reports whether name appears in the %-prefixed options list.
func (a *AttrList) HasOption(name string) bool {
	for _, o := range a.Options {
		if o == name {
			return true
		}
	}
	return false
}

// HasRole reports whether role appears in the .-prefixed roles list.
func (a *AttrList) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// splitAttrShorthand splits a first positional-slot shorthand of the form
// `style#id.role1.role2%opt1%opt2` into its style/id/roles/options parts,
// as used for block and inline attribute lists alike.
func splitAttrShorthand(s string) (style, id string, roles, options []string) {
	var cur strings.Builder
	mode := byte(0) // 0=style, '#'=id, '.'=role, '%'=option
	flush := func() {
		switch mode {
		case 0:
			style = cur.String()
		case '#':
			id = cur.String()
		case '.':
			if cur.Len() > 0 {
				roles = append(roles, cur.String())
			}
		case '%':
			if cur.Len() > 0 {
				options = append(options, cur.String())
			}
		}
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '#' || c == '.' || c == '%' {
			flush()
			mode = c
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return
}
