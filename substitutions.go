package adoc

import "strings"

// SubStep is one pass kind of the substitution pipeline.
type SubStep int

const (
	SubSpecialChars SubStep = iota
	SubInlineFormatting
	SubAttrRefs
	SubCharReplacement
	SubMacros
	SubPostReplacement
	SubCallouts
	subStepCount
)

func (s SubStep) name() string {
	switch s {
	case SubSpecialChars:
		return "specialchars"
	case SubInlineFormatting:
		return "quotes"
	case SubAttrRefs:
		return "attributes"
	case SubCharReplacement:
		return "replacements"
	case SubMacros:
		return "macros"
	case SubPostReplacement:
		return "post_replacements"
	case SubCallouts:
		return "callouts"
	default:
		return ""
	}
}

func subStepByName(name string) (SubStep, bool) {
	for s := SubStep(0); s < subStepCount; s++ {
		if s.name() == name {
			return s, true
		}
	}
	return 0, false
}

// Substitutions is an ordered list of pass kinds with an O(1)-membership
// bitset rather than a struct of booleans. append/prepend/remove/replace
// all preserve the stable relative order of the untouched elements.
type Substitutions struct {
	order []SubStep
	bits  uint32
}

func newSubs(steps ...SubStep) Substitutions {
	s := Substitutions{}
	for _, step := range steps {
		s.order = append(s.order, step)
		s.bits |= 1 << uint(step)
	}
	return s
}

// SubsNormal, SubsVerbatim, SubsAttrValue, SubsNone, SubsAll are the
// predefined substitution groups.
func SubsNormal() Substitutions {
	return newSubs(SubSpecialChars, SubInlineFormatting, SubAttrRefs, SubCharReplacement, SubMacros, SubPostReplacement)
}
func SubsVerbatim() Substitutions { return newSubs(SubSpecialChars, SubCallouts) }
func SubsAttrValue() Substitutions {
	return newSubs(SubSpecialChars, SubInlineFormatting, SubCharReplacement)
}
func SubsNone() Substitutions { return Substitutions{} }
func SubsAll() Substitutions {
	return newSubs(SubSpecialChars, SubInlineFormatting, SubAttrRefs, SubCharReplacement, SubMacros, SubPostReplacement, SubCallouts)
}
func SubsOnlySpecialChars() Substitutions { return newSubs(SubSpecialChars) }

func subGroupByName(name string) (Substitutions, bool) {
	switch name {
	case "none":
		return SubsNone(), true
	case "normal":
		return SubsNormal(), true
	case "verbatim":
		return SubsVerbatim(), true
	case "all":
		return SubsAll(), true
	}
	return Substitutions{}, false
}

// Has reports O(1) membership.
func (s Substitutions) Has(step SubStep) bool { return s.bits&(1<<uint(step)) != 0 }

// Order returns the ordered step list.
func (s Substitutions) Order() []SubStep { return s.order }

// Append returns a copy of s with step placed at the tail; a step that is
// already present is moved there, so the result contains every element of
// s once, with step last.
func (s Substitutions) Append(step SubStep) Substitutions {
	if s.Has(step) {
		filtered := make([]SubStep, 0, len(s.order))
		for _, e := range s.order {
			if e != step {
				filtered = append(filtered, e)
			}
		}
		s.order = filtered
	}
	s.order = append(append([]SubStep{}, s.order...), step)
	s.bits |= 1 << uint(step)
	return s
}

// Prepend returns a copy of s with step placed at the head.
func (s Substitutions) Prepend(step SubStep) Substitutions {
	filtered := make([]SubStep, 0, len(s.order)+1)
	filtered = append(filtered, step)
	for _, e := range s.order {
		if e != step {
			filtered = append(filtered, e)
		}
	}
	s.order = filtered
	s.bits |= 1 << uint(step)
	return s
}

// Remove returns a copy of s without step, preserving the relative order
// of the remaining elements.
func (s Substitutions) Remove(step SubStep) Substitutions {
	filtered := make([]SubStep, 0, len(s.order))
	for _, e := range s.order {
		if e != step {
			filtered = append(filtered, e)
		}
	}
	s.order = filtered
	s.bits &^= 1 << uint(step)
	return s
}

// defaultSubsFor returns a block context's default Substitutions before any
// subs= customization is applied.
func defaultSubsFor(ctx BlockContext) Substitutions {
	switch ctx {
	case CtxListing, CtxLiteral:
		return SubsVerbatim()
	case CtxPassthrough:
		return SubsNone()
	default:
		return SubsNormal()
	}
}

// ApplySubsAttr parses a block's `subs=` attribute value and applies it to
// base following an append/prepend/remove/replace grammar: `macros+`
// appends, `+macros` prepends, `-macros` removes, and a bare group name
// (none/normal/verbatim/all) replaces outright. Comma-separated items
// apply left to right.
func ApplySubsAttr(base Substitutions, value string) Substitutions {
	result := base
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		switch {
		case strings.HasSuffix(item, "+"):
			if step, ok := subStepByName(strings.TrimSuffix(item, "+")); ok {
				result = result.Append(step)
			}
		case strings.HasPrefix(item, "+"):
			if step, ok := subStepByName(strings.TrimPrefix(item, "+")); ok {
				result = result.Prepend(step)
			}
		case strings.HasPrefix(item, "-"):
			if step, ok := subStepByName(strings.TrimPrefix(item, "-")); ok {
				result = result.Remove(step)
			}
		default:
			if group, ok := subGroupByName(item); ok {
				result = group
			} else if step, ok := subStepByName(item); ok {
				result = newSubs(step)
			}
		}
	}
	return result
}

// FromPassMacroTarget maps a `pass:[...]`-macro target string to the
// Substitutions it selects: "" -> none, "n" (or any mix of
// c,q,a,r,m,p,specialchars recognized letters) composes steps, but the
// single documented case is "n" -> normal.
func FromPassMacroTarget(target string) Substitutions {
	if target == "" {
		return SubsNone()
	}
	if target == "n" {
		return SubsNormal()
	}
	result := SubsNone()
	for _, c := range target {
		switch c {
		case 'c':
			result = result.Append(SubSpecialChars)
		case 'q':
			result = result.Append(SubInlineFormatting)
		case 'a':
			result = result.Append(SubAttrRefs)
		case 'r':
			result = result.Append(SubCharReplacement)
		case 'm':
			result = result.Append(SubMacros)
		case 'p':
			result = result.Append(SubPostReplacement)
		}
	}
	return result
}
