package adoc

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	includeDirectiveRe = regexp.MustCompile(`^include::(\S+)\[(.*)\]\s*$`)
	ifdefDirectiveRe   = regexp.MustCompile(`^if(n?def)::([^\[]+)\[(.*)\]\s*$`)
	ifevalDirectiveRe  = regexp.MustCompile(`^ifeval::\[(.*)\]\s*$`)
	endifDirectiveRe   = regexp.MustCompile(`^endif::([^\[]*)\[(.*)\]\s*$`)
	attrRefRe          = regexp.MustCompile(`\{([A-Za-z0-9_][A-Za-z0-9_\-]*)\}`)
)

// ifdefFrame is one entry of the preprocessor's ifdef/ifndef/ifeval stack.
type ifdefFrame struct {
	kind   string // "ifdef" | "ifndef" | "ifeval"
	target string
	active bool // whether the branch is currently being emitted
}

// Preprocessor sits between the Lexer and the block parser. It
// consumes raw lines from the lexer's SourceStack, dispatches directives,
// performs attribute-reference substitution, and hands finished Lines to
// the block parser.
type Preprocessor struct {
	lexer      *Lexer
	scope      *ParseScope
	ifdefStack []ifdefFrame
	safeMode   SafeMode
	docDir     string
}

func NewPreprocessor(lexer *Lexer, scope *ParseScope, safeMode SafeMode, docDir string) *Preprocessor {
	return &Preprocessor{lexer: lexer, scope: scope, safeMode: safeMode, docDir: docDir}
}

// NextLine returns the next fully preprocessed Line ready for the block
// parser, or false at EOF. It loops internally over directive lines,
// skipped branches, and included frames.
func (p *Preprocessor) NextLine() (*Line, bool) {
	for {
		raw, lineStart, frameID, depth, ok := p.lexer.stack.NextLine()
		if !ok {
			return nil, false
		}
		if p.skippingBlock() {
			p.maybeHandleDirective(raw) // still track nested if/endif frames
			continue                    // inside an inactive branch: discard
		}
		if handled, emit := p.maybeHandleDirective(raw); handled {
			if emit == nil {
				continue
			}
			toks := lexLine(*emit, lineStart, frameID, depth)
			return &Line{Tokens: toks, Src: *emit, FrameID: frameID, IncludeDepth: depth}, true
		}
		substituted := p.substituteAttrRefs(raw)
		if substituted == nil {
			continue // attribute-missing=drop-line dropped this line
		}
		toks := lexLine(*substituted, lineStart, frameID, depth)
		return &Line{Tokens: toks, Src: *substituted, FrameID: frameID, IncludeDepth: depth}, true
	}
}

// skippingBlock reports whether any open ifdef frame is inactive, meaning
// content should be discarded until the matching endif.
func (p *Preprocessor) skippingBlock() bool {
	for i := len(p.ifdefStack) - 1; i >= 0; i-- {
		if !p.ifdefStack[i].active {
			return true
		}
	}
	return false
}

// maybeHandleDirective recognizes and fully processes a directive line.
// handled reports whether raw was a directive at all; emit, only ever
// non-nil for the inline-body ifdef/ifndef form, is the substituted text
// the caller should treat as this line's content instead of raw.
func (p *Preprocessor) maybeHandleDirective(raw string) (handled bool, emit *string) {
	trimmed := raw
	switch {
	case strings.HasPrefix(trimmed, "include::"):
		if m := includeDirectiveRe.FindStringSubmatch(trimmed); m != nil {
			p.handleInclude(m[1], m[2])
			return true, nil
		}
	case strings.HasPrefix(trimmed, "ifdef::"), strings.HasPrefix(trimmed, "ifndef::"):
		if m := ifdefDirectiveRe.FindStringSubmatch(trimmed); m != nil {
			return true, p.handleIfdef(m[1] == "ndef", m[2], m[3])
		}
	case strings.HasPrefix(trimmed, "ifeval::"):
		if m := ifevalDirectiveRe.FindStringSubmatch(trimmed); m != nil {
			p.handleIfeval(m[1])
			return true, nil
		}
	case strings.HasPrefix(trimmed, "endif::"):
		if m := endifDirectiveRe.FindStringSubmatch(trimmed); m != nil {
			p.handleEndif(m[1])
			return true, nil
		}
	}
	return false, nil
}

// evalNames splits a comma-separated (OR) or plus-separated (AND) ifdef
// target list into names and reports which combinator applies.
func evalNames(target string) (names []string, isAnd bool) {
	if strings.Contains(target, "+") {
		for _, n := range strings.Split(target, "+") {
			names = append(names, strings.TrimSpace(n))
		}
		return names, true
	}
	for _, n := range strings.Split(target, ",") {
		names = append(names, strings.TrimSpace(n))
	}
	return names, false
}

func (p *Preprocessor) namesSatisfied(names []string, isAnd bool) bool {
	check := func(n string) bool { return p.scope.Meta.IsSet(n) }
	if isAnd {
		for _, n := range names {
			if !check(n) {
				return false
			}
		}
		return true
	}
	for _, n := range names {
		if check(n) {
			return true
		}
	}
	return false
}

// handleIfdef processes one ifdef::/ifndef:: directive. With an inline
// body ([text]), it never touches ifdefStack and instead returns the
// substituted body to emit as this line's content when the condition
// holds, or nil to drop the line entirely. With an empty body (the block
// form), it pushes an ifdefStack frame that skippingBlock consults until
// the matching endif, and always returns nil.
func (p *Preprocessor) handleIfdef(isNot bool, target, body string) *string {
	names, isAnd := evalNames(target)
	satisfied := p.namesSatisfied(names, isAnd)
	if isNot {
		satisfied = !satisfied
	}
	if strings.TrimSpace(body) != "" {
		if !satisfied {
			return nil
		}
		return p.substituteAttrRefs(body)
	}
	kind := "ifdef"
	if isNot {
		kind = "ifndef"
	}
	p.ifdefStack = append(p.ifdefStack, ifdefFrame{kind: kind, target: target, active: satisfied})
	return nil
}

func (p *Preprocessor) handleIfeval(expr string) {
	result, ok := evalIfeval(expr, p.scope.Meta)
	if !ok {
		p.scope.addDiag(SeverityWarning, DiagInvalidAttributeValue, "could not evaluate ifeval expression", SourceLocation{}, nil)
		result = false
	}
	p.ifdefStack = append(p.ifdefStack, ifdefFrame{kind: "ifeval", target: expr, active: result})
}

func (p *Preprocessor) handleEndif(target string) {
	if len(p.ifdefStack) == 0 {
		p.scope.addDiag(SeverityWarning, DiagMismatchedEndif, "endif without matching if-directive", SourceLocation{}, nil)
		return
	}
	top := p.ifdefStack[len(p.ifdefStack)-1]
	if target != "" && strings.TrimSpace(target) != strings.TrimSpace(top.target) {
		p.scope.addDiag(SeverityWarning, DiagMismatchedIfdef, "endif target does not match open directive", SourceLocation{}, nil)
	}
	p.ifdefStack = p.ifdefStack[:len(p.ifdefStack)-1]
}

// --- ifeval ---

type ifevalValue struct {
	isNil  bool
	isBool bool
	bval   bool
	isInt  bool
	ival   int64
	isFlt  bool
	fval   float64
	sval   string
}

func coerceIfevalSide(raw string) ifevalValue {
	if raw == "" {
		return ifevalValue{isNil: true}
	}
	if strings.TrimSpace(raw) == "" {
		return ifevalValue{sval: " "}
	}
	quoted := len(raw) >= 2 && (raw[0] == '"' && raw[len(raw)-1] == '"' || raw[0] == '\'' && raw[len(raw)-1] == '\'')
	if quoted {
		return ifevalValue{sval: raw[1 : len(raw)-1]}
	}
	switch raw {
	case "true":
		return ifevalValue{isBool: true, bval: true}
	case "false":
		return ifevalValue{isBool: true, bval: false}
	}
	if iv, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ifevalValue{isInt: true, ival: iv}
	}
	if fv, err := strconv.ParseFloat(raw, 64); err == nil {
		return ifevalValue{isFlt: true, fval: fv}
	}
	return ifevalValue{isInt: true, ival: 0}
}

var ifevalExprRe = regexp.MustCompile(`^\s*(.*?)\s*(==|!=|<=|>=|<|>)\s*(.*?)\s*$`)

// evalIfeval evaluates `<lhs> <op> <rhs>`, coercing both sides to a common
// type before comparing (a string "3" and a number 3 compare unequal; two
// nil operands compare equal).
func evalIfeval(expr string, meta *DocumentMeta) (bool, bool) {
	m := ifevalExprRe.FindStringSubmatch(expr)
	if m == nil {
		return false, false
	}
	lhsRaw, op, rhsRaw := substituteAttrRefsPlain(m[1], meta), m[2], substituteAttrRefsPlain(m[3], meta)
	lhs, rhs := coerceIfevalSide(strings.TrimSpace(lhsRaw)), coerceIfevalSide(strings.TrimSpace(rhsRaw))
	eq := ifevalEquals(lhs, rhs)
	switch op {
	case "==":
		return eq, true
	case "!=":
		return !eq, true
	}
	// Ordering ops require same-kind comparison: "  " < "a" follows
	// byte-wise string order; numeric types compare numerically.
	switch {
	case lhs.isInt && rhs.isInt:
		return compareOrd(op, cmpInt(lhs.ival, rhs.ival)), true
	case (lhs.isInt || lhs.isFlt) && (rhs.isInt || rhs.isFlt):
		return compareOrd(op, cmpFloat(toFloat(lhs), toFloat(rhs))), true
	default:
		return compareOrd(op, strings.Compare(lhs.sval, rhs.sval)), true
	}
}

func toFloat(v ifevalValue) float64 {
	if v.isFlt {
		return v.fval
	}
	return float64(v.ival)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrd(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

// ifevalEquals treats "3" == 3 as false (type mismatch); nil == nil
// holds; nil != anything-else holds.
func ifevalEquals(a, b ifevalValue) bool {
	if a.isNil || b.isNil {
		return a.isNil && b.isNil
	}
	if a.isBool || b.isBool {
		return a.isBool && b.isBool && a.bval == b.bval
	}
	if (a.isInt || a.isFlt) != (b.isInt || b.isFlt) {
		return false // numeric vs string mismatch
	}
	if a.isInt && b.isInt {
		return a.ival == b.ival
	}
	if a.isInt || a.isFlt {
		return toFloat(a) == toFloat(b)
	}
	return a.sval == b.sval
}

// --- attribute-reference substitution ---

// substituteAttrRefsPlain substitutes {name} references in raw using the
// skip policy (used inside ifeval expressions, where drop-line makes no
// sense).
func substituteAttrRefsPlain(raw string, meta *DocumentMeta) string {
	return attrRefRe.ReplaceAllStringFunc(raw, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := meta.Get(name); ok && v.IsSet() {
			if s, isStr := v.Str(); isStr {
				return s
			}
			return ""
		}
		return m
	})
}

// substituteAttrRefs applies the document's attribute-missing policy
//: skip leaves the reference, drop-line drops the line
// (signaled by a nil return), warn emits a diagnostic and substitutes
// empty.
func (p *Preprocessor) substituteAttrRefs(raw string) *string {
	policy := p.scope.Meta.AttributeMissingPolicy()
	dropped := false
	result := attrRefRe.ReplaceAllStringFunc(raw, func(m string) string {
		if dropped {
			return m
		}
		name := m[1 : len(m)-1]
		v, ok := p.scope.Meta.Get(name)
		if ok && v.IsSet() {
			if s, isStr := v.Str(); isStr {
				return s
			}
			return ""
		}
		switch policy {
		case "drop-line":
			dropped = true
			return m
		case "warn":
			p.scope.addDiag(SeverityWarning, DiagUnresolvedAttributeRef, "attribute "+name+" is not set", SourceLocation{}, nil)
			return ""
		default: // "skip"
			return m
		}
	})
	if dropped {
		return nil
	}
	return &result
}

// --- include handling ---

func (p *Preprocessor) handleInclude(rawTarget, attrsRaw string) {
	substituted := p.substituteAttrRefs(rawTarget)
	if substituted == nil {
		return
	}
	tgt := *substituted
	itarget, isURI := classifyIncludeTarget(tgt, p.docDir)

	if p.safeMode >= SafeModeSecure {
		p.emitLinkFallback(tgt)
		return
	}
	if isURI && p.safeMode > SafeModeServer {
		p.scope.addDiag(SeverityWarning, DiagUnsafeOperationRejected, "URI include rejected by safe mode", SourceLocation{}, nil)
		return
	}
	if isURI && !p.scope.Meta.IsSet("allow-uri-read") {
		p.scope.addDiag(SeverityWarning, DiagUnsafeOperationRejected, "URI include requires allow-uri-read", SourceLocation{}, nil)
		return
	}
	if p.lexer.stack.AtMaxDepth() {
		p.scope.addDiag(SeverityError, DiagMaxIncludeDepthExceeded, "max include depth exceeded", SourceLocation{}, nil)
		return
	}

	attrs := parseIncludeAttrs(attrsRaw)
	content, rerr := p.scope.Resolver.Resolve(itarget)
	if rerr != nil {
		if rerr.Kind == ResolveNotFound && attrs.optional {
			return
		}
		placeholder := "+++Unresolved directive in " + p.lexer.stack.CurrentName() + " - " + tgt + "+++"
		p.pushSynthetic(placeholder)
		return
	}

	content = normalizeIncludeBytes(content, tgt)
	content = applyLinesSelection(content, attrs.lines)
	content = applyTagsSelection(content, attrs.tags)
	if attrs.hasIndent {
		content = applyIndentNormalization(content, attrs.indent)
	}

	leveloffset := p.lexer.stack.CurrentLeveloffset() + attrs.leveloffset
	relMax := attrs.depth
	p.lexer.stack.Push(content, tgt, leveloffset, relMax)
}

func (p *Preprocessor) emitLinkFallback(target string) {
	p.pushSynthetic("link:" + target + "[]")
}

func (p *Preprocessor) pushSynthetic(line string) {
	p.lexer.stack.Push([]byte(line), p.lexer.stack.CurrentName()+" (synthetic)", p.lexer.stack.CurrentLeveloffset(), -1)
}

func classifyIncludeTarget(target, docDir string) (IncludeTarget, bool) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return IncludeTarget{Kind: TargetURI, URI: target}, true
	}
	abs := target
	if !filepath.IsAbs(target) && docDir != "" {
		abs = filepath.Join(docDir, target)
	}
	return IncludeTarget{Kind: TargetPath, Path: abs}, false
}

type includeAttrs struct {
	lines       string
	tags        string
	indent      int
	hasIndent   bool
	leveloffset int
	depth       int
	optional    bool
}

func parseIncludeAttrs(raw string) includeAttrs {
	a := includeAttrs{depth: -1}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			if part == "optional" {
				a.optional = true
			}
			continue
		}
		key, val := kv[0], strings.Trim(kv[1], `"`)
		switch key {
		case "lines":
			a.lines = val
		case "tag", "tags":
			a.tags = val
		case "indent":
			if n, err := strconv.Atoi(val); err == nil {
				a.indent, a.hasIndent = n, true
			}
		case "leveloffset":
			a.leveloffset = parseLeveloffset(val)
		case "depth":
			if n, err := strconv.Atoi(val); err == nil {
				a.depth = n
			}
		case "opts", "options":
			if val == "optional" {
				a.optional = true
			}
		}
	}
	return a
}

// parseLeveloffset parses a `+N`/`-N`/`N` leveloffset value.
func parseLeveloffset(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}

// applyLinesSelection implements `lines=` range selection:
// lines outside the selected ranges are dropped entirely before parsing.
func applyLinesSelection(content []byte, spec string) []byte {
	if spec == "" {
		return content
	}
	ranges := parseLineRanges(spec)
	lines := strings.Split(string(content), "\n")
	var kept []string
	for i, l := range lines {
		if inAnyRange(i+1, ranges) {
			kept = append(kept, l)
		}
	}
	return []byte(strings.Join(kept, "\n"))
}

type lineRange struct{ start, end int }

func parseLineRanges(spec string) []lineRange {
	var ranges []lineRange
	for _, part := range strings.Split(spec, ";") {
		for _, p2 := range strings.Split(part, ",") {
			p2 = strings.TrimSpace(p2)
			if p2 == "" {
				continue
			}
			if strings.Contains(p2, "..") {
				bounds := strings.SplitN(p2, "..", 2)
				start, _ := strconv.Atoi(bounds[0])
				end := 1 << 30
				if bounds[1] != "-1" && bounds[1] != "" {
					end, _ = strconv.Atoi(bounds[1])
				}
				ranges = append(ranges, lineRange{start, end})
			} else {
				n, _ := strconv.Atoi(p2)
				ranges = append(ranges, lineRange{n, n})
			}
		}
	}
	return ranges
}

func inAnyRange(n int, ranges []lineRange) bool {
	for _, r := range ranges {
		if n >= r.start && n <= r.end {
			return true
		}
	}
	return false
}

// applyTagsSelection implements tag-based inclusion (`tag::name[]` /
// `end::name[]` markers in the included file select the lines between
// them; lines outside any requested tag are dropped).
func applyTagsSelection(content []byte, spec string) []byte {
	if spec == "" {
		return content
	}
	wanted := map[string]bool{}
	for _, t := range strings.Split(spec, ";") {
		t = strings.TrimSpace(t)
		if t != "" {
			wanted[t] = true
		}
	}
	lines := strings.Split(string(content), "\n")
	active := map[string]bool{}
	var out []string
	tagBeginRe := regexp.MustCompile(`^\s*//?\s*tag::(\S+)\[\]`)
	tagEndRe := regexp.MustCompile(`^\s*//?\s*end::(\S+)\[\]`)
	for _, l := range lines {
		if m := tagBeginRe.FindStringSubmatch(l); m != nil {
			active[m[1]] = true
			continue
		}
		if m := tagEndRe.FindStringSubmatch(l); m != nil {
			active[m[1]] = false
			continue
		}
		include := false
		for tag := range active {
			if active[tag] && wanted[tag] {
				include = true
			}
		}
		if include {
			out = append(out, l)
		}
	}
	return []byte(strings.Join(out, "\n"))
}

// applyIndentNormalization normalizes the minimum indentation of included
// lines to k.
func applyIndentNormalization(content []byte, k int) []byte {
	lines := strings.Split(string(content), "\n")
	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		ind := leadingIndent(l)
		if minIndent == -1 || ind < minIndent {
			minIndent = ind
		}
	}
	if minIndent <= 0 {
		minIndent = 0
	}
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		trimmed := l
		if minIndent > 0 && len(l) >= minIndent {
			trimmed = l[minIndent:]
		}
		lines[i] = strings.Repeat(" ", k) + trimmed
	}
	return []byte(strings.Join(lines, "\n"))
}
