package adoc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// reservedPunct is the set of bytes the lexer treats as its own tokens
// rather than folding into a Word run.
var reservedPunct = [256]bool{}

func init() {
	for _, b := range []byte(":;,.!`+*^~_=-<>[](){}'\"#%&\\ \t") {
		reservedPunct[b] = true
	}
}

var uriSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "irc": true, "mailto": true}

// Lexer tokenizes one line of source at a time from the top of a
// SourceStack, producing Token values with exact SourceLocations.
type Lexer struct {
	stack *SourceStack
	// passthroughs is the side table synthesized passthrough placeholders
	// index into.
	passthroughs *passthroughTable
}

// NewLexer wraps a SourceStack.
func NewLexer(stack *SourceStack) *Lexer {
	return &Lexer{stack: stack, passthroughs: newPassthroughTable()}
}

func (lx *Lexer) IsEOF() bool { return lx.stack.AtEOF() }

// ConsumeLine reads and tokenizes the next line from the topmost frame.
func (lx *Lexer) ConsumeLine() (*Line, bool) {
	raw, lineStart, frameID, depth, ok := lx.stack.NextLine()
	if !ok {
		return nil, false
	}
	toks := lexLine(raw, lineStart, frameID, depth)
	return &Line{Tokens: toks, Src: raw, FrameID: frameID, IncludeDepth: depth}, true
}

// AtDelimiterLine reports whether line is a block delimiter line, and if
// so its run byte and run length. Delimiter bytes: = - _ . * / --
// (open blocks use exactly "--") and ++++ (passthrough).
func AtDelimiterLine(line string) (byte, int, bool) {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "--" {
		return '-', 2, true
	}
	if len(trimmed) < 2 {
		return 0, 0, false
	}
	b := trimmed[0]
	switch b {
	case '=', '-', '_', '.', '*', '+':
	case '/':
		if !strings.HasPrefix(trimmed, "////") {
			return 0, 0, false
		}
	default:
		return 0, 0, false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != b {
			return 0, 0, false
		}
	}
	if b == '+' && len(trimmed) != 4 {
		return 0, 0, false
	}
	return b, len(trimmed), true
}

// lexLine is the single-pass byte state machine that classifies one raw
// line into a token sequence. lineStart is the line's starting byte offset
// within its frame's buffer, added into every emitted SourceLocation so
// locations index into the real source rather than being line-relative.
func lexLine(line string, lineStart, frameID, depth int) []Token {
	var toks []Token
	i := 0
	n := len(line)
	loc := func(start, end int) SourceLocation {
		return SourceLocation{Start: lineStart + start, End: lineStart + end, IncludeDepth: depth, FrameID: frameID}
	}
	for i < n {
		c := line[i]
		switch {
		case c == '/' && i+1 < n && line[i+1] == '/' && i == 0:
			toks = append(toks, Token{Kind: CommentLine, Lexeme: line[i:], Loc: loc(i, n)})
			i = n
		case !reservedPunct[c]:
			start := i
			for i < n && !reservedPunct[line[i]] {
				i++
			}
			toks = append(toks, maybeMacroOrURIOrWord(line, start, i, lineStart, frameID, depth))
		case isDigitByte(c):
			start := i
			for i < n && isDigitByte(line[i]) {
				i++
			}
			toks = append(toks, Token{Kind: Digits, Lexeme: line[start:i], Loc: loc(start, i)})
		default:
			start := i
			kind := puncKind(c)
			if runsCoalesce(kind) {
				for i < n && line[i] == c {
					i++
				}
			} else {
				i++
			}
			toks = append(toks, Token{Kind: kind, Lexeme: line[start:i], Loc: loc(start, i)})
		}
	}
	return toks
}

// maybeMacroOrURIOrWord reclassifies a Word-candidate run as MacroName or
// UriScheme when the following bytes make that plausible. lineStart is
// added into the emitted location, as in lexLine.
func maybeMacroOrURIOrWord(line string, start, end, lineStart, frameID, depth int) Token {
	word := line[start:end]
	loc := SourceLocation{Start: lineStart + start, End: lineStart + end, IncludeDepth: depth, FrameID: frameID}
	if end < len(line) && line[end] == ':' {
		colons := 1
		j := end + 1
		if j < len(line) && line[j] == ':' {
			colons = 2
			j++
		}
		hasTarget := j < len(line) && line[j] != ' ' && line[j] != '\t'
		hasBracket := j < len(line) && line[j] == '['
		if uriSchemes[word] && colons == 1 {
			return Token{Kind: UriScheme, Lexeme: word, Loc: loc}
		}
		if hasTarget || hasBracket {
			full := line[start : end+colons]
			return Token{Kind: MacroName, Lexeme: full, Loc: SourceLocation{Start: lineStart + start, End: lineStart + end + colons, IncludeDepth: depth, FrameID: frameID}}
		}
	}
	return Token{Kind: Word, Lexeme: word, Loc: loc}
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func runsCoalesce(k TokenKind) bool {
	switch k {
	case EqualSigns, Dashes, Whitespace:
		return true
	default:
		return false
	}
}

func puncKind(c byte) TokenKind {
	switch c {
	case ':':
		return Colon
	case ';':
		return SemiColon
	case ',':
		return Comma
	case '.':
		return Dot
	case '!':
		return Bang
	case '`':
		return Backtick
	case '+':
		return Plus
	case '*':
		return Star
	case '^':
		return Caret
	case '~':
		return Tilde
	case '_':
		return Underscore
	case '=':
		return EqualSigns
	case '-':
		return Dashes
	case '<':
		return LessThan
	case '>':
		return GreaterThan
	case '[':
		return OpenBracket
	case ']':
		return CloseBracket
	case '(':
		return OpenParens
	case ')':
		return CloseParens
	case '{':
		return OpenBrace
	case '}':
		return CloseBrace
	case '\'':
		return SingleQuote
	case '"':
		return DoubleQuote
	case '#':
		return Hash
	case '%':
		return Percent
	case '&':
		return Ampersand
	case '\\':
		return Backslash
	case ' ', '\t':
		return Whitespace
	default:
		return Word
	}
}

// Line is an ordered token sequence from one input line, plus the
// assembled source string for fast re-scanning.
type Line struct {
	Tokens       []Token
	Src          string
	FrameID      int
	IncludeDepth int
	cursor       int
}

// Peek returns the token n positions ahead of the cursor, or a synthetic
// EOF token if out of range.
func (l *Line) Peek(n int) Token {
	i := l.cursor + n
	if i < 0 || i >= len(l.Tokens) {
		return Token{Kind: EOF}
	}
	return l.Tokens[i]
}

// Current returns the token at the cursor.
func (l *Line) Current() Token { return l.Peek(0) }

// Consume advances the cursor by one and returns the consumed token.
func (l *Line) Consume() Token {
	t := l.Current()
	l.cursor++
	return t
}

// AtEnd reports whether the cursor has reached the end of the token list.
func (l *Line) AtEnd() bool { return l.cursor >= len(l.Tokens) }

// IsBlank reports whether the line is empty or all-whitespace.
func (l *Line) IsBlank() bool { return strings.TrimSpace(l.Src) == "" }

// StartsWithSequence reports whether the upcoming tokens (from the
// cursor) match kinds in order.
func (l *Line) StartsWithSequence(kinds ...TokenKind) bool {
	for i, k := range kinds {
		if l.Peek(i).Kind != k {
			return false
		}
	}
	return true
}

// ContiguousLines is a FIFO of lines representing one logical block: no
// blank line separates them.
type ContiguousLines struct {
	lines []*Line
}

func NewContiguousLines() *ContiguousLines { return &ContiguousLines{} }

func (c *ContiguousLines) Push(l *Line) { c.lines = append(c.lines, l) }

func (c *ContiguousLines) Len() int { return len(c.lines) }

func (c *ContiguousLines) Lines() []*Line { return c.lines }

// JoinSrc returns every line's raw source joined with '\n'.
func (c *ContiguousLines) JoinSrc() string {
	parts := make([]string, len(c.lines))
	for i, l := range c.lines {
		parts[i] = l.Src
	}
	return strings.Join(parts, "\n")
}

// Loc returns the span covering every line in c, using the first and last
// line's token locations (empty lines fall back to a zero-length span at
// their own frame).
func (c *ContiguousLines) Loc() SourceLocation {
	if len(c.lines) == 0 {
		return SourceLocation{}
	}
	first, last := c.lines[0], c.lines[len(c.lines)-1]
	start := 0
	if len(first.Tokens) > 0 {
		start = first.Tokens[0].Loc.Start
	}
	end := start
	if len(last.Tokens) > 0 {
		end = last.Tokens[len(last.Tokens)-1].Loc.End
	} else {
		end = len(last.Src)
	}
	return SourceLocation{Start: start, End: end, IncludeDepth: first.IncludeDepth, FrameID: first.FrameID}
}

// leadingIndent returns the count of leading space/tab bytes in s.
func leadingIndent(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// runeAt safely decodes the rune starting at byte offset i.
func runeAt(s string, i int) rune {
	if i < 0 || i >= len(s) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}

func isSpaceRune(r rune) bool { return unicode.IsSpace(r) }
