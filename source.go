package adoc

import (
	"strings"
	"unicode/utf16"
)

// frame is one entry of the lexer's source stack: a byte buffer with a
// cursor, a logical name, and the bookkeeping needed to translate emitted
// locations and heading levels across include boundaries.
type frame struct {
	id           int
	name         string
	buf          []byte
	cursor       int
	includeDepth int
	leveloffset  int // effective, already composed with parent
	maxDepth     int // relative depth cap from `depth=`, -1 if none
}

func (f *frame) eof() bool { return f.cursor >= len(f.buf) }

// nextLine consumes and returns the next '\n'-terminated (or EOF-terminated)
// line from f, without the trailing newline, the line's starting byte
// offset within f.buf, and whether a line was available.
func (f *frame) nextLine() (string, int, bool) {
	if f.eof() {
		return "", 0, false
	}
	start := f.cursor
	rest := f.buf[f.cursor:]
	if i := indexByte(rest, '\n'); i >= 0 {
		line := string(rest[:i])
		f.cursor += i + 1
		return line, start, true
	}
	line := string(rest)
	f.cursor = len(f.buf)
	return line, start, true
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// SourceStack is the lexer's stack of source frames. Push
// semantics: the preprocessor resolves an include and calls Push with the
// target's already-normalized bytes; the lexer's consumeLine always reads
// from the topmost frame, popping exhausted frames and restoring the
// previous cursor.
type SourceStack struct {
	frames   []*frame
	nextID   int
	maxTotal int // configured cap on total include depth (`max-include-depth`)
}

// NewSourceStack creates a stack with the root document as its sole frame.
func NewSourceStack(src []byte, name string, maxTotal int) *SourceStack {
	s := &SourceStack{maxTotal: maxTotal}
	s.frames = append(s.frames, &frame{
		id: s.nextID, name: name, buf: src, includeDepth: 0, maxDepth: -1,
	})
	s.nextID++
	return s
}

// Depth returns the current include depth (0 at the root).
func (s *SourceStack) Depth() int {
	if len(s.frames) == 0 {
		return 0
	}
	return s.top().includeDepth
}

// AtMaxDepth reports whether pushing one more frame would exceed the
// configured cap.
func (s *SourceStack) AtMaxDepth() bool {
	return s.Depth()+1 > s.maxTotal
}

func (s *SourceStack) top() *frame { return s.frames[len(s.frames)-1] }

// CurrentName returns the logical name of the active frame.
func (s *SourceStack) CurrentName() string {
	if len(s.frames) == 0 {
		return ""
	}
	return s.top().name
}

// CurrentLeveloffset returns the active frame's composed leveloffset.
func (s *SourceStack) CurrentLeveloffset() int {
	if len(s.frames) == 0 {
		return 0
	}
	return s.top().leveloffset
}

// Push starts lexing from a new top frame, used when an `include::`
// directive resolves. leveloffset is the already-stacked (additive) value
// the caller has composed with its parent frame's.
func (s *SourceStack) Push(src []byte, name string, leveloffset int, relativeMaxDepth int) int {
	f := &frame{
		id:           s.nextID,
		name:         name,
		buf:          src,
		includeDepth: s.Depth() + 1,
		leveloffset:  leveloffset,
		maxDepth:     relativeMaxDepth,
	}
	s.nextID++
	s.frames = append(s.frames, f)
	return f.id
}

// Pop removes the current top frame (used when it's exhausted).
func (s *SourceStack) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// NextLine reads the next line, popping exhausted frames until one yields
// a line or the stack bottoms out. Returns (line, startOffset, frameID,
// includeDepth, ok); startOffset is the line's starting byte offset within
// its frame's buffer, used to give every token on the line a SourceLocation
// indexing into the real source rather than one relative to the line alone.
func (s *SourceStack) NextLine() (string, int, int, int, bool) {
	for len(s.frames) > 0 {
		f := s.top()
		if line, start, ok := f.nextLine(); ok {
			return line, start, f.id, f.includeDepth, true
		}
		if len(s.frames) == 1 {
			return "", 0, f.id, f.includeDepth, false
		}
		s.Pop()
	}
	return "", 0, 0, 0, false
}

// AtEOF reports whether every frame is exhausted.
func (s *SourceStack) AtEOF() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if !s.frames[i].eof() {
			return false
		}
	}
	return true
}

// normalizeIncludeBytes applies byte-level normalization after resolving an
// include: strip a UTF-8 BOM, convert BOM-marked UTF-16 (LE or BE) to
// UTF-8, and for text-like extensions
// collapse CRLF and trim trailing whitespace
// per line.
func normalizeIncludeBytes(b []byte, name string) []byte {
	b = stripBOM(b)
	if len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		le := b[0] == 0xFF
		u := make([]uint16, 0, len(b)/2)
		for i := 2; i+1 < len(b); i += 2 {
			if le {
				u = append(u, uint16(b[i])|uint16(b[i+1])<<8)
			} else {
				u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
			}
		}
		b = []byte(string(utf16.Decode(u)))
	}
	if isTextExt(name) {
		lines := strings.Split(string(b), "\n")
		for i, l := range lines {
			l = strings.TrimRight(l, "\r")
			lines[i] = strings.TrimRight(l, " \t")
		}
		return []byte(strings.Join(lines, "\n"))
	}
	return b
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

func isTextExt(name string) bool {
	for _, ext := range []string{".adoc", ".asciidoc", ".ad", ".asc", ".txt"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
