package adoc

// TokenKind is the closed set of lexical token classes the lexer emits.
type TokenKind int

const (
	Word TokenKind = iota
	Whitespace
	Newline
	Colon
	SemiColon
	Comma
	Dot
	Bang
	Backtick
	Plus
	Star
	Caret
	Tilde
	Underscore
	EqualSigns // run of one or more '='
	Dashes     // run of one or more '-'
	LessThan
	GreaterThan
	OpenBracket
	CloseBracket
	OpenParens
	CloseParens
	OpenBrace
	CloseBrace
	SingleQuote
	DoubleQuote
	Hash
	Percent
	Ampersand
	Backslash
	UriScheme
	MacroName
	CommentLine
	TermDelimiter // ::, :::, ;;
	Digits
	PreprocPassthru
	EOF
)

func (k TokenKind) String() string {
	switch k {
	case Word:
		return "Word"
	case Whitespace:
		return "Whitespace"
	case Newline:
		return "Newline"
	case Colon:
		return "Colon"
	case SemiColon:
		return "SemiColon"
	case Comma:
		return "Comma"
	case Dot:
		return "Dot"
	case Bang:
		return "Bang"
	case Backtick:
		return "Backtick"
	case Plus:
		return "Plus"
	case Star:
		return "Star"
	case Caret:
		return "Caret"
	case Tilde:
		return "Tilde"
	case Underscore:
		return "Underscore"
	case EqualSigns:
		return "EqualSigns"
	case Dashes:
		return "Dashes"
	case LessThan:
		return "LessThan"
	case GreaterThan:
		return "GreaterThan"
	case OpenBracket:
		return "OpenBracket"
	case CloseBracket:
		return "CloseBracket"
	case OpenParens:
		return "OpenParens"
	case CloseParens:
		return "CloseParens"
	case OpenBrace:
		return "OpenBrace"
	case CloseBrace:
		return "CloseBrace"
	case SingleQuote:
		return "SingleQuote"
	case DoubleQuote:
		return "DoubleQuote"
	case Hash:
		return "Hash"
	case Percent:
		return "Percent"
	case Ampersand:
		return "Ampersand"
	case Backslash:
		return "Backslash"
	case UriScheme:
		return "UriScheme"
	case MacroName:
		return "MacroName"
	case CommentLine:
		return "CommentLine"
	case TermDelimiter:
		return "TermDelimiter"
	case Digits:
		return "Digits"
	case PreprocPassthru:
		return "PreprocPassthru"
	case EOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is a classified lexeme with its exact source location. For runs of
// repeating punctuation (EqualSigns, Dashes, etc.) the run length is
// `loc.Len()`, not a separate field — Lexeme always equals
// source[loc.Start:loc.End] except for synthesized tokens (PreprocPassthru,
// and lines rewritten by the preprocessor), whose Lexeme is explicitly set
// and doesn't alias the original source.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Loc    SourceLocation
}

// RunLen returns the token's run length (number of repeated bytes), valid
// for punctuation-run kinds; for other kinds it is simply len(Lexeme).
func (t Token) RunLen() int { return t.Loc.Len() }

// IsPunctRun reports whether t is a coalesced run of identical punctuation.
func (t Token) IsPunctRun() bool {
	switch t.Kind {
	case EqualSigns, Dashes:
		return true
	default:
		return false
	}
}

// synthetic returns a Token whose Lexeme is independent of any source
// buffer — used by the preprocessor for rewritten/injected lines and by
// the passthrough side table for PreprocPassthru placeholders.
func synthetic(kind TokenKind, lexeme string, loc SourceLocation) Token {
	return Token{Kind: kind, Lexeme: lexeme, Loc: loc}
}
