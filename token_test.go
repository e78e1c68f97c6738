package adoc

import "testing"

func TestTokenKindStringKnownAndUnknown(t *testing.T) {
	if got := Word.String(); got != "Word" {
		t.Errorf("Word.String() = %q, want Word", got)
	}
	if got := EqualSigns.String(); got != "EqualSigns" {
		t.Errorf("EqualSigns.String() = %q, want EqualSigns", got)
	}
	if got := TokenKind(9999).String(); got != "Unknown" {
		t.Errorf("unknown kind String() = %q, want Unknown", got)
	}
}

func TestTokenRunLenMatchesLocationLength(t *testing.T) {
	tok := Token{Kind: EqualSigns, Lexeme: "===", Loc: SourceLocation{Start: 10, End: 13}}
	if tok.RunLen() != 3 {
		t.Errorf("RunLen() = %d, want 3", tok.RunLen())
	}
}

func TestTokenIsPunctRun(t *testing.T) {
	if !(Token{Kind: Dashes}).IsPunctRun() {
		t.Error("Dashes token should report IsPunctRun() == true")
	}
	if !(Token{Kind: EqualSigns}).IsPunctRun() {
		t.Error("EqualSigns token should report IsPunctRun() == true")
	}
	if (Token{Kind: Word}).IsPunctRun() {
		t.Error("Word token should report IsPunctRun() == false")
	}
}

func TestSyntheticTokenCarriesExactLexeme(t *testing.T) {
	tok := synthetic(PreprocPassthru, "^00002", SourceLocation{})
	if tok.Kind != PreprocPassthru || tok.Lexeme != "^00002" {
		t.Errorf("synthetic() = %+v, want Kind=PreprocPassthru Lexeme=^00002", tok)
	}
}
