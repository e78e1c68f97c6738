package adoc

import (
	"fmt"
	"io"
)

// Severity classifies a Diagnostic's impact on the parse result.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// DiagnosticKind is the closed set of error kinds.
type DiagnosticKind string

const (
	DiagUnclosedDelimitedBlock   DiagnosticKind = "unclosed_delimited_block"
	DiagUnterminatedListCont     DiagnosticKind = "unterminated_list_continuation"
	DiagSectionOutOfSequence     DiagnosticKind = "section_out_of_sequence"
	DiagUnattachedBlockMeta      DiagnosticKind = "unattached_block_metadata"
	DiagMismatchedIfdef          DiagnosticKind = "mismatched_ifdef"
	DiagMismatchedEndif          DiagnosticKind = "mismatched_endif"
	DiagTableNeverClosed         DiagnosticKind = "table_never_closed"
	DiagUnclosedCSVQuote         DiagnosticKind = "unclosed_csv_quote"
	DiagMisplacedCellSeparator   DiagnosticKind = "misplaced_cell_separator"
	DiagInvalidXref              DiagnosticKind = "invalid_cross_reference"
	DiagDuplicateAnchor          DiagnosticKind = "duplicate_anchor_id"
	DiagInvalidAuthorLine        DiagnosticKind = "invalid_author_line"
	DiagInvalidAttributeValue    DiagnosticKind = "invalid_attribute_value"
	DiagInvalidMacroSyntax       DiagnosticKind = "invalid_macro_syntax"
	DiagUnresolvedInclude        DiagnosticKind = "unresolved_include"
	DiagUnresolvedAttributeRef   DiagnosticKind = "unresolved_attribute_reference"
	DiagEncodingFailure          DiagnosticKind = "encoding_failure"
	DiagResolverFailure          DiagnosticKind = "resolver_failure"
	DiagMaxIncludeDepthExceeded  DiagnosticKind = "max_include_depth_exceeded"
	DiagUnsafeOperationRejected  DiagnosticKind = "unsafe_operation_rejected"
	DiagHeaderOnlyAttrMutation   DiagnosticKind = "header_only_attribute_mutation"
	DiagJobOnlyAttrMutation      DiagnosticKind = "job_only_attribute_mutation"
	DiagTokenizationFailure      DiagnosticKind = "tokenization_failure"
	DiagCalloutNumberMismatch    DiagnosticKind = "callout_number_mismatch"
)

// fatalKinds are the diagnostics that abort parsing even in lenient mode.
var fatalKinds = map[DiagnosticKind]bool{
	DiagEncodingFailure: true,
}

// Diagnostic is a structured parse error or warning with a source span:
// a Kind/Message/position/Cause shape widened with a Severity and an
// optional narrower underline span for rendering a caret under the
// offending text.
type Diagnostic struct {
	Severity Severity
	Kind     DiagnosticKind
	Message  string
	File     string
	Loc      SourceLocation

	// UnderlineStart/UnderlineWidth are byte offsets (relative to Loc.Start)
	// narrowing the span to underline; zero-value UnderlineWidth means "use
	// the whole Loc".
	UnderlineStart int
	UnderlineWidth int

	Cause error
}

func (d *Diagnostic) Error() string {
	msg := fmt.Sprintf("%s:%d: %s: %s", d.File, d.Loc.Start, d.Severity, d.Message)
	if d.Cause != nil {
		msg += fmt.Sprintf(" (%v)", d.Cause)
	}
	return msg
}

func (d *Diagnostic) Unwrap() error { return d.Cause }

func newDiagnostic(sev Severity, kind DiagnosticKind, message string, file string, loc SourceLocation, cause error) *Diagnostic {
	return &Diagnostic{Severity: sev, Kind: kind, Message: message, File: file, Loc: loc, Cause: cause}
}

// isFatal reports whether this diagnostic kind always aborts parsing, even
// in lenient mode.
func (d *Diagnostic) isFatal() bool {
	return d.Severity == SeverityFatal || fatalKinds[d.Kind]
}

// DiagnosticSink collects diagnostics during a parse and enforces the
// strict/lenient abort policy.
type DiagnosticSink struct {
	Strict      bool
	Diagnostics []*Diagnostic
	FatalError  *Diagnostic
}

func newDiagnosticSink(strict bool) *DiagnosticSink {
	return &DiagnosticSink{Strict: strict}
}

// Add records a diagnostic. It returns true if the parse must abort now
// (a fatal diagnostic, or a Warning+ diagnostic while in strict mode).
func (s *DiagnosticSink) Add(d *Diagnostic) (abort bool) {
	s.Diagnostics = append(s.Diagnostics, d)
	if d.isFatal() {
		if s.FatalError == nil {
			s.FatalError = d
		}
		return true
	}
	if s.Strict && d.Severity >= SeverityWarning {
		if s.FatalError == nil {
			s.FatalError = d
		}
		return true
	}
	return false
}

func (s *DiagnosticSink) HasErrors() bool { return len(s.Diagnostics) > 0 }
func (s *DiagnosticSink) HasFatalError() bool { return s.FatalError != nil }

// Warnings returns every non-fatal diagnostic, in source order, for
// attaching to a successful parse result.
func (s *DiagnosticSink) Warnings() []*Diagnostic {
	out := make([]*Diagnostic, 0, len(s.Diagnostics))
	for _, d := range s.Diagnostics {
		if d != s.FatalError {
			out = append(out, d)
		}
	}
	return out
}

// WriteTo writes every diagnostic, one per line, to w.
func (s *DiagnosticSink) WriteTo(w io.Writer) error {
	for _, d := range s.Diagnostics {
		if _, err := fmt.Fprintln(w, d.Error()); err != nil {
			return err
		}
	}
	return nil
}
