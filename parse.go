package adoc

import "strconv"

// ParseResult is the product of a successful (non-fatally-aborted) parse:
// the Document plus every non-fatal Diagnostic collected along the way.
type ParseResult struct {
	Document *Document
	Warnings []*Diagnostic
}

// Parse runs the full pipeline — SourceStack, Lexer, Preprocessor,
// BlockParser — over source, producing a ParseResult or a *Diagnostic
// describing why the parse aborted. resolver may be nil, in
// which case every include is rejected via NoopResolver.
func Parse(source []byte, fileName string, job JobSettings, resolver IncludeResolver) (*ParseResult, *Diagnostic) {
	if resolver == nil {
		resolver = NoopResolver{}
	}
	meta := NewDocumentMeta(job)
	diags := newDiagnosticSink(job.Strict)

	maxDepth := 64
	if v, ok := meta.Get("max-include-depth"); ok {
		if s, isStr := v.Str(); isStr {
			if n, err := strconv.Atoi(s); err == nil {
				maxDepth = n
			}
		}
	}

	docDir := ""
	if v, ok := job.JobAttrs["docdir"]; ok {
		if s, isStr := v.Value.Str(); isStr {
			docDir = s
		}
	}

	stack := NewSourceStack(source, fileName, maxDepth)
	lexer := NewLexer(stack)
	scope := NewParseScope(meta, diags, resolver, fileName)
	pre := NewPreprocessor(lexer, scope, job.SafeMode, docDir)
	bp := NewBlockParser(pre, scope, docDir)

	doc := bp.ParseDocument()

	if diags.HasFatalError() {
		return nil, diags.FatalError
	}
	return &ParseResult{Document: doc, Warnings: diags.Warnings()}, nil
}
