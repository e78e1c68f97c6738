package adoc

// JobAttr is a single externally-supplied attribute with a readonly flag.
type JobAttr struct {
	Value    AttrValue
	Readonly bool
}

// SafeMode is one of Unsafe/Safe/Server/Secure; higher is more restrictive.
type SafeMode int

const (
	SafeModeUnsafe SafeMode = 0
	SafeModeSafe   SafeMode = 1
	SafeModeServer SafeMode = 10
	SafeModeSecure SafeMode = 20
)

// JobSettings is the host-supplied configuration for one parse.
type JobSettings struct {
	Doctype   DocType
	HasDoctype bool
	SafeMode  SafeMode
	Strict    bool
	Embedded  bool
	JobAttrs  map[string]JobAttr
}

// headerOnlySet is the closed list of keys that may only be set in the
// document header; late (body) mutation is rejected.
var headerOnlySet = map[string]bool{
	"doctitle": true, "author": true, "authors": true, "email": true,
	"revdate": true, "revnumber": true, "revremark": true,
	"stylesheet": true, "toc-title": true, "lang": true, "notitle": true,
}

// jobOnlySet is the closed list of keys that may never be mutated at the
// document level.
var jobOnlySet = map[string]bool{
	"docdir": true, "docfile": true, "allow-uri-read": true,
	"max-include-depth": true, "docname": true, "outdir": true,
}

// defaultAttrs are the built-in defaults consulted as layer 4 of
// resolution.
func defaultAttrs() map[string]AttrValue {
	return map[string]AttrValue{
		"sectids":            BoolAttr(true),
		"sectnums":           BoolAttr(false),
		"sectnumlevels":      StringAttr("3"),
		"idprefix":           StringAttr("_"),
		"idseparator":        StringAttr("_"),
		"toc":                BoolAttr(false),
		"toc-title":          StringAttr("Table of Contents"),
		"toclevels":          StringAttr("2"),
		"toc-position":       StringAttr("auto"),
		"icons":              BoolAttr(false),
		"imagesdir":          StringAttr(""),
		"allow-uri-read":     BoolAttr(false),
		"attribute-missing":  StringAttr("skip"),
		"attribute-undefined": StringAttr("drop-line"),
		"experimental":       BoolAttr(false),
		"hardbreaks-option":  BoolAttr(false),
		"reproducible":       BoolAttr(false),
		"line-comment":       StringAttr("//"),
		"figure-caption":     StringAttr("Figure"),
		"appendix-caption":   StringAttr("Appendix"),
		"table-caption":      StringAttr("Table"),
		"example-caption":    StringAttr("Example"),
		"note-caption":       StringAttr("Note"),
		"tip-caption":        StringAttr("Tip"),
		"important-caption":  StringAttr("Important"),
		"warning-caption":    StringAttr("Warning"),
		"caution-caption":    StringAttr("Caution"),
		"untitled-label":     StringAttr("Untitled"),
		"leveloffset":        StringAttr("0"),
		"max-include-depth":  StringAttr("64"),
	}
}

// DocumentMeta resolves attributes across five layers, most-authoritative
// first: job readonly > doc > header > defaults > job modifiable.
type DocumentMeta struct {
	jobReadonly   map[string]AttrValue
	jobModifiable map[string]AttrValue
	docAttrs      map[string]AttrValue
	headerAttrs   map[string]AttrValue
	defaults      map[string]AttrValue

	doctype    DocType
	safeMode   SafeMode
	inHeader   bool // true while the header is still open, enabling HEADER_ONLY writes
}

// NewDocumentMeta builds a DocumentMeta from JobSettings, seeding the job
// layers and synthetic doctype/safe-mode keys.
func NewDocumentMeta(job JobSettings) *DocumentMeta {
	m := &DocumentMeta{
		jobReadonly:   map[string]AttrValue{},
		jobModifiable: map[string]AttrValue{},
		docAttrs:      map[string]AttrValue{},
		headerAttrs:   map[string]AttrValue{},
		defaults:      defaultAttrs(),
		doctype:       job.Doctype,
		safeMode:      job.SafeMode,
		inHeader:      true,
	}
	for k, v := range job.JobAttrs {
		if v.Readonly {
			m.jobReadonly[k] = v.Value
		} else {
			m.jobModifiable[k] = v.Value
		}
	}
	return m
}

// CloseHeader ends the window during which HEADER_ONLY keys may be set.
func (m *DocumentMeta) CloseHeader() { m.inHeader = false }

// Get resolves key per the 5-layer precedence, including the
// synthetic doctype-*/safe-mode-* keys.
func (m *DocumentMeta) Get(key string) (AttrValue, bool) {
	if v, ok := m.syntheticGet(key); ok {
		return v, true
	}
	if v, ok := m.jobReadonly[key]; ok {
		return v, true
	}
	if v, ok := m.docAttrs[key]; ok {
		return v, true
	}
	if v, ok := m.headerAttrs[key]; ok {
		return v, true
	}
	if v, ok := m.defaults[key]; ok {
		return v, true
	}
	if v, ok := m.jobModifiable[key]; ok {
		return v, true
	}
	return AttrValue{}, false
}

// GetString is a convenience wrapper returning the string rendering of Get,
// or def if unset.
func (m *DocumentMeta) GetString(key, def string) string {
	v, ok := m.Get(key)
	if !ok {
		return def
	}
	if s, isStr := v.Str(); isStr {
		return s
	}
	return def
}

// IsSet reports whether key resolves to a "set" value anywhere in the
// layer stack.
func (m *DocumentMeta) IsSet(key string) bool {
	v, ok := m.Get(key)
	return ok && v.IsSet()
}

func (m *DocumentMeta) syntheticGet(key string) (AttrValue, bool) {
	switch key {
	case "doctype-article":
		return BoolAttr(m.doctype == DocTypeArticle), true
	case "doctype-book":
		return BoolAttr(m.doctype == DocTypeBook), true
	case "doctype-manpage":
		return BoolAttr(m.doctype == DocTypeManpage), true
	case "doctype-inline":
		return BoolAttr(m.doctype == DocTypeInline), true
	case "safe-mode-unsafe":
		return BoolAttr(m.safeMode == SafeModeUnsafe), true
	case "safe-mode-safe":
		return BoolAttr(m.safeMode >= SafeModeSafe), true
	case "safe-mode-server":
		return BoolAttr(m.safeMode >= SafeModeServer), true
	case "safe-mode-secure":
		return BoolAttr(m.safeMode >= SafeModeSecure), true
	}
	return AttrValue{}, false
}

// SetFromHeader sets a header-declared attribute. Returns
// an error if key is JOB_ONLY.
func (m *DocumentMeta) SetFromHeader(key string, v AttrValue) error {
	if jobOnlySet[key] {
		return errJobOnlyAttr(key)
	}
	m.headerAttrs[key] = v
	return nil
}

// SetFromBody sets a doc-attr declared in the body (`:name: value` block).
// Returns an error without mutating state if key is HEADER_ONLY and the
// header has already closed, or if key is JOB_ONLY.
func (m *DocumentMeta) SetFromBody(key string, v AttrValue) error {
	if jobOnlySet[key] {
		return errJobOnlyAttr(key)
	}
	if headerOnlySet[key] && !m.inHeader {
		return errHeaderOnlyAttr(key)
	}
	m.docAttrs[key] = v
	return nil
}

type attrMutationError struct {
	key  string
	kind string
}

func (e *attrMutationError) Error() string {
	return "cannot set " + e.kind + "-only attribute " + e.key
}

func errJobOnlyAttr(key string) error    { return &attrMutationError{key: key, kind: "job"} }
func errHeaderOnlyAttr(key string) error { return &attrMutationError{key: key, kind: "header"} }

// Doctype returns the effective document type.
func (m *DocumentMeta) Doctype() DocType { return m.doctype }

// SafeMode returns the effective safe mode.
func (m *DocumentMeta) SafeMode() SafeMode { return m.safeMode }

// AttributeMissingPolicy returns the configured attribute-missing policy:
// "skip" | "drop-line" | "warn".
func (m *DocumentMeta) AttributeMissingPolicy() string {
	return m.GetString("attribute-missing", "skip")
}

// AttributeUndefinedPolicy returns the configured attribute-undefined
// policy. The substitution passes in this package consult only
// AttributeMissingPolicy; this value is not applied to attribute references.
func (m *DocumentMeta) AttributeUndefinedPolicy() string {
	return m.GetString("attribute-undefined", "drop-line")
}
