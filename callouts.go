package adoc

// CalloutRegistry is the shared, single-owner counter for callout
// numbering across an entire document, including embedded AsciiDoc table
// cells. All mutation happens on the single parsing
// thread; no locking is required.
type CalloutRegistry struct {
	lists    [][]Callout // one slice per callout list, in registration order
	curList  int
	curIdx   int
	lastNum  int
}

func NewCalloutRegistry() *CalloutRegistry {
	return &CalloutRegistry{lists: [][]Callout{{}}}
}

// Register records a callout with an explicit or auto-assigned number.
// explicit < 0 means "auto" (`<.>`): the assigned number is lastNum+1.
// An explicit number is valid only when it equals lastNum+1; a mismatching
// explicit number still records (and becomes lastNum), and the false
// return lets the caller surface a diagnostic.
func (r *CalloutRegistry) Register(explicit int) (Callout, bool) {
	num := r.lastNum + 1
	valid := true
	if explicit >= 0 {
		if explicit != num {
			valid = false
		}
		num = explicit
	}
	c := Callout{ListIdx: r.curList, CalloutIdx: r.curIdx, Number: num}
	r.lists[r.curList] = append(r.lists[r.curList], c)
	r.curIdx++
	r.lastNum = num
	return c, valid
}

// NextList advances the shared counter to a new callout list.
func (r *CalloutRegistry) NextList() {
	r.lists = append(r.lists, []Callout{})
	r.curList++
	r.curIdx = 0
	r.lastNum = 0
}

// GetByNumber returns every registered callout with the given number, in
// registration order.
func (r *CalloutRegistry) GetByNumber(n int) []Callout {
	var out []Callout
	for _, list := range r.lists {
		for _, c := range list {
			if c.Number == n {
				out = append(out, c)
			}
		}
	}
	return out
}

// ListCount returns the count of callouts registered in list idx.
func (r *CalloutRegistry) ListCount(idx int) int {
	if idx < 0 || idx >= len(r.lists) {
		return 0
	}
	return len(r.lists[idx])
}
