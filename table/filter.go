package table

import "strings"

// Filter picker limits.
const (
	// FilterVisibleMax is how many options the picker lists at once.
	FilterVisibleMax = 10

	// FilterHiddenThreshold is the match count above which the picker
	// reports hidden options.
	FilterHiddenThreshold = 100
)

// Filter is the filter metadata of an enum column.
type Filter struct {
	Options  []EnumOption
	Multiple bool
}

// FilterPicker is the state of a column filter dropdown. It is not safe for
// concurrent use.
type FilterPicker struct {
	filter   *Filter
	search   string
	matched  []EnumOption
	selected []EnumOption
}

// NewFilterPicker creates a picker with the given option values selected.
// Unknown values are ignored.
func NewFilterPicker(filter *Filter, selected []any) *FilterPicker {
	if filter == nil {
		filter = &Filter{Multiple: true}
	}
	p := &FilterPicker{filter: filter, matched: filter.Options}
	p.selected = p.lookup(filter.Options, selected)
	return p
}

// Searchable reports whether the picker shows a search box.
func (p *FilterPicker) Searchable() bool {
	return len(p.filter.Options) > FilterVisibleMax
}

// Search narrows the options to labels containing q, ignoring case. A new
// query clears the selection.
func (p *FilterPicker) Search(q string) {
	if q == p.search {
		return
	}
	p.search = q
	p.selected = nil

	if q == "" {
		p.matched = p.filter.Options
		return
	}
	needle := strings.ToLower(q)
	p.matched = nil
	for _, o := range p.filter.Options {
		if strings.Contains(strings.ToLower(o.Label), needle) {
			p.matched = append(p.matched, o)
		}
	}
}

// Query returns the current search text.
func (p *FilterPicker) Query() string {
	return p.search
}

// Visible returns the options to list, at most FilterVisibleMax.
func (p *FilterPicker) Visible() []EnumOption {
	if len(p.matched) > FilterVisibleMax {
		return p.matched[:FilterVisibleMax]
	}
	return p.matched
}

// Overflow returns how many matches exceed FilterHiddenThreshold, so the
// caller can ask the user to search. Zero when nothing is hidden.
func (p *FilterPicker) Overflow() int {
	if n := len(p.matched); n > FilterHiddenThreshold {
		return n - FilterHiddenThreshold
	}
	return 0
}

// Select replaces the selection. Values outside the current search result
// are ignored. A single-select filter keeps only the first match.
func (p *FilterPicker) Select(values []any) {
	p.selected = p.lookup(p.matched, values)
	if !p.filter.Multiple && len(p.selected) > 1 {
		p.selected = p.selected[:1]
	}
}

// Selected returns the values of the selected options.
func (p *FilterPicker) Selected() []any {
	out := make([]any, len(p.selected))
	for i, o := range p.selected {
		out[i] = o.Value
	}
	return out
}

// Reset clears the selection.
func (p *FilterPicker) Reset() {
	p.selected = nil
}

// Confirm returns the selected values to apply as the column filter.
func (p *FilterPicker) Confirm() []any {
	return p.Selected()
}

func (p *FilterPicker) lookup(pool []EnumOption, values []any) []EnumOption {
	if len(values) == 0 {
		return nil
	}
	index := make(map[string]EnumOption, len(pool))
	for _, o := range pool {
		index[enumKey(o.Value)] = o
	}
	var out []EnumOption
	for _, v := range values {
		if o, ok := index[enumKey(v)]; ok {
			out = append(out, o)
		}
	}
	return out
}
