package nodeset

import (
	"sort"
	"strconv"
	"strings"
)

// Fold returns a compact textual form of ns: one-dimensional products and
// plain names ending in digits are merged into a single bracketed Product
// per (literal skeleton, pad width), with contiguous runs and constant
// strides collapsed at render time. Products with two or more dimensions
// are emitted one per product, as they are; they are not merged with each
// other or with the one-dimensional groups. Fold does not change the set ns
// denotes; re-parsing its output yields an equal NodeSet.
func Fold(ns NodeSet) string {
	// groups accumulates elements per (literal skeleton, pad width): two
	// products that share a skeleton but disagree on width never merge
	// into one bracket, matching how a plain literal like "node7" and a
	// zero-padded "node008" are kept as distinct terms rather than folded
	// into "node[7,008]".
	type groupKey struct {
		skeleton string
		width    int
	}
	groups := map[groupKey][]Elem{}
	literals := map[groupKey][]string{}
	var order []groupKey
	var literalNames []string
	var multiDim []string

	for _, p := range disjointProducts(normalizeForFold(ns.products)) {
		if p.Dimensions() == 0 {
			literalNames = append(literalNames, p.literals[0])
			continue
		}
		if p.Dimensions() != 1 {
			// multi-dimensional products are folded per-product; they
			// already carry their own minimal rendering.
			multiDim = append(multiDim, p.String())
			continue
		}
		skel := strings.Join(p.literals, "\x00")
		for _, e := range p.dims[0].Elements() {
			key := groupKey{skeleton: skel, width: e.Width}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
				literals[key] = p.literals
			}
			groups[key] = append(groups[key], e)
		}
	}

	var parts []string
	for _, key := range order {
		dim := elemsToRangeSet(groups[key])
		prod, ok := NewProduct(literals[key], []RangeSet{dim})
		if !ok {
			continue
		}
		parts = append(parts, prod.String())
	}
	parts = append(parts, multiDim...)

	sort.Strings(literalNames)
	parts = append(parts, literalNames...)
	return strings.Join(parts, ",")
}

// normalizeForFold rewrites zero-dimension (plain literal) products into
// single-dimension products by peeling off their trailing digit run, so a
// bare name like "node4" groups with a bracketed "node[1-3]" under the
// same literal skeleton instead of being folded as an opaque literal.
// Products with no trailing digits, or with dimensions already, pass
// through unchanged.
func normalizeForFold(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		if p.Dimensions() != 0 {
			out[i] = p
			continue
		}
		prefix, digits, suffix, ok := splitLastDigitRun(p.literals[0])
		if !ok {
			out[i] = p
			continue
		}
		value, err := strconv.Atoi(digits)
		if err != nil {
			out[i] = p
			continue
		}
		width := widthOf(digits)
		norm, ok2 := NewProduct([]string{prefix, suffix}, []RangeSet{Singleton(value, width)})
		if !ok2 {
			out[i] = p
			continue
		}
		out[i] = norm
	}
	return out
}

// splitLastDigitRun locates the rightmost run of decimal digits in name
// and splits it into the text before, the digits themselves, and the text
// after. ok is false if name contains no digits.
func splitLastDigitRun(name string) (prefix, digits, suffix string, ok bool) {
	i := len(name)
	for i > 0 && !isDigit(name[i-1]) {
		i--
	}
	if i == 0 {
		return "", "", "", false
	}
	j := i
	for j > 0 && isDigit(name[j-1]) {
		j--
	}
	return name[:j], name[j:i], name[i:], true
}

func elemsToRangeSet(elems []Elem) RangeSet {
	rs := EmptyRangeSet()
	for _, e := range elems {
		rs = rs.Union(Singleton(e.Value, e.Width))
	}
	return rs
}

// renderDimension renders a multi-element RangeSet as a bracketed range
// list, inferring strides for runs of 3 or more evenly-spaced values and
// falling back to contiguous intervals and singletons otherwise.
func renderDimension(d RangeSet) string {
	var pieces []string
	for _, w := range d.Widths() {
		pieces = append(pieces, renderWidth(d.Intervals(w), w)...)
	}
	return "[" + strings.Join(pieces, ",") + "]"
}

// renderWidth renders the coalesced intervals at one pad width. A genuinely
// contiguous interval (Hi>Lo, always step 1 per RangeSet's storage
// invariant) renders directly as "lo-hi"; a run of one or more singleton
// intervals (as produced for step>1 ranges, or isolated values) is handed
// to renderStrided to recover any constant-stride grouping.
func renderWidth(intervals []Interval, w int) []string {
	var out []string
	i := 0
	for i < len(intervals) {
		if intervals[i].Hi > intervals[i].Lo {
			out = append(out, fmtPadded(intervals[i].Lo, w)+"-"+fmtPadded(intervals[i].Hi, w))
			i++
			continue
		}
		j := i
		var run []int
		for j < len(intervals) && intervals[j].Lo == intervals[j].Hi {
			run = append(run, intervals[j].Lo)
			j++
		}
		out = append(out, renderStrided(run, w)...)
		i = j
	}
	return out
}

// renderStrided renders a slice of individually-stored singleton values
// (as produced for step>1 ranges) at one width, grouping maximal runs of
// constant stride (length >= 3) into "lo-hi/step" form and leaving shorter
// runs as individual values.
func renderStrided(values []int, w int) []string {
	var out []string
	i := 0
	for i < len(values) {
		j := i + 1
		if j < len(values) {
			step := values[j] - values[i]
			for j+1 < len(values) && values[j+1]-values[j] == step {
				j++
			}
			if step > 0 && j-i >= 2 {
				lo, hi := values[i], values[j]
				if step == 1 {
					out = append(out, fmtPadded(lo, w)+"-"+fmtPadded(hi, w))
				} else {
					out = append(out, fmtPadded(lo, w)+"-"+fmtPadded(hi, w)+"/"+strconv.Itoa(step))
				}
				i = j + 1
				continue
			}
		}
		out = append(out, fmtPadded(values[i], w))
		i++
	}
	return out
}
