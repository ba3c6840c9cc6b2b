package nodeset

import (
	"strconv"
	"strings"
)

// Product is a fixed-length alternating sequence of literal fragments and
// RangeSet dimensions: L0 D0 L1 D1 ... Ln-1 Dn-1 Ln. It denotes the
// cartesian set {L0 d0 L1 d1 ... Ln : di in Di}, each di rendered with its
// pad width. A Product with zero dimensions denotes the single literal
// name literals[0].
type Product struct {
	literals []string
	dims     []RangeSet
}

// maxProductDimensions bounds the dimension count a Product may carry. It
// exists to cap the combinatorial blowup of Subtract, which can emit up to
// 2^n-1 products for an n-dimensional product.
const maxProductDimensions = 8

// NewProduct builds a Product from literals (length len(dims)+1) and dims.
// It reports ok=false if any dimension is empty, per the invariant that an
// empty dimension denotes the empty set and the product must be dropped, and
// also if dims has more than maxProductDimensions entries.
func NewProduct(literals []string, dims []RangeSet) (Product, bool) {
	if len(dims) > maxProductDimensions {
		return Product{}, false
	}
	for _, d := range dims {
		if d.IsEmpty() {
			return Product{}, false
		}
	}
	lits := make([]string, len(literals))
	copy(lits, literals)
	ds := make([]RangeSet, len(dims))
	copy(ds, dims)
	return Product{literals: lits, dims: ds}, true
}

// IsEmpty reports whether p denotes the empty set.
func (p Product) IsEmpty() bool {
	for _, d := range p.dims {
		if d.IsEmpty() {
			return true
		}
	}
	return false
}

// Dimensions returns the number of RangeSet dimensions in p.
func (p Product) Dimensions() int { return len(p.dims) }

// Cardinality returns the number of names p denotes.
func (p Product) Cardinality() uint64 {
	n := uint64(1)
	for _, d := range p.dims {
		n *= d.Len()
	}
	return n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// widthOf returns the implied pad width of a textual integer: the string
// length when it has a leading zero and is longer than one character,
// otherwise 0.
func widthOf(text string) int {
	if len(text) > 1 && text[0] == '0' {
		return len(text)
	}
	return 0
}

// valuesFor reports the per-dimension (value, width) pairs name would take
// under p's skeleton, and whether name matches it at all.
func (p Product) valuesFor(name string) ([]Elem, bool) {
	pos := 0
	n := len(p.literals)
	vals := make([]Elem, len(p.dims))
	for i := 0; i < n; i++ {
		lit := p.literals[i]
		if !strings.HasPrefix(name[pos:], lit) {
			return nil, false
		}
		pos += len(lit)
		if i == n-1 {
			break
		}
		maxLen := 0
		for pos+maxLen < len(name) && isDigit(name[pos+maxLen]) {
			maxLen++
		}
		matched := false
		for l := maxLen; l >= 1; l-- {
			numStr := name[pos : pos+l]
			val, err := strconv.Atoi(numStr)
			if err != nil {
				continue
			}
			width := widthOf(numStr)
			if !p.dims[i].Contains(val, width) {
				continue
			}
			if strings.HasPrefix(name[pos+l:], p.literals[i+1]) {
				vals[i] = Elem{Value: val, Width: width}
				pos += l
				matched = true
				break
			}
		}
		if !matched {
			return nil, false
		}
	}
	if pos != len(name) {
		return nil, false
	}
	return vals, true
}

// Denotes decides whether name belongs to the set p denotes.
func (p Product) Denotes(name string) bool {
	_, ok := p.valuesFor(name)
	return ok
}

// SameSkeleton reports whether p and q have identical literal fragment
// sequences.
func (p Product) SameSkeleton(q Product) bool {
	if len(p.literals) != len(q.literals) {
		return false
	}
	for i := range p.literals {
		if p.literals[i] != q.literals[i] {
			return false
		}
	}
	return true
}

// Intersect returns the intersection of p and q, which must share a
// skeleton. The result may be empty (check IsEmpty).
func (p Product) Intersect(q Product) Product {
	dims := make([]RangeSet, len(p.dims))
	for i := range p.dims {
		dims[i] = p.dims[i].Intersect(q.dims[i])
	}
	return Product{literals: p.literals, dims: dims}
}

// Subtract returns the disjoint decomposition of p \ q, for p and q sharing
// a skeleton: for each nonempty subset S of the dimensions where p's range
// is not contained in q's (p_i \ q_i is nonempty), one product with
// dimension i set to
// p_i \ q_i for i in S and p_i intersect q_i otherwise. At most 2^n-1
// products are produced for an n-dimensional product.
func (p Product) Subtract(q Product) []Product {
	type dimPair struct {
		diff, inter RangeSet
	}
	info := make([]dimPair, len(p.dims))
	var strict []int
	for i := range p.dims {
		inter := p.dims[i].Intersect(q.dims[i])
		diff := p.dims[i].Difference(inter)
		info[i] = dimPair{diff: diff, inter: inter}
		if !diff.IsEmpty() {
			strict = append(strict, i)
		}
	}
	if len(strict) == 0 {
		return nil
	}
	var results []Product
	m := len(strict)
	for mask := 1; mask < (1 << m); mask++ {
		dims := make([]RangeSet, len(p.dims))
		for i := range p.dims {
			dims[i] = info[i].inter
		}
		for j := 0; j < m; j++ {
			if mask&(1<<j) != 0 {
				dims[strict[j]] = info[strict[j]].diff
			}
		}
		if prod, ok := NewProduct(p.literals, dims); ok {
			results = append(results, prod)
		}
	}
	return results
}

// String renders p in the minimal bracket form described by the fold
// output grammar: literals verbatim, dimensions bracketed except when a
// dimension has exactly one element, in which case its padded digits are
// spliced directly into the surrounding literal text (the resulting name
// still round-trips: re-parsing it yields a literal-only product denoting
// the same single name).
func (p Product) String() string {
	if len(p.dims) == 0 {
		return p.literals[0]
	}
	var sb strings.Builder
	for i, lit := range p.literals {
		sb.WriteString(lit)
		if i == len(p.dims) {
			break
		}
		d := p.dims[i]
		if d.Len() == 1 {
			e := d.Elements()[0]
			sb.WriteString(fmtPadded(e.Value, e.Width))
			continue
		}
		sb.WriteString(renderDimension(d))
	}
	return sb.String()
}

func fmtPadded(v, w int) string {
	if w == 0 {
		return strconv.Itoa(v)
	}
	s := strconv.Itoa(v)
	if len(s) >= w {
		return s
	}
	return strings.Repeat("0", w-len(s)) + s
}

// ProductIterator enumerates the names a Product denotes, outermost
// dimension slowest.
type ProductIterator struct {
	p     Product
	elems [][]Elem
	idx   []int
	first bool
	done  bool
}

// Iterator returns a fresh ProductIterator over p.
func (p Product) Iterator() *ProductIterator {
	it := &ProductIterator{p: p, first: true}
	if len(p.dims) == 0 {
		return it
	}
	it.elems = make([][]Elem, len(p.dims))
	for i, d := range p.dims {
		it.elems[i] = d.Elements()
	}
	it.idx = make([]int, len(p.dims))
	return it
}

// Next returns the next name, or ok=false once exhausted.
func (it *ProductIterator) Next() (string, bool) {
	if it.done {
		return "", false
	}
	if len(it.p.dims) == 0 {
		if !it.first {
			it.done = true
			return "", false
		}
		it.first = false
		it.done = true
		return it.p.literals[0], true
	}
	if it.first {
		it.first = false
	} else {
		i := len(it.idx) - 1
		for i >= 0 {
			it.idx[i]++
			if it.idx[i] < len(it.elems[i]) {
				break
			}
			it.idx[i] = 0
			i--
		}
		if i < 0 {
			it.done = true
			return "", false
		}
	}
	var sb strings.Builder
	sb.WriteString(it.p.literals[0])
	for i, e := range it.idx {
		elem := it.elems[i][e]
		sb.WriteString(fmtPadded(elem.Value, elem.Width))
		sb.WriteString(it.p.literals[i+1])
	}
	return sb.String(), true
}

// literalProduct builds a zero-dimension Product denoting exactly name.
func literalProduct(name string) Product {
	return Product{literals: []string{name}}
}
