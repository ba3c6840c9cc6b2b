package nodeset

import (
	"strings"

	"github.com/whamcloud/nodeset-go/internal/capacity"
)

// NodeSet is a union of Products. It denotes the union of the sets each
// Product denotes. NodeSet values are immutable; every operation returns a
// new NodeSet.
type NodeSet struct {
	products []Product
}

// Empty is the NodeSet denoting no names.
var Empty = NodeSet{}

// NewNodeSet builds a NodeSet from the given products, dropping any that
// denote the empty set.
func NewNodeSet(products ...Product) NodeSet {
	var kept []Product
	for _, p := range products {
		if !p.IsEmpty() {
			kept = append(kept, p)
		}
	}
	return NodeSet{products: kept}
}

// Single returns the NodeSet denoting exactly name.
func Single(name string) NodeSet {
	return NodeSet{products: []Product{literalProduct(name)}}
}

// IsEmpty reports whether ns denotes no names.
func (ns NodeSet) IsEmpty() bool {
	return len(ns.products) == 0
}

// Products returns the Products composing ns. The slice is owned by the
// caller and safe to mutate.
func (ns NodeSet) Products() []Product {
	out := make([]Product, len(ns.products))
	copy(out, ns.products)
	return out
}

// Union returns the union of ns and other, as the concatenation of their
// Products. The result may contain overlapping Products; Expand and
// Iterate de-duplicate names, and Cardinality corrects for overlap between
// products of the same skeleton, without requiring the caller to Fold first.
func (ns NodeSet) Union(other NodeSet) NodeSet {
	out := make([]Product, 0, len(ns.products)+len(other.products))
	out = append(out, ns.products...)
	out = append(out, other.products...)
	return NodeSet{products: out}
}

// groupBySkeleton partitions products by their literal skeleton, preserving
// first-seen order of skeletons.
func groupBySkeleton(products []Product) [][]Product {
	var order []string
	groups := map[string][]Product{}
	for _, p := range products {
		key := strings.Join(p.literals, "\x00")
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}
	out := make([][]Product, len(order))
	for i, key := range order {
		out[i] = groups[key]
	}
	return out
}

// disjointProducts returns a set of pairwise-disjoint products denoting the
// same set as products, handling the common case of overlapping products
// that share a skeleton exactly (e.g. node5,node[1-3]) by iterated
// subtraction within each skeleton group. Products with distinct skeletons
// are assumed disjoint from one another: resolving coincidental overlap
// across different skeletons would require full expansion and is not
// attempted here.
func disjointProducts(products []Product) []Product {
	var out []Product
	for _, group := range groupBySkeleton(products) {
		acc := make([]Product, 0, len(group))
		for _, p := range group {
			pieces := []Product{p}
			for _, existing := range acc {
				var next []Product
				for _, piece := range pieces {
					if piece.IsEmpty() {
						continue
					}
					sub := piece.Subtract(existing)
					if sub == nil && piece.Intersect(existing).IsEmpty() {
						next = append(next, piece)
						continue
					}
					next = append(next, sub...)
				}
				pieces = next
			}
			acc = append(acc, pieces...)
		}
		out = append(out, acc...)
	}
	return out
}

// Cardinality returns the number of distinct names ns denotes, correcting
// for overlap between products that share a skeleton. A plain literal name
// such as node2 is first split on its trailing digit run (as Fold does), so
// it counts as overlapping a bracketed node[1-3].
func (ns NodeSet) Cardinality() uint64 {
	var n uint64
	for _, p := range disjointProducts(normalizeForFold(ns.products)) {
		n += p.Cardinality()
	}
	return n
}

// expandedModeBound caps the per-product cardinality this package will
// fully materialize when falling back to expanded mode for a pair of
// products with mismatched skeletons (spec's "incompatible skeletons
// that resist pairwise algebra"). A pair exceeding it is left unresolved
// by that fallback; Intersect/Difference still make progress on every
// same-skeleton pair, so this only affects the rare coincidental overlap
// between structurally different names at large cardinality.
const expandedModeBound = 4096

// expandedIntersect resolves the intersection of two products with
// different skeletons by materializing whichever side is small enough and
// testing each of its names against the other with Denotes.
func expandedIntersect(p, q Product) []Product {
	small, other := p, q
	if q.Cardinality() < p.Cardinality() {
		small, other = q, p
	}
	if small.Cardinality() > expandedModeBound {
		return nil
	}
	var out []Product
	it := small.Iterator()
	for {
		name, ok := it.Next()
		if !ok {
			break
		}
		if other.Denotes(name) {
			out = append(out, literalProduct(name))
		}
	}
	return out
}

// expandedSubtractPiece removes every name q denotes from piece, for a
// piece/q pair with mismatched skeletons, by materializing piece (if small
// enough) and testing each name against q with Denotes.
func expandedSubtractPiece(piece, q Product) []Product {
	if piece.Cardinality() > expandedModeBound {
		return []Product{piece}
	}
	var out []Product
	it := piece.Iterator()
	for {
		name, ok := it.Next()
		if !ok {
			break
		}
		if !q.Denotes(name) {
			out = append(out, literalProduct(name))
		}
	}
	return out
}

// Contains reports whether name belongs to the set ns denotes.
func (ns NodeSet) Contains(name string) bool {
	for _, p := range ns.products {
		if p.Denotes(name) {
			return true
		}
	}
	return false
}

// Intersect returns the intersection of ns and other: for every pair of
// products sharing a skeleton, their pairwise intersection; for pairs with
// mismatched skeletons, a best-effort expanded-mode fallback (see
// expandedIntersect) that resolves coincidental overlap up to
// expandedModeBound names per product.
func (ns NodeSet) Intersect(other NodeSet) NodeSet {
	var out []Product
	for _, p := range ns.products {
		for _, q := range other.products {
			if p.SameSkeleton(q) {
				r := p.Intersect(q)
				if !r.IsEmpty() {
					out = append(out, r)
				}
				continue
			}
			out = append(out, expandedIntersect(p, q)...)
		}
	}
	return NewNodeSet(out...)
}

// Difference returns ns minus other. Products with a matching skeleton are
// subtracted via Product.Subtract's compact decomposition; products with
// mismatched skeletons fall back to expandedSubtractPiece.
func (ns NodeSet) Difference(other NodeSet) NodeSet {
	var out []Product
	for _, p := range ns.products {
		pieces := []Product{p}
		for _, q := range other.products {
			var next []Product
			for _, piece := range pieces {
				if piece.IsEmpty() {
					continue
				}
				if !piece.SameSkeleton(q) {
					next = append(next, expandedSubtractPiece(piece, q)...)
					continue
				}
				if piece.Intersect(q).IsEmpty() {
					next = append(next, piece)
					continue
				}
				next = append(next, piece.Subtract(q)...)
			}
			pieces = next
		}
		out = append(out, pieces...)
	}
	return NewNodeSet(out...)
}

// SymmetricDifference returns (ns \ other) union (other \ ns).
func (ns NodeSet) SymmetricDifference(other NodeSet) NodeSet {
	return ns.Difference(other).Union(other.Difference(ns))
}

// Expand returns every distinct name ns denotes, de-duplicated and in
// product-insertion order (each product's names in its own dimension
// order), the same order Iterate visits them in. limit caps the number of
// names produced; 0 means unbounded. Returns *CapacityExceededError if ns
// denotes more than limit names.
func (ns NodeSet) Expand(limit uint64) ([]string, error) {
	if limit > 0 {
		if err := capacity.Guard(limit, ns.Cardinality()); err != nil {
			e := err.(*capacity.ExceededError)
			return nil, &CapacityExceededError{Limit: e.Limit, Attempted: e.Attempted}
		}
	}
	seen := map[string]struct{}{}
	var names []string
	for _, p := range ns.products {
		it := p.Iterator()
		for {
			name, ok := it.Next()
			if !ok {
				break
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}

// Iterate calls fn once for every distinct name ns denotes, in
// product-insertion order (each product's names in its own dimension
// order), stopping early if fn returns false. limit caps the number of
// names visited before iteration stops with a *CapacityExceededError; 0
// means unbounded.
func (ns NodeSet) Iterate(limit uint64, fn func(name string) bool) error {
	seen := map[string]struct{}{}
	var count uint64
	for _, p := range ns.products {
		it := p.Iterator()
		for {
			name, ok := it.Next()
			if !ok {
				break
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			count++
			if limit > 0 && count > limit {
				return &CapacityExceededError{Limit: limit, Attempted: ns.Cardinality()}
			}
			if !fn(name) {
				return nil
			}
		}
	}
	return nil
}

// String renders ns by joining its Products with commas, in the style
// Parse accepts as a union.
func (ns NodeSet) String() string {
	parts := make([]string, len(ns.products))
	for i, p := range ns.products {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}
