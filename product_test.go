package nodeset

import "testing"

func TestProductDenotes(t *testing.T) {
	dim, _ := FromRange(1, 4, 1, 0)
	p, ok := NewProduct([]string{"node", ""}, []RangeSet{dim})
	if !ok {
		t.Fatal("expected non-empty product")
	}
	for _, name := range []string{"node1", "node2", "node3", "node4"} {
		if !p.Denotes(name) {
			t.Errorf("expected %q to be denoted", name)
		}
	}
	for _, name := range []string{"node5", "node", "nodeX", "node01"} {
		if p.Denotes(name) {
			t.Errorf("did not expect %q to be denoted", name)
		}
	}
}

func TestProductDenotesZeroPadded(t *testing.T) {
	dim, _ := FromRange(1, 9, 1, 3)
	p, _ := NewProduct([]string{"node", ""}, []RangeSet{dim})
	if !p.Denotes("node007") {
		t.Fatal("expected node007 to be denoted")
	}
	if p.Denotes("node7") {
		t.Fatal("did not expect unpadded node7 to be denoted by a width-3 dimension")
	}
}

func TestProductMultiDimension(t *testing.T) {
	d1, _ := FromRange(1, 2, 1, 0)
	d2, _ := FromRange(1, 2, 1, 0)
	p, ok := NewProduct([]string{"r", "sw", ""}, []RangeSet{d1, d2})
	if !ok {
		t.Fatal("expected non-empty product")
	}
	if p.Cardinality() != 4 {
		t.Fatalf("Cardinality() = %d, want 4", p.Cardinality())
	}
	for _, name := range []string{"r1sw1", "r1sw2", "r2sw1", "r2sw2"} {
		if !p.Denotes(name) {
			t.Errorf("expected %q to be denoted", name)
		}
	}
}

func TestProductEmptyDimensionDropped(t *testing.T) {
	if _, ok := NewProduct([]string{"node", ""}, []RangeSet{EmptyRangeSet()}); ok {
		t.Fatal("expected product with an empty dimension to be dropped")
	}
}

func TestProductIterator(t *testing.T) {
	d1, _ := FromRange(1, 2, 1, 0)
	p, _ := NewProduct([]string{"node", ""}, []RangeSet{d1})
	it := p.Iterator()
	var got []string
	for {
		name, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, name)
	}
	want := []string{"node1", "node2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestProductSubtract(t *testing.T) {
	d1, _ := FromRange(1, 10, 1, 0)
	d2, _ := FromRange(1, 10, 1, 0)
	a, _ := NewProduct([]string{"r", "sw", ""}, []RangeSet{d1, d2})
	e1, _ := FromRange(3, 5, 1, 0)
	e2, _ := FromRange(3, 5, 1, 0)
	b, _ := NewProduct([]string{"r", "sw", ""}, []RangeSet{e1, e2})

	pieces := a.Subtract(b)
	var total uint64
	for _, piece := range pieces {
		total += piece.Cardinality()
	}
	if want := a.Cardinality() - b.Cardinality(); total != want {
		t.Fatalf("subtract total cardinality = %d, want %d", total, want)
	}
	// disjointness: no name denoted by more than one piece
	seen := map[string]int{}
	for _, piece := range pieces {
		it := piece.Iterator()
		for {
			name, ok := it.Next()
			if !ok {
				break
			}
			seen[name]++
		}
	}
	for name, count := range seen {
		if count != 1 {
			t.Fatalf("name %q appeared in %d pieces, want 1", name, count)
		}
	}
	// b's names must not appear at all
	for _, piece := range pieces {
		if piece.Denotes("r4sw4") {
			t.Fatal("did not expect r4sw4 (inside b) in a\\b")
		}
	}
}

func TestProductSameSkeleton(t *testing.T) {
	d, _ := FromRange(1, 2, 1, 0)
	a, _ := NewProduct([]string{"node", ""}, []RangeSet{d})
	b, _ := NewProduct([]string{"node", ""}, []RangeSet{d})
	c, _ := NewProduct([]string{"rack", ""}, []RangeSet{d})
	if !a.SameSkeleton(b) {
		t.Fatal("expected same skeleton")
	}
	if a.SameSkeleton(c) {
		t.Fatal("expected different skeleton")
	}
}

func TestProductStringSingletonOmitsBrackets(t *testing.T) {
	d, _ := FromRange(7, 7, 1, 3)
	p, _ := NewProduct([]string{"node", ""}, []RangeSet{d})
	if got, want := p.String(), "node007"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
