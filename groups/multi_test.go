package groups

import "testing"

func TestMultiSourceFallsThrough(t *testing.T) {
	primary := NewMemorySource("primary")
	secondary := NewMemorySource("secondary")
	secondary.Set("", "gpu", "node[1-4]")

	multi := NewMultiSource(primary, secondary)

	ns, err := multi.ResolveGroup("", "gpu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.Cardinality() != 4 {
		t.Fatalf("Cardinality() = %d, want 4", ns.Cardinality())
	}
}

func TestMultiSourceNotFoundAnywhere(t *testing.T) {
	multi := NewMultiSource(NewMemorySource("a"), NewMemorySource("b"))
	if _, err := multi.ResolveGroup("", "missing"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMultiSourceListSourcesMerges(t *testing.T) {
	a := NewMemorySource("a")
	a.Set("slurm", "p1", "node[1-2]")
	b := NewMemorySource("b")
	b.Set("k8s", "gpu-pool", "node[3-4]")

	multi := NewMultiSource(a, b)
	scopes := multi.ListSources()
	if len(scopes) != 2 {
		t.Fatalf("ListSources() = %v, want 2 scopes", scopes)
	}
}

func TestMultiSourceListGroupsMerges(t *testing.T) {
	a := NewMemorySource("a")
	a.Set("slurm", "p1", "node[1-2]")
	a.Set("slurm", "p2", "node[3-4]")
	b := NewMemorySource("b")
	b.Set("slurm", "p2", "node[3-4]")
	b.Set("slurm", "p3", "node[5-6]")

	multi := NewMultiSource(a, b)
	names, err := multi.ListGroups("slurm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("ListGroups(slurm) = %v, want 3 unique entries", names)
	}
}
