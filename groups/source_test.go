package groups

import "testing"

func TestMemorySourceResolve(t *testing.T) {
	src := NewMemorySource("test")
	src.Set("", "gpu", "node[1-4]")

	ns, err := src.ResolveGroup("", "gpu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.Cardinality() != 4 {
		t.Fatalf("Cardinality() = %d, want 4", ns.Cardinality())
	}
}

func TestMemorySourceMissingGroup(t *testing.T) {
	src := NewMemorySource("test")
	if _, err := src.ResolveGroup("", "nope"); err == nil {
		t.Fatal("expected error for missing group")
	}
}

func TestMemorySourceListSourcesAndGroups(t *testing.T) {
	src := NewMemorySource("test")
	src.Set("slurm", "partition1", "node[1-2]")
	src.Set("slurm", "partition2", "node[3-4]")
	src.Set("", "gpu", "node[1-4]")

	scopes := src.ListSources()
	if len(scopes) != 2 {
		t.Fatalf("ListSources() = %v, want 2 scopes", scopes)
	}

	groupsInSlurm, err := src.ListGroups("slurm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groupsInSlurm) != 2 {
		t.Fatalf("ListGroups(slurm) = %v, want 2 entries", groupsInSlurm)
	}
}

func TestMemorySourceGroupReferencesGroup(t *testing.T) {
	src := NewMemorySource("test")
	src.Set("", "base", "node[1-4]")
	src.Set("", "extended", "@base,node[5-6]")

	ns, err := src.ResolveGroup("", "extended")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.Cardinality() != 6 {
		t.Fatalf("Cardinality() = %d, want 6", ns.Cardinality())
	}
}
