package groups

import (
	"testing"

	"github.com/spf13/afero"
)

func TestFileSourceLoadsYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/etc/nodeset/groups/default.yaml", []byte(`gpu: "node[1-4]"`), 0o644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}
	if err := afero.WriteFile(fs, "/etc/nodeset/groups/slurm.yaml", []byte(`partition1: "node[10-12]"`), 0o644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	src, err := NewFileSource(fs, "/etc/nodeset/groups")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ns, err := src.ResolveGroup("", "gpu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.Cardinality() != 4 {
		t.Fatalf("Cardinality() = %d, want 4", ns.Cardinality())
	}

	ns2, err := src.ResolveGroup("slurm", "partition1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns2.Cardinality() != 3 {
		t.Fatalf("Cardinality() = %d, want 3", ns2.Cardinality())
	}
}

func TestFileSourceMissingDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := NewFileSource(fs, "/does/not/exist"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestFileSourceListSourcesAndGroups(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/groups/default.yaml", []byte("gpu: \"node[1-4]\"\ncpu: \"node[5-8]\"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src, err := NewFileSource(fs, "/groups")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scopes := src.ListSources()
	if len(scopes) != 1 || scopes[0] != "" {
		t.Fatalf("ListSources() = %v, want [\"\"]", scopes)
	}
	names, err := src.ListGroups("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("ListGroups(\"\") = %v, want 2 entries", names)
	}
}

func TestFileSourceNonYAMLFilesIgnored(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/groups/default.yaml", []byte(`gpu: "node[1-4]"`), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := afero.WriteFile(fs, "/groups/README.md", []byte("not yaml"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src, err := NewFileSource(fs, "/groups")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := src.ResolveGroup("", "gpu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
