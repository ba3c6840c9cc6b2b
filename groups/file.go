package groups

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/whamcloud/nodeset-go"
)

// defaultScopeFile is the file within a FileSource's directory that backs
// the unscoped default source, matching MultiSource's convention that an
// empty scope resolves against the default.
const defaultScopeFile = "default"

// isOsFs reports whether fs is backed by the real filesystem, where file
// locking and fsnotify watching are meaningful. afero.NewOsFs can return
// either an afero.OsFs value or a *afero.OsFs pointer depending on afero
// version, so both are checked.
func isOsFs(fs afero.Fs) bool {
	switch fs.(type) {
	case afero.OsFs, *afero.OsFs:
		return true
	default:
		return false
	}
}

// FileSource is a GroupResolver backed by a directory of YAML files on an
// afero filesystem, one file per scope (e.g. "slurm.yaml", "k8s.yaml") plus
// an optional "default.yaml" for the unscoped source. Each file maps group
// name to nodeset expression string:
//
//	gpu: "node[1-4]"
//	cpu: "node[5-8]"
//
// Reads are guarded against a concurrent writer with a per-file gofrs/flock
// shared lock, and the directory can optionally be watched for changes via
// fsnotify to support hot-reload.
type FileSource struct {
	fs   afero.Fs
	dir  string
	name string

	mu   sync.RWMutex
	docs map[string]map[string]string // scope -> group name -> expression
	stop chan struct{}
}

// NewFileSourceFromDir loads dir from the real filesystem.
func NewFileSourceFromDir(dir string) (*FileSource, error) {
	return NewFileSource(afero.NewOsFs(), dir)
}

// NewFileSource loads every "*.yaml" file in dir on fs and returns a ready
// FileSource. fs may be afero.NewOsFs() for a real directory or
// afero.NewMemMapFs() for tests.
func NewFileSource(fs afero.Fs, dir string) (*FileSource, error) {
	fsrc := &FileSource{fs: fs, dir: dir, name: dir}
	if err := fsrc.reload(); err != nil {
		return nil, err
	}
	return fsrc, nil
}

func scopeForFile(name string) string {
	scope := strings.TrimSuffix(name, filepath.Ext(name))
	if scope == defaultScopeFile {
		return ""
	}
	return scope
}

func (f *FileSource) loadFile(path string) (map[string]string, error) {
	if isOsFs(f.fs) {
		lk := flock.New(path + ".lock")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		locked, err := lk.TryRLockContext(ctx, 50*time.Millisecond)
		if err != nil {
			return nil, fmt.Errorf("groups: acquiring lock on %s: %w", path, err)
		}
		if locked {
			defer lk.Unlock()
		}
	}

	raw, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("groups: reading %s: %w", path, err)
	}
	var groupMap map[string]string
	if err := yaml.Unmarshal(raw, &groupMap); err != nil {
		return nil, fmt.Errorf("groups: parsing %s: %w", path, err)
	}
	return groupMap, nil
}

func (f *FileSource) reload() error {
	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return fmt.Errorf("groups: reading %s: %w", f.dir, err)
	}
	docs := map[string]map[string]string{}
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".yaml" {
			continue
		}
		groupMap, err := f.loadFile(filepath.Join(f.dir, ent.Name()))
		if err != nil {
			return err
		}
		docs[scopeForFile(ent.Name())] = groupMap
	}

	f.mu.Lock()
	f.docs = docs
	f.mu.Unlock()
	return nil
}

// Watch starts an fsnotify watcher on the source directory, reloading the
// in-memory cache whenever a "*.yaml" file inside it changes, until ctx is
// cancelled or Close is called. Watch is a no-op on in-memory filesystems,
// since fsnotify only observes the real filesystem.
func (f *FileSource) Watch(ctx context.Context) error {
	if !isOsFs(f.fs) {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("groups: starting watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("groups: watching %s: %w", f.dir, err)
	}
	f.stop = make(chan struct{})
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-f.stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(ev.Name) != ".yaml" {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if err := f.reload(); err != nil {
					slog.Warn("groups: reload failed", "dir", f.dir, "error", err)
				} else {
					slog.Info("groups: reloaded directory", "dir", f.dir, "file", ev.Name)
				}
			case err := <-watcher.Errors:
				slog.Warn("groups: watcher error", "dir", f.dir, "error", err)
			}
		}
	}()
	return nil
}

// Close stops any running Watch goroutine.
func (f *FileSource) Close() {
	if f.stop != nil {
		close(f.stop)
		f.stop = nil
	}
}

// ResolveGroup implements nodeset.GroupResolver.
func (f *FileSource) ResolveGroup(scope, name string) (nodeset.NodeSet, error) {
	f.mu.RLock()
	expr, ok := f.docs[scope][name]
	f.mu.RUnlock()
	if !ok {
		return nodeset.NodeSet{}, fmt.Errorf("groups: no group %q in scope %q of %s", name, scope, f.name)
	}
	return nodeset.Parse(expr, f)
}

// ListSources implements nodeset.SourceLister.
func (f *FileSource) ListSources() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.docs))
	for s := range f.docs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ListGroups implements nodeset.GroupLister.
func (f *FileSource) ListGroups(scope string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	groupMap, ok := f.docs[scope]
	if !ok {
		return nil, fmt.Errorf("groups: no such scope %q in %s", scope, f.name)
	}
	out := make([]string, 0, len(groupMap))
	for g := range groupMap {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}
