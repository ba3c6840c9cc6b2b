package groups

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/whamcloud/nodeset-go"
)

// MultiSource fans a group lookup out across several GroupResolvers in
// order, returning the first successful resolution. ListSources and
// ListGroups query every underlying source concurrently via
// sourcegraph/conc and merge the results, since a CLI listing command has
// no single source to prefer.
type MultiSource struct {
	sources []nodeset.GroupResolver
	// defaultIdx is the index of the default source, always 0 (the first
	// source); ResolveGroup does not consult it. The "(default)" marker CLI
	// listings attach comes from comparing a source's index to this.
	defaultIdx int
}

// NewMultiSource returns a MultiSource querying sources in the given order.
// The first source is the default: an unscoped lookup (scope == "") tries
// it first.
func NewMultiSource(sources ...nodeset.GroupResolver) *MultiSource {
	return &MultiSource{sources: sources}
}

// DefaultIndex reports the index, within Sources, of the source treated as
// default.
func (m *MultiSource) DefaultIndex() int { return m.defaultIdx }

// Sources returns the underlying resolvers in lookup order.
func (m *MultiSource) Sources() []nodeset.GroupResolver { return m.sources }

// ResolveGroup implements nodeset.GroupResolver, trying each source in
// order and returning the first match.
func (m *MultiSource) ResolveGroup(scope, name string) (nodeset.NodeSet, error) {
	var lastErr error
	for i, src := range m.sources {
		ns, err := src.ResolveGroup(scope, name)
		if err == nil {
			if i > 0 {
				slog.Debug("groups: resolved via fallback source", "scope", scope, "name", name, "source_index", i)
			}
			return ns, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no sources configured")
	}
	return nodeset.NodeSet{}, fmt.Errorf("groups: %q:%q not found in any source: %w", scope, name, lastErr)
}

// ListSources implements nodeset.SourceLister, merging the scopes reported
// by every underlying SourceLister.
func (m *MultiSource) ListSources() []string {
	type result struct {
		scopes []string
	}
	p := pool.NewWithResults[result]()
	for _, src := range m.sources {
		src := src
		p.Go(func() result {
			if sl, ok := src.(nodeset.SourceLister); ok {
				return result{scopes: sl.ListSources()}
			}
			return result{}
		})
	}
	results := p.Wait()

	seen := map[string]bool{}
	var out []string
	for _, r := range results {
		for _, s := range r.scopes {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ListGroups implements nodeset.GroupLister, merging group names reported
// by every underlying GroupLister for the given scope.
func (m *MultiSource) ListGroups(scope string) ([]string, error) {
	p := pool.NewWithResults[[]string]().WithErrors()
	any := false
	for _, src := range m.sources {
		src := src
		gl, ok := src.(nodeset.GroupLister)
		if !ok {
			continue
		}
		any = true
		p.Go(func() ([]string, error) {
			names, err := gl.ListGroups(scope)
			if err != nil {
				return nil, nil // a source without this scope contributes nothing
			}
			return names, nil
		})
	}
	if !any {
		return nil, fmt.Errorf("groups: no source supports listing groups")
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []string
	for _, names := range results {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
