// Package groups provides GroupResolver implementations that back @group
// references in nodeset expressions with in-memory, file-backed, or
// multi-source group definitions.
package groups

import (
	"fmt"
	"sort"
	"sync"

	"github.com/whamcloud/nodeset-go"
)

// MemorySource is a GroupResolver backed by an in-memory map, organized by
// scope. It is safe for concurrent use.
type MemorySource struct {
	name string

	mu     sync.RWMutex
	scopes map[string]map[string]string // scope -> group name -> nodeset expression
}

// NewMemorySource returns an empty MemorySource identified by name (used in
// error messages; ListSources reports the scopes defined with Set, not this
// name).
func NewMemorySource(name string) *MemorySource {
	return &MemorySource{name: name, scopes: map[string]map[string]string{}}
}

// Set defines or replaces the expression for a group within a scope. An
// empty scope is the default scope.
func (m *MemorySource) Set(scope, name, expr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scopes[scope] == nil {
		m.scopes[scope] = map[string]string{}
	}
	m.scopes[scope][name] = expr
}

// ResolveGroup implements nodeset.GroupResolver.
func (m *MemorySource) ResolveGroup(scope, name string) (nodeset.NodeSet, error) {
	m.mu.RLock()
	expr, ok := m.scopes[scope][name]
	m.mu.RUnlock()
	if !ok {
		return nodeset.NodeSet{}, fmt.Errorf("groups: no group %q in scope %q of source %q", name, scope, m.name)
	}
	return nodeset.Parse(expr, m)
}

// ListSources implements nodeset.SourceLister.
func (m *MemorySource) ListSources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.scopes))
	for s := range m.scopes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ListGroups implements nodeset.GroupLister.
func (m *MemorySource) ListGroups(scope string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	groupMap, ok := m.scopes[scope]
	if !ok {
		return nil, fmt.Errorf("groups: no such scope %q in source %q", scope, m.name)
	}
	out := make([]string, 0, len(groupMap))
	for g := range groupMap {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}
