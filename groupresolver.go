package nodeset

// GroupResolver resolves a group reference — an "@scope:name" or "@name"
// token encountered while parsing — into the NodeSet it denotes. Scope is
// empty when the reference carried no explicit scope; implementations
// should apply their own default scope in that case.
type GroupResolver interface {
	ResolveGroup(scope, name string) (NodeSet, error)
}

// SourceLister is implemented by a GroupResolver that can enumerate the
// scopes (group sources) it knows about.
type SourceLister interface {
	ListSources() []string
}

// GroupLister is implemented by a GroupResolver that can enumerate the
// group names defined within a scope.
type GroupLister interface {
	ListGroups(scope string) ([]string, error)
}

// resolverFunc adapts a plain function to GroupResolver, for callers that
// have no state to carry.
type resolverFunc func(scope, name string) (NodeSet, error)

func (f resolverFunc) ResolveGroup(scope, name string) (NodeSet, error) {
	return f(scope, name)
}
