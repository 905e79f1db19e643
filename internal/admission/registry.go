// Package admission implements the trusted-reporter gate. Only identifiers
// present in the registry may submit metrics; everything else is rejected
// before any proof work happens.
package admission

// Registry is the set of reporters authorized to submit. Caller
// authorization for mutating it is an external concern (the HTTP layer
// guards the admin route); the registry itself has no failure modes.
type Registry struct {
	reporters map[string]struct{}
}

// NewRegistry builds a registry seeded with the given reporters.
func NewRegistry(seed ...string) *Registry {
	r := &Registry{reporters: make(map[string]struct{})}
	for _, id := range seed {
		r.Register(id)
	}
	return r
}

// Register adds a reporter. Re-registering is a no-op, not an error.
func (r *Registry) Register(reporter string) {
	r.reporters[reporter] = struct{}{}
}

// IsTrusted reports whether the reporter may submit metrics.
func (r *Registry) IsTrusted(reporter string) bool {
	_, ok := r.reporters[reporter]
	return ok
}

// List returns the current membership. Order is unspecified.
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.reporters))
	for id := range r.reporters {
		out = append(out, id)
	}
	return out
}

// Len returns the number of registered reporters.
func (r *Registry) Len() int {
	return len(r.reporters)
}
