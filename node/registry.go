package node

import "fmt"

// Registry is the tagged-variant catalogue mapping a kind label to its Kind
// definition — spec §4.2 / §9 ("Dynamic dispatch of node kinds: implement
// as a tagged-variant catalogue... no subclassing").
type Registry struct {
	kinds map[string]Kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Register adds or replaces a Kind under its Label. Panics on empty label,
// since that can only happen from a programming error in the registry's
// own built-in registration (never from user data).
func (r *Registry) Register(k Kind) {
	if k.Label == "" {
		panic("node: Kind.Label must not be empty")
	}
	r.kinds[k.Label] = k
}

// Lookup returns the Kind registered under label, or false if unknown (the
// UnknownNodeKind condition of spec §7).
func (r *Registry) Lookup(label string) (Kind, bool) {
	k, ok := r.kinds[label]
	return k, ok
}

// MustLookup is a convenience for call sites that have already validated
// the label exists (e.g. right after Register); it panics otherwise.
func (r *Registry) MustLookup(label string) Kind {
	k, ok := r.Lookup(label)
	if !ok {
		panic(fmt.Sprintf("node: unknown kind %q", label))
	}
	return k
}

// Labels returns every registered kind label, for diagnostics/listing.
func (r *Registry) Labels() []string {
	out := make([]string, 0, len(r.kinds))
	for l := range r.kinds {
		out = append(out, l)
	}
	return out
}
