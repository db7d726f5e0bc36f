package hotkey

import "context"

type registryKey struct{}

// WithRegistry returns a context carrying r. Code running under the
// returned context reaches r through FromContext, so independent
// registries can coexist in one process.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, r)
}

// FromContext returns the registry carried by ctx.
func FromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(registryKey{}).(*Registry)
	return r, ok && r != nil
}

// MustFromContext returns the registry carried by ctx and panics when
// there is none.
func MustFromContext(ctx context.Context) *Registry {
	r, ok := FromContext(ctx)
	if !ok {
		panic("hotkey: no registry in context; wrap it with WithRegistry")
	}
	return r
}
