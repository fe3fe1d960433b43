package sprout

import "os"

// Provider supplies variable values during interpolation.
//
// Implementations must tolerate repeated and re-entrant lookups: the
// resolver may query the same provider many times per input, including
// while resolving a default value.
type Provider interface {
	Get(name string) (string, bool)
}

// Vars is a plain in-memory Provider.
type Vars map[string]string

// Get implements Provider.
func (v Vars) Get(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// EnvProvider resolves variables from the process environment.
type EnvProvider struct{}

// Get implements Provider.
func (EnvProvider) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// overlayProvider checks temporary bindings before falling back to a
// base provider. Used by InterpolateWith for per-call bindings.
type overlayProvider struct {
	base  Provider
	extra map[string]string
}

func (o overlayProvider) Get(name string) (string, bool) {
	if value, ok := o.extra[name]; ok {
		return value, true
	}
	return o.base.Get(name)
}
