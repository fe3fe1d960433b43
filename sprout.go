// Package sprout expands shell-style placeholders inside arbitrary text:
// $NAME references, braced ${NAME:-default} forms with default, alternate
// and conditional modifiers, escape sequences, single-quoted literal
// blocks, and $(cmd) / `cmd` command substitution.
//
// It gives CLI tools, config loaders and templating layers
// bash-parameter-expansion semantics without invoking a real shell for
// the variable part. Command substitution, when wanted, does go through
// the user's shell via InterpolateCommands.
package sprout

import (
	"context"
)

// Engine is the interpolation entry point. It holds a configuration and
// a variable source, both read-only during a call, so one Engine is safe
// for concurrent use.
type Engine struct {
	config   Config
	provider Provider
	vars     Vars
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithProvider sets a base variable provider, for example EnvProvider.
// Variables added with Set or WithVar shadow it.
func WithProvider(p Provider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithVar binds one variable.
func WithVar(name, value string) Option {
	return func(e *Engine) {
		e.vars[name] = value
	}
}

// New creates an Engine with the default configuration and an empty
// variable set.
func New(opts ...Option) *Engine {
	e := &Engine{
		config: DefaultConfig(),
		vars:   Vars{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Set binds a variable, replacing any previous value for the name.
// Not safe to call concurrently with interpolation.
func (e *Engine) Set(name, value string) {
	e.vars[name] = value
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// chain layers the engine's own variables over the base provider.
func (e *Engine) chain() Provider {
	if e.provider == nil {
		return e.vars
	}
	if len(e.vars) == 0 {
		return e.provider
	}
	return overlayProvider{base: e.provider, extra: e.vars}
}

// Interpolate resolves variables, defaults and escapes in input. Command
// substitution tokens pass through as literal text; use
// InterpolateCommands to execute them. When nothing needs substituting,
// the input string is returned as-is with no allocation.
func (e *Engine) Interpolate(input string) (string, error) {
	r := &interpolator{provider: e.chain(), config: &e.config}
	return r.resolve(input, 0, false)
}

// InterpolateWith is Interpolate with extra temporary bindings that
// shadow the engine's variables for this call only.
func (e *Engine) InterpolateWith(input string, extra map[string]string) (string, error) {
	r := &interpolator{
		provider: overlayProvider{base: e.chain(), extra: extra},
		config:   &e.config,
	}
	return r.resolve(input, 0, false)
}

// InterpolateCommands resolves input like Interpolate and additionally
// executes $(cmd) and `cmd` substitutions, splicing each command's
// output into the result. Commands run strictly one after another, in
// source order, through the user's shell. Cancelling ctx kills the
// running command and the call returns an error, never partial output.
func (e *Engine) InterpolateCommands(ctx context.Context, input string) (string, error) {
	r := &interpolator{provider: e.chain(), config: &e.config}

	// First pass with \` and \$ preserved, so an escaped backtick or
	// dollar is not re-interpreted as a live command marker after
	// variable substitution.
	resolved, err := r.resolve(input, 0, true)
	if err != nil {
		return "", err
	}
	return r.resolveCommands(ctx, resolved)
}
