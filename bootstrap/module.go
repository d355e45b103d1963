// Package bootstrap populates a resolver's registry during the
// single-threaded setup phase. Wiring is described by Modules — small units
// that register providers and optionally pre-warm resolutions in a boot
// phase after all registration is done.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oklaren/go-implicit/resolver"
)

// ── Module ───────────────────────────────────────────────────────────────────

// Module is one unit of registry wiring.
//
// Register binds providers; do not resolve anything there. Boot runs after
// every module has registered, so it is safe to resolve (e.g. to pre-warm
// hot instances or sanity-check wiring).
type Module interface {
	// Name identifies the module; duplicates are applied once.
	Name() string

	// Register adds providers to the resolver.
	Register(r *resolver.Resolver) error

	// Boot is called after all modules have registered.
	Boot(r *resolver.Resolver) error
}

// BaseModule is an embeddable no-op Boot. Embed it and override what you
// need.
type BaseModule struct{}

func (BaseModule) Boot(*resolver.Resolver) error { return nil }

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry applies Modules against one resolver, suppressing duplicates and
// running the two-phase register/boot lifecycle.
type Registry struct {
	res     *resolver.Resolver
	log     *zap.Logger
	applied map[string]bool
	order   []Module
	booted  bool
}

// NewRegistry creates a registry bound to res. A nil logger is replaced by
// a no-op one.
func NewRegistry(res *resolver.Resolver, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		res:     res,
		log:     log,
		applied: make(map[string]bool),
	}
}

// Apply registers a module's providers. A module already applied under the
// same name is skipped. If the registry is already booted, the module is
// booted immediately after registering.
func (g *Registry) Apply(m Module) error {
	if g.applied[m.Name()] {
		g.log.Debug("module already applied", zap.String("module", m.Name()))
		return nil
	}
	if err := m.Register(g.res); err != nil {
		return fmt.Errorf("module %s: register: %w", m.Name(), err)
	}
	g.applied[m.Name()] = true
	g.order = append(g.order, m)
	g.log.Debug("module registered", zap.String("module", m.Name()))

	if g.booted {
		if err := m.Boot(g.res); err != nil {
			return fmt.Errorf("module %s: boot: %w", m.Name(), err)
		}
	}
	return nil
}

// Boot runs Boot on all applied modules, in application order. Subsequent
// calls are no-ops.
func (g *Registry) Boot() error {
	if g.booted {
		return nil
	}
	g.booted = true
	for _, m := range g.order {
		if err := m.Boot(g.res); err != nil {
			return fmt.Errorf("module %s: boot: %w", m.Name(), err)
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (g *Registry) Booted() bool { return g.booted }

// Modules returns the names of all applied modules, in application order.
func (g *Registry) Modules() []string {
	out := make([]string, len(g.order))
	for i, m := range g.order {
		out[i] = m.Name()
	}
	return out
}
