package resolver

// ── Instances ────────────────────────────────────────────────────────────────

// Instance is a built capability value keyed by the concrete TypeKey it
// satisfies. Instances are immutable once constructed and may be freely
// shared by callers; the resolver owns the cached copy.
type Instance struct {
	Key   TypeKey
	Value any
}

// As type-asserts an instance's capability, in the style of a generic
// container resolve helper.
//
//	p, err := resolver.As[printer.Printer](inst)
func As[T any](inst *Instance) (T, error) {
	var zero T
	if inst == nil {
		return zero, &NoInstanceError{}
	}
	out, ok := inst.Value.(T)
	if !ok {
		return zero, &CapabilityTypeError{Key: inst.Key, Got: inst.Value, Want: zero}
	}
	return out, nil
}

// CapabilityTypeError is returned by [As] when an instance's capability does
// not have the requested Go type.
type CapabilityTypeError struct {
	Key  TypeKey
	Got  any
	Want any
}

func (e *CapabilityTypeError) Error() string {
	return "instance for " + e.Key.String() + " holds a different capability type"
}

// ── Providers ────────────────────────────────────────────────────────────────

// BuildFunc assembles a composite capability from the resolved instances of
// a derivation's dependencies, in dependency order.
type BuildFunc func(deps []*Instance) (any, error)

// valueProvider is terminal: it already holds a fully-built instance for one
// concrete key.
type valueProvider struct {
	inst *Instance
	seq  int
}

// derivationProvider is non-terminal. Its pattern may contain Unbound slots;
// unification against a request binds them. Dependencies default to the
// unified pattern's own components; an explicit requires list overrides that
// for context-style rules (output key plus separately declared needs).
type derivationProvider struct {
	pattern  TypeKey
	requires []TypeKey
	build    BuildFunc
	seq      int
}

// candidate is one applicable provider for a request, found during matching.
type candidate struct {
	merged TypeKey
	value  *valueProvider
	deriv  *derivationProvider
	seq    int
}

func (c candidate) describe() string {
	if c.value != nil {
		return "value " + c.value.inst.Key.String()
	}
	return "derivation " + c.deriv.pattern.String()
}

// RegisterOption configures a single derivation registration.
type RegisterOption func(*derivationProvider)

// Requires declares an explicit dependency list for a derivation, replacing
// the default (the pattern's own component keys). Use it for rules whose
// needs are not the output's components, e.g. a concrete key built from
// other instances.
func Requires(keys ...TypeKey) RegisterOption {
	return func(p *derivationProvider) {
		p.requires = keys
	}
}
