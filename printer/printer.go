// Package printer is the demo type class shipped with the resolver: textual
// renderers for base types and for containers of anything renderable. The
// CLI, the debug server, and the tests all share this wiring.
package printer

import (
	"fmt"
	"strings"

	"github.com/oklaren/go-implicit/bootstrap"
	"github.com/oklaren/go-implicit/resolver"
)

// Printer renders a value of the type its instance was resolved for.
type Printer interface {
	Print(v any) string
}

// Func adapts a plain function to [Printer].
type Func func(v any) string

func (f Func) Print(v any) string { return f(v) }

// Mapper is the capability of a Mapper[T, R] instance: a total function
// from a T value to an R value.
type Mapper func(v any) any

// Option is the demo optional container printed as Option[...] or None.
type Option struct {
	value   any
	present bool
}

func Some(v any) Option { return Option{value: v, present: true} }

func None() Option { return Option{} }

// Get returns the held value and whether it is present.
func (o Option) Get() (any, bool) { return o.value, o.present }

// ── Modules ──────────────────────────────────────────────────────────────────

// Modules returns the full demo wiring in registration order.
func Modules() []bootstrap.Module {
	return []bootstrap.Module{Leaves{}, Containers{}, Mappers{}}
}

// Leaves registers terminal printers for the base types.
type Leaves struct{ bootstrap.BaseModule }

func (Leaves) Name() string { return "printer.leaves" }

func (Leaves) Register(r *resolver.Resolver) error {
	if err := r.RegisterValue(resolver.Key("Int"), Func(func(v any) string {
		return fmt.Sprintf("%v: Int", v)
	})); err != nil {
		return err
	}
	return r.RegisterValue(resolver.Key("String"), Func(func(v any) string {
		return fmt.Sprintf("%v: String", v)
	}))
}

// Containers registers derivations for List and Option: given a printer for
// the element type, they print the whole container.
type Containers struct{ bootstrap.BaseModule }

func (Containers) Name() string { return "printer.containers" }

func (Containers) Register(r *resolver.Resolver) error {
	if err := r.RegisterDerivation(resolver.Key("List", resolver.Unbound), buildList); err != nil {
		return err
	}
	return r.RegisterDerivation(resolver.Key("Option", resolver.Unbound), buildOption)
}

func buildList(deps []*resolver.Instance) (any, error) {
	elem, err := resolver.As[Printer](deps[0])
	if err != nil {
		return nil, err
	}
	return Func(func(v any) string {
		items, ok := v.([]any)
		if !ok {
			return fmt.Sprintf("<not a list: %v>", v)
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = elem.Print(item)
		}
		return "List[" + strings.Join(parts, ", ") + "]"
	}), nil
}

func buildOption(deps []*resolver.Instance) (any, error) {
	inner, err := resolver.As[Printer](deps[0])
	if err != nil {
		return nil, err
	}
	return Func(func(v any) string {
		o, ok := v.(Option)
		if !ok {
			return fmt.Sprintf("<not an option: %v>", v)
		}
		if held, present := o.Get(); present {
			return "Option[" + inner.Print(held) + "]"
		}
		return "None"
	}), nil
}

// Mappers registers the partially-applied lookup demo: concrete Mapper
// rules whose result type is discovered by resolution rather than supplied
// by the caller.
type Mappers struct{ bootstrap.BaseModule }

func (Mappers) Name() string { return "printer.mappers" }

func (Mappers) Register(r *resolver.Resolver) error {
	intToBool := resolver.Key("Mapper", resolver.Key("Int"), resolver.Key("Boolean"))
	if err := r.RegisterValue(intToBool, Mapper(func(v any) any {
		return v.(int) != 0
	})); err != nil {
		return err
	}
	stringToDouble := resolver.Key("Mapper", resolver.Key("String"), resolver.Key("Double"))
	return r.RegisterValue(stringToDouble, Mapper(func(v any) any {
		return float64(len(v.(string)))
	}))
}
