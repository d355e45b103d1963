package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklaren/go-implicit/bootstrap"
	"github.com/oklaren/go-implicit/printer"
	"github.com/oklaren/go-implicit/resolver"
)

func demoResolver(t *testing.T) *resolver.Resolver {
	t.Helper()
	res := resolver.New()
	reg := bootstrap.NewRegistry(res, nil)
	for _, m := range printer.Modules() {
		require.NoError(t, reg.Apply(m))
	}
	require.NoError(t, reg.Boot())
	return res
}

func TestOptionListInt_Rendering(t *testing.T) {
	res := demoResolver(t)

	inst, err := res.Resolve(resolver.Key("Option", resolver.Key("List", resolver.Key("Int"))))
	require.NoError(t, err)

	p, err := resolver.As[printer.Printer](inst)
	require.NoError(t, err)

	got := p.Print(printer.Some([]any{1, 3, 6}))
	assert.Equal(t, "Option[List[1: Int, 3: Int, 6: Int]]", got)

	assert.Equal(t, "None", p.Print(printer.None()))
}

func TestListString_Rendering(t *testing.T) {
	res := demoResolver(t)

	inst, err := res.Resolve(resolver.Key("List", resolver.Key("String")))
	require.NoError(t, err)

	p, err := resolver.As[printer.Printer](inst)
	require.NoError(t, err)
	assert.Equal(t, "List[a: String, b: String]", p.Print([]any{"a", "b"}))
}

func TestMapper_ResultTypeDiscovered(t *testing.T) {
	res := demoResolver(t)

	t.Run("Int maps to Boolean", func(t *testing.T) {
		inst, err := res.Resolve(resolver.Key("Mapper", resolver.Key("Int"), resolver.Unbound))
		require.NoError(t, err)
		assert.Equal(t, "Mapper[Int, Boolean]", inst.Key.String())

		m, err := resolver.As[printer.Mapper](inst)
		require.NoError(t, err)
		assert.Equal(t, true, m(3))
		assert.Equal(t, false, m(0))
	})

	t.Run("String maps to Double", func(t *testing.T) {
		inst, err := res.Resolve(resolver.Key("Mapper", resolver.Key("String"), resolver.Unbound))
		require.NoError(t, err)
		assert.Equal(t, "Mapper[String, Double]", inst.Key.String())

		m, err := resolver.As[printer.Mapper](inst)
		require.NoError(t, err)
		assert.Equal(t, 5.0, m("hello"))
	})
}

func TestNoBooleanPrinterRegistered(t *testing.T) {
	res := demoResolver(t)

	_, err := res.Resolve(resolver.Key("Boolean"))
	var noInst *resolver.NoInstanceError
	require.ErrorAs(t, err, &noInst)
	assert.Equal(t, "Boolean", noInst.Key.String())
}
