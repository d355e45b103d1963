package bootstrap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklaren/go-implicit/bootstrap"
	"github.com/oklaren/go-implicit/resolver"
)

type stubModule struct {
	bootstrap.BaseModule
	name        string
	registered  int
	booted      int
	registerErr error
	bootErr     error
}

func (m *stubModule) Name() string { return m.name }

func (m *stubModule) Register(r *resolver.Resolver) error {
	m.registered++
	if m.registerErr != nil {
		return m.registerErr
	}
	return r.RegisterValue(resolver.Key(m.name), m.name)
}

func (m *stubModule) Boot(r *resolver.Resolver) error {
	m.booted++
	return m.bootErr
}

func TestRegistry_ApplyAndBoot(t *testing.T) {
	res := resolver.New()
	reg := bootstrap.NewRegistry(res, nil)

	a := &stubModule{name: "A"}
	b := &stubModule{name: "B"}
	require.NoError(t, reg.Apply(a))
	require.NoError(t, reg.Apply(b))

	assert.Equal(t, 0, a.booted, "Boot must not run before Registry.Boot")
	require.NoError(t, reg.Boot())
	assert.Equal(t, 1, a.booted)
	assert.Equal(t, 1, b.booted)
	assert.Equal(t, []string{"A", "B"}, reg.Modules())

	inst, err := res.Resolve(resolver.Key("A"))
	require.NoError(t, err)
	assert.Equal(t, "A", inst.Value)
}

func TestRegistry_DuplicateApplySkipped(t *testing.T) {
	reg := bootstrap.NewRegistry(resolver.New(), nil)

	m := &stubModule{name: "A"}
	require.NoError(t, reg.Apply(m))
	require.NoError(t, reg.Apply(m))
	assert.Equal(t, 1, m.registered)
}

func TestRegistry_BootIdempotent(t *testing.T) {
	reg := bootstrap.NewRegistry(resolver.New(), nil)
	m := &stubModule{name: "A"}
	require.NoError(t, reg.Apply(m))

	require.NoError(t, reg.Boot())
	require.NoError(t, reg.Boot())
	assert.Equal(t, 1, m.booted)
	assert.True(t, reg.Booted())
}

func TestRegistry_ApplyAfterBoot_BootsImmediately(t *testing.T) {
	reg := bootstrap.NewRegistry(resolver.New(), nil)
	require.NoError(t, reg.Boot())

	m := &stubModule{name: "late"}
	require.NoError(t, reg.Apply(m))
	assert.Equal(t, 1, m.booted)
}

func TestRegistry_ErrorsPropagate(t *testing.T) {
	t.Run("register error", func(t *testing.T) {
		reg := bootstrap.NewRegistry(resolver.New(), nil)
		boom := errors.New("boom")
		err := reg.Apply(&stubModule{name: "A", registerErr: boom})
		require.ErrorIs(t, err, boom)
		assert.Empty(t, reg.Modules(), "a failed module is not recorded as applied")
	})

	t.Run("boot error", func(t *testing.T) {
		reg := bootstrap.NewRegistry(resolver.New(), nil)
		boom := errors.New("boom")
		require.NoError(t, reg.Apply(&stubModule{name: "A", bootErr: boom}))
		require.ErrorIs(t, reg.Boot(), boom)
	})
}
