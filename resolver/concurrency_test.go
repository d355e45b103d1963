package resolver_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/oklaren/go-implicit/resolver"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestResolve_ConcurrentFirstResolutionBuildsOnce(t *testing.T) {
	var builds atomic.Int64

	r := resolver.New()
	require.NoError(t, r.RegisterValue(resolver.Key("Int"), "int"))
	require.NoError(t, r.RegisterDerivation(resolver.Key("Option", resolver.Unbound),
		func(deps []*resolver.Instance) (any, error) {
			builds.Add(1)
			// Widen the race window so stragglers pile onto the flight.
			time.Sleep(10 * time.Millisecond)
			return "option of " + deps[0].Value.(string), nil
		}))

	const n = 32
	req := resolver.Key("Option", resolver.Key("Int"))

	var wg sync.WaitGroup
	results := make([]*resolver.Instance, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Resolve(req)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, "Option[Int]", results[i].Key.String())
		assert.Same(t, results[0], results[i], "all racers receive the cached winner")
	}
	assert.Equal(t, int64(1), builds.Load(), "racing first-time resolutions collapse into one build")
}

func TestResolve_ConcurrentDistinctRequests(t *testing.T) {
	r := resolver.New()
	require.NoError(t, r.RegisterValue(resolver.Key("Int"), "int"))
	require.NoError(t, r.RegisterValue(resolver.Key("String"), "string"))
	require.NoError(t, r.RegisterDerivation(resolver.Key("List", resolver.Unbound),
		func(deps []*resolver.Instance) (any, error) {
			return "list of " + deps[0].Value.(string), nil
		}))

	reqs := []resolver.TypeKey{
		resolver.Key("List", resolver.Key("Int")),
		resolver.Key("List", resolver.Key("String")),
		resolver.Key("List", resolver.Key("List", resolver.Key("Int"))),
		resolver.Key("Int"),
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		for _, req := range reqs {
			wg.Add(1)
			go func(req resolver.TypeKey) {
				defer wg.Done()
				inst, err := r.Resolve(req)
				assert.NoError(t, err)
				assert.True(t, inst.Key.Concrete())
			}(req)
		}
	}
	wg.Wait()

	assert.Len(t, r.CachedKeys(), 5)
}
