package resolver

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ── Resolver ─────────────────────────────────────────────────────────────────

// Resolver owns a registry of instance providers and performs recursive,
// memoized lookup to satisfy requested type keys.
//
// Registration is expected to happen during a single-threaded setup phase;
// after that, concurrent Resolve calls are safe. See the package
// documentation for the full resolution rules.
type Resolver struct {
	mu sync.RWMutex

	// canonical concrete key → terminal provider
	values map[string]*valueProvider

	// "Constructor/arity" → derivations in registration order
	derivations map[string][]*derivationProvider

	// canonical concrete key → built instance
	cache map[string]*Instance

	// flight deduplicates concurrent first-time resolutions of the same
	// canonical request so racing callers observe a single build.
	flight singleflight.Group

	log      *zap.Logger
	maxDepth int
	policy   AmbiguityPolicy
	seq      int
}

// New creates an empty Resolver ready for registration.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		values:      make(map[string]*valueProvider),
		derivations: make(map[string][]*derivationProvider),
		cache:       make(map[string]*Instance),
		log:         zap.NewNop(),
		maxDepth:    DefaultMaxDepth,
		policy:      PreferLatest,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ── Registration ─────────────────────────────────────────────────────────────

// RegisterValue adds a terminal provider: a fully-built capability for one
// concrete key. At most one value provider may exist per concrete key;
// duplicates fail with [ConflictError] regardless of policy.
func (r *Resolver) RegisterValue(key TypeKey, capability any) error {
	if !key.Concrete() {
		return fmt.Errorf("value provider requires a concrete key, got %s", key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := key.String()
	if _, exists := r.values[canonical]; exists {
		return &ConflictError{Key: key}
	}
	r.seq++
	r.values[canonical] = &valueProvider{
		inst: &Instance{Key: key, Value: capability},
		seq:  r.seq,
	}
	return nil
}

// RegisterDerivation adds a non-terminal provider for the pattern's
// constructor and arity. Unbound slots in the pattern match any component of
// a request; dependencies default to the unified pattern's components unless
// [Requires] overrides them.
//
// A pattern overlapping an earlier registration of the same constructor and
// arity is rejected with [ConflictError] under [FailOnAmbiguity]; under
// [PreferLatest] it shadows the earlier one, and the shadowing is logged.
func (r *Resolver) RegisterDerivation(pattern TypeKey, build BuildFunc, opts ...RegisterOption) error {
	if pattern.IsUnbound() || pattern.IsZero() {
		return fmt.Errorf("derivation pattern must name a constructor, got %s", pattern)
	}
	if build == nil {
		return fmt.Errorf("derivation for %s: build function is nil", pattern)
	}

	dp := &derivationProvider{pattern: pattern, build: build}
	for _, opt := range opts {
		opt(dp)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	shape := shapeKey(pattern.Name, pattern.Arity())
	for _, existing := range r.derivations[shape] {
		if _, overlap := unify(existing.pattern, pattern); !overlap {
			continue
		}
		if r.policy == FailOnAmbiguity {
			return &ConflictError{Key: pattern}
		}
		r.log.Warn("derivation overlaps an earlier registration; the later one is preferred",
			zap.String("pattern", pattern.String()),
			zap.String("shadows", existing.pattern.String()))
	}
	r.seq++
	dp.seq = r.seq
	r.derivations[shape] = append(r.derivations[shape], dp)
	return nil
}

// ── Resolution ───────────────────────────────────────────────────────────────

// Resolve maps a request — possibly containing Unbound components — to a
// built Instance, deriving and memoizing intermediate instances as needed.
// It either returns a usable Instance or one of the package's typed errors;
// no partial instance is ever returned.
func (r *Resolver) Resolve(req TypeKey) (*Instance, error) {
	if req.IsZero() {
		return nil, fmt.Errorf("resolve: empty type key")
	}
	if req.IsUnbound() {
		return nil, &NoInstanceError{Key: req}
	}

	canonical := req.String()
	if req.Concrete() {
		r.mu.RLock()
		inst, ok := r.cache[canonical]
		r.mu.RUnlock()
		if ok {
			return inst, nil
		}
	}

	// Deduplicate racing first-time resolutions of the same request. Nested
	// component resolutions run inline within this flight and never join
	// another, so recursive chains cannot deadlock across goroutines.
	v, err, _ := r.flight.Do(canonical, func() (any, error) {
		inst, err := r.resolve(req, &chain{pending: make(map[string]struct{})})
		if err != nil {
			return nil, err
		}
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}

// chain tracks one in-flight resolution stack for cycle and depth guards.
type chain struct {
	stack   []TypeKey
	pending map[string]struct{}
}

func (r *Resolver) resolve(req TypeKey, st *chain) (*Instance, error) {
	if req.IsUnbound() || req.IsZero() {
		// An unconstrained slot: nothing to match a provider against.
		return nil, &NoInstanceError{Key: req}
	}

	canonical := req.String()
	if req.Concrete() {
		r.mu.RLock()
		inst, ok := r.cache[canonical]
		r.mu.RUnlock()
		if ok {
			return inst, nil
		}
	}

	if len(st.stack) >= r.maxDepth {
		return nil, &ResolutionDepthExceededError{Key: req, Limit: r.maxDepth}
	}
	if _, pending := st.pending[canonical]; pending {
		cyc := append(append([]TypeKey{}, st.stack...), req)
		return nil, &CyclicResolutionError{Chain: cyc}
	}
	st.pending[canonical] = struct{}{}
	st.stack = append(st.stack, req)
	defer func() {
		delete(st.pending, canonical)
		st.stack = st.stack[:len(st.stack)-1]
	}()

	// Terminal fast path: a value provider registered for the exact key.
	if req.Concrete() {
		r.mu.RLock()
		vp, ok := r.values[canonical]
		r.mu.RUnlock()
		if ok {
			return r.store(vp.inst), nil
		}
	}

	cands := r.match(req)
	if len(cands) == 0 {
		return nil, &NoInstanceError{Key: req}
	}
	chosen := cands[len(cands)-1]
	if len(cands) > 1 {
		if r.policy == FailOnAmbiguity {
			names := make([]string, len(cands))
			for i, c := range cands {
				names[i] = c.describe()
			}
			return nil, &AmbiguousProviderError{Key: req, Candidates: names}
		}
		r.log.Warn("multiple providers match; preferring the latest registration",
			zap.String("request", canonical),
			zap.String("chosen", chosen.describe()),
			zap.Int("candidates", len(cands)))
	}

	if chosen.value != nil {
		return r.store(chosen.value.inst), nil
	}

	dp := chosen.deriv
	needs := dp.requires
	if needs == nil {
		needs = chosen.merged.Params
	}

	resolvedParams := make([]TypeKey, len(chosen.merged.Params))
	copy(resolvedParams, chosen.merged.Params)

	deps := make([]*Instance, len(needs))
	for i, need := range needs {
		inst, err := r.resolve(need, st)
		if err != nil {
			return nil, err
		}
		deps[i] = inst
		if dp.requires == nil {
			// Component resolution is what binds Unbound slots: the slot
			// takes the concrete key the component resolved to.
			resolvedParams[i] = inst.Key
		}
	}

	concrete := TypeKey{Name: req.Name, Params: resolvedParams}

	// The fully-bound form may have been memoized by an earlier request.
	r.mu.RLock()
	inst, ok := r.cache[concrete.String()]
	r.mu.RUnlock()
	if ok {
		return inst, nil
	}

	capability, err := dp.build(deps)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", concrete, err)
	}
	return r.store(&Instance{Key: concrete, Value: capability}), nil
}

// match collects every applicable provider for a request, in registration
// order. Value providers participate only for non-concrete requests (a
// concrete request hits them directly by key).
func (r *Resolver) match(req TypeKey) []candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []candidate
	if !req.Concrete() {
		for _, vp := range r.values {
			if merged, ok := unify(req, vp.inst.Key); ok {
				out = append(out, candidate{merged: merged, value: vp, seq: vp.seq})
			}
		}
	}
	for _, dp := range r.derivations[shapeKey(req.Name, req.Arity())] {
		merged, ok := unify(req, dp.pattern)
		if !ok {
			continue
		}
		if dp.requires != nil && !merged.Concrete() {
			// Explicit-dependency rules cannot bind leftover slots.
			continue
		}
		out = append(out, candidate{merged: merged, deriv: dp, seq: dp.seq})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// store inserts an instance first-writer-wins: if a racing resolution
// already cached the key, the redundant instance is discarded and the
// winner's returned.
func (r *Resolver) store(inst *Instance) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.cache[inst.Key.String()]; ok {
		return existing
	}
	r.cache[inst.Key.String()] = inst
	return inst
}

// ── Introspection ────────────────────────────────────────────────────────────

// ProviderInfo describes one registered provider for debugging surfaces.
type ProviderInfo struct {
	Kind     string   `json:"kind"` // "value" or "derivation"
	Key      string   `json:"key"`  // concrete key or pattern
	Requires []string `json:"requires,omitempty"`
}

// Providers returns every registered provider in registration order.
func (r *Resolver) Providers() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type numbered struct {
		info ProviderInfo
		seq  int
	}
	var all []numbered
	for _, vp := range r.values {
		all = append(all, numbered{ProviderInfo{Kind: "value", Key: vp.inst.Key.String()}, vp.seq})
	}
	for _, bucket := range r.derivations {
		for _, dp := range bucket {
			info := ProviderInfo{Kind: "derivation", Key: dp.pattern.String()}
			for _, req := range dp.requires {
				info.Requires = append(info.Requires, req.String())
			}
			all = append(all, numbered{info, dp.seq})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	out := make([]ProviderInfo, len(all))
	for i, n := range all {
		out[i] = n.info
	}
	return out
}

// Constructors returns the distinct shapes the registry can satisfy: leaf
// names of value providers and "Constructor/arity" entries for derivations,
// sorted.
func (r *Resolver) Constructors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, vp := range r.values {
		set[vp.inst.Key.Name] = struct{}{}
	}
	for shape := range r.derivations {
		set[shape] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// CachedKeys returns the canonical keys of all memoized instances, sorted.
func (r *Resolver) CachedKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.cache))
	for k := range r.cache {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
