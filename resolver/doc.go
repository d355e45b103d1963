// Package resolver provides a runtime type-class style instance resolver:
// a registry of typed providers plus a recursive, memoized lookup that turns
// a requested type shape into a built capability value.
//
// # Overview
//
// Callers describe type shapes with [TypeKey]: a constructor name plus
// component keys, where a component may be [Unbound] ("infer this for me").
// Providers come in two kinds:
//
//   - value providers hold a fully-built capability for one concrete key
//     (the terminal case, like an implicit val for Int);
//   - derivation providers match a constructor shape and build their
//     capability from the recursively resolved instances of their
//     components (like an implicit def for Option[T] given T).
//
// # Quick start
//
//	r := resolver.New()
//	r.RegisterValue(resolver.Key("Int"), intPrinter)
//	r.RegisterDerivation(resolver.Key("Option", resolver.Unbound), buildOptionPrinter)
//	r.RegisterDerivation(resolver.Key("List", resolver.Unbound), buildListPrinter)
//
//	inst, err := r.Resolve(resolver.Key("Option", resolver.Key("List", resolver.Key("Int"))))
//	p, err := resolver.As[Printer](inst)
//
// # Resolution
//
// Resolution is outermost-first: the outer constructor's provider is fixed
// before its components are resolved, each of which may itself be concrete,
// parameterized, or Unbound. An Unbound component is bound as a by-product
// of matching — a request like Mapper[Int, _] unifies against a registered
// Mapper[Int, Boolean] and discovers Boolean without the caller naming it.
//
// Instances are built lazily on first successful resolution and cached for
// the lifetime of the resolver, keyed by the fully-concrete key they
// satisfy. Resolving the same concrete key twice returns the same instance
// and runs its build function at most once.
//
// # Failure modes
//
// Resolve never returns a partial instance. It fails with [NoInstanceError]
// when nothing matches, [CyclicResolutionError] when a key recurs within
// its own pending chain, [ResolutionDepthExceededError] when derivation
// recurses past the configured bound, and — under [FailOnAmbiguity] —
// [AmbiguousProviderError] when several providers apply. The default policy
// instead prefers the most recently registered provider and logs the
// override.
//
// # Concurrency
//
// Register during a single-threaded setup phase, then Resolve freely from
// concurrent callers: racing first-time resolutions of the same request are
// collapsed into one build, and cache insertion is first-writer-wins.
package resolver
