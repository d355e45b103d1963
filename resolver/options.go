package resolver

import (
	"fmt"

	"go.uber.org/zap"
)

// AmbiguityPolicy controls what happens when more than one registered
// provider is applicable to the same request.
type AmbiguityPolicy int

const (
	// PreferLatest is the default policy: the most recently registered
	// applicable provider wins and the override is logged at Warn.
	PreferLatest AmbiguityPolicy = iota

	// FailOnAmbiguity rejects overlapping derivation registrations with
	// [ConflictError] and ambiguous resolutions with
	// [AmbiguousProviderError].
	FailOnAmbiguity
)

// String returns the policy's configuration name.
func (p AmbiguityPolicy) String() string {
	switch p {
	case PreferLatest:
		return "latest"
	case FailOnAmbiguity:
		return "fail"
	default:
		return "unknown"
	}
}

// ParseAmbiguityPolicy maps a configuration string to a policy.
func ParseAmbiguityPolicy(s string) (AmbiguityPolicy, error) {
	switch s {
	case "", "latest":
		return PreferLatest, nil
	case "fail":
		return FailOnAmbiguity, nil
	default:
		return PreferLatest, fmt.Errorf("unknown ambiguity policy %q (want \"latest\" or \"fail\")", s)
	}
}

// DefaultMaxDepth bounds recursive derivation when no explicit limit is
// configured. The bound is a safety property, not a semantic guarantee;
// tune it with [WithMaxDepth].
const DefaultMaxDepth = 64

// Option configures a [Resolver] during construction.
type Option func(*Resolver)

// WithMaxDepth sets the recursion bound for a single resolution chain.
// Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n >= 1 {
			r.maxDepth = n
		}
	}
}

// WithAmbiguityPolicy sets how competing applicable providers are handled.
func WithAmbiguityPolicy(p AmbiguityPolicy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// WithLogger attaches a zap logger. The resolver logs provider overrides
// and registration shadowing; the default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}
