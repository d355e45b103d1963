package resolver

import (
	"fmt"
	"strings"
)

// All resolution and registration failures carry the offending [TypeKey] so
// callers can report exactly which shape could not be satisfied. Match them
// with errors.As.

// ConflictError is returned when a registration collides with an existing
// terminal mapping: a second value provider for an already-registered
// concrete key, or (under [FailOnAmbiguity]) an overlapping derivation for
// the same constructor and arity.
type ConflictError struct {
	Key TypeKey
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting registration for %s", e.Key)
}

// NoInstanceError is returned when no provider, direct or derivable,
// satisfies the requested key.
type NoInstanceError struct {
	Key TypeKey
}

func (e *NoInstanceError) Error() string {
	return fmt.Sprintf("no instance satisfies %s", e.Key)
}

// AmbiguousProviderError is returned under [FailOnAmbiguity] when more than
// one registered provider is applicable to the same request.
type AmbiguousProviderError struct {
	Key        TypeKey
	Candidates []string
}

func (e *AmbiguousProviderError) Error() string {
	return fmt.Sprintf("ambiguous providers for %s: %s", e.Key, strings.Join(e.Candidates, ", "))
}

// CyclicResolutionError is returned when a key recurs within its own
// still-pending resolution chain. The chain runs from the original request
// to the repeated key.
type CyclicResolutionError struct {
	Chain []TypeKey
}

func (e *CyclicResolutionError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, k := range e.Chain {
		parts[i] = k.String()
	}
	return "cyclic resolution: " + strings.Join(parts, " -> ")
}

// ResolutionDepthExceededError is returned when recursion exceeds the
// configured bound without resolving or cycling. It catches non-repeating
// but unbounded derivation chains.
type ResolutionDepthExceededError struct {
	Key   TypeKey
	Limit int
}

func (e *ResolutionDepthExceededError) Error() string {
	return fmt.Sprintf("resolution depth exceeded (limit %d) at %s", e.Limit, e.Key)
}
