package resolver

import (
	"fmt"
	"strings"
)

// ── TypeKey ──────────────────────────────────────────────────────────────────

// TypeKey is a structural identifier for a type shape: a constructor name
// plus an ordered list of component keys. A key with no components is a
// concrete leaf ("Int"). Components may be [Unbound], meaning the caller
// leaves that slot to be discovered during resolution.
type TypeKey struct {
	Name    string
	Params  []TypeKey
	unbound bool
}

// Unbound is the placeholder for a component the caller leaves to be
// inferred. It renders as "_".
var Unbound = TypeKey{unbound: true}

// Key builds a TypeKey for a constructor and its components.
//
//	resolver.Key("Int")                                     // concrete leaf
//	resolver.Key("Option", resolver.Key("Int"))             // Option[Int]
//	resolver.Key("Mapper", resolver.Key("Int"), resolver.Unbound) // Mapper[Int, _]
func Key(name string, params ...TypeKey) TypeKey {
	return TypeKey{Name: name, Params: params}
}

// IsUnbound reports whether the key is the Unbound placeholder itself.
func (k TypeKey) IsUnbound() bool { return k.unbound }

// IsZero reports whether the key is the useless zero value (neither a named
// constructor nor the Unbound placeholder).
func (k TypeKey) IsZero() bool { return !k.unbound && k.Name == "" }

// Arity returns the number of component slots.
func (k TypeKey) Arity() int { return len(k.Params) }

// Concrete reports whether the key is fully bound: not Unbound, and every
// component recursively concrete. Only concrete keys index the instance
// cache.
func (k TypeKey) Concrete() bool {
	if k.unbound || k.Name == "" {
		return false
	}
	for _, p := range k.Params {
		if !p.Concrete() {
			return false
		}
	}
	return true
}

// String renders the canonical form: "Int", "Option[List[Int]]",
// "Mapper[Int, _]". The canonical form doubles as the cache and registry
// map key and is parseable by [ParseKey].
func (k TypeKey) String() string {
	if k.unbound {
		return "_"
	}
	if len(k.Params) == 0 {
		return k.Name
	}
	parts := make([]string, len(k.Params))
	for i, p := range k.Params {
		parts[i] = p.String()
	}
	return k.Name + "[" + strings.Join(parts, ", ") + "]"
}

// unify merges a request key against a provider pattern. Unbound slots on
// either side take the other side's key; concrete parts must agree. The
// merged key carries the most specific binding of each slot and is the
// source of component sub-requests during derivation.
func unify(req, pattern TypeKey) (TypeKey, bool) {
	if req.unbound {
		return pattern, true
	}
	if pattern.unbound {
		return req, true
	}
	if req.Name != pattern.Name || len(req.Params) != len(pattern.Params) {
		return TypeKey{}, false
	}
	merged := TypeKey{Name: req.Name, Params: make([]TypeKey, len(req.Params))}
	for i := range req.Params {
		m, ok := unify(req.Params[i], pattern.Params[i])
		if !ok {
			return TypeKey{}, false
		}
		merged.Params[i] = m
	}
	return merged, true
}

// shapeKey indexes derivation providers by constructor name and arity.
func shapeKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// ── Parsing ──────────────────────────────────────────────────────────────────

// ParseKey parses the canonical textual form produced by [TypeKey.String]:
//
//	Int
//	Option[List[Int]]
//	Mapper[Int, _]
//
// Whitespace around names and commas is ignored.
func ParseKey(s string) (TypeKey, error) {
	p := &keyParser{input: s}
	k, err := p.parse()
	if err != nil {
		return TypeKey{}, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return TypeKey{}, fmt.Errorf("parsing type key %q: unexpected trailing input at offset %d", s, p.pos)
	}
	return k, nil
}

type keyParser struct {
	input string
	pos   int
}

func (p *keyParser) parse() (TypeKey, error) {
	p.skipSpaces()
	name := p.ident()
	if name == "" {
		return TypeKey{}, fmt.Errorf("parsing type key %q: expected constructor name at offset %d", p.input, p.pos)
	}
	if name == "_" {
		return Unbound, nil
	}
	if !p.consume('[') {
		return Key(name), nil
	}
	var params []TypeKey
	for {
		param, err := p.parse()
		if err != nil {
			return TypeKey{}, err
		}
		params = append(params, param)
		p.skipSpaces()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return Key(name, params...), nil
		}
		return TypeKey{}, fmt.Errorf("parsing type key %q: expected ',' or ']' at offset %d", p.input, p.pos)
	}
}

func (p *keyParser) ident() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '[' || c == ']' || c == ',' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *keyParser) consume(c byte) bool {
	p.skipSpaces()
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *keyParser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
