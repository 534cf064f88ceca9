package layout

import (
	"fmt"
	"maps"
)

// Behavior selects a specialized interpretation of a node's elements.
type Behavior string

const (
	BehaviorDefault    Behavior = "default"
	BehaviorString     Behavior = "string"
	BehaviorBytestring Behavior = "bytestring"
	BehaviorChar       Behavior = "char"
	BehaviorByte       Behavior = "byte"
)

// BehaviorKey is the parameter that records a node's behavior.
const BehaviorKey = "__array__"

// Parameters is arbitrary metadata attached to a node.
// Nodes never mutate a Parameters map after construction.
type Parameters map[string]any

// Get returns the value stored under key.
func (p Parameters) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

func (p Parameters) behavior() Behavior {
	if s, ok := p[BehaviorKey].(string); ok && s != "" {
		return Behavior(s)
	}
	return BehaviorDefault
}

// meta is embedded by every variant.
type meta struct {
	params Parameters
}

// Parameters returns the node's metadata. The map must not be modified.
func (m meta) Parameters() Parameters { return m.params }

// Behavior returns the behavior recorded under BehaviorKey, or BehaviorDefault.
func (m meta) Behavior() Behavior { return m.params.behavior() }

// Option configures metadata of a newly constructed node.
type Option func(*meta)

// WithParameters sets the node's parameters. The map is copied.
func WithParameters(p Parameters) Option {
	return func(m *meta) {
		if len(p) == 0 {
			return
		}
		if m.params == nil {
			m.params = make(Parameters, len(p))
		}
		maps.Copy(m.params, p)
	}
}

// WithBehavior records b under BehaviorKey.
func WithBehavior(b Behavior) Option {
	return func(m *meta) {
		if m.params == nil {
			m.params = make(Parameters, 1)
		}
		if b == BehaviorDefault {
			delete(m.params, BehaviorKey)
			return
		}
		m.params[BehaviorKey] = string(b)
	}
}

func newMeta(opts []Option) meta {
	var m meta
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithParameter returns a shallow copy of n with key set to value. Buffers and
// children are shared with n.
func WithParameter(n Node, key string, value any) Node {
	p := make(Parameters, len(n.Parameters())+1)
	maps.Copy(p, n.Parameters())
	p[key] = value
	return n.withParams(p)
}

// Parameter returns the value of a parameter, or an error wrapping
// ErrParameterNotFound.
func Parameter(n Node, key string) (any, error) {
	v, ok := n.Parameters()[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrParameterNotFound, key, n.Kind())
	}
	return v, nil
}
