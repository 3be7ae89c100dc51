package tools

import (
	"fmt"
	"math"
	"slices"

	"github.com/dshills/interact/internal/delegate"
)

// PropertyChange describes one modified property.
type PropertyChange struct {
	Set  *PropertySet
	Name string
	Old  any
	New  any
}

// PropertySet is a named group of typed tool settings.
//
// Properties are defined with a default value whose type fixes the
// property's type: bool, int, float64 or string. Values set later are
// converted to that type where that loses nothing.
type PropertySet struct {
	name    string
	order   []string
	values  map[string]any
	enabled bool

	// OnModified fires after a property value changes.
	OnModified delegate.Multicast[PropertyChange]
}

// NewPropertySet creates an empty, enabled property set.
func NewPropertySet(name string) *PropertySet {
	return &PropertySet{
		name:    name,
		values:  make(map[string]any),
		enabled: true,
	}
}

// Name returns the set's name.
func (p *PropertySet) Name() string {
	return p.name
}

// Enabled returns true if the set is shown to the user.
func (p *PropertySet) Enabled() bool {
	return p.enabled
}

// SetEnabled shows or hides the set.
func (p *PropertySet) SetEnabled(enabled bool) {
	p.enabled = enabled
}

// Define adds a property with its default. Redefining a property resets it.
func (p *PropertySet) Define(name string, def any) error {
	switch def.(type) {
	case bool, int, float64, string:
	default:
		return fmt.Errorf("%w: %s has unsupported type %T", ErrPropertyType, name, def)
	}
	if _, ok := p.values[name]; !ok {
		p.order = append(p.order, name)
	}
	p.values[name] = def
	return nil
}

// Names returns property names in definition order.
func (p *PropertySet) Names() []string {
	return slices.Clone(p.order)
}

// Get returns the value of name.
func (p *PropertySet) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Set stores v in name, converting it to the property's type, and fires
// OnModified if the value changed.
func (p *PropertySet) Set(name string, v any) error {
	old, ok := p.values[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, p.name, name)
	}
	nv, err := convertProperty(old, v)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", p.name, name, err)
	}
	if nv == old {
		return nil
	}
	p.values[name] = nv
	p.OnModified.Broadcast(PropertyChange{Set: p, Name: name, Old: old, New: nv})
	return nil
}

// Bool returns a bool property, or false.
func (p *PropertySet) Bool(name string) bool {
	v, _ := p.values[name].(bool)
	return v
}

// Int returns an int property, or 0.
func (p *PropertySet) Int(name string) int {
	v, _ := p.values[name].(int)
	return v
}

// Float returns a float64 property, or 0.
func (p *PropertySet) Float(name string) float64 {
	v, _ := p.values[name].(float64)
	return v
}

// Text returns a string property, or "".
func (p *PropertySet) Text(name string) string {
	v, _ := p.values[name].(string)
	return v
}

// Values returns a copy of all values.
func (p *PropertySet) Values() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// convertProperty converts v to the type of like.
func convertProperty(like, v any) (any, error) {
	switch like.(type) {
	case bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case string:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case int:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case uint64:
			if n <= math.MaxInt {
				return int(n), nil
			}
		case float64:
			if n == math.Trunc(n) && !math.IsInf(n, 0) {
				return int(n), nil
			}
		}
	case float64:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		}
	}
	return nil, fmt.Errorf("%w: want %T, got %T", ErrPropertyType, like, v)
}
