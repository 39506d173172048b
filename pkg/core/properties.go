package core

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Properties is the insertion-ordered key/value bag attached to every vertex
// and edge. Go maps iterate in random order, so the bag keeps a parallel key
// slice: scans, projections, and JSON output stay deterministic.
type Properties struct {
	keys []string
	vals map[string]Value
}

// NewProperties returns an empty bag.
func NewProperties() Properties {
	return Properties{vals: make(map[string]Value)}
}

// PropertiesFromMap coerces a dynamically typed map (JSON/YAML shape) into a
// bag. Map iteration order is not stable, so keys are inserted sorted.
func PropertiesFromMap(m map[string]any) (Properties, error) {
	p := NewProperties()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := FromAny(m[k])
		if err != nil {
			return Properties{}, err
		}
		p.Set(k, v)
	}
	return p, nil
}

// Set adds or replaces a key. A replaced key keeps its original position.
func (p *Properties) Set(key string, v Value) {
	if p.vals == nil {
		p.vals = make(map[string]Value)
	}
	if _, ok := p.vals[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.vals[key] = v
}

// Get returns the value for key and whether it is present.
func (p Properties) Get(key string) (Value, bool) {
	v, ok := p.vals[key]
	return v, ok
}

func (p Properties) Len() int { return len(p.keys) }

// Keys returns the keys in insertion order. The slice is a copy.
func (p Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Each calls fn for every pair in insertion order until fn returns false.
func (p Properties) Each(fn func(key string, v Value) bool) {
	for _, k := range p.keys {
		if !fn(k, p.vals[k]) {
			return
		}
	}
}

// Clone returns an independent copy of the bag.
func (p Properties) Clone() Properties {
	out := Properties{
		keys: make([]string, len(p.keys)),
		vals: make(map[string]Value, len(p.vals)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.vals {
		out.vals[k] = v
	}
	return out
}

// MarshalJSON emits an object with keys in insertion order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
