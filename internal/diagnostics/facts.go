package diagnostics

import (
	"iter"

	"gopkg.in/yaml.v3"
)

// Facts is an insertion-ordered string map. Setting an existing key replaces
// its value in place. The zero value is empty and ready to use.
type Facts struct {
	keys   []string
	values map[string]string
}

// NewFacts builds facts from alternating key/value arguments. A trailing key
// without a value is recorded with an empty value.
func NewFacts(kv ...string) *Facts {
	f := &Facts{}
	for i := 0; i < len(kv); i += 2 {
		v := ""
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		f.Set(kv[i], v)
	}
	return f
}

// Set records a fact.
func (f *Facts) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value recorded for key.
func (f *Facts) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

// Len returns the number of facts.
func (f *Facts) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the fact names in insertion order.
func (f *Facts) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.keys...)
}

// All iterates the facts in insertion order.
func (f *Facts) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if f == nil {
			return
		}
		for _, k := range f.keys {
			if !yield(k, f.values[k]) {
				return
			}
		}
	}
}

// MarshalYAML renders the facts as a mapping that keeps insertion order.
func (f *Facts) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range f.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
		)
	}
	return node, nil
}
