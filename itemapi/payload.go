package itemapi

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// PayloadBuilder assembles the JSON body of a create or update request. Tests
// start from a fixture's builder and then override or remove individual
// fields to produce the exact payload a case needs, including deliberately
// invalid ones.
type PayloadBuilder struct {
	fields map[string]ldvalue.Value
	keys   []string
}

// NewPayloadBuilder creates an empty builder.
func NewPayloadBuilder() *PayloadBuilder {
	return &PayloadBuilder{fields: make(map[string]ldvalue.Value)}
}

// Set adds or replaces a field. The value can be of any JSON type, so tests
// can send the wrong type on purpose.
func (b *PayloadBuilder) Set(name string, value ldvalue.Value) *PayloadBuilder {
	if _, ok := b.fields[name]; !ok {
		b.keys = append(b.keys, name)
	}
	b.fields[name] = value
	return b
}

// Omit removes a field so it is absent from the payload, as opposed to being
// present with a null value.
func (b *PayloadBuilder) Omit(name string) *PayloadBuilder {
	if _, ok := b.fields[name]; ok {
		delete(b.fields, name)
		for i, k := range b.keys {
			if k == name {
				b.keys = append(b.keys[:i], b.keys[i+1:]...)
				break
			}
		}
	}
	return b
}

// Build produces the payload as a JSON object value. The builder remains
// usable afterward.
func (b *PayloadBuilder) Build() ldvalue.Value {
	ret := ldvalue.ObjectBuild()
	for _, k := range b.keys {
		ret.Set(k, b.fields[k])
	}
	return ret.Build()
}
