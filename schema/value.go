package schema

import "github.com/wippyai/wasm-wire/codec"

// RecordValue is a dynamically decoded record. Values holds one entry per
// field, in declaration order.
type RecordValue struct {
	Type   *Type
	Values []any
}

// Get returns the value of the named field.
func (r RecordValue) Get(name string) (any, bool) {
	if r.Type == nil {
		return nil, false
	}
	i := r.Type.FieldIndex(name)
	if i < 0 || i >= len(r.Values) {
		return nil, false
	}
	return r.Values[i], true
}

// VariantValue is the dynamic form of a variant: the case index and payload.
type VariantValue = codec.VariantValue
