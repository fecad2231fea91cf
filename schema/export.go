package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/wippyai/wasm-wire/codec"
	"github.com/wippyai/wasm-wire/errors"
)

// Export converts a dynamic value of type t into plain data that encodes
// cleanly as JSON, YAML or CBOR:
//
//   - unit becomes nil, 128-bit integers become decimal strings
//   - Vec and tuples become []any
//   - Option becomes nil or its exported payload
//   - HashMap becomes map[string]any keyed by the formatted key
//   - records become map[string]any keyed by field name
//   - variants become the case name, or {case: payload} when there is one
func Export(t *Type, v any) (any, error) {
	switch t.Kind {
	case KindUnit:
		return nil, nil
	case KindU128, KindI128:
		s, ok := v.(fmt.Stringer)
		if !ok {
			return nil, mismatch(t, v)
		}
		return s.String(), nil
	case KindOption:
		p, ok := v.(*any)
		if !ok {
			return nil, mismatch(t, v)
		}
		if p == nil {
			return nil, nil
		}
		return Export(t.Elem, *p)
	case KindVec:
		if b, ok := v.([]byte); ok {
			out := make([]any, len(b))
			for i, x := range b {
				out[i] = x
			}
			return out, nil
		}
		items, ok := v.([]any)
		if !ok {
			return nil, mismatch(t, v)
		}
		return exportAll(items, func(int) *Type { return t.Elem }, t.String())
	case KindTuple:
		items, ok := v.([]any)
		if !ok || len(items) != len(t.Fields) {
			return nil, mismatch(t, v)
		}
		return exportAll(items, func(i int) *Type { return t.Fields[i].Type }, t.String())
	case KindMap:
		m, ok := v.(map[any]any)
		if !ok {
			return nil, mismatch(t, v)
		}
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, err := Export(t.Key, k)
			if err != nil {
				return nil, err
			}
			ev, err := Export(t.Elem, val)
			if err != nil {
				return nil, errors.AtPath(err, fmt.Sprint(key))
			}
			out[fmt.Sprint(key)] = ev
		}
		return out, nil
	case KindRecord:
		var vals []any
		switch r := v.(type) {
		case RecordValue:
			vals = r.Values
		case []any:
			vals = r
		}
		if len(vals) != len(t.Fields) {
			return nil, mismatch(t, v)
		}
		out := make(map[string]any, len(vals))
		for i, f := range t.Fields {
			ev, err := Export(f.Type, vals[i])
			if err != nil {
				return nil, errors.AtPath(err, t.Name+"."+f.Name)
			}
			out[f.Name] = ev
		}
		return out, nil
	case KindVariant:
		vv, ok := v.(VariantValue)
		if !ok || vv.Case < 0 || vv.Case >= len(t.Cases) {
			return nil, mismatch(t, v)
		}
		cs := t.Cases[vv.Case]
		if cs.Type == nil {
			return cs.Name, nil
		}
		ev, err := Export(cs.Type, vv.Value)
		if err != nil {
			return nil, errors.AtPath(err, t.Name+"::"+cs.Name)
		}
		return map[string]any{cs.Name: ev}, nil
	default:
		return v, nil
	}
}

func exportAll(items []any, elem func(int) *Type, name string) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		ev, err := Export(elem(i), item)
		if err != nil {
			return nil, errors.AtPath(err, name+"["+strconv.Itoa(i)+"]")
		}
		out[i] = ev
	}
	return out, nil
}

func mismatch(t *Type, v any) error {
	return errors.New(errors.PhaseSchema, errors.KindInvalidInput).
		Type(t.String()).
		Value(v).
		Detail("value of type %T does not match %s", v, t).
		Build()
}

// Import is the inverse of Export. It accepts the output of encoding/json
// (with or without UseNumber), YAML or CBOR decoders and produces the
// dynamic value Codec expects. A byte string may stand in for Vec<u8>.
// Numbers are range checked against the target type.
func Import(t *Type, v any) (any, error) {
	switch t.Kind {
	case KindUnit:
		if v != nil {
			return nil, mismatch(t, v)
		}
		return struct{}{}, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, mismatch(t, v)
		}
		return b, nil
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(t, v)
		}
		return s, nil
	case KindF32, KindF64:
		f, err := toFloat(v)
		if err != nil {
			return nil, errors.AtType(err, t.String())
		}
		if t.Kind == KindF32 {
			return float32(f), nil
		}
		return f, nil
	case KindU8, KindU16, KindU32, KindU64, KindU128, KindI8, KindI16, KindI32, KindI64, KindI128, KindUsize, KindIsize:
		n, err := toBig(v)
		if err != nil {
			return nil, errors.AtType(err, t.String())
		}
		return fromBig(t.Kind, n)
	case KindOption:
		if v == nil {
			return (*any)(nil), nil
		}
		inner, err := Import(t.Elem, v)
		if err != nil {
			return nil, err
		}
		return &inner, nil
	case KindVec:
		if b, ok := v.([]byte); ok && t.Elem.Kind == KindU8 {
			return b, nil
		}
		items, ok := v.([]any)
		if !ok {
			return nil, mismatch(t, v)
		}
		if t.Elem.Kind == KindU8 {
			out := make([]byte, len(items))
			for i, item := range items {
				b, err := Import(t.Elem, item)
				if err != nil {
					return nil, errors.AtPath(err, t.String()+"["+strconv.Itoa(i)+"]")
				}
				out[i] = b.(uint8)
			}
			return out, nil
		}
		return importAll(items, func(int) *Type { return t.Elem }, t.String())
	case KindTuple:
		items, ok := v.([]any)
		if !ok || len(items) != len(t.Fields) {
			return nil, mismatch(t, v)
		}
		return importAll(items, func(i int) *Type { return t.Fields[i].Type }, t.String())
	case KindMap:
		m, ok := stringMap(v)
		if !ok {
			return nil, mismatch(t, v)
		}
		out := make(map[any]any, len(m))
		for ks, val := range m {
			k, err := importKey(t.Key, ks)
			if err != nil {
				return nil, err
			}
			iv, err := Import(t.Elem, val)
			if err != nil {
				return nil, errors.AtPath(err, ks)
			}
			out[k] = iv
		}
		return out, nil
	case KindRecord:
		m, ok := stringMap(v)
		if !ok {
			return nil, mismatch(t, v)
		}
		vals := make([]any, len(t.Fields))
		for i, f := range t.Fields {
			fv, present := m[f.Name]
			if !present && f.Type.Kind != KindOption && f.Type.Kind != KindUnit {
				return nil, errors.InvalidInput(errors.PhaseSchema, "missing field "+t.Name+"."+f.Name)
			}
			iv, err := Import(f.Type, fv)
			if err != nil {
				return nil, errors.AtPath(err, t.Name+"."+f.Name)
			}
			vals[i] = iv
		}
		for k := range m {
			if t.FieldIndex(k) < 0 {
				return nil, errors.InvalidInput(errors.PhaseSchema, "unknown field "+t.Name+"."+k)
			}
		}
		return RecordValue{Type: t, Values: vals}, nil
	case KindVariant:
		return importVariant(t, v)
	}
	return nil, mismatch(t, v)
}

func importAll(items []any, elem func(int) *Type, name string) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		iv, err := Import(elem(i), item)
		if err != nil {
			return nil, errors.AtPath(err, name+"["+strconv.Itoa(i)+"]")
		}
		out[i] = iv
	}
	return out, nil
}

func importVariant(t *Type, v any) (any, error) {
	if name, ok := v.(string); ok {
		i := t.CaseIndex(name)
		if i < 0 {
			return nil, errors.NotFound(errors.PhaseSchema, "case", name)
		}
		if t.Cases[i].Type != nil && t.Cases[i].Type.Kind != KindUnit {
			return nil, errors.InvalidInput(errors.PhaseSchema, "case "+t.Name+"::"+name+" needs a payload")
		}
		if t.Cases[i].Type != nil {
			return VariantValue{Case: i, Value: struct{}{}}, nil
		}
		return VariantValue{Case: i}, nil
	}
	m, ok := stringMap(v)
	if !ok || len(m) != 1 {
		return nil, mismatch(t, v)
	}
	for name, payload := range m {
		i := t.CaseIndex(name)
		if i < 0 {
			return nil, errors.NotFound(errors.PhaseSchema, "case", name)
		}
		cs := t.Cases[i]
		if cs.Type == nil {
			if payload != nil {
				return nil, errors.InvalidInput(errors.PhaseSchema, "case "+t.Name+"::"+name+" takes no payload")
			}
			return VariantValue{Case: i}, nil
		}
		iv, err := Import(cs.Type, payload)
		if err != nil {
			return nil, errors.AtPath(err, t.Name+"::"+name)
		}
		return VariantValue{Case: i, Value: iv}, nil
	}
	return nil, mismatch(t, v)
}

// stringMap accepts map[string]any from JSON and YAML and map[any]any from
// CBOR, as long as every key is a string.
func stringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func importKey(t *Type, s string) (any, error) {
	switch t.Kind {
	case KindString:
		return s, nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidInput, err, "map key "+s)
		}
		return b, nil
	case KindUnit:
		return struct{}{}, nil
	}
	return Import(t, json.Number(s))
}

func toBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || math.IsNaN(n) {
			return nil, errors.InvalidInput(errors.PhaseSchema, fmt.Sprintf("%v is not an integer", n))
		}
		b, _ := big.NewFloat(n).Int(nil)
		return b, nil
	case json.Number:
		return parseBig(string(n))
	case string:
		return parseBig(n)
	case *big.Int:
		return n, nil
	}
	return nil, errors.InvalidInput(errors.PhaseSchema, fmt.Sprintf("%T is not a number", v))
}

func parseBig(s string) (*big.Int, error) {
	b, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseSchema, strconv.Quote(s)+" is not an integer")
	}
	return b, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, errors.Wrap(errors.PhaseSchema, errors.KindInvalidInput, err, "parse float")
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseSchema, errors.KindInvalidInput, err, "parse float")
		}
		return f, nil
	}
	b, err := toBig(v)
	if err != nil {
		return 0, err
	}
	f, _ := new(big.Float).SetInt(b).Float64()
	return f, nil
}

var intBounds = map[Kind][2]*big.Int{
	KindU8:    {big.NewInt(0), big.NewInt(math.MaxUint8)},
	KindU16:   {big.NewInt(0), big.NewInt(math.MaxUint16)},
	KindU32:   {big.NewInt(0), big.NewInt(math.MaxUint32)},
	KindU64:   {big.NewInt(0), new(big.Int).SetUint64(math.MaxUint64)},
	KindUsize: {big.NewInt(0), new(big.Int).SetUint64(math.MaxUint)},
	KindI8:    {big.NewInt(math.MinInt8), big.NewInt(math.MaxInt8)},
	KindI16:   {big.NewInt(math.MinInt16), big.NewInt(math.MaxInt16)},
	KindI32:   {big.NewInt(math.MinInt32), big.NewInt(math.MaxInt32)},
	KindI64:   {big.NewInt(math.MinInt64), big.NewInt(math.MaxInt64)},
	KindIsize: {big.NewInt(math.MinInt), big.NewInt(math.MaxInt)},
}

func fromBig(k Kind, n *big.Int) (any, error) {
	switch k {
	case KindU128:
		return codec.Uint128FromBig(n)
	case KindI128:
		return codec.Int128FromBig(n)
	}
	b := intBounds[k]
	if n.Cmp(b[0]) < 0 || n.Cmp(b[1]) > 0 {
		return nil, errors.Overflow(errors.PhaseSchema, n, k.String())
	}
	switch k {
	case KindU8:
		return uint8(n.Uint64()), nil
	case KindU16:
		return uint16(n.Uint64()), nil
	case KindU32:
		return uint32(n.Uint64()), nil
	case KindU64:
		return n.Uint64(), nil
	case KindUsize:
		return uint(n.Uint64()), nil
	case KindI8:
		return int8(n.Int64()), nil
	case KindI16:
		return int16(n.Int64()), nil
	case KindI32:
		return int32(n.Int64()), nil
	case KindI64:
		return n.Int64(), nil
	default:
		return int(n.Int64()), nil
	}
}
