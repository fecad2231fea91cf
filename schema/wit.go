package schema

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-wire/errors"
)

// FromWIT converts a WIT type into a descriptor with the same logical shape.
// Lists become Vec, results become a two-case variant named "result" with
// cases ok and err, and enums become payload-less variants. Resources, flags
// and char have no wire representation and are rejected.
func FromWIT(t wit.Type) (*Type, error) {
	c := &witConverter{defs: make(map[*wit.TypeDef]*Type)}
	return c.convert(t)
}

type witConverter struct {
	defs map[*wit.TypeDef]*Type
}

func (c *witConverter) convert(t wit.Type) (*Type, error) {
	switch v := t.(type) {
	case wit.Bool:
		return Primitive(KindBool), nil
	case wit.U8:
		return Primitive(KindU8), nil
	case wit.S8:
		return Primitive(KindI8), nil
	case wit.U16:
		return Primitive(KindU16), nil
	case wit.S16:
		return Primitive(KindI16), nil
	case wit.U32:
		return Primitive(KindU32), nil
	case wit.S32:
		return Primitive(KindI32), nil
	case wit.U64:
		return Primitive(KindU64), nil
	case wit.S64:
		return Primitive(KindI64), nil
	case wit.F32:
		return Primitive(KindF32), nil
	case wit.F64:
		return Primitive(KindF64), nil
	case wit.String:
		return Primitive(KindString), nil
	case wit.Char:
		return nil, errors.Unsupported(errors.PhaseSchema, "WIT char")
	case *wit.TypeDef:
		if done, ok := c.defs[v]; ok {
			return done, nil
		}
		out, err := c.convertDef(v)
		if err != nil {
			return nil, err
		}
		c.defs[v] = out
		return out, nil
	case nil:
		return Primitive(KindUnit), nil
	default:
		return nil, errors.Unsupported(errors.PhaseSchema, fmt.Sprintf("WIT type %T", t))
	}
}

func defName(td *wit.TypeDef, fallback string) string {
	if td.Name != nil {
		return *td.Name
	}
	return fallback
}

func (c *witConverter) convertDef(td *wit.TypeDef) (*Type, error) {
	switch kind := td.Kind.(type) {
	case *wit.Record:
		out := Record(defName(td, "record"))
		for _, f := range kind.Fields {
			ft, err := c.convert(f.Type)
			if err != nil {
				return nil, errors.AtPath(err, f.Name)
			}
			out.Fields = append(out.Fields, Field{Name: f.Name, Type: ft})
		}
		return out, nil
	case *wit.List:
		elem, err := c.convert(kind.Type)
		if err != nil {
			return nil, err
		}
		return Vec(elem), nil
	case *wit.Tuple:
		elems := make([]*Type, len(kind.Types))
		for i, et := range kind.Types {
			e, err := c.convert(et)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return Tuple(elems...), nil
	case *wit.Option:
		elem, err := c.convert(kind.Type)
		if err != nil {
			return nil, err
		}
		return Option(elem), nil
	case *wit.Enum:
		out := Variant(defName(td, "enum"))
		for _, ec := range kind.Cases {
			out.Cases = append(out.Cases, Case{Name: ec.Name})
		}
		return out, nil
	case *wit.Variant:
		out := Variant(defName(td, "variant"))
		for _, vc := range kind.Cases {
			cs := Case{Name: vc.Name}
			if vc.Type != nil {
				ct, err := c.convert(vc.Type)
				if err != nil {
					return nil, errors.AtPath(err, vc.Name)
				}
				cs.Type = ct
			}
			out.Cases = append(out.Cases, cs)
		}
		return out, nil
	case *wit.Result:
		out := Variant(defName(td, "result"), Case{Name: "ok"}, Case{Name: "err"})
		if kind.OK != nil {
			ok, err := c.convert(kind.OK)
			if err != nil {
				return nil, errors.AtPath(err, "ok")
			}
			out.Cases[0].Type = ok
		}
		if kind.Err != nil {
			e, err := c.convert(kind.Err)
			if err != nil {
				return nil, errors.AtPath(err, "err")
			}
			out.Cases[1].Type = e
		}
		return out, nil
	case *wit.Flags:
		return nil, errors.Unsupported(errors.PhaseSchema, "WIT flags "+defName(td, ""))
	case *wit.Own, *wit.Borrow:
		return nil, errors.Unsupported(errors.PhaseSchema, "WIT resource handle "+defName(td, ""))
	case wit.Type:
		return c.convert(kind)
	default:
		return nil, errors.Unsupported(errors.PhaseSchema, fmt.Sprintf("WIT type definition %T", kind))
	}
}
