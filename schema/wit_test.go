package schema

import (
	"testing"

	"go.bytecodealliance.org/wit"

	wireerrors "github.com/wippyai/wasm-wire/errors"
)

func named(name string) *string { return &name }

func TestFromWIT(t *testing.T) {
	person := &wit.TypeDef{
		Name: named("person"),
		Kind: &wit.Record{Fields: []wit.Field{
			{Name: "name", Type: wit.String{}},
			{Name: "age", Type: wit.U8{}},
			{Name: "tags", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}},
		}},
	}
	color := &wit.TypeDef{
		Name: named("color"),
		Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}, {Name: "green"}}},
	}
	lookup := &wit.TypeDef{
		Kind: &wit.Result{OK: &wit.TypeDef{Kind: &wit.Option{Type: person}}, Err: wit.String{}},
	}

	tests := []struct {
		in   wit.Type
		want string
	}{
		{wit.S16{}, "i16"},
		{wit.F64{}, "f64"},
		{person, "record person { name: String, age: u8, tags: Vec<String> }"},
		{color, "variant color { red, green }"},
		{lookup, "variant result { ok(Option<person>), err(String) }"},
		{&wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U32{}, color}}}, "(u32, color)"},
		{&wit.TypeDef{Kind: &wit.Variant{Cases: []wit.Case{{Name: "none"}, {Name: "some", Type: wit.U64{}}}}}, "variant variant { none, some(u64) }"},
		{&wit.TypeDef{Name: named("alias"), Kind: wit.U32{}}, "u32"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FromWIT(tt.in)
			if err != nil {
				t.Fatalf("FromWIT: %v", err)
			}
			if s := got.Describe(); s != tt.want {
				t.Errorf("FromWIT = %q, want %q", s, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("converted type is invalid: %v", err)
			}
		})
	}
}

func TestFromWIT_SharedDefinitions(t *testing.T) {
	point := &wit.TypeDef{
		Name: named("point"),
		Kind: &wit.Record{Fields: []wit.Field{{Name: "x", Type: wit.S32{}}, {Name: "y", Type: wit.S32{}}}},
	}
	line := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{point, point}}}

	got, err := FromWIT(line)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields[0].Type != got.Fields[1].Type {
		t.Error("one WIT definition should map to one descriptor")
	}
}

func TestFromWIT_Unsupported(t *testing.T) {
	tests := map[string]wit.Type{
		"char":   wit.Char{},
		"flags":  &wit.TypeDef{Name: named("perms"), Kind: &wit.Flags{Flags: []wit.Flag{{Name: "read"}}}},
		"own":    &wit.TypeDef{Kind: &wit.Own{}},
		"borrow": &wit.TypeDef{Kind: &wit.Borrow{}},
		"nested": &wit.TypeDef{Kind: &wit.List{Type: wit.Char{}}},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromWIT(in)
			if kind, _ := wireerrors.KindOf(err); kind != wireerrors.KindUnsupported {
				t.Errorf("FromWIT(%s) = %v, want unsupported", name, err)
			}
		})
	}
}
