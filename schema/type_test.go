package schema

import (
	"testing"

	"github.com/wippyai/wasm-wire/buffer"
	wireerrors "github.com/wippyai/wasm-wire/errors"
)

func TestType_Fixed(t *testing.T) {
	point := Record("Point", Field{Name: "x", Type: Primitive(KindF64)}, Field{Name: "y", Type: Primitive(KindF64)})
	dir := Variant("Dir", Case{Name: "North"}, Case{Name: "South"})
	shape := Variant("Shape", Case{Name: "Circle", Type: Primitive(KindF64)}, Case{Name: "Square", Type: Primitive(KindU32)})

	tests := []struct {
		typ   *Type
		size  int
		fixed bool
	}{
		{Primitive(KindUnit), 0, true},
		{Primitive(KindU128), 16, true},
		{Primitive(KindUsize), 8, true},
		{Tuple(Primitive(KindU8), Primitive(KindUsize)), 9, true},
		{point, 16, true},
		{dir, 8, true},
		{shape, 0, false},
		{Primitive(KindString), 0, false},
		{Option(Primitive(KindU8)), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			size, ok := tt.typ.Fixed(buffer.Width64)
			if ok != tt.fixed || size != tt.size {
				t.Errorf("Fixed = (%d, %v), want (%d, %v)", size, ok, tt.size, tt.fixed)
			}
		})
	}
}

func TestType_Describe(t *testing.T) {
	shape := Variant("Shape",
		Case{Name: "Circle", Type: Primitive(KindF64)},
		Case{Name: "Empty"},
	)
	if got, want := shape.Describe(), "variant Shape { Circle(f64), Empty }"; got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
	user := Record("User", Field{Name: "id", Type: Primitive(KindU64)}, Field{Name: "tags", Type: Vec(Primitive(KindString))})
	if got, want := user.Describe(), "record User { id: u64, tags: Vec<String> }"; got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
	if got := Vec(user).Describe(); got != "Vec<User>" {
		t.Errorf("Describe = %q", got)
	}
}

func TestType_Validate(t *testing.T) {
	node := Record("Node", Field{Name: "value", Type: Primitive(KindU32)})
	node.Fields = append(node.Fields, Field{Name: "next", Type: Option(node)})
	if err := node.Validate(); err != nil {
		t.Errorf("recursion through Option should be valid: %v", err)
	}

	loop := Record("Loop")
	loop.Fields = append(loop.Fields, Field{Name: "self", Type: Tuple(Primitive(KindU8), loop)})
	if err := loop.Validate(); err == nil {
		t.Error("direct recursion should be rejected")
	}

	a := Record("A")
	b := Record("B", Field{Name: "a", Type: a})
	a.Fields = []Field{{Name: "maybe", Type: Option(b)}, {Name: "b", Type: b}}
	if err := a.Validate(); err == nil {
		t.Error("cycle A.b -> B.a -> A should be rejected")
	}

	bad := []*Type{
		{Kind: KindVec},
		{Kind: KindMap, Key: Primitive(KindString)},
		Map(Vec(Primitive(KindU8)), Primitive(KindU8)),
		Record(""),
		Variant("Empty"),
		Record("R", Field{Type: Primitive(KindU8)}),
	}
	for _, typ := range bad {
		if err := typ.Validate(); err == nil {
			t.Errorf("Validate(%#v) succeeded", typ)
		} else if kind, _ := wireerrors.KindOf(err); kind != wireerrors.KindInvalidInput && kind != wireerrors.KindUnsupported {
			t.Errorf("unexpected kind %v: %v", kind, err)
		}
	}
}
