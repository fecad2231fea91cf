package schema

import (
	"errors"
	"strings"
	"testing"

	wireerrors "github.com/wippyai/wasm-wire/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"u8", "u8"},
		{"s32", "i32"},
		{"string", "String"},
		{"std::string::String", "String"},
		{"()", "()"},
		{"(u8)", "u8"},
		{"(u8,)", "(u8,)"},
		{"(u8, String)", "(u8, String)"},
		{"tuple<u8, bool>", "(u8, bool)"},
		{"tuple<>", "()"},
		{"Vec<Option<String>>", "Vec<Option<String>>"},
		{"list<option<s64>>", "Vec<Option<i64>>"},
		{"Box<u32>", "u32"},
		{"HashMap<String, Vec<u8>>", "HashMap<String, Vec<u8>>"},
		{"BTreeMap<u16,u16>", "HashMap<u16, u16>"},
		{" Vec < ( usize , isize ) > ", "Vec<(usize, isize)>"},
		{"Vec<Vec<u128>>", "Vec<Vec<u128>>"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ, err := Parse(tt.expr, nil)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.expr, err)
			}
			if got := typ.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		expr     string
		kind     wireerrors.Kind
		contains string
	}{
		{"", wireerrors.KindInvalidInput, "expected type"},
		{"Vec<u8", wireerrors.KindInvalidInput, "expected '>'"},
		{"Vec<u8, u16>", wireerrors.KindInvalidInput, "takes 1 type parameter"},
		{"HashMap<u8>", wireerrors.KindInvalidInput, "takes 2 type parameter"},
		{"u8<u16>", wireerrors.KindInvalidInput, "takes no parameters"},
		{"u8 u16", wireerrors.KindInvalidInput, "after type"},
		{"Vec<$>", wireerrors.KindInvalidInput, "unexpected character"},
		{"(u8", wireerrors.KindInvalidInput, "expected ')'"},
		{"User", wireerrors.KindNotFound, "User"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Parse(tt.expr, nil)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.expr)
			}
			if kind, _ := wireerrors.KindOf(err); kind != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", kind, tt.kind, err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err, tt.contains)
			}
		})
	}
}

func TestParse_ErrorOffset(t *testing.T) {
	_, err := Parse("Vec<u8", nil)
	var e *wireerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Value != 6 {
		t.Errorf("offset = %v, want 6", e.Value)
	}
}

func TestMustParse(t *testing.T) {
	if got := MustParse("Option<bool>").String(); got != "Option<bool>" {
		t.Errorf("MustParse = %s", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	MustParse("Option<")
}
