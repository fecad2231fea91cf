package schema

// Kind identifies the wire shape of a Type.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindF32
	KindF64
	KindUsize
	KindIsize
	KindString
	KindOption
	KindVec
	KindMap
	KindTuple
	KindRecord
	KindVariant
)

var kindNames = [...]string{
	KindUnit:    "()",
	KindBool:    "bool",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindU128:    "u128",
	KindI8:      "i8",
	KindI16:     "i16",
	KindI32:     "i32",
	KindI64:     "i64",
	KindI128:    "i128",
	KindF32:     "f32",
	KindF64:     "f64",
	KindUsize:   "usize",
	KindIsize:   "isize",
	KindString:  "String",
	KindOption:  "Option",
	KindVec:     "Vec",
	KindMap:     "HashMap",
	KindTuple:   "tuple",
	KindRecord:  "record",
	KindVariant: "variant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k has no child types.
func (k Kind) IsPrimitive() bool {
	return k <= KindString
}

// primitiveNames maps every accepted scalar spelling to its kind, including
// the WIT names.
var primitiveNames = map[string]Kind{
	"bool":    KindBool,
	"u8":      KindU8,
	"u16":     KindU16,
	"u32":     KindU32,
	"u64":     KindU64,
	"u128":    KindU128,
	"i8":      KindI8,
	"i16":     KindI16,
	"i32":     KindI32,
	"i64":     KindI64,
	"i128":    KindI128,
	"s8":      KindI8,
	"s16":     KindI16,
	"s32":     KindI32,
	"s64":     KindI64,
	"f32":     KindF32,
	"f64":     KindF64,
	"float32": KindF32,
	"float64": KindF64,
	"usize":   KindUsize,
	"isize":   KindIsize,
	"String":  KindString,
	"string":  KindString,
}
