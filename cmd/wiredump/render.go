package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/wasm-wire/schema"
)

// render formats a decoded value in a Rust debug style, one level per line.
func render(t *schema.Type, v any) string {
	var b strings.Builder
	writeDebug(&b, t, v, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString("  ")
	}
}

func writeDebug(b *strings.Builder, t *schema.Type, v any, depth int) {
	switch t.Kind {
	case schema.KindUnit:
		b.WriteString("()")
	case schema.KindString:
		b.WriteString(strconv.Quote(fmt.Sprint(v)))
	case schema.KindOption:
		p, _ := v.(*any)
		if p == nil {
			b.WriteString("None")
			return
		}
		b.WriteString("Some(")
		writeDebug(b, t.Elem, *p, depth)
		b.WriteByte(')')
	case schema.KindVec:
		if raw, ok := v.([]byte); ok {
			fmt.Fprintf(b, "[% x]", raw)
			return
		}
		items, _ := v.([]any)
		writeList(b, "[", "]", len(items), depth, func(i int) {
			writeDebug(b, t.Elem, items[i], depth+1)
		})
	case schema.KindTuple:
		items, _ := v.([]any)
		writeList(b, "(", ")", len(items), depth, func(i int) {
			writeDebug(b, t.Fields[i].Type, items[i], depth+1)
		})
	case schema.KindMap:
		m, _ := v.(map[any]any)
		pairs := make([][2]any, 0, len(m))
		for k, e := range m {
			pairs = append(pairs, [2]any{k, e})
		}
		slices.SortFunc(pairs, func(a, b [2]any) int {
			return strings.Compare(fmt.Sprint(a[0]), fmt.Sprint(b[0]))
		})
		writeList(b, "{", "}", len(pairs), depth, func(i int) {
			writeDebug(b, t.Key, pairs[i][0], depth+1)
			b.WriteString(": ")
			writeDebug(b, t.Elem, pairs[i][1], depth+1)
		})
	case schema.KindRecord:
		rec, _ := v.(schema.RecordValue)
		b.WriteString(t.Name + " ")
		writeList(b, "{", "}", len(rec.Values), depth, func(i int) {
			b.WriteString(t.Fields[i].Name + ": ")
			writeDebug(b, t.Fields[i].Type, rec.Values[i], depth+1)
		})
	case schema.KindVariant:
		vv, _ := v.(schema.VariantValue)
		if vv.Case < 0 || vv.Case >= len(t.Cases) {
			fmt.Fprintf(b, "%s::<%d>", t.Name, vv.Case)
			return
		}
		cs := t.Cases[vv.Case]
		b.WriteString(t.Name + "::" + cs.Name)
		if cs.Type != nil {
			b.WriteByte('(')
			writeDebug(b, cs.Type, vv.Value, depth)
			b.WriteByte(')')
		}
	default:
		fmt.Fprint(b, v)
	}
}

func writeList(b *strings.Builder, start, end string, n, depth int, item func(int)) {
	if n == 0 {
		b.WriteString(start + end)
		return
	}
	b.WriteString(start + "\n")
	for i := range n {
		indent(b, depth+1)
		item(i)
		b.WriteString(",\n")
	}
	indent(b, depth)
	b.WriteString(end)
}

// hexDump formats data 16 bytes per line with offsets. Bytes past consumed
// are marked as trailing.
func hexDump(data []byte, consumed int) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := min(off+16, len(data))
		fmt.Fprintf(&b, "%04x  % x", off, data[off:end])
		if consumed < end && consumed >= off {
			fmt.Fprintf(&b, "  <- trailing from %04x", consumed)
		}
		if end < len(data) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
