package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/wasm-wire/buffer"
)

const testSchema = `
types:
  - name: Point
    record:
      - {name: x, type: i32}
      - {name: y, type: i32}
  - name: Shape
    variant:
      - {name: Dot, type: Point}
      - {name: Line, type: "(Point, Point)"}
      - {name: Empty}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(testSchema), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, opts options, stdin []byte) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(opts, bytes.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_List(t *testing.T) {
	out, _, err := runCLI(t, options{schemaFile: writeSchema(t), list: true, width: 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "record Point { x: i32, y: i32 }\nvariant Shape { Dot(Point), Line((Point, Point)), Empty }\n"
	if out != want {
		t.Errorf("list output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRun_DecodeText(t *testing.T) {
	opts := options{
		typeExpr:   "Vec<Shape>",
		schemaFile: writeSchema(t),
		format:     "text",
		width:      4,
		hexIn:      true,
	}
	payload := "02000000" + // two shapes
		"00000000" + "01000000" + "feffffff" + // Dot(Point{1, -2})
		"02000000" + // Empty
		"aa" // trailing
	out, stderr, err := runCLI(t, opts, []byte(payload))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "[\n  Shape::Dot(Point {\n    x: 1,\n    y: -2,\n  }),\n  Shape::Empty,\n]\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
	if !strings.Contains(stderr, "1 trailing bytes") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_DuplicateMapKeysConsumeAllBytes(t *testing.T) {
	opts := options{typeExpr: "HashMap<u8, u8>", format: "text", width: 4, hexIn: true}
	out, stderr, err := runCLI(t, opts, []byte("02000000 0101 0102"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "1: 2") {
		t.Errorf("output = %q, want the last value for key 1", out)
	}
	if strings.Contains(stderr, "trailing") {
		t.Errorf("stderr = %q, want no trailing byte warning", stderr)
	}
}

func TestRun_EncodeDecodeJSON(t *testing.T) {
	schemaFile := writeSchema(t)
	doc := `{"Line": [{"x": 1, "y": 2}, {"x": -3, "y": 4}]}`

	encoded, _, err := runCLI(t, options{
		typeExpr: "Shape", schemaFile: schemaFile, format: "json", width: 8, encode: true, hexOut: true,
	}, []byte(doc))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 8+16 {
		t.Fatalf("encoded %d bytes, want 24", len(raw))
	}

	decoded, _, err := runCLI(t, options{
		typeExpr: "Shape", schemaFile: schemaFile, format: "json", width: 8,
	}, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "{\n  \"Line\": [\n    {\n      \"x\": 1,\n      \"y\": 2\n    },\n    {\n      \"x\": -3,\n      \"y\": 4\n    }\n  ]\n}\n"
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("decoded json (-want +got):\n%s", diff)
	}
}

func TestRun_YAMLAndCBOR(t *testing.T) {
	raw, _, err := runCLI(t, options{
		typeExpr: "HashMap<String, Vec<u8>>", format: "yaml", width: 4, encode: true,
	}, []byte("blob: [1, 2, 3]\n"))
	if err != nil {
		t.Fatalf("encode yaml: %v", err)
	}
	want := []byte{1, 0, 0, 0, 4, 0, 0, 0, 'b', 'l', 'o', 'b', 3, 0, 0, 0, 1, 2, 3}
	if !bytes.Equal([]byte(raw), want) {
		t.Fatalf("bytes = % x, want % x", raw, want)
	}

	out, _, err := runCLI(t, options{
		typeExpr: "HashMap<String, Vec<u8>>", format: "cbor", width: 4,
	}, want)
	if err != nil {
		t.Fatalf("decode to cbor: %v", err)
	}
	var got map[string][]int
	if err := cbor.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string][]int{"blob": {1, 2, 3}}, got); diff != "" {
		t.Errorf("cbor (-want +got):\n%s", diff)
	}

	again, _, err := runCLI(t, options{
		typeExpr: "HashMap<String, Vec<u8>>", format: "cbor", width: 4, encode: true,
	}, []byte(out))
	if err != nil {
		t.Fatalf("encode cbor: %v", err)
	}
	if !bytes.Equal([]byte(again), want) {
		t.Errorf("cbor round trip = % x", again)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		opts  options
		input string
		want  string
	}{
		{"bad width", options{typeExpr: "u8", width: 3}, "", "invalid width"},
		{"bad type", options{typeExpr: "Vec<", width: 4}, "", "parse type"},
		{"bad hex", options{typeExpr: "u8", width: 4, hexIn: true}, "zz", "decode hex"},
		{"short input", options{typeExpr: "u32", width: 4, format: "text"}, "ab", "unexpected_eof"},
		{"bad value", options{typeExpr: "u8", width: 4, encode: true, format: "json"}, "300", "overflow"},
		{"bad format", options{typeExpr: "u8", width: 4, encode: true, format: "xml"}, "1", "unknown format"},
		{"missing schema", options{typeExpr: "u8", width: 4, schemaFile: "/nonexistent.yaml"}, "", "load schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.opts, []byte(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestInteractive_Decode(t *testing.T) {
	m := newInteractiveModel(options{schemaFile: writeSchema(t), width: 4})
	m.Update(m.loadSchema())
	if len(m.items) != 3 || m.items[2] != customEntry {
		t.Fatalf("items = %v", m.items)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateInputPayload || len(m.inputs) != 1 {
		t.Fatalf("state = %v, inputs = %d", m.state, len(m.inputs))
	}
	m.inputs[0].SetValue("05000000 06000000")
	m.Update(m.decode())
	if m.err != nil {
		t.Fatalf("decode: %v", m.err)
	}
	if !strings.Contains(m.result, "x: 5") || !strings.Contains(m.result, "y: 6") {
		t.Errorf("result = %q", m.result)
	}
	if !strings.Contains(m.View(), "Result for") {
		t.Error("view should show the result")
	}
}

func TestInteractive_CustomExpression(t *testing.T) {
	m := newInteractiveModel(options{width: 8})
	m.Update(m.loadSchema())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	if m.width != buffer.Width32 {
		t.Fatalf("width = %v after toggle", m.width)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.inputs) != 2 {
		t.Fatalf("custom entry should ask for a type, got %d inputs", len(m.inputs))
	}
	m.inputs[0].SetValue("Option<String>")
	m.inputs[1].SetValue("01 02000000 6869")
	m.Update(m.decode())
	if m.err != nil || !strings.HasPrefix(m.result, `Some("hi")`) {
		t.Errorf("result = %q, err = %v", m.result, m.err)
	}
	if !strings.Contains(m.result, "0000  01 02 00 00 00 68 69") || !strings.Contains(m.result, "(7 bytes decoded)") {
		t.Errorf("result should carry a hex dump: %q", m.result)
	}
}
