package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	wire "github.com/wippyai/wasm-wire"
	"github.com/wippyai/wasm-wire/boundary"
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/schema"
)

type options struct {
	typeExpr   string
	schemaFile string
	input      string
	format     string
	width      int
	hexIn      bool
	hexOut     bool
	encode     bool
	list       bool
}

func main() {
	var (
		typeExpr    = flag.String("type", "", "Wire type expression, e.g. Vec<Option<String>>")
		schemaFile  = flag.String("schema", "", "YAML file with record and variant definitions")
		input       = flag.String("in", "-", "Input file (- for stdin)")
		format      = flag.String("format", "text", "Value format: text, json, yaml or cbor")
		width       = flag.Int("width", int(buffer.Native), "Size prefix width in bytes (4 or 8)")
		useHex      = flag.Bool("hex", false, "Read (decode) or write (encode) wire bytes as hex text")
		encode      = flag.Bool("encode", false, "Encode a value document into wire bytes")
		list        = flag.Bool("list", false, "List schema types and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log debug output to stderr")
	)
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
		}
	}
	defer func() { _ = log.Sync() }()
	wire.SetLogger(log.Named("wire"))
	schema.SetLogger(log.Named("schema"))
	boundary.SetLogger(log.Named("boundary"))

	opts := options{
		typeExpr:   *typeExpr,
		schemaFile: *schemaFile,
		input:      *input,
		format:     *format,
		width:      *width,
		hexIn:      *useHex && !*encode,
		hexOut:     *useHex && *encode,
		encode:     *encode,
		list:       *list,
	}
	// raw bytes on a terminal are unreadable
	if (opts.encode || opts.format == "cbor") && term.IsTerminal(int(os.Stdout.Fd())) {
		opts.hexOut = true
	}

	if *interactive {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if opts.typeExpr == "" && !opts.list {
		fmt.Fprintln(os.Stderr, "Usage: wiredump -type <expr> [-schema file.yaml] [-width 4|8] [-hex] [-format text|json|yaml|cbor] [-in file]")
		fmt.Fprintln(os.Stderr, "       wiredump -type <expr> -encode [-format json|yaml|cbor] [-hex] [-in file]")
		fmt.Fprintln(os.Stderr, "       wiredump -schema file.yaml -list")
		fmt.Fprintln(os.Stderr, "       wiredump -schema file.yaml -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	width := buffer.Width(opts.width)
	if !width.Valid() {
		return fmt.Errorf("invalid width %d: must be 4 or 8", opts.width)
	}

	reg, err := loadRegistry(opts.schemaFile)
	if err != nil {
		return err
	}

	if opts.list {
		for _, name := range reg.Names() {
			t, _ := reg.Lookup(name)
			fmt.Fprintln(stdout, t.Describe())
		}
		return nil
	}

	typ, err := reg.Parse(opts.typeExpr)
	if err != nil {
		return fmt.Errorf("parse type: %w", err)
	}

	data, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	if opts.encode {
		out, err := encodeDocument(typ, data, opts.format, width)
		if err != nil {
			return err
		}
		return writeBytes(stdout, out, opts.hexOut)
	}

	if opts.hexIn {
		if data, err = decodeHex(data); err != nil {
			return err
		}
	}
	v, n, err := decodeWire(typ, data, width)
	if err != nil {
		return err
	}
	if n < len(data) {
		fmt.Fprintf(stderr, "warning: %d trailing bytes after %s\n", len(data)-n, typ)
	}
	return writeValue(stdout, typ, v, opts.format, opts.hexOut)
}

func loadRegistry(path string) (*schema.Registry, error) {
	reg := schema.NewRegistry()
	if path == "" {
		return reg, nil
	}
	if err := reg.LoadFile(path); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return reg, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// decodeHex accepts hex text with arbitrary whitespace and an optional 0x prefix.
func decodeHex(text []byte) ([]byte, error) {
	clean := strings.Join(strings.Fields(string(text)), "")
	clean = strings.TrimPrefix(clean, "0x")
	out, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return out, nil
}

// decodeWire unwires one value of typ from data and reports how many bytes
// it occupied.
func decodeWire(typ *schema.Type, data []byte, width buffer.Width) (any, int, error) {
	c, err := typ.Codec()
	if err != nil {
		return nil, 0, err
	}
	w := wire.NewWithBuffer(c, data, wire.WithWidth(width))
	v, n, err := w.UnwireN()
	if err != nil {
		return nil, 0, fmt.Errorf("unwire %s: %w", typ, err)
	}
	return v, n, nil
}

func encodeDocument(typ *schema.Type, doc []byte, format string, width buffer.Width) ([]byte, error) {
	plain, err := parseDocument(doc, format)
	if err != nil {
		return nil, err
	}
	v, err := schema.Import(typ, plain)
	if err != nil {
		return nil, fmt.Errorf("convert value: %w", err)
	}
	c, err := typ.Codec()
	if err != nil {
		return nil, err
	}
	w, err := wire.Of(c, v, wire.WithWidth(width))
	if err != nil {
		return nil, fmt.Errorf("wire %s: %w", typ, err)
	}
	defer w.Release()
	return bytes.Clone(w.Bytes()), nil
}

func parseDocument(doc []byte, format string) (any, error) {
	var plain any
	switch format {
	case "json", "text":
		dec := json.NewDecoder(bytes.NewReader(doc))
		dec.UseNumber()
		if err := dec.Decode(&plain); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(doc, &plain); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case "cbor":
		if err := cborDec.Unmarshal(doc, &plain); err != nil {
			return nil, fmt.Errorf("parse cbor: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return plain, nil
}

func writeValue(out io.Writer, typ *schema.Type, v any, format string, hexOut bool) error {
	if format == "text" {
		_, err := fmt.Fprintln(out, render(typ, v))
		return err
	}
	plain, err := schema.Export(typ, v)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plain)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		data, err := cborEnc.Marshal(plain)
		if err != nil {
			return fmt.Errorf("encode cbor: %w", err)
		}
		return writeBytes(out, data, hexOut)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeBytes(out io.Writer, data []byte, asHex bool) error {
	if asHex {
		_, err := fmt.Fprintln(out, hex.EncodeToString(data))
		return err
	}
	_, err := out.Write(data)
	return err
}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoder mode: %v", err))
	}
	cborDec, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor decoder mode: %v", err))
	}
}
