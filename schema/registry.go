package schema

import (
	"bytes"
	"os"
	"slices"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-wire/errors"
)

// Registry holds named record and variant types and resolves them in type
// expressions. It is safe for concurrent use.
type Registry struct {
	types  map[string]*Type
	logger *zap.Logger
	order  []string
	mu     sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[string]*Type),
		logger: Logger(),
	}
}

// Lookup returns the named type.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered type names in definition order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Define registers a record or variant under its name.
func (r *Registry) Define(t *Type) error {
	if t == nil || (t.Kind != KindRecord && t.Kind != KindVariant) {
		return errors.InvalidInput(errors.PhaseSchema, "only records and variants can be defined")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.types[t.Name]; dup {
		return errors.InvalidInput(errors.PhaseSchema, "type "+t.Name+" already defined")
	}
	r.types[t.Name] = t
	r.order = append(r.order, t.Name)
	r.logger.Debug("type defined", zap.String("name", t.Name), zap.Stringer("kind", t.Kind))
	return nil
}

// Parse parses a type expression, resolving names against r.
func (r *Registry) Parse(expr string) (*Type, error) {
	return Parse(expr, r)
}

type fileDoc struct {
	Types []typeDoc `yaml:"types"`
}

type typeDoc struct {
	Name    string       `yaml:"name"`
	Record  []memberDoc `yaml:"record"`
	Variant []memberDoc `yaml:"variant"`
	Enum    []string     `yaml:"enum"`
}

type memberDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadYAML adds the types declared in data. The document looks like:
//
//	types:
//	  - name: User
//	    record:
//	      - {name: id, type: u64}
//	      - {name: tags, type: Vec<String>}
//	  - name: Shape
//	    variant:
//	      - {name: Circle, type: f64}
//	      - {name: Empty}
//	  - name: Color
//	    enum: [Red, Green, Blue]
//
// Types may refer to each other in any order. Either every type in data is
// added or none is.
func (r *Registry) LoadYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		return errors.Wrap(errors.PhaseSchema, errors.KindInvalidInput, err, "decode schema document")
	}

	staged := &overlay{base: r, pending: make(map[string]*Type, len(doc.Types))}
	for _, ts := range doc.Types {
		if ts.Name == "" {
			return errors.InvalidInput(errors.PhaseSchema, "type without name")
		}
		if _, ok := staged.Lookup(ts.Name); ok {
			return errors.InvalidInput(errors.PhaseSchema, "type "+ts.Name+" already defined")
		}
		t, err := ts.placeholder()
		if err != nil {
			return err
		}
		staged.pending[ts.Name] = t
	}

	for _, ts := range doc.Types {
		if err := ts.fill(staged.pending[ts.Name], staged); err != nil {
			return errors.AtPath(err, ts.Name)
		}
	}
	for _, ts := range doc.Types {
		if err := staged.pending[ts.Name].Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ts := range doc.Types {
		if _, dup := r.types[ts.Name]; dup {
			return errors.InvalidInput(errors.PhaseSchema, "type "+ts.Name+" already defined")
		}
	}
	for _, ts := range doc.Types {
		r.types[ts.Name] = staged.pending[ts.Name]
		r.order = append(r.order, ts.Name)
	}
	r.logger.Debug("schema loaded", zap.Int("types", len(doc.Types)))
	return nil
}

// LoadFile reads a YAML schema document from path.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.PhaseSchema, errors.KindIO, err, "read "+path)
	}
	if err := r.LoadYAML(data); err != nil {
		return err
	}
	r.logger.Info("schema file loaded", zap.String("path", path))
	return nil
}

func (ts typeDoc) placeholder() (*Type, error) {
	forms := 0
	kind := KindRecord
	if ts.Record != nil {
		forms++
	}
	if ts.Variant != nil {
		forms++
		kind = KindVariant
	}
	if ts.Enum != nil {
		forms++
		kind = KindVariant
	}
	if forms != 1 {
		return nil, errors.InvalidInput(errors.PhaseSchema, "type "+ts.Name+" must have exactly one of record, variant or enum")
	}
	return &Type{Kind: kind, Name: ts.Name}, nil
}

func (ts typeDoc) fill(t *Type, res Resolver) error {
	switch {
	case ts.Record != nil:
		for _, m := range ts.Record {
			if m.Type == "" {
				return errors.InvalidInput(errors.PhaseSchema, "field "+m.Name+" has no type")
			}
			ft, err := Parse(m.Type, res)
			if err != nil {
				return errors.AtPath(err, m.Name)
			}
			t.Fields = append(t.Fields, Field{Name: m.Name, Type: ft})
		}
	case ts.Variant != nil:
		for _, m := range ts.Variant {
			c := Case{Name: m.Name}
			if m.Type != "" {
				ct, err := Parse(m.Type, res)
				if err != nil {
					return errors.AtPath(err, m.Name)
				}
				c.Type = ct
			}
			t.Cases = append(t.Cases, c)
		}
	default:
		for _, name := range ts.Enum {
			t.Cases = append(t.Cases, Case{Name: name})
		}
	}
	return nil
}

// overlay resolves names from a batch being loaded before falling back to
// the registry.
type overlay struct {
	base    *Registry
	pending map[string]*Type
}

func (o *overlay) Lookup(name string) (*Type, bool) {
	if t, ok := o.pending[name]; ok {
		return t, true
	}
	return o.base.Lookup(name)
}
