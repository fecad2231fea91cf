package boundary

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wire "github.com/wippyai/wasm-wire"
	"github.com/wippyai/wasm-wire/buffer"
	"github.com/wippyai/wasm-wire/codec"
	"github.com/wippyai/wasm-wire/errors"
)

// Handler implements a host function on decoded values.
type Handler[In, Out any] func(ctx context.Context, in In) (Out, error)

// AllocatorFactory returns the allocator used to lower results into the
// calling module.
type AllocatorFactory func(ctx context.Context, mod api.Module) (Allocator, error)

// Function is a host function that can be exported by a Host.
type Function interface {
	Name() string
	call(ctx context.Context, env *callEnv, inPtr, inLen, outRecPtr uint32) (Status, error)
}

type callEnv struct {
	mod   api.Module
	mem   *Memory
	alloc AllocatorFactory
	width buffer.Width
}

// Func builds a host function with the signature
//
//	(in_ptr i32, in_len i32, out_rec_ptr i32) -> i32
//
// The guest passes an In payload; the handler's Out is lowered into guest
// memory and its Record written at out_rec_ptr. The i32 result is a Status.
func Func[In, Out any](name string, in codec.Codec[In], out codec.Codec[Out], handler Handler[In, Out]) Function {
	return &funcDef[In, Out]{name: name, in: in, out: out, handler: handler}
}

type funcDef[In, Out any] struct {
	in      codec.Codec[In]
	out     codec.Codec[Out]
	handler Handler[In, Out]
	name    string
}

func (f *funcDef[In, Out]) Name() string { return f.name }

func (f *funcDef[In, Out]) call(ctx context.Context, env *callEnv, inPtr, inLen, outRecPtr uint32) (Status, error) {
	lifted, err := Lift(env.mem, Record{Ptr: inPtr, Len: inLen}, f.in, env.width)
	if err != nil {
		return StatusOf(err), err
	}
	// Unwire copies out of guest memory before anything can grow it.
	v, err := lifted.Unwire()
	if err != nil {
		return StatusOf(err), err
	}

	result, err := f.handler(ctx, v)
	if err != nil {
		return StatusHandler, err
	}

	w, err := wire.Of(f.out, result, wire.WithWidth(env.width))
	if err != nil {
		return StatusOf(err), err
	}
	alloc, err := env.alloc(ctx, env.mod)
	if err != nil {
		return StatusAllocation, err
	}
	rec, err := Lower(ctx, env.mem, alloc, w)
	if err != nil {
		return StatusOf(err), err
	}
	if err := WriteRecord(env.mem, outRecPtr, rec); err != nil {
		_ = Free(ctx, alloc, rec)
		return StatusOf(err), err
	}
	return StatusOK, nil
}

// Host collects wire host functions into one wazero host module.
type Host struct {
	logger *zap.Logger
	alloc  AllocatorFactory
	name   string
	funcs  []Function
	width  buffer.Width
}

// NewHost starts a host module with the given import module name.
// Payloads default to buffer.Width32, the pointer width of wasm32 guests.
func NewHost(name string) *Host {
	return &Host{
		name:  name,
		width: buffer.Width32,
		alloc: func(_ context.Context, mod api.Module) (Allocator, error) {
			return NewGuestAllocator(mod)
		},
	}
}

// WithLogger sets the logger for call failures.
func (h *Host) WithLogger(l *zap.Logger) *Host {
	h.logger = l
	return h
}

// WithWidth sets the payload width for every function of the host.
func (h *Host) WithWidth(w buffer.Width) *Host {
	if !w.Valid() {
		panic("boundary: unsupported width")
	}
	h.width = w
	return h
}

// WithAllocator replaces the default guest cabi_realloc allocator.
func (h *Host) WithAllocator(f AllocatorFactory) *Host {
	h.alloc = f
	return h
}

// Export adds functions to the host.
func (h *Host) Export(fns ...Function) *Host {
	h.funcs = append(h.funcs, fns...)
	return h
}

// Name returns the import module name.
func (h *Host) Name() string {
	return h.name
}

// Instantiate registers the host module in rt.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(h.name)
	params := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}
	results := []api.ValueType{api.ValueTypeI32}

	for _, f := range h.funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				stack[0] = uint64(h.invoke(ctx, mod, f, uint32(stack[0]), uint32(stack[1]), uint32(stack[2])))
			}), params, results).
			WithParameterNames("in_ptr", "in_len", "out_rec_ptr").
			Export(f.Name())
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBoundary, errors.KindInvalidInput, err, "instantiate host module "+h.name)
	}
	h.log().Debug("host module instantiated",
		zap.String("module", h.name),
		zap.Int("functions", len(h.funcs)),
		zap.Stringer("width", h.width))
	return mod, nil
}

// Invoke runs the named function against mod as if the guest had called it.
func (h *Host) Invoke(ctx context.Context, mod api.Module, name string, inPtr, inLen, outRecPtr uint32) Status {
	for _, f := range h.funcs {
		if f.Name() == name {
			return h.invoke(ctx, mod, f, inPtr, inLen, outRecPtr)
		}
	}
	h.log().Warn("unknown host function", zap.String("module", h.name), zap.String("func", name))
	return StatusHandler
}

func (h *Host) invoke(ctx context.Context, mod api.Module, f Function, inPtr, inLen, outRecPtr uint32) Status {
	mem := WrapMemory(mod.Memory())
	if mem == nil {
		h.log().Warn("calling module has no memory",
			zap.String("module", h.name),
			zap.String("func", f.Name()))
		return StatusOutOfBounds
	}
	env := &callEnv{mod: mod, mem: mem, alloc: h.alloc, width: h.width}
	status, err := f.call(ctx, env, inPtr, inLen, outRecPtr)
	if err != nil {
		h.log().Debug("host function failed",
			zap.String("module", h.name),
			zap.String("func", f.Name()),
			zap.Stringer("status", status),
			zap.Error(err))
	}
	return status
}

func (h *Host) log() *zap.Logger {
	if h.logger != nil {
		return h.logger
	}
	return Logger()
}
