// Package llvmir is an emitter.Emitter that produces LLVM IR source text.
//
// The entry point has the shape
//
//	define void @Predict(T* %input, T* %output)
//
// where T is double or i64. Literal globals become private constant arrays
// named after their GlobalID (@g1, @g2, ...), temporaries become stack arrays
// allocated in the function's entry block and reused for as long as the
// compiler reuses the TempVar. Element-wise operations are unrolled.
//
// The produced text can be fed to opt/llc to obtain native code.
package llvmir

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/specialistvlad/emlc/internal/alloc"
	"github.com/specialistvlad/emlc/internal/emitter"
	"github.com/specialistvlad/emlc/internal/model"
)

// Emitter builds one LLVM module. Functions are added to the module as they
// are committed with EndFunction.
type Emitter struct {
	// mod is the LLVM module being built.
	mod *ir.Module

	// The fields below describe the open function scope, if any.
	sig    emitter.Signature
	fn     *ir.Func
	allocs *ir.Block
	body   *ir.Block
	input  *ir.Param
	output *ir.Param
	temps  map[alloc.TempVar]*ir.InstAlloca
	// pending holds globals defined since BeginFunction. They are removed
	// from the module again if the scope is aborted.
	pending []*ir.Global

	// globals holds every committed or pending literal global.
	globals map[alloc.GlobalID]*ir.Global
}

var (
	_ emitter.Emitter  = (*Emitter)(nil)
	_ emitter.Resetter = (*Emitter)(nil)
)

// New creates an Emitter with an empty module.
func New() *Emitter {
	return &Emitter{
		mod:     ir.NewModule(),
		globals: make(map[alloc.GlobalID]*ir.Global),
	}
}

// Module returns the module built so far.
func (e *Emitter) Module() *ir.Module {
	return e.mod
}

// String returns the LLVM IR source text of the module.
func (e *Emitter) String() string {
	return e.mod.String()
}

// WriteTo writes the LLVM IR source text of the module to w.
func (e *Emitter) WriteTo(w io.Writer) (int64, error) {
	return e.mod.WriteTo(w)
}

// BeginFunction implements emitter.Emitter.
func (e *Emitter) BeginFunction(sig emitter.Signature) error {
	if e.fn != nil {
		return fmt.Errorf("begin %q: %w", sig.Name, emitter.ErrScopeOpen)
	}
	for _, f := range e.mod.Funcs {
		if f.Name() == sig.Name {
			return fmt.Errorf("begin %q: %w", sig.Name, emitter.ErrFunctionDefined)
		}
	}
	inType, err := elemType(sig.InputType)
	if err != nil && sig.InputSize > 0 {
		return fmt.Errorf("begin %q: input: %w", sig.Name, err)
	}
	if inType == nil {
		// A function without inputs still takes the parameter.
		inType = types.Double
	}
	outType, err := elemType(sig.OutputType)
	if err != nil {
		return fmt.Errorf("begin %q: output: %w", sig.Name, err)
	}

	e.sig = sig
	e.input = ir.NewParam(sig.InputName, types.NewPointer(inType))
	e.output = ir.NewParam(sig.OutputName, types.NewPointer(outType))
	e.fn = ir.NewFunc(sig.Name, types.Void, e.input, e.output)
	e.allocs = e.fn.NewBlock("entry")
	e.body = e.fn.NewBlock("body")
	e.temps = make(map[alloc.TempVar]*ir.InstAlloca)
	e.pending = nil
	return nil
}

// EmitLiteral implements emitter.Emitter.
func (e *Emitter) EmitLiteral(dst alloc.GlobalID, lit emitter.Literal) error {
	if e.fn == nil {
		return fmt.Errorf("literal %s: %w", dst, emitter.ErrNoScope)
	}
	if _, exists := e.globals[dst]; exists {
		return fmt.Errorf("literal %s: global already defined", dst)
	}
	elem, err := elemType(lit.Type)
	if err != nil {
		return fmt.Errorf("literal %s: %w", dst, err)
	}
	if lit.Len() == 0 {
		return fmt.Errorf("literal %s: no elements", dst)
	}

	arrType := types.NewArray(uint64(lit.Len()), elem)
	elems := make([]constant.Constant, 0, lit.Len())
	if lit.Type == model.Integer {
		for _, v := range lit.Integers {
			elems = append(elems, constant.NewInt(types.I64, v))
		}
	} else {
		for _, v := range lit.Doubles {
			elems = append(elems, constant.NewFloat(types.Double, v))
		}
	}

	global := e.mod.NewGlobalDef(dst.String(), constant.NewArray(arrType, elems...))
	global.Immutable = true
	global.Linkage = enum.LinkagePrivate
	e.globals[dst] = global
	e.pending = append(e.pending, global)
	return nil
}

// EmitCopy implements emitter.Emitter.
func (e *Emitter) EmitCopy(dst, src emitter.Operand, typ model.PortType, size int) error {
	if e.fn == nil {
		return fmt.Errorf("copy to %s: %w", dst, emitter.ErrNoScope)
	}
	elem, err := elemType(typ)
	if err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	for i := 0; i < size; i++ {
		from, err := e.address(src, elem, size, i)
		if err != nil {
			return fmt.Errorf("copy from %s: %w", src, err)
		}
		to, err := e.address(dst, elem, size, i)
		if err != nil {
			return fmt.Errorf("copy to %s: %w", dst, err)
		}
		e.body.NewStore(e.body.NewLoad(elem, from), to)
	}
	return nil
}

// EmitBinaryOp implements emitter.Emitter.
func (e *Emitter) EmitBinaryOp(op model.BinaryOp, typ model.PortType, dst, lhs, rhs emitter.Operand, size int) error {
	if e.fn == nil {
		return fmt.Errorf("%s to %s: %w", op, dst, emitter.ErrNoScope)
	}
	elem, err := elemType(typ)
	if err != nil {
		return fmt.Errorf("%s to %s: %w", op, dst, err)
	}
	for i := 0; i < size; i++ {
		lp, err := e.address(lhs, elem, size, i)
		if err != nil {
			return fmt.Errorf("%s lhs %s: %w", op, lhs, err)
		}
		rp, err := e.address(rhs, elem, size, i)
		if err != nil {
			return fmt.Errorf("%s rhs %s: %w", op, rhs, err)
		}
		dp, err := e.address(dst, elem, size, i)
		if err != nil {
			return fmt.Errorf("%s to %s: %w", op, dst, err)
		}
		x := e.body.NewLoad(elem, lp)
		y := e.body.NewLoad(elem, rp)
		result, err := e.arith(op, typ, x, y)
		if err != nil {
			return err
		}
		e.body.NewStore(result, dp)
	}
	return nil
}

// EndFunction implements emitter.Emitter.
func (e *Emitter) EndFunction() error {
	if e.fn == nil {
		return fmt.Errorf("end: %w", emitter.ErrNoScope)
	}
	e.allocs.NewBr(e.body)
	e.body.NewRet(nil)
	e.mod.Funcs = append(e.mod.Funcs, e.fn)
	e.closeScope()
	return nil
}

// AbortFunction implements emitter.Emitter.
func (e *Emitter) AbortFunction() {
	if e.fn == nil {
		return
	}
	if len(e.pending) > 0 {
		drop := make(map[*ir.Global]struct{}, len(e.pending))
		for _, g := range e.pending {
			drop[g] = struct{}{}
		}
		kept := e.mod.Globals[:0]
		for _, g := range e.mod.Globals {
			if _, ok := drop[g]; !ok {
				kept = append(kept, g)
			}
		}
		e.mod.Globals = kept
		for id, g := range e.globals {
			if _, ok := drop[g]; ok {
				delete(e.globals, id)
			}
		}
	}
	e.closeScope()
}

// Reset implements emitter.Resetter. It starts a new, empty module.
func (e *Emitter) Reset() {
	e.closeScope()
	e.mod = ir.NewModule()
	e.globals = make(map[alloc.GlobalID]*ir.Global)
}

func (e *Emitter) closeScope() {
	e.fn = nil
	e.allocs = nil
	e.body = nil
	e.input = nil
	e.output = nil
	e.temps = nil
	e.pending = nil
}

// address returns a pointer to element i of operand o, which holds size
// elements of elem.
func (e *Emitter) address(o emitter.Operand, elem types.Type, size, i int) (value.Value, error) {
	switch o.Storage {
	case emitter.InputStorage:
		return e.body.NewGetElementPtr(elem, e.input, index(o.Offset+i)), nil
	case emitter.OutputStorage:
		return e.body.NewGetElementPtr(elem, e.output, index(o.Offset+i)), nil
	case emitter.TempStorage:
		slot := e.tempSlot(o.Temp, types.NewArray(uint64(size), elem))
		return e.body.NewGetElementPtr(slot.ElemType, slot, index(0), index(i)), nil
	case emitter.GlobalStorage:
		global, ok := e.globals[o.Global]
		if !ok {
			return nil, fmt.Errorf("global %s is not defined", o.Global)
		}
		return e.body.NewGetElementPtr(global.ContentType, global, index(0), index(i)), nil
	default:
		return nil, fmt.Errorf("invalid operand storage %d", o.Storage)
	}
}

// tempSlot returns the stack array backing t, allocating a new one in the
// entry block when t is seen for the first time or now holds a different
// shape.
func (e *Emitter) tempSlot(t alloc.TempVar, arrType *types.ArrayType) *ir.InstAlloca {
	if slot, ok := e.temps[t]; ok && slot.ElemType.Equal(arrType) {
		return slot
	}
	slot := e.allocs.NewAlloca(arrType)
	slot.SetName(fmt.Sprintf("%s.%d", t, len(e.allocs.Insts)))
	e.temps[t] = slot
	return slot
}

func (e *Emitter) arith(op model.BinaryOp, typ model.PortType, x, y value.Value) (value.Value, error) {
	if typ == model.Double {
		switch op {
		case model.OpAdd:
			return e.body.NewFAdd(x, y), nil
		case model.OpSubtract:
			return e.body.NewFSub(x, y), nil
		case model.OpMultiply:
			return e.body.NewFMul(x, y), nil
		case model.OpDivide:
			return e.body.NewFDiv(x, y), nil
		}
	} else {
		switch op {
		case model.OpAdd:
			return e.body.NewAdd(x, y), nil
		case model.OpSubtract:
			return e.body.NewSub(x, y), nil
		case model.OpMultiply:
			return e.body.NewMul(x, y), nil
		case model.OpDivide:
			return e.body.NewSDiv(x, y), nil
		}
	}
	return nil, fmt.Errorf("unsupported operation %s", op)
}

func index(i int) constant.Constant {
	return constant.NewInt(types.I64, int64(i))
}

func elemType(t model.PortType) (types.Type, error) {
	switch t {
	case model.Double:
		return types.Double, nil
	case model.Integer:
		return types.I64, nil
	default:
		return nil, fmt.Errorf("port type %s has no LLVM representation", t)
	}
}
