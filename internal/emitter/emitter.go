// Package emitter defines the contract between the compiler and a code
// emission backend.
//
// The compiler decides when and for which node an emission call happens and
// which storage each value lives in; the backend decides what the emitted code
// looks like. Every call happens inside a function scope opened by
// BeginFunction and closed by either EndFunction (success) or AbortFunction
// (the compilation failed and nothing emitted since BeginFunction may be used).
package emitter

import (
	"fmt"

	"github.com/specialistvlad/emlc/internal/alloc"
	"github.com/specialistvlad/emlc/internal/model"
)

// Emitter is implemented by code emission backends.
type Emitter interface {
	// BeginFunction opens a function scope with the given signature.
	BeginFunction(sig Signature) error
	// EmitLiteral defines the program-lifetime global dst holding lit.
	EmitLiteral(dst alloc.GlobalID, lit Literal) error
	// EmitCopy copies size elements of typ from src to dst.
	EmitCopy(dst, src Operand, typ model.PortType, size int) error
	// EmitBinaryOp computes dst = lhs op rhs element-wise over size elements.
	EmitBinaryOp(op model.BinaryOp, typ model.PortType, dst, lhs, rhs Operand, size int) error
	// EndFunction closes the scope and commits the function.
	EndFunction() error
	// AbortFunction discards the open scope, if any.
	AbortFunction()
}

// Resetter is implemented by emitters that hold state across function scopes,
// such as globals defined by earlier passes. Reset discards an open scope and
// everything committed so far.
type Resetter interface {
	Reset()
}

// Signature describes the entry point being emitted. The function reads
// InputSize elements of InputType from the parameter named InputName and
// writes OutputSize elements of OutputType to the parameter named OutputName.
type Signature struct {
	Name       string
	InputName  string
	OutputName string
	InputType  model.PortType
	InputSize  int
	OutputType model.PortType
	OutputSize int
}

// Literal is a compile-time vector. Exactly one of Doubles or Integers is
// populated, according to Type.
type Literal struct {
	Type     model.PortType
	Doubles  []float64
	Integers []int64
}

// Len returns the number of elements in the literal.
func (l Literal) Len() int {
	if l.Type == model.Integer {
		return len(l.Integers)
	}
	return len(l.Doubles)
}

// Storage is the storage class an Operand refers to.
type Storage int

const (
	// InputStorage is the function's input parameter.
	InputStorage Storage = iota + 1
	// OutputStorage is the function's output parameter.
	OutputStorage
	// TempStorage is a reusable temporary slot.
	TempStorage
	// GlobalStorage is a program-lifetime global.
	GlobalStorage
)

// Operand locates a value: a slice of the input or output parameter starting
// at Offset, a whole temporary slot, or a whole global.
type Operand struct {
	Storage Storage
	Offset  int
	Temp    alloc.TempVar
	Global  alloc.GlobalID
}

// InputAt refers to the input parameter starting at offset.
func InputAt(offset int) Operand { return Operand{Storage: InputStorage, Offset: offset} }

// OutputAt refers to the output parameter starting at offset.
func OutputAt(offset int) Operand { return Operand{Storage: OutputStorage, Offset: offset} }

// InTemp refers to a temporary slot.
func InTemp(t alloc.TempVar) Operand { return Operand{Storage: TempStorage, Temp: t} }

// InGlobal refers to a global.
func InGlobal(g alloc.GlobalID) Operand { return Operand{Storage: GlobalStorage, Global: g} }

// String renders the operand for plans and logs.
func (o Operand) String() string {
	switch o.Storage {
	case InputStorage:
		return fmt.Sprintf("input[%d]", o.Offset)
	case OutputStorage:
		return fmt.Sprintf("output[%d]", o.Offset)
	case TempStorage:
		return o.Temp.String()
	case GlobalStorage:
		return o.Global.String()
	default:
		return "<invalid>"
	}
}
