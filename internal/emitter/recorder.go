package emitter

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/specialistvlad/emlc/internal/alloc"
	"github.com/specialistvlad/emlc/internal/model"
)

var (
	// ErrScopeOpen is returned by BeginFunction while another scope is open.
	ErrScopeOpen = errors.New("a function scope is already open")
	// ErrNoScope is returned by emission calls made outside a scope.
	ErrNoScope = errors.New("no function scope is open")
	// ErrFunctionDefined is returned by backends that hold one definition per
	// function name when BeginFunction names a committed function.
	ErrFunctionDefined = errors.New("function is already defined")
)

// Action is one step of an emission plan.
type Action struct {
	Op       string   `yaml:"op" msgpack:"op"`
	Target   string   `yaml:"target,omitempty" msgpack:"target,omitempty"`
	Operands []string `yaml:"operands,omitempty" msgpack:"operands,omitempty"`
	Type     string   `yaml:"type,omitempty" msgpack:"type,omitempty"`
	Size     int      `yaml:"size,omitempty" msgpack:"size,omitempty"`
	Values   []string `yaml:"values,omitempty" msgpack:"values,omitempty"`
}

// Function is a recorded function scope.
type Function struct {
	Signature Signature `yaml:"-" msgpack:"-"`
	Name      string    `yaml:"name" msgpack:"name"`
	Actions   []Action  `yaml:"actions" msgpack:"actions"`
}

// Recorder is an Emitter that records the ordered sequence of emission calls
// instead of generating code. Only committed functions are kept.
type Recorder struct {
	functions []Function
	current   *Function
}

var _ Emitter = (*Recorder)(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Functions returns the committed functions in emission order.
func (r *Recorder) Functions() []Function {
	return r.functions
}

// Open reports whether a scope is currently open.
func (r *Recorder) Open() bool {
	return r.current != nil
}

// BeginFunction implements Emitter.
func (r *Recorder) BeginFunction(sig Signature) error {
	if r.current != nil {
		return fmt.Errorf("begin %q: %w", sig.Name, ErrScopeOpen)
	}
	r.current = &Function{Signature: sig, Name: sig.Name}
	r.current.Actions = append(r.current.Actions, Action{
		Op:       "begin",
		Target:   sig.Name,
		Operands: []string{sig.InputName, sig.OutputName},
		Type:     sig.InputType.String() + "->" + sig.OutputType.String(),
		Values:   []string{strconv.Itoa(sig.InputSize), strconv.Itoa(sig.OutputSize)},
	})
	return nil
}

// EmitLiteral implements Emitter.
func (r *Recorder) EmitLiteral(dst alloc.GlobalID, lit Literal) error {
	if r.current == nil {
		return fmt.Errorf("literal %s: %w", dst, ErrNoScope)
	}
	values := make([]string, 0, lit.Len())
	if lit.Type == model.Integer {
		for _, v := range lit.Integers {
			values = append(values, strconv.FormatInt(v, 10))
		}
	} else {
		for _, v := range lit.Doubles {
			values = append(values, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	r.record(Action{Op: "literal", Target: dst.String(), Type: lit.Type.String(), Size: lit.Len(), Values: values})
	return nil
}

// EmitCopy implements Emitter.
func (r *Recorder) EmitCopy(dst, src Operand, typ model.PortType, size int) error {
	if r.current == nil {
		return fmt.Errorf("copy to %s: %w", dst, ErrNoScope)
	}
	r.record(Action{Op: "copy", Target: dst.String(), Operands: []string{src.String()}, Type: typ.String(), Size: size})
	return nil
}

// EmitBinaryOp implements Emitter.
func (r *Recorder) EmitBinaryOp(op model.BinaryOp, typ model.PortType, dst, lhs, rhs Operand, size int) error {
	if r.current == nil {
		return fmt.Errorf("%s to %s: %w", op, dst, ErrNoScope)
	}
	r.record(Action{Op: op.String(), Target: dst.String(), Operands: []string{lhs.String(), rhs.String()}, Type: typ.String(), Size: size})
	return nil
}

// EndFunction implements Emitter.
func (r *Recorder) EndFunction() error {
	if r.current == nil {
		return fmt.Errorf("end: %w", ErrNoScope)
	}
	r.record(Action{Op: "end", Target: r.current.Name})
	r.functions = append(r.functions, *r.current)
	r.current = nil
	return nil
}

// AbortFunction implements Emitter.
func (r *Recorder) AbortFunction() {
	r.current = nil
}

func (r *Recorder) record(a Action) {
	r.current.Actions = append(r.current.Actions, a)
}
