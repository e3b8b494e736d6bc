package compiler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/emlc/internal/alloc"
	"github.com/specialistvlad/emlc/internal/emitter"
	"github.com/specialistvlad/emlc/internal/graph"
	"github.com/specialistvlad/emlc/internal/model"
	"github.com/specialistvlad/emlc/internal/registry"
)

// Fixed names of the emitted entry point and its parameters.
const (
	FunctionName = "Predict"
	InputName    = "input"
	OutputName   = "output"
)

// State is the position of a Compiler in its lifecycle.
type State int

const (
	// Idle is the initial state and the state after every pass.
	Idle State = iota
	// ModelBound means the entry and leaf nodes are resolved but no scope is
	// open yet.
	ModelBound
	// FunctionOpen means an emitter scope is open.
	FunctionOpen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ModelBound:
		return "model-bound"
	case FunctionOpen:
		return "function-open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Compiler compiles models or single nodes through an emitter.Emitter.
type Compiler struct {
	emit     emitter.Emitter
	registry *registry.Registry
	alloc    *alloc.Allocator
	logger   *slog.Logger

	state   State
	inputs  []model.Node
	outputs []model.Node

	// bindings maps a port to the operand holding its value during a pass.
	// Output ports are bound by the handler that produced them; input ports
	// are only bound directly by CompileNode.
	bindings map[*model.Port]emitter.Operand
	// refs counts the emissions still to read an output port's value.
	refs map[*model.Port]int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithRegistry sets the node type registry. The default is
// registry.NewDefault(). The registry must be initialized before it is
// passed in.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// New creates a Compiler that emits through emit.
func New(emit emitter.Emitter, opts ...Option) *Compiler {
	c := &Compiler{
		emit:     emit,
		alloc:    alloc.New(),
		bindings: make(map[*model.Port]emitter.Operand),
		refs:     make(map[*model.Port]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.registry == nil {
		c.registry = registry.NewDefault()
	}
	return c
}

// State returns the current lifecycle state.
func (c *Compiler) State() State { return c.state }

// Inputs returns the entry nodes bound by the last successful CompileModel.
func (c *Compiler) Inputs() []model.Node { return c.inputs }

// Outputs returns the leaf nodes bound by the last successful CompileModel.
func (c *Compiler) Outputs() []model.Node { return c.outputs }

// Allocator exposes the storage allocator, for reporting.
func (c *Compiler) Allocator() *alloc.Allocator { return c.alloc }

// InputName returns the name of the input parameter.
func (c *Compiler) InputName() string { return InputName }

// OutputName returns the name of the output parameter.
func (c *Compiler) OutputName() string { return OutputName }

// GetNodeType resolves the NodeType of n by its kind.
func (c *Compiler) GetNodeType(n model.Node) registry.NodeType {
	return c.registry.Get(n.Kind())
}

// isInputNode reports whether n's kind is registered as an input.
func (c *Compiler) isInputNode(n model.Node) bool {
	return c.GetNodeType(n) == registry.Input
}

// AllocTemp reserves a temporary slot.
func (c *Compiler) AllocTemp() alloc.TempVar {
	t := c.alloc.AllocTemp()
	c.logger.Debug("Allocated temporary.", "temp", t.String())
	return t
}

// FreeTemp releases a temporary slot. Releasing a slot that is not live is
// reported as alloc.ErrTempNotLive.
func (c *Compiler) FreeTemp(t alloc.TempVar) error {
	if err := c.alloc.FreeTemp(t); err != nil {
		return err
	}
	c.logger.Debug("Released temporary.", "temp", t.String())
	return nil
}

// AllocGlobal reserves a program-lifetime global.
func (c *Compiler) AllocGlobal() alloc.GlobalID {
	g := c.alloc.AllocGlobal()
	c.logger.Debug("Allocated global.", "global", g.String())
	return g
}

// BeginMain opens the entry point scope described by sig.
func (c *Compiler) BeginMain(sig emitter.Signature) error {
	if c.state == FunctionOpen {
		return fmt.Errorf("begin %q: %w", sig.Name, ErrScopeOpen)
	}
	if err := c.emit.BeginFunction(sig); err != nil {
		return fmt.Errorf("begin %q: %w", sig.Name, err)
	}
	c.state = FunctionOpen
	c.logger.Debug("Opened function scope.",
		"function", sig.Name,
		"input_type", sig.InputType.String(), "input_size", sig.InputSize,
		"output_type", sig.OutputType.String(), "output_size", sig.OutputSize)
	return nil
}

// EndMain closes and commits the open scope.
func (c *Compiler) EndMain() error {
	if c.state != FunctionOpen {
		return fmt.Errorf("end: %w", ErrScopeNotOpen)
	}
	if err := c.emit.EndFunction(); err != nil {
		c.abort()
		return fmt.Errorf("end: %w", err)
	}
	c.state = Idle
	c.clearPass()
	c.logger.Debug("Closed function scope.")
	return nil
}

// Reset returns the compiler to its initial state so an unrelated model can
// be compiled. Bound nodes, value bindings, temporaries and the global
// counter are cleared and an open scope is aborted. An emitter implementing
// emitter.Resetter is reset as well. The registry is kept.
func (c *Compiler) Reset() {
	if c.state == FunctionOpen {
		c.emit.AbortFunction()
	}
	// Global numbering restarts below, so the emitter must forget the
	// globals it was given so far.
	if r, ok := c.emit.(emitter.Resetter); ok {
		r.Reset()
	}
	c.state = Idle
	c.inputs = nil
	c.outputs = nil
	c.bindings = make(map[*model.Port]emitter.Operand)
	c.refs = make(map[*model.Port]int)
	c.alloc.Reset()
	c.logger.Debug("Compiler reset.")
}

// CompileModel compiles m into the "Predict" function. The function reads
// every entry node's values from "input" in traversal order and writes every
// leaf node's values to "output" in traversal order.
func (c *Compiler) CompileModel(m model.Model) error {
	if c.state == FunctionOpen {
		return fmt.Errorf("compile model: %w", ErrScopeOpen)
	}

	inputs := graph.CollectEntryNodes(m, c.isInputNode)
	if len(inputs) == 0 {
		return fmt.Errorf("compile model: %w", ErrNoInputs)
	}
	outputs := graph.CollectOutputNodes(m)
	if len(outputs) == 0 {
		return fmt.Errorf("compile model: %w", ErrNoOutputs)
	}
	order, err := graph.DependencyOrder(m)
	if err != nil {
		return fmt.Errorf("compile model: %w", err)
	}
	for _, n := range order {
		if c.GetNodeType(n) == registry.Unknown {
			return nodeError(ErrNotSupported, n, "kind is not registered")
		}
	}

	c.inputs, c.outputs = inputs, outputs
	c.state = ModelBound
	c.logger.Debug("Bound model.", "inputs", len(inputs), "outputs", len(outputs), "nodes", len(order))

	sig, err := c.modelSignature(inputs, outputs)
	if err != nil {
		c.unbind()
		return err
	}

	// Entry values are read in place from the input buffer.
	offset := 0
	for _, n := range inputs {
		for _, p := range n.OutputPorts() {
			c.bindings[p] = emitter.InputAt(offset)
			offset += p.Size()
		}
	}
	// Every read of an output port is counted, including the final copy of
	// leaf values.
	outOffsets := make(map[*model.Port]int)
	offset = 0
	for _, n := range outputs {
		for _, p := range n.OutputPorts() {
			outOffsets[p] = offset
			offset += p.Size()
			c.refs[p]++
		}
	}
	for _, n := range order {
		for _, p := range n.InputPorts() {
			if src := p.Source(); src != nil {
				c.refs[src]++
			}
		}
	}

	if err := c.BeginMain(sig); err != nil {
		c.unbind()
		return err
	}
	for _, n := range order {
		if err := c.compileInScope(n, outOffsets); err != nil {
			c.abort()
			c.unbind()
			return err
		}
	}
	if err := c.EndMain(); err != nil {
		c.unbind()
		return err
	}
	return nil
}

// CompileNode compiles n alone into the "Predict" function. The function
// reads n's input ports from "input" in port order and writes n's output
// ports to "output" in port order. An input node is compiled as a
// passthrough: its own values are read from "input".
func (c *Compiler) CompileNode(n model.Node) error {
	if c.state == FunctionOpen {
		return fmt.Errorf("compile node '%s': %w", n.ID(), ErrScopeOpen)
	}
	nt := c.GetNodeType(n)
	if nt == registry.Unknown {
		return nodeError(ErrNotSupported, n, "kind is not registered")
	}

	sig, err := c.nodeSignature(n, nt)
	if err != nil {
		return err
	}

	offset := 0
	if nt == registry.Input && graph.IsTypedEntry(n) {
		for _, p := range n.OutputPorts() {
			c.bindings[p] = emitter.InputAt(offset)
			offset += p.Size()
		}
	} else {
		for _, p := range n.InputPorts() {
			c.bindings[p] = emitter.InputAt(offset)
			offset += p.Size()
		}
	}
	outOffsets := make(map[*model.Port]int)
	offset = 0
	for _, p := range n.OutputPorts() {
		outOffsets[p] = offset
		offset += p.Size()
		c.refs[p] = 1
	}

	if err := c.BeginMain(sig); err != nil {
		c.clearPass()
		return err
	}
	if err := c.compileInScope(n, outOffsets); err != nil {
		c.abort()
		return err
	}
	return c.EndMain()
}

// VerifyInputType fails with ErrInputPortTypeNotSupported naming the first
// input port of n whose type is not t.
func (c *Compiler) VerifyInputType(n model.Node, t model.PortType) error {
	for _, p := range n.InputPorts() {
		if p.Type() != t {
			return portError(ErrInputPortTypeNotSupported, n, p, fmt.Sprintf("got %s, want %s", p.Type(), t))
		}
	}
	return nil
}

// VerifyOutputType fails with ErrOutputPortTypeNotSupported naming the first
// output port of n whose type is not t.
func (c *Compiler) VerifyOutputType(n model.Node, t model.PortType) error {
	for _, p := range n.OutputPorts() {
		if p.Type() != t {
			return portError(ErrOutputPortTypeNotSupported, n, p, fmt.Sprintf("got %s, want %s", p.Type(), t))
		}
	}
	return nil
}

// compileInScope dispatches n and, if n has a reserved place in the output
// buffer, copies its values there.
func (c *Compiler) compileInScope(n model.Node, outOffsets map[*model.Port]int) error {
	c.logger.Debug("Compiling node.", "node_id", n.ID(), "kind", n.Kind())
	if err := c.dispatch(n); err != nil {
		return err
	}
	for _, p := range n.InputPorts() {
		if err := c.release(p.Source()); err != nil {
			return err
		}
	}
	for _, p := range n.OutputPorts() {
		off, ok := outOffsets[p]
		if !ok {
			continue
		}
		src, err := c.valueOf(n, p)
		if err != nil {
			return err
		}
		if err := c.emit.EmitCopy(emitter.OutputAt(off), src, p.Type(), p.Size()); err != nil {
			return fmt.Errorf("node '%s': %w", n.ID(), err)
		}
		if err := c.release(p); err != nil {
			return err
		}
	}
	return nil
}

// release records that one reader of p has been emitted and frees p's
// temporary after the last one.
func (c *Compiler) release(p *model.Port) error {
	if p == nil {
		return nil
	}
	c.refs[p]--
	if c.refs[p] > 0 {
		return nil
	}
	delete(c.refs, p)
	op, ok := c.bindings[p]
	if !ok || op.Storage != emitter.TempStorage {
		return nil
	}
	delete(c.bindings, p)
	return c.FreeTemp(op.Temp)
}

// valueOf returns the operand holding the value of port p of node n. An
// input port resolves to its own binding if it has one, otherwise to its
// producer's.
func (c *Compiler) valueOf(n model.Node, p *model.Port) (emitter.Operand, error) {
	if op, ok := c.bindings[p]; ok {
		return op, nil
	}
	if src := p.Source(); src != nil {
		if op, ok := c.bindings[src]; ok {
			return op, nil
		}
	}
	return emitter.Operand{}, portError(ErrNotSupported, n, p, "value is not available")
}

func (c *Compiler) abort() {
	c.emit.AbortFunction()
	c.state = Idle
	c.clearPass()
	c.logger.Debug("Aborted function scope.")
}

// clearPass drops the bindings of the finished pass and frees any temporary
// still held by them.
func (c *Compiler) clearPass() {
	for _, op := range c.bindings {
		if op.Storage == emitter.TempStorage && c.alloc.IsLive(op.Temp) {
			// FreeTemp only fails for handles that are not live.
			_ = c.alloc.FreeTemp(op.Temp)
		}
	}
	c.bindings = make(map[*model.Port]emitter.Operand)
	c.refs = make(map[*model.Port]int)
}

func (c *Compiler) unbind() {
	c.state = Idle
	c.inputs = nil
	c.outputs = nil
	c.clearPass()
}
