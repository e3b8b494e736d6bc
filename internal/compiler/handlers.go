package compiler

import (
	"fmt"

	"github.com/specialistvlad/emlc/internal/emitter"
	"github.com/specialistvlad/emlc/internal/model"
	"github.com/specialistvlad/emlc/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// dispatch compiles n with the handler for its NodeType. A NodeType without a
// case here is not compilable.
func (c *Compiler) dispatch(n model.Node) error {
	switch nt := c.GetNodeType(n); nt {
	case registry.Input:
		return c.compileInput(n)
	case registry.Constant:
		return c.compileConstant(n)
	case registry.BinaryOp:
		return c.compileBinaryOp(n)
	default:
		return nodeError(ErrNotSupported, n, fmt.Sprintf("no handler for node type %s", nt))
	}
}

// constantNode is the construct the constant handler compiles. Input ports
// of a constant only order it after its producers.
type constantNode interface {
	model.Node
	Values() []cty.Value
}

// binaryNode is the construct the binary operation handler compiles.
type binaryNode interface {
	model.Node
	Operation() model.BinaryOp
	Left() *model.Port
	Right() *model.Port
	Output() *model.Port
}

// compileInput emits nothing. The values of a typed entry node already live
// in the input buffer and were bound before the scope was opened.
func (c *Compiler) compileInput(n model.Node) error {
	if len(n.OutputPorts()) == 0 {
		return nodeError(ErrNotSupported, n, "input node has no output ports")
	}
	for _, p := range n.OutputPorts() {
		if _, bound := c.bindings[p]; !bound {
			return nodeError(ErrNotSupported, n, "input node is not a typed graph entry")
		}
	}
	return nil
}

// compileConstant places the node's values in a new global.
func (c *Compiler) compileConstant(n model.Node) error {
	cn, ok := n.(constantNode)
	if !ok || len(n.OutputPorts()) != 1 {
		return nodeError(ErrNotSupported, n, fmt.Sprintf("%T is not a single-output constant", n))
	}
	out := n.OutputPorts()[0]
	if err := requireNumeric(n, out, ErrOutputPortTypeNotSupported); err != nil {
		return err
	}
	if err := c.VerifyOutputType(n, out.Type()); err != nil {
		return err
	}

	lit, err := literalOf(out.Type(), cn.Values())
	if err != nil {
		return portError(ErrOutputPortTypeNotSupported, n, out, err.Error())
	}
	if lit.Len() != out.Size() {
		return portError(ErrNotSupported, n, out, fmt.Sprintf("%d values for %d elements", lit.Len(), out.Size()))
	}
	g := c.AllocGlobal()
	if err := c.emit.EmitLiteral(g, lit); err != nil {
		return fmt.Errorf("node '%s': %w", n.ID(), err)
	}
	c.bindings[out] = emitter.InGlobal(g)
	return nil
}

// compileBinaryOp computes the node's result into a new temporary.
func (c *Compiler) compileBinaryOp(n model.Node) error {
	bn, ok := n.(binaryNode)
	if !ok {
		return nodeError(ErrNotSupported, n, fmt.Sprintf("%T is not a binary operation", n))
	}
	out := bn.Output()
	if err := requireNumeric(n, out, ErrOutputPortTypeNotSupported); err != nil {
		return err
	}
	if err := c.VerifyInputType(n, out.Type()); err != nil {
		return err
	}
	if err := c.VerifyOutputType(n, out.Type()); err != nil {
		return err
	}

	lhs, err := c.valueOf(n, bn.Left())
	if err != nil {
		return err
	}
	rhs, err := c.valueOf(n, bn.Right())
	if err != nil {
		return err
	}
	t := c.AllocTemp()
	c.bindings[out] = emitter.InTemp(t)
	if err := c.emit.EmitBinaryOp(bn.Operation(), out.Type(), emitter.InTemp(t), lhs, rhs, out.Size()); err != nil {
		return fmt.Errorf("node '%s': %w", n.ID(), err)
	}
	return nil
}

// literalOf converts cty values to the emitter's literal form.
func literalOf(typ model.PortType, values []cty.Value) (emitter.Literal, error) {
	lit := emitter.Literal{Type: typ}
	if len(values) == 0 {
		return emitter.Literal{}, fmt.Errorf("constant has no values")
	}
	for i, v := range values {
		switch typ {
		case model.Integer:
			var x int64
			if err := gocty.FromCtyValue(v, &x); err != nil {
				return emitter.Literal{}, fmt.Errorf("value %d: %w", i, err)
			}
			lit.Integers = append(lit.Integers, x)
		default:
			var x float64
			if err := gocty.FromCtyValue(v, &x); err != nil {
				return emitter.Literal{}, fmt.Errorf("value %d: %w", i, err)
			}
			lit.Doubles = append(lit.Doubles, x)
		}
	}
	return lit, nil
}

// requireNumeric fails with kind unless p carries doubles or integers, the
// only types the emitted function can hold.
func requireNumeric(n model.Node, p *model.Port, kind error) error {
	switch p.Type() {
	case model.Double, model.Integer:
		return nil
	default:
		return portError(kind, n, p, fmt.Sprintf("%s values cannot be emitted", p.Type()))
	}
}
