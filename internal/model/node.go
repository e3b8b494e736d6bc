// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifiers of the node constructs defined by this package.
const (
	InputKind           = "Input"
	ConstantKind        = "ConstantNode"
	BinaryOperationKind = "BinaryOperationNode"
)

const (
	outputPortName      = "output"
	binaryLeftPortName  = "input1"
	binaryRightPortName = "input2"
)

// Node is a single vertex of the graph.
type Node interface {
	// ID is the unique identifier of the node within its graph.
	ID() string
	// Kind is the runtime kind identifier used to resolve the node's type.
	Kind() string
	// InputPorts returns the ordered ports the node reads.
	InputPorts() []*Port
	// OutputPorts returns the ordered ports the node writes.
	OutputPorts() []*Port
	// Dependents returns the nodes reading any of this node's outputs.
	Dependents() []Node
}

// base carries the state shared by every node construct.
type base struct {
	id         string
	kind       string
	inputs     []*Port
	outputs    []*Port
	dependents []Node
}

func (b *base) ID() string            { return b.id }
func (b *base) Kind() string          { return b.kind }
func (b *base) InputPorts() []*Port   { return b.inputs }
func (b *base) OutputPorts() []*Port  { return b.outputs }
func (b *base) Dependents() []Node    { return b.dependents }
func (b *base) addDependent(dep Node) { b.dependents = append(b.dependents, dep) }

// attach sets the owner of every port. It must run once the concrete node
// exists so that Port.Node returns the concrete value rather than base.
func (b *base) attach(owner Node) {
	for _, p := range b.inputs {
		p.node = owner
	}
	for _, p := range b.outputs {
		p.node = owner
	}
}

// dependentAdder is implemented by every node created in this package.
type dependentAdder interface {
	addDependent(Node)
}

// InputNode is a graph entry point. Its values are supplied by the caller of
// the compiled function.
type InputNode struct {
	base
}

// Output returns the single output port of the input node.
func (n *InputNode) Output() *Port { return n.outputs[0] }

// ConstantNode holds a literal vector known at compile time.
type ConstantNode struct {
	base
	values []cty.Value
}

// Output returns the single output port of the constant node.
func (n *ConstantNode) Output() *Port { return n.outputs[0] }

// Values returns the literal elements in port order.
func (n *ConstantNode) Values() []cty.Value { return n.values }

// BinaryOp is the element-wise operation performed by a BinaryOperationNode.
type BinaryOp int

const (
	// OpAdd adds the operands.
	OpAdd BinaryOp = iota
	// OpSubtract subtracts the right operand from the left.
	OpSubtract
	// OpMultiply multiplies the operands element-wise.
	OpMultiply
	// OpDivide divides the left operand by the right element-wise.
	OpDivide
)

// String returns the manifest spelling of the operation.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return fmt.Sprintf("BinaryOp(%d)", int(op))
	}
}

// ParseBinaryOp converts a manifest operation name into a BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, error) {
	switch strings.ToLower(s) {
	case "add", "+":
		return OpAdd, nil
	case "subtract", "sub", "-":
		return OpSubtract, nil
	case "multiply", "mul", "*":
		return OpMultiply, nil
	case "divide", "div", "/":
		return OpDivide, nil
	default:
		return 0, fmt.Errorf("unknown binary operation %q", s)
	}
}

// BinaryOperationNode combines two equally sized vectors element by element.
type BinaryOperationNode struct {
	base
	op BinaryOp
}

// Operation returns the element-wise operation.
func (n *BinaryOperationNode) Operation() BinaryOp { return n.op }

// Left returns the port holding the left operand.
func (n *BinaryOperationNode) Left() *Port { return n.inputs[0] }

// Right returns the port holding the right operand.
func (n *BinaryOperationNode) Right() *Port { return n.inputs[1] }

// Output returns the single output port of the node.
func (n *BinaryOperationNode) Output() *Port { return n.outputs[0] }

// OpaqueNode is a node of arbitrary kind with no behavior of its own. It lets
// graphs describe constructs that a given compiler may not support.
type OpaqueNode struct {
	base
}

// The owner of ports built here is set later by base.attach.
func newOutputPort(name string, typ PortType, size int) *Port {
	return NewOutputPort(nil, name, typ, size)
}

func newInputPort(name string, src *Port) *Port {
	return NewInputPort(nil, name, src)
}

func validateValues(typ PortType, values []cty.Value) error {
	for i, v := range values {
		if !v.IsKnown() || v.IsNull() {
			return fmt.Errorf("value %d is null or unknown", i)
		}
		switch typ {
		case Double:
			if !v.Type().Equals(cty.Number) {
				return fmt.Errorf("value %d: expected number, got %s", i, v.Type().FriendlyName())
			}
		case Integer:
			if !v.Type().Equals(cty.Number) {
				return fmt.Errorf("value %d: expected number, got %s", i, v.Type().FriendlyName())
			}
			if !v.AsBigFloat().IsInt() {
				return fmt.Errorf("value %d: %s is not a whole number", i, v.AsBigFloat().Text('g', -1))
			}
		case Boolean:
			if !v.Type().Equals(cty.Bool) {
				return fmt.Errorf("value %d: expected bool, got %s", i, v.Type().FriendlyName())
			}
		default:
			return fmt.Errorf("constant of type %s is not allowed", typ)
		}
	}
	return nil
}
