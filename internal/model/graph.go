// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Model is the read-only view of a graph consumed by the compiler.
type Model interface {
	// Visit calls fn for every node exactly once, in a deterministic order.
	Visit(fn func(Node))
}

// Graph is the in-memory Model implementation. Nodes are added through the
// Add* methods; a node may only consume ports of nodes already in the graph,
// so a Graph can never contain a cycle.
type Graph struct {
	// mutex protects nodes and order while the graph is being built.
	mutex sync.RWMutex
	nodes map[string]Node
	order []Node
}

var _ Model = (*Graph)(nil)

// NewGraph creates and returns an initialized, empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
	}
}

// Visit calls fn for every node in insertion order.
func (g *Graph) Visit(fn func(Node)) {
	g.mutex.RLock()
	snapshot := make([]Node, len(g.order))
	copy(snapshot, g.order)
	g.mutex.RUnlock()

	for _, n := range snapshot {
		fn(n)
	}
}

// Node looks up a node by its identifier.
func (g *Graph) Node(id string) (Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.order)
}

// AddInput adds a graph entry point producing size elements of typ.
func (g *Graph) AddInput(id string, typ PortType, size int) (*InputNode, error) {
	return g.AddInputKind(id, InputKind, typ, size)
}

// AddInputKind is AddInput with a custom kind identifier.
func (g *Graph) AddInputKind(id, kind string, typ PortType, size int) (*InputNode, error) {
	if kind == "" {
		return nil, fmt.Errorf("input %q: kind must not be empty", id)
	}
	if err := checkShape(typ, size); err != nil {
		return nil, fmt.Errorf("input %q: %w", id, err)
	}
	n := &InputNode{base: base{
		id:      id,
		kind:    kind,
		outputs: []*Port{newOutputPort(outputPortName, typ, size)},
	}}
	n.attach(n)
	if err := g.add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddConstant adds a literal node. Its output size equals len(values).
func (g *Graph) AddConstant(id string, typ PortType, values ...cty.Value) (*ConstantNode, error) {
	return g.AddConstantKind(id, ConstantKind, typ, values)
}

// AddConstantKind is AddConstant with a custom kind identifier.
func (g *Graph) AddConstantKind(id, kind string, typ PortType, values []cty.Value) (*ConstantNode, error) {
	if kind == "" {
		return nil, fmt.Errorf("constant %q: kind must not be empty", id)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("constant %q: at least one value is required", id)
	}
	if err := validateValues(typ, values); err != nil {
		return nil, fmt.Errorf("constant %q: %w", id, err)
	}
	n := &ConstantNode{
		base: base{
			id:      id,
			kind:    kind,
			outputs: []*Port{newOutputPort(outputPortName, typ, len(values))},
		},
		values: values,
	}
	n.attach(n)
	if err := g.add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddBinaryOperation adds an element-wise operation over lhs and rhs. Both
// operands must carry the same type and size.
func (g *Graph) AddBinaryOperation(id string, op BinaryOp, lhs, rhs *Port) (*BinaryOperationNode, error) {
	return g.AddBinaryOperationKind(id, BinaryOperationKind, op, lhs, rhs)
}

// AddBinaryOperationKind is AddBinaryOperation with a custom kind identifier.
func (g *Graph) AddBinaryOperationKind(id, kind string, op BinaryOp, lhs, rhs *Port) (*BinaryOperationNode, error) {
	if kind == "" {
		return nil, fmt.Errorf("binary operation %q: kind must not be empty", id)
	}
	if lhs == nil || rhs == nil {
		return nil, fmt.Errorf("binary operation %q: both operands are required", id)
	}
	if lhs.typ != rhs.typ {
		return nil, fmt.Errorf("binary operation %q: operand types differ (%s vs %s)", id, lhs.typ, rhs.typ)
	}
	if lhs.size != rhs.size {
		return nil, fmt.Errorf("binary operation %q: operand sizes differ (%d vs %d)", id, lhs.size, rhs.size)
	}
	n := &BinaryOperationNode{
		base: base{
			id:   id,
			kind: kind,
			inputs: []*Port{
				newInputPort(binaryLeftPortName, lhs),
				newInputPort(binaryRightPortName, rhs),
			},
			outputs: []*Port{newOutputPort(outputPortName, lhs.typ, lhs.size)},
		},
		op: op,
	}
	n.attach(n)
	if err := g.add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddOpaque adds a node of an arbitrary kind that reads sources and produces
// one output of outType and outSize.
func (g *Graph) AddOpaque(id, kind string, outType PortType, outSize int, sources ...*Port) (*OpaqueNode, error) {
	if kind == "" {
		return nil, fmt.Errorf("node %q: kind must not be empty", id)
	}
	if err := checkShape(outType, outSize); err != nil {
		return nil, fmt.Errorf("node %q: %w", id, err)
	}
	inputs := make([]*Port, 0, len(sources))
	for i, src := range sources {
		if src == nil {
			return nil, fmt.Errorf("node %q: source %d is nil", id, i)
		}
		inputs = append(inputs, newInputPort(fmt.Sprintf("input%d", i+1), src))
	}
	n := &OpaqueNode{base: base{
		id:      id,
		kind:    kind,
		inputs:  inputs,
		outputs: []*Port{newOutputPort(outputPortName, outType, outSize)},
	}}
	n.attach(n)
	if err := g.add(n); err != nil {
		return nil, err
	}
	return n, nil
}

// add registers n and links it as a dependent of every producer it reads.
func (g *Graph) add(n Node) error {
	if n.ID() == "" {
		return fmt.Errorf("node id must not be empty")
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, exists := g.nodes[n.ID()]; exists {
		return fmt.Errorf("duplicate node id %q", n.ID())
	}

	// Validate every edge before mutating any producer.
	producers := make([]Node, 0, len(n.InputPorts()))
	seen := make(map[string]struct{})
	for _, in := range n.InputPorts() {
		src := in.Source()
		if src.Direction() != Out {
			return fmt.Errorf("node %q: port %s is not an output port", n.ID(), src)
		}
		owner, ok := g.nodes[src.Node().ID()]
		if !ok || owner != src.Node() {
			return fmt.Errorf("node %q: producer %q is not part of this graph", n.ID(), src.Node().ID())
		}
		if _, dup := seen[owner.ID()]; dup {
			continue
		}
		seen[owner.ID()] = struct{}{}
		producers = append(producers, owner)
	}

	for _, p := range producers {
		adder, ok := p.(dependentAdder)
		if !ok {
			return fmt.Errorf("node %q: producer %q cannot record dependents", n.ID(), p.ID())
		}
		adder.addDependent(n)
	}

	g.nodes[n.ID()] = n
	g.order = append(g.order, n)
	return nil
}

func checkShape(typ PortType, size int) error {
	if typ == Unspecified {
		return fmt.Errorf("port type must be specified")
	}
	if size <= 0 {
		return fmt.Errorf("port size must be positive, got %d", size)
	}
	return nil
}
