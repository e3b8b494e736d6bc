package builder

import (
	"context"
	"fmt"

	"github.com/specialistvlad/emlc/internal/config"
	"github.com/specialistvlad/emlc/internal/model"
	"github.com/specialistvlad/emlc/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func (b *builder) createInput(in *config.Input) (model.Node, error) {
	typ, err := model.ParsePortType(in.Type)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}
	return b.graph.AddInput(in.Name, typ, in.Size)
}

func (b *builder) createConstant(ctx context.Context, c *config.Constant) (model.Node, error) {
	typ, err := model.ParsePortType(c.Type)
	if err != nil {
		return nil, fmt.Errorf("constant %q: %w", c.Name, err)
	}
	values, err := b.constantValues(ctx, typ, c.Values)
	if err != nil {
		return nil, fmt.Errorf("constant %q: %w", c.Name, err)
	}
	return b.graph.AddConstant(c.Name, typ, values...)
}

// constantValues decodes raw into Go values of typ and re-encodes each
// element, which normalizes numbers and rejects fractions for integers.
func (b *builder) constantValues(ctx context.Context, typ model.PortType, raw cty.Value) ([]cty.Value, error) {
	var elems []any
	switch typ {
	case model.Double:
		var xs []float64
		if err := b.conv.Decode(ctx, raw, &xs); err != nil {
			return nil, err
		}
		for _, x := range xs {
			elems = append(elems, x)
		}
	case model.Integer:
		var xs []int64
		if err := b.conv.Decode(ctx, raw, &xs); err != nil {
			return nil, err
		}
		for _, x := range xs {
			elems = append(elems, x)
		}
	case model.Boolean:
		var xs []bool
		if err := b.conv.Decode(ctx, raw, &xs); err != nil {
			return nil, err
		}
		for _, x := range xs {
			elems = append(elems, x)
		}
	default:
		return nil, fmt.Errorf("unsupported constant type %s", typ)
	}

	values := make([]cty.Value, 0, len(elems))
	for _, e := range elems {
		v, err := b.conv.ToCtyValue(e)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (b *builder) createBinary(ctx context.Context, bin *config.Binary) (model.Node, error) {
	op, err := model.ParseBinaryOp(bin.Op)
	if err != nil {
		return nil, fmt.Errorf("binary %q: %w", bin.Name, err)
	}
	lhs, err := b.output(ctx, bin.Name, bin.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := b.output(ctx, bin.Name, bin.RHS)
	if err != nil {
		return nil, err
	}
	return b.graph.AddBinaryOperation(bin.Name, op, lhs, rhs)
}

// createNode builds the construct selected by the kind's NodeType, so a kind
// aliased to a built-in type compiles like the built-in one. Unregistered
// kinds become opaque nodes.
func (b *builder) createNode(ctx context.Context, n *config.Node) (model.Node, error) {
	typ, err := model.ParsePortType(n.Type)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}

	nt := b.kinds.Get(n.Kind)
	switch nt {
	case registry.Input, registry.Constant:
		if len(n.Inputs) != 0 {
			return nil, fmt.Errorf("node %q: kind %q resolves to %s and cannot read other nodes", n.Name, n.Kind, nt)
		}
	case registry.BinaryOp:
		if n.Op == "" || len(n.Inputs) != 2 {
			return nil, fmt.Errorf("node %q: kind %q resolves to %s and needs op and exactly 2 inputs", n.Name, n.Kind, nt)
		}
	}

	sources := make([]*model.Port, 0, len(n.Inputs))
	for _, name := range n.Inputs {
		src, err := b.output(ctx, n.Name, name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	switch nt {
	case registry.Input:
		return b.graph.AddInputKind(n.Name, n.Kind, typ, n.Size)
	case registry.Constant:
		if n.Values.IsNull() {
			return nil, fmt.Errorf("node %q: kind %q resolves to %s and needs values", n.Name, n.Kind, nt)
		}
		values, err := b.constantValues(ctx, typ, n.Values)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		return b.graph.AddConstantKind(n.Name, n.Kind, typ, values)
	case registry.BinaryOp:
		op, err := model.ParseBinaryOp(n.Op)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		return b.graph.AddBinaryOperationKind(n.Name, n.Kind, op, sources[0], sources[1])
	default:
		return b.graph.AddOpaque(n.Name, n.Kind, typ, n.Size, sources...)
	}
}
