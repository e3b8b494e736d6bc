package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func visitIDs(g *Graph) []string {
	var ids []string
	g.Visit(func(n Node) { ids = append(ids, n.ID()) })
	return ids
}

func TestNewGraph(t *testing.T) {
	g := NewGraph()
	require.NotNil(t, g)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, visitIDs(g))
}

func TestAddInput(t *testing.T) {
	g := NewGraph()

	in, err := g.AddInput("x", Double, 3)
	require.NoError(t, err)
	assert.Equal(t, "x", in.ID())
	assert.Equal(t, InputKind, in.Kind())
	assert.Empty(t, in.InputPorts())
	require.Len(t, in.OutputPorts(), 1)
	assert.Equal(t, Double, in.Output().Type())
	assert.Equal(t, 3, in.Output().Size())
	assert.Equal(t, Out, in.Output().Direction())
	assert.Same(t, in, in.Output().Node().(*InputNode))

	_, err = g.AddInput("x", Double, 1)
	assert.ErrorContains(t, err, "duplicate node id")

	_, err = g.AddInput("y", Double, 0)
	assert.ErrorContains(t, err, "port size must be positive")

	_, err = g.AddInput("z", Unspecified, 1)
	assert.ErrorContains(t, err, "port type must be specified")
}

func TestAddConstant(t *testing.T) {
	t.Run("double values", func(t *testing.T) {
		g := NewGraph()
		c, err := g.AddConstant("c", Double, cty.NumberFloatVal(1.5), cty.NumberIntVal(2))
		require.NoError(t, err)
		assert.Equal(t, ConstantKind, c.Kind())
		assert.Equal(t, 2, c.Output().Size())
		assert.Len(t, c.Values(), 2)
	})

	t.Run("integer rejects fractions", func(t *testing.T) {
		g := NewGraph()
		_, err := g.AddConstant("c", Integer, cty.NumberFloatVal(1.5))
		assert.ErrorContains(t, err, "not a whole number")
	})

	t.Run("type mismatch", func(t *testing.T) {
		g := NewGraph()
		_, err := g.AddConstant("c", Double, cty.StringVal("nope"))
		assert.ErrorContains(t, err, "expected number")

		_, err = g.AddConstant("b", Boolean, cty.NumberIntVal(1))
		assert.ErrorContains(t, err, "expected bool")
	})

	t.Run("null and empty", func(t *testing.T) {
		g := NewGraph()
		_, err := g.AddConstant("c", Double, cty.NullVal(cty.Number))
		assert.ErrorContains(t, err, "null or unknown")

		_, err = g.AddConstant("d", Double)
		assert.ErrorContains(t, err, "at least one value")
	})
}

func TestAddBinaryOperation(t *testing.T) {
	t.Run("links dependents", func(t *testing.T) {
		g := NewGraph()
		x, err := g.AddInput("x", Double, 2)
		require.NoError(t, err)
		c, err := g.AddConstant("c", Double, cty.NumberIntVal(1), cty.NumberIntVal(2))
		require.NoError(t, err)

		sum, err := g.AddBinaryOperation("sum", OpAdd, x.Output(), c.Output())
		require.NoError(t, err)

		assert.Equal(t, OpAdd, sum.Operation())
		assert.Same(t, x.Output(), sum.Left().Source())
		assert.Same(t, c.Output(), sum.Right().Source())
		assert.Equal(t, In, sum.Left().Direction())
		assert.Equal(t, []Node{sum}, x.Dependents())
		assert.Equal(t, []Node{sum}, c.Dependents())
		assert.Empty(t, sum.Dependents())
	})

	t.Run("same producer twice is one dependent", func(t *testing.T) {
		g := NewGraph()
		x, err := g.AddInput("x", Integer, 1)
		require.NoError(t, err)
		sq, err := g.AddBinaryOperation("sq", OpMultiply, x.Output(), x.Output())
		require.NoError(t, err)
		assert.Equal(t, []Node{sq}, x.Dependents())
	})

	t.Run("error cases", func(t *testing.T) {
		g := NewGraph()
		x, err := g.AddInput("x", Double, 2)
		require.NoError(t, err)
		i, err := g.AddInput("i", Integer, 2)
		require.NoError(t, err)
		short, err := g.AddInput("short", Double, 1)
		require.NoError(t, err)

		_, err = g.AddBinaryOperation("a", OpAdd, x.Output(), i.Output())
		assert.ErrorContains(t, err, "operand types differ")

		_, err = g.AddBinaryOperation("b", OpAdd, x.Output(), short.Output())
		assert.ErrorContains(t, err, "operand sizes differ")

		_, err = g.AddBinaryOperation("c", OpAdd, x.Output(), nil)
		assert.ErrorContains(t, err, "both operands are required")

		other := NewGraph()
		foreign, err := other.AddInput("foreign", Double, 2)
		require.NoError(t, err)
		_, err = g.AddBinaryOperation("d", OpAdd, x.Output(), foreign.Output())
		assert.ErrorContains(t, err, "not part of this graph")
		assert.Empty(t, x.Dependents(), "a rejected node must not be linked")
	})
}

func TestAddWithCustomKind(t *testing.T) {
	g := NewGraph()

	in, err := g.AddInputKind("p", "Placeholder", Integer, 2)
	require.NoError(t, err)
	assert.Equal(t, "Placeholder", in.Kind())

	k, err := g.AddConstantKind("k", "Literal", Integer, []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)})
	require.NoError(t, err)
	assert.Equal(t, "Literal", k.Kind())

	s, err := g.AddBinaryOperationKind("s", "Scale", OpMultiply, in.Output(), k.Output())
	require.NoError(t, err)
	assert.Equal(t, "Scale", s.Kind())
	assert.Equal(t, OpMultiply, s.Operation())
	assert.Equal(t, []string{"p", "k", "s"}, visitIDs(g))

	_, err = g.AddInputKind("e1", "", Integer, 1)
	assert.ErrorContains(t, err, "kind must not be empty")
	_, err = g.AddConstantKind("e2", "", Integer, []cty.Value{cty.NumberIntVal(1)})
	assert.ErrorContains(t, err, "kind must not be empty")
	_, err = g.AddBinaryOperationKind("e3", "", OpAdd, in.Output(), in.Output())
	assert.ErrorContains(t, err, "kind must not be empty")
}

func TestAddOpaque(t *testing.T) {
	g := NewGraph()
	x, err := g.AddInput("x", Double, 4)
	require.NoError(t, err)

	n, err := g.AddOpaque("soft", "SoftmaxNode", Double, 4, x.Output())
	require.NoError(t, err)
	assert.Equal(t, "SoftmaxNode", n.Kind())
	require.Len(t, n.InputPorts(), 1)
	assert.Equal(t, "input1", n.InputPorts()[0].Name())
	assert.Equal(t, "soft.output", n.OutputPorts()[0].String())

	_, err = g.AddOpaque("empty", "", Double, 1)
	assert.ErrorContains(t, err, "kind must not be empty")
}

func TestVisit_InsertionOrder(t *testing.T) {
	g := NewGraph()
	x, err := g.AddInput("x", Double, 1)
	require.NoError(t, err)
	c, err := g.AddConstant("c", Double, cty.NumberIntVal(3))
	require.NoError(t, err)
	_, err = g.AddBinaryOperation("mul", OpMultiply, x.Output(), c.Output())
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "c", "mul"}, visitIDs(g))
	assert.Equal(t, []string{"x", "c", "mul"}, visitIDs(g), "visit order must be stable")

	n, ok := g.Node("mul")
	require.True(t, ok)
	assert.Equal(t, BinaryOperationKind, n.Kind())
	_, ok = g.Node("missing")
	assert.False(t, ok)
}

func TestParsers(t *testing.T) {
	for in, want := range map[string]PortType{"double": Double, "Real": Double, "int": Integer, "bool": Boolean} {
		got, err := ParsePortType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePortType("complex")
	assert.Error(t, err)

	for in, want := range map[string]BinaryOp{"add": OpAdd, "-": OpSubtract, "MUL": OpMultiply, "divide": OpDivide} {
		got, err := ParseBinaryOp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.NotEmpty(t, got.String())
	}
	_, err = ParseBinaryOp("pow")
	assert.Error(t, err)
}
