package llvmir

import (
	"bytes"
	"strings"
	"testing"

	"github.com/specialistvlad/emlc/internal/emitter"
	"github.com/specialistvlad/emlc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signature(typ model.PortType, in, out int) emitter.Signature {
	return emitter.Signature{
		Name:       "Predict",
		InputName:  "input",
		OutputName: "output",
		InputType:  typ,
		InputSize:  in,
		OutputType: typ,
		OutputSize: out,
	}
}

func TestEmitter_DoubleFunction(t *testing.T) {
	e := New()
	require.NoError(t, e.BeginFunction(signature(model.Double, 2, 2)))
	require.NoError(t, e.EmitLiteral(1, emitter.Literal{Type: model.Double, Doubles: []float64{0.5, 2}}))
	require.NoError(t, e.EmitBinaryOp(model.OpMultiply, model.Double, emitter.InTemp(1), emitter.InputAt(0), emitter.InGlobal(1), 2))
	require.NoError(t, e.EmitCopy(emitter.OutputAt(0), emitter.InTemp(1), model.Double, 2))
	require.NoError(t, e.EndFunction())

	out := e.String()
	assert.Contains(t, out, "@g1 = private constant [2 x double]")
	assert.Contains(t, out, "define void @Predict(double* %input, double* %output)")
	assert.Contains(t, out, "alloca [2 x double]")
	assert.Equal(t, 2, strings.Count(out, "fmul double"))
	assert.Contains(t, out, "ret void")

	require.Len(t, e.Module().Funcs, 1)
	// entry holds the allocas and branches to the body.
	assert.Len(t, e.Module().Funcs[0].Blocks, 2)
}

func TestEmitter_IntegerOps(t *testing.T) {
	e := New()
	require.NoError(t, e.BeginFunction(signature(model.Integer, 2, 1)))
	require.NoError(t, e.EmitBinaryOp(model.OpDivide, model.Integer, emitter.OutputAt(0), emitter.InputAt(0), emitter.InputAt(1), 1))
	require.NoError(t, e.EndFunction())

	out := e.String()
	assert.Contains(t, out, "define void @Predict(i64* %input, i64* %output)")
	assert.Contains(t, out, "sdiv i64")
	assert.NotContains(t, out, "alloca")
}

func TestEmitter_TempSlotReuse(t *testing.T) {
	e := New()
	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	require.NoError(t, e.EmitCopy(emitter.InTemp(1), emitter.InputAt(0), model.Double, 1))
	require.NoError(t, e.EmitCopy(emitter.InTemp(1), emitter.InputAt(0), model.Double, 1))
	// Same handle, different shape: a new slot.
	require.NoError(t, e.EmitCopy(emitter.InTemp(1), emitter.InputAt(0), model.Double, 3))
	require.NoError(t, e.EndFunction())

	assert.Equal(t, 1, strings.Count(e.String(), "alloca [1 x double]"))
	assert.Equal(t, 1, strings.Count(e.String(), "alloca [3 x double]"))
}

func TestEmitter_AbortDropsFunctionAndGlobals(t *testing.T) {
	e := New()
	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	require.NoError(t, e.EmitLiteral(1, emitter.Literal{Type: model.Double, Doubles: []float64{1}}))
	e.AbortFunction()

	assert.Empty(t, e.Module().Funcs)
	assert.Empty(t, e.Module().Globals)

	// The aborted global id can be defined again.
	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	require.NoError(t, e.EmitLiteral(1, emitter.Literal{Type: model.Double, Doubles: []float64{2}}))
	require.NoError(t, e.EndFunction())
	assert.Len(t, e.Module().Globals, 1)
}

func TestEmitter_Errors(t *testing.T) {
	e := New()
	assert.ErrorIs(t, e.EndFunction(), emitter.ErrNoScope)
	assert.ErrorIs(t, e.EmitCopy(emitter.OutputAt(0), emitter.InputAt(0), model.Double, 1), emitter.ErrNoScope)

	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	assert.ErrorIs(t, e.BeginFunction(signature(model.Double, 1, 1)), emitter.ErrScopeOpen)

	assert.ErrorContains(t, e.EmitCopy(emitter.OutputAt(0), emitter.InGlobal(9), model.Double, 1), "not defined")
	assert.ErrorContains(t, e.EmitCopy(emitter.OutputAt(0), emitter.InputAt(0), model.Boolean, 1), "no LLVM representation")
	assert.Error(t, e.EmitLiteral(2, emitter.Literal{Type: model.Double}))

	require.NoError(t, e.EmitLiteral(3, emitter.Literal{Type: model.Integer, Integers: []int64{1}}))
	assert.ErrorContains(t, e.EmitLiteral(3, emitter.Literal{Type: model.Integer, Integers: []int64{1}}), "already defined")
}

func TestEmitter_DuplicateFunction(t *testing.T) {
	e := New()
	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	require.NoError(t, e.EmitCopy(emitter.OutputAt(0), emitter.InputAt(0), model.Double, 1))
	require.NoError(t, e.EndFunction())

	assert.ErrorIs(t, e.BeginFunction(signature(model.Double, 1, 1)), emitter.ErrFunctionDefined)
	assert.Len(t, e.Module().Funcs, 1)

	other := signature(model.Double, 1, 1)
	other.Name = "Other"
	require.NoError(t, e.BeginFunction(other))
	require.NoError(t, e.EndFunction())
	assert.Len(t, e.Module().Funcs, 2)
}

func TestEmitter_Reset(t *testing.T) {
	e := New()
	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	require.NoError(t, e.EmitLiteral(1, emitter.Literal{Type: model.Double, Doubles: []float64{1}}))
	require.NoError(t, e.EndFunction())
	require.NoError(t, e.BeginFunction(signature(model.Integer, 1, 1)))

	e.Reset()
	assert.Empty(t, e.Module().Funcs)
	assert.Empty(t, e.Module().Globals)

	// Names and global ids are free again.
	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	require.NoError(t, e.EmitLiteral(1, emitter.Literal{Type: model.Double, Doubles: []float64{2}}))
	require.NoError(t, e.EndFunction())
	assert.Len(t, e.Module().Funcs, 1)
}

func TestEmitter_BooleanOutputRejected(t *testing.T) {
	e := New()
	sig := signature(model.Double, 1, 1)
	sig.OutputType = model.Boolean
	assert.Error(t, e.BeginFunction(sig))
}

func TestEmitter_WriteTo(t *testing.T) {
	e := New()
	require.NoError(t, e.BeginFunction(signature(model.Double, 1, 1)))
	require.NoError(t, e.EmitCopy(emitter.OutputAt(0), emitter.InputAt(0), model.Double, 1))
	require.NoError(t, e.EndFunction())

	var buf bytes.Buffer
	n, err := e.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, e.String(), buf.String())
}
