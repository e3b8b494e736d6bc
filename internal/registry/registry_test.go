package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Uninitialized(t *testing.T) {
	r := New()
	assert.False(t, r.Initialized())
	assert.Equal(t, Unknown, r.Get("Input"))
	assert.Nil(t, r.Kinds())
}

func TestNewDefault(t *testing.T) {
	r := NewDefault()
	require.True(t, r.Initialized())

	assert.Equal(t, Input, r.Get("Input"))
	assert.Equal(t, Constant, r.Get("ConstantNode"))
	assert.Equal(t, BinaryOp, r.Get("BinaryOperationNode"))
	assert.Equal(t, Unknown, r.Get("SoftmaxNode"))
	assert.Equal(t, Unknown, r.Get(""))
}

func TestInit(t *testing.T) {
	t.Run("only once", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Init(map[string]NodeType{"Lit": Constant}))
		err := r.Init(map[string]NodeType{"Other": Input})
		assert.ErrorIs(t, err, ErrFrozen)
		assert.Equal(t, Unknown, r.Get("Other"), "a rejected Init must not change the table")
		assert.Equal(t, Constant, r.Get("Lit"))
	})

	t.Run("rejects unknown and empty", func(t *testing.T) {
		r := New()
		assert.ErrorContains(t, r.Init(map[string]NodeType{"X": Unknown}), "cannot be mapped")
		assert.False(t, r.Initialized())
		assert.ErrorContains(t, r.Init(map[string]NodeType{"": Input}), "must not be empty")
		assert.False(t, r.Initialized())
	})

	t.Run("input map is copied", func(t *testing.T) {
		kinds := map[string]NodeType{"Lit": Constant}
		r := New()
		require.NoError(t, r.Init(kinds))
		kinds["Late"] = Input
		assert.Equal(t, Unknown, r.Get("Late"))
	})
}

func TestKinds_Sorted(t *testing.T) {
	r := NewDefault()
	assert.Equal(t, []Entry{
		{Kind: "BinaryOperationNode", Type: BinaryOp},
		{Kind: "ConstantNode", Type: Constant},
		{Kind: "Input", Type: Input},
	}, r.Kinds())
}

func TestNodeType_RoundTrip(t *testing.T) {
	for _, nt := range NodeTypes() {
		if nt == Unknown {
			_, err := ParseNodeType(nt.String())
			assert.Error(t, err)
			continue
		}
		parsed, err := ParseNodeType(nt.String())
		require.NoError(t, err)
		assert.Equal(t, nt, parsed)
	}
}

func TestGet_ConcurrentReads(t *testing.T) {
	r := NewDefault()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, Constant, r.Get("ConstantNode"))
			assert.Equal(t, Unknown, r.Get("Nope"))
		}()
	}
	wg.Wait()
}
