package hcl

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/emlc/internal/config"
	"github.com/specialistvlad/emlc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const settingsHCL = `
log_level  = "debug"
log_format = "json"
backend    = "plan"

node_kind "Input"        { type = "input" }
node_kind "ConstantNode" { type = "constant" }
`

const graphHCL = `
input "x" {
  type = "double"
  size = 2
}

constant "bias" {
  type   = "double"
  values = [0.5, 1.5]
}

binary "sum" {
  op  = "add"
  lhs = "x"
  rhs = "bias"
}

node "soft" {
  kind   = "SoftmaxNode"
  inputs = ["sum"]
  type   = "double"
  size   = 2
}
`

func TestLoader_Load(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"config.hcl":      settingsHCL,
		"graph/model.hcl": graphHCL,
		"graph/notes.txt": "ignored",
	})

	model, conv, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)
	require.NotNil(t, conv)

	assert.Equal(t, config.Settings{LogLevel: "debug", LogFormat: "json", Backend: "plan"}, model.Settings)
	assert.Equal(t, map[string]string{"Input": "input", "ConstantNode": "constant"}, model.NodeKinds)

	g := model.Graph
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []*config.Input{{Name: "x", Type: "double", Size: 2}}, g.Inputs)
	assert.Equal(t, []*config.Binary{{Name: "sum", Op: "add", LHS: "x", RHS: "bias"}}, g.Binaries)
	assert.Equal(t, []*config.Node{{Name: "soft", Kind: "SoftmaxNode", Inputs: []string{"sum"}, Type: "double", Size: 2}}, g.Nodes)

	require.Len(t, g.Constants, 1)
	values := g.Constants[0].Values
	assert.True(t, values.Type().IsTupleType())
	assert.Equal(t, 2, values.LengthInt())
	assert.True(t, values.Index(cty.NumberIntVal(0)).Equals(cty.NumberFloatVal(0.5)).True())
}

func TestLoader_NodeOpAndValues(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{"model.hcl": `
node "k" {
  kind   = "Literal"
  type   = "integer"
  values = [1, 2]
}

node "s" {
  kind   = "Scale"
  op     = "multiply"
  inputs = ["k", "k"]
  type   = "integer"
}
`})

	model, _, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)
	require.Len(t, model.Graph.Nodes, 2)

	k, s := model.Graph.Nodes[0], model.Graph.Nodes[1]
	assert.Empty(t, k.Op)
	require.False(t, k.Values.IsNull())
	assert.Equal(t, 2, k.Values.LengthInt())

	assert.Equal(t, "multiply", s.Op)
	assert.True(t, s.Values.IsNull(), "values is optional")
}

func TestLoader_DefaultsAndMerging(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"a.hcl": `
backend = "plan"
input "x" { type = "integer" }
`,
		"b.hcl": `backend = "llvm"`,
	})

	model, _, err := NewLoader().Load(ctx, filepath.Join(dir, "a.hcl"), filepath.Join(dir, "b.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "llvm", model.Settings.Backend, "later files win")
	assert.Empty(t, model.Settings.LogLevel)
	assert.Empty(t, model.NodeKinds)
	require.Len(t, model.Graph.Inputs, 1)
	assert.Equal(t, 1, model.Graph.Inputs[0].Size, "size defaults to a scalar")
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		path    string
		wantErr string
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"main.hcl": `input "x" {`},
			path:    "main.hcl",
			wantErr: "failed to parse",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"main.hcl": `step "print" "a" {}`},
			path:    "main.hcl",
			wantErr: "failed to decode",
		},
		{
			name:    "missing required attribute",
			files:   map[string]string{"main.hcl": `binary "s" { op = "add" }`},
			path:    "main.hcl",
			wantErr: "failed to decode",
		},
		{
			name: "node kind declared twice",
			files: map[string]string{
				"a.hcl": `node_kind "X" { type = "input" }`,
				"b.hcl": `node_kind "X" { type = "constant" }`,
			},
			path:    ".",
			wantErr: "declared more than once",
		},
		{
			name:    "missing path",
			files:   map[string]string{},
			path:    "nope.hcl",
			wantErr: "error accessing path",
		},
		{
			name:    "not an hcl file",
			files:   map[string]string{"model.json": `{}`},
			path:    "model.json",
			wantErr: "is not an .hcl file",
		},
		{
			name:    "empty directory",
			files:   map[string]string{"readme.md": "# nothing"},
			path:    ".",
			wantErr: "no .hcl files found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			dir := testutil.WriteFiles(t, tc.files)
			_, _, err := NewLoader().Load(ctx, filepath.Join(dir, tc.path))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
