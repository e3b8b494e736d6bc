package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of everything the
// driver was configured with.
type Model struct {
	Settings Settings
	// NodeKinds maps a node kind to a node type spelling (e.g. "binaryOp").
	// Empty means the built-in table.
	NodeKinds map[string]string
	Graph     *Graph
}

// Settings are the scalar compiler settings. Empty fields are unset.
type Settings struct {
	LogLevel  string
	LogFormat string
	Backend   string
}

// Graph is the manifest of a model graph. Declarations are kept per block
// type in source order; references between them are by name.
type Graph struct {
	Inputs    []*Input
	Constants []*Constant
	Binaries  []*Binary
	Nodes     []*Node
}

// Len returns the number of declarations.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Inputs) + len(g.Constants) + len(g.Binaries) + len(g.Nodes)
}

// Input declares a graph entry point.
type Input struct {
	Name string
	Type string
	Size int
}

// Constant declares a literal vector. Values is the raw list as written.
type Constant struct {
	Name   string
	Type   string
	Values cty.Value
}

// Binary declares an element-wise operation on two named producers.
type Binary struct {
	Name string
	Op   string
	LHS  string
	RHS  string
}

// Node declares a node of arbitrary kind reading the named producers. Op is
// used when the kind resolves to a binary operation, Values when it resolves
// to a constant.
type Node struct {
	Name   string
	Kind   string
	Inputs []string
	Type   string
	Size   int
	Op     string
	Values cty.Value
}
