package hcl

import (
	"github.com/zclconf/go-cty/cty"
)

// fileRoot decodes every top-level construct a file may contain.
type fileRoot struct {
	LogLevel  *string          `hcl:"log_level,optional"`
	LogFormat *string          `hcl:"log_format,optional"`
	Backend   *string          `hcl:"backend,optional"`
	NodeKinds []*nodeKindBlock `hcl:"node_kind,block"`
	Inputs    []*inputBlock    `hcl:"input,block"`
	Constants []*constantBlock `hcl:"constant,block"`
	Binaries  []*binaryBlock   `hcl:"binary,block"`
	Nodes     []*nodeBlock     `hcl:"node,block"`
}

type nodeKindBlock struct {
	Kind string `hcl:"kind,label"`
	Type string `hcl:"type"`
}

type inputBlock struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
	Size *int   `hcl:"size,optional"`
}

type constantBlock struct {
	Name   string    `hcl:"name,label"`
	Type   string    `hcl:"type"`
	Values cty.Value `hcl:"values"`
}

type binaryBlock struct {
	Name string `hcl:"name,label"`
	Op   string `hcl:"op"`
	LHS  string `hcl:"lhs"`
	RHS  string `hcl:"rhs"`
}

type nodeBlock struct {
	Name   string    `hcl:"name,label"`
	Kind   string    `hcl:"kind"`
	Inputs []string  `hcl:"inputs,optional"`
	Type   string    `hcl:"type"`
	Size   *int      `hcl:"size,optional"`
	Op     *string   `hcl:"op,optional"`
	Values cty.Value `hcl:"values,optional"`
}
