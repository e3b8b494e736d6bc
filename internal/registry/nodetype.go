package registry

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/emlc/internal/model"
)

// NodeType is the closed set of node constructs known to the compiler.
type NodeType int

const (
	// Unknown is returned for kinds that are not in the table.
	Unknown NodeType = iota
	// Input is a graph entry point.
	Input
	// Constant is a literal value.
	Constant
	// BinaryOp is an element-wise binary operation.
	BinaryOp
)

// NodeTypes lists every NodeType the registry can produce, including Unknown.
func NodeTypes() []NodeType {
	return []NodeType{Unknown, Input, Constant, BinaryOp}
}

// String returns the configuration spelling of the type.
func (t NodeType) String() string {
	switch t {
	case Input:
		return "input"
	case Constant:
		return "constant"
	case BinaryOp:
		return "binaryOp"
	default:
		return "unknown"
	}
}

// ParseNodeType converts a configuration spelling into a NodeType. Unknown is
// not a valid configuration value.
func ParseNodeType(s string) (NodeType, error) {
	switch strings.ToLower(s) {
	case "input":
		return Input, nil
	case "constant", "literal":
		return Constant, nil
	case "binaryop", "binary_op", "binary":
		return BinaryOp, nil
	default:
		return Unknown, fmt.Errorf("unknown node type %q", s)
	}
}

// DefaultKinds returns the kind table for the node constructs of the model
// package.
func DefaultKinds() map[string]NodeType {
	return map[string]NodeType{
		model.InputKind:           Input,
		model.ConstantKind:        Constant,
		model.BinaryOperationKind: BinaryOp,
	}
}
