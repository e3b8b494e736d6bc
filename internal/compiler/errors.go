package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/emlc/internal/model"
)

var (
	// ErrNotSupported means a node has no compilation handler, either because
	// its kind is unknown or because its concrete construct is not the one the
	// handler for its NodeType expects.
	ErrNotSupported = errors.New("construct not supported")
	// ErrInputPortTypeNotSupported means an input port carries a type the
	// handler cannot compile.
	ErrInputPortTypeNotSupported = errors.New("input port type not supported")
	// ErrOutputPortTypeNotSupported means an output port carries a type the
	// handler cannot compile.
	ErrOutputPortTypeNotSupported = errors.New("output port type not supported")
	// ErrNoInputs means the model has no typed entry node.
	ErrNoInputs = errors.New("model has no input nodes")
	// ErrNoOutputs means the model has no leaf node.
	ErrNoOutputs = errors.New("model has no output nodes")
	// ErrScopeOpen means a function scope was requested while one is open.
	ErrScopeOpen = errors.New("function scope already open")
	// ErrScopeNotOpen means a function scope was closed while none is open.
	ErrScopeNotOpen = errors.New("no function scope open")
)

// Error is returned for failures that can be pinned on a node. Kind is one of
// the sentinel errors above and is what errors.Is matches against.
type Error struct {
	Kind     error
	NodeID   string
	NodeKind string
	// Port is empty when the failure concerns the whole node.
	Port   string
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "node '%s'", e.NodeID)
	if e.NodeKind != "" {
		fmt.Fprintf(&b, " (kind %s)", e.NodeKind)
	}
	if e.Port != "" {
		fmt.Fprintf(&b, " port '%s'", e.Port)
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func nodeError(kind error, n model.Node, detail string) *Error {
	return &Error{Kind: kind, NodeID: n.ID(), NodeKind: n.Kind(), Detail: detail}
}

func portError(kind error, n model.Node, p *model.Port, detail string) *Error {
	return &Error{Kind: kind, NodeID: n.ID(), NodeKind: n.Kind(), Port: p.Name(), Detail: detail}
}
