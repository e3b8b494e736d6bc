// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strings"
)

// PortType is the data type carried by a port.
type PortType int

const (
	// Unspecified is the zero value and never appears on a valid port.
	Unspecified PortType = iota
	// Double is a 64-bit floating point value.
	Double
	// Integer is a 64-bit signed integer value.
	Integer
	// Boolean is a single truth value.
	Boolean
)

// String returns the manifest spelling of the type.
func (t PortType) String() string {
	switch t {
	case Double:
		return "double"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	default:
		return "unspecified"
	}
}

// ParsePortType converts a manifest type name into a PortType.
func ParsePortType(s string) (PortType, error) {
	switch strings.ToLower(s) {
	case "double", "real":
		return Double, nil
	case "integer", "int":
		return Integer, nil
	case "boolean", "bool":
		return Boolean, nil
	default:
		return Unspecified, fmt.Errorf("unknown port type %q", s)
	}
}

// Direction tells whether a port is read or written by its node.
type Direction int

const (
	// In marks a port the node reads from.
	In Direction = iota
	// Out marks a port the node writes to.
	Out
)

// Port is a typed connection point owned by exactly one node.
type Port struct {
	node Node
	name string
	typ  PortType
	size int
	dir  Direction
	// source is the producing output port. Always nil for output ports.
	source *Port
}

// NewOutputPort creates an output port owned by owner. It exists for Model
// implementations other than Graph.
func NewOutputPort(owner Node, name string, typ PortType, size int) *Port {
	return &Port{node: owner, name: name, typ: typ, size: size, dir: Out}
}

// NewInputPort creates an input port owned by owner that reads src. The port
// takes the type and size of src.
func NewInputPort(owner Node, name string, src *Port) *Port {
	return &Port{node: owner, name: name, typ: src.typ, size: src.size, dir: In, source: src}
}

// Node returns the node owning the port.
func (p *Port) Node() Node { return p.node }

// Name returns the port name, unique within its node and direction.
func (p *Port) Name() string { return p.name }

// Type returns the data type carried by the port.
func (p *Port) Type() PortType { return p.typ }

// Size returns the number of elements carried by the port.
func (p *Port) Size() int { return p.size }

// Direction reports whether the port is an input or an output.
func (p *Port) Direction() Direction { return p.dir }

// Source returns the output port feeding this input port.
func (p *Port) Source() *Port { return p.source }

// String renders the port as "node.port" for error messages.
func (p *Port) String() string {
	if p.node == nil {
		return p.name
	}
	return p.node.ID() + "." + p.name
}
