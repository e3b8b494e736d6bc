// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory representation of an inference graph:
// typed nodes connected through typed ports. It is the read-only input of the
// compiler front end.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Graph: The root container. It owns every node, remembers the order in
//     which nodes were added and exposes that order through Visit. Because a
//     node can only consume ports of nodes that are already in the graph, the
//     insertion order is always a valid producers-before-consumers order.
//
//   - Node: A unit of computation. Every node has a runtime kind identifier
//     (e.g. "Input", "ConstantNode"), ordered input and output ports, and the
//     set of dependent nodes that read its outputs. A node without dependents
//     is a leaf.
//
//   - Port: A typed connection point carrying Size elements of a single
//     PortType. Input ports point at the output port that produces their value.
//
// The compiler never mutates a Graph. Once construction is finished the graph
// may be shared read-only between goroutines.
package model
