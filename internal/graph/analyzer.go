package graph

import (
	"github.com/specialistvlad/emlc/internal/model"
)

// CollectNodes returns every node of m satisfying predicate, in traversal
// order. The result is empty, never nil, when nothing matches.
func CollectNodes(m model.Model, predicate func(model.Node) bool) []model.Node {
	matches := []model.Node{}
	m.Visit(func(n model.Node) {
		if predicate(n) {
			matches = append(matches, n)
		}
	})
	return matches
}

// CollectInputNodes returns the typed entry points of m in traversal order.
// Only nodes of model.InputKind are considered.
func CollectInputNodes(m model.Model) []model.Node {
	return CollectNodes(m, IsEntryNode)
}

// CollectEntryNodes is CollectInputNodes with the input kinds decided by
// isInput, typically a registry lookup.
func CollectEntryNodes(m model.Model, isInput func(model.Node) bool) []model.Node {
	return CollectNodes(m, func(n model.Node) bool {
		return isInput(n) && IsTypedEntry(n)
	})
}

// CollectOutputNodes returns the leaf nodes of m in traversal order.
func CollectOutputNodes(m model.Model) []model.Node {
	return CollectNodes(m, IsLeafNode)
}

// IsLeafNode reports whether no node reads n.
func IsLeafNode(n model.Node) bool {
	return len(n.Dependents()) == 0
}

// IsEntryNode reports whether n is a typed graph entry point of
// model.InputKind.
func IsEntryNode(n model.Node) bool {
	return n.Kind() == model.InputKind && IsTypedEntry(n)
}

// IsTypedEntry reports whether n can feed the input buffer regardless of its
// kind: it has no producers, and all of its outputs are either double or
// integer.
func IsTypedEntry(n model.Node) bool {
	if len(n.InputPorts()) != 0 {
		return false
	}
	outputs := n.OutputPorts()
	if len(outputs) == 0 {
		return false
	}
	typ := outputs[0].Type()
	if typ != model.Double && typ != model.Integer {
		return false
	}
	for _, p := range outputs[1:] {
		if p.Type() != typ {
			return false
		}
	}
	return true
}

// NodeDataType returns the type of the first output port of n, or
// model.Unspecified when n has no outputs.
func NodeDataType(n model.Node) model.PortType {
	outputs := n.OutputPorts()
	if len(outputs) == 0 {
		return model.Unspecified
	}
	return outputs[0].Type()
}

// CountInputs sums the number of input ports across nodes.
func CountInputs(nodes []model.Node) int {
	count := 0
	for _, n := range nodes {
		count += len(n.InputPorts())
	}
	return count
}

// CountOutputs sums the number of output ports across nodes.
func CountOutputs(nodes []model.Node) int {
	count := 0
	for _, n := range nodes {
		count += len(n.OutputPorts())
	}
	return count
}

// CountInputElements sums the element sizes of all input ports across nodes.
func CountInputElements(nodes []model.Node) int {
	count := 0
	for _, n := range nodes {
		for _, p := range n.InputPorts() {
			count += p.Size()
		}
	}
	return count
}

// CountOutputElements sums the element sizes of all output ports across nodes.
func CountOutputElements(nodes []model.Node) int {
	count := 0
	for _, n := range nodes {
		for _, p := range n.OutputPorts() {
			count += p.Size()
		}
	}
	return count
}
