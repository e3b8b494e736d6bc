package graph

import (
	"fmt"

	"github.com/specialistvlad/emlc/internal/model"
)

// DependencyOrder returns the nodes of m ordered so that every producer comes
// before its consumers. Among independent nodes the traversal order of m is
// preserved. An error is returned if a node reads a producer that m does not
// visit, or if the producer links form a cycle.
func DependencyOrder(m model.Model) ([]model.Node, error) {
	var visitOrder []model.Node
	known := make(map[model.Node]struct{})
	m.Visit(func(n model.Node) {
		visitOrder = append(visitOrder, n)
		known[n] = struct{}{}
	})

	// Classic depth-first search over producers with two sets:
	// permanent: nodes already placed in the result.
	// temporary: nodes on the current recursion stack.
	permanent := make(map[model.Node]bool, len(visitOrder))
	temporary := make(map[model.Node]bool)
	ordered := make([]model.Node, 0, len(visitOrder))

	var visit func(n model.Node) error
	visit = func(n model.Node) error {
		if permanent[n] {
			return nil
		}
		if temporary[n] {
			return fmt.Errorf("cycle detected involving node '%s'", n.ID())
		}
		temporary[n] = true

		for _, in := range n.InputPorts() {
			src := in.Source()
			if src == nil {
				return fmt.Errorf("node '%s': input port '%s' has no producer", n.ID(), in.Name())
			}
			producer := src.Node()
			if _, ok := known[producer]; !ok {
				return fmt.Errorf("node '%s': producer '%s' is not part of the model", n.ID(), producer.ID())
			}
			if err := visit(producer); err != nil {
				return err
			}
		}

		delete(temporary, n)
		permanent[n] = true
		ordered = append(ordered, n)
		return nil
	}

	for _, n := range visitOrder {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
