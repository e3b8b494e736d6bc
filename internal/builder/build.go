package builder

import (
	"context"
	"fmt"

	"github.com/specialistvlad/emlc/internal/config"
	"github.com/specialistvlad/emlc/internal/ctxlog"
	"github.com/specialistvlad/emlc/internal/model"
	"github.com/specialistvlad/emlc/internal/registry"
)

// Kinds resolves a node kind to its NodeType. *registry.Registry implements
// it.
type Kinds interface {
	Get(kind string) registry.NodeType
}

// Build constructs a validated model.Graph from manifest. conv decodes raw
// constant values; kinds selects the construct built for each node block.
func Build(ctx context.Context, manifest *config.Graph, conv config.Converter, kinds Kinds) (*model.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "declarations", manifest.Len())

	b := &builder{
		conv:     conv,
		kinds:    kinds,
		graph:    model.NewGraph(),
		decls:    make(map[string]declaration),
		building: make(map[string]bool),
	}

	// First pass: index every declaration by name.
	if err := b.index(manifest); err != nil {
		return nil, err
	}
	logger.Debug("Build: Declarations indexed.", "count", len(b.order))

	// Second pass: materialize nodes, producers first.
	for _, name := range b.order {
		if _, err := b.materialize(ctx, name); err != nil {
			return nil, err
		}
	}

	logger.Debug("Build: Graph construction successful.", "node_count", b.graph.Len())
	return b.graph, nil
}

type builder struct {
	conv  config.Converter
	kinds Kinds
	graph *model.Graph

	decls map[string]declaration
	// order is the declaration order used for the second pass.
	order []string
	// building holds the names on the current materialization chain.
	building map[string]bool
}

// declaration is one indexed manifest entry. Exactly one field is set.
type declaration struct {
	input    *config.Input
	constant *config.Constant
	binary   *config.Binary
	node     *config.Node
}

func (b *builder) index(manifest *config.Graph) error {
	add := func(name, what string, d declaration) error {
		if name == "" {
			return fmt.Errorf("%s declaration has an empty name", what)
		}
		if _, exists := b.decls[name]; exists {
			return fmt.Errorf("duplicate declaration %q", name)
		}
		b.decls[name] = d
		b.order = append(b.order, name)
		return nil
	}

	for _, in := range manifest.Inputs {
		if err := add(in.Name, "input", declaration{input: in}); err != nil {
			return err
		}
	}
	for _, c := range manifest.Constants {
		if err := add(c.Name, "constant", declaration{constant: c}); err != nil {
			return err
		}
	}
	for _, bin := range manifest.Binaries {
		if err := add(bin.Name, "binary", declaration{binary: bin}); err != nil {
			return err
		}
	}
	for _, n := range manifest.Nodes {
		if err := add(n.Name, "node", declaration{node: n}); err != nil {
			return err
		}
	}
	return nil
}

// materialize returns the node for name, creating it and its producers if
// they do not exist yet.
func (b *builder) materialize(ctx context.Context, name string) (model.Node, error) {
	if n, ok := b.graph.Node(name); ok {
		return n, nil
	}
	d, ok := b.decls[name]
	if !ok {
		return nil, fmt.Errorf("reference to undeclared node %q", name)
	}
	if b.building[name] {
		return nil, fmt.Errorf("cycle detected involving node %q", name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	logger := ctxlog.FromContext(ctx)
	switch {
	case d.input != nil:
		logger.Debug("Creating input node.", "name", name)
		return b.createInput(d.input)
	case d.constant != nil:
		logger.Debug("Creating constant node.", "name", name)
		return b.createConstant(ctx, d.constant)
	case d.binary != nil:
		logger.Debug("Creating binary operation node.", "name", name, "op", d.binary.Op)
		return b.createBinary(ctx, d.binary)
	default:
		logger.Debug("Creating node.", "name", name, "kind", d.node.Kind)
		return b.createNode(ctx, d.node)
	}
}

// output materializes the producer name and returns its single output port.
func (b *builder) output(ctx context.Context, consumer, name string) (*model.Port, error) {
	producer, err := b.materialize(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", consumer, err)
	}
	outs := producer.OutputPorts()
	if len(outs) != 1 {
		return nil, fmt.Errorf("node %q: producer %q has %d outputs, want 1", consumer, name, len(outs))
	}
	return outs[0], nil
}
