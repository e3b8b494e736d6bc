package compiler

import (
	"github.com/specialistvlad/emlc/internal/emitter"
	"github.com/specialistvlad/emlc/internal/graph"
	"github.com/specialistvlad/emlc/internal/model"
	"github.com/specialistvlad/emlc/internal/registry"
)

// modelSignature sizes the entry point from the bound node sets. All entry
// values must share one type, and so must all leaf values.
func (c *Compiler) modelSignature(inputs, outputs []model.Node) (emitter.Signature, error) {
	inType := graph.NodeDataType(inputs[0])
	for _, n := range inputs {
		if err := c.VerifyOutputType(n, inType); err != nil {
			return emitter.Signature{}, err
		}
	}

	outType := graph.NodeDataType(outputs[0])
	for _, n := range outputs {
		if len(n.OutputPorts()) == 0 {
			return emitter.Signature{}, nodeError(ErrOutputPortTypeNotSupported, n, "leaf node has no output ports")
		}
		if err := requireNumeric(n, n.OutputPorts()[0], ErrOutputPortTypeNotSupported); err != nil {
			return emitter.Signature{}, err
		}
		if err := c.VerifyOutputType(n, outType); err != nil {
			return emitter.Signature{}, err
		}
	}

	return emitter.Signature{
		Name:       FunctionName,
		InputName:  InputName,
		OutputName: OutputName,
		InputType:  inType,
		InputSize:  graph.CountOutputElements(inputs),
		OutputType: outType,
		OutputSize: graph.CountOutputElements(outputs),
	}, nil
}

// nodeSignature sizes the entry point for compiling n alone.
func (c *Compiler) nodeSignature(n model.Node, nt registry.NodeType) (emitter.Signature, error) {
	sig := emitter.Signature{
		Name:       FunctionName,
		InputName:  InputName,
		OutputName: OutputName,
	}

	outs := n.OutputPorts()
	if len(outs) == 0 {
		return emitter.Signature{}, nodeError(ErrOutputPortTypeNotSupported, n, "node has no output ports")
	}
	if err := requireNumeric(n, outs[0], ErrOutputPortTypeNotSupported); err != nil {
		return emitter.Signature{}, err
	}
	sig.OutputType = outs[0].Type()
	if err := c.VerifyOutputType(n, sig.OutputType); err != nil {
		return emitter.Signature{}, err
	}
	sig.OutputSize = graph.CountOutputElements([]model.Node{n})

	if nt == registry.Input {
		// Passthrough: the node's own values come in through the input buffer.
		sig.InputType = sig.OutputType
		sig.InputSize = sig.OutputSize
		return sig, nil
	}

	ins := n.InputPorts()
	if len(ins) == 0 {
		return sig, nil
	}
	if err := requireNumeric(n, ins[0], ErrInputPortTypeNotSupported); err != nil {
		return emitter.Signature{}, err
	}
	sig.InputType = ins[0].Type()
	if err := c.VerifyInputType(n, sig.InputType); err != nil {
		return emitter.Signature{}, err
	}
	sig.InputSize = graph.CountInputElements([]model.Node{n})
	return sig, nil
}
