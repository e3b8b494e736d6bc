package app

import (
	"fmt"
	"io"

	"github.com/specialistvlad/emlc/internal/emitter"
	"github.com/specialistvlad/emlc/internal/emitter/llvmir"
	"gopkg.in/yaml.v3"
)

// backend is an emitter whose committed output can be written out.
type backend interface {
	emitter.Emitter
	WriteTo(w io.Writer) (int64, error)
}

func newBackend(name string) (backend, error) {
	switch name {
	case BackendLLVM:
		return llvmir.New(), nil
	case BackendPlan:
		return &planBackend{Recorder: emitter.NewRecorder()}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// planBackend writes the recorded functions as a YAML document.
type planBackend struct {
	*emitter.Recorder
}

func (p *planBackend) WriteTo(w io.Writer) (int64, error) {
	data, err := yaml.Marshal(p.Functions())
	if err != nil {
		return 0, fmt.Errorf("failed to encode plan: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}
