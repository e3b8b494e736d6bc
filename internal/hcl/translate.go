package hcl

import (
	"fmt"

	"github.com/specialistvlad/emlc/internal/config"
)

// translateSettings merges the file's settings into s. Later files win.
func (l *Loader) translateSettings(root *fileRoot, s *config.Settings) {
	if root.LogLevel != nil {
		s.LogLevel = *root.LogLevel
	}
	if root.LogFormat != nil {
		s.LogFormat = *root.LogFormat
	}
	if root.Backend != nil {
		s.Backend = *root.Backend
	}
}

// translateNodeKinds merges the file's node_kind blocks into kinds. A kind
// may be declared only once across all files.
func (l *Loader) translateNodeKinds(file string, blocks []*nodeKindBlock, kinds map[string]string) error {
	for _, b := range blocks {
		if _, exists := kinds[b.Kind]; exists {
			return fmt.Errorf("%s: node_kind %q is declared more than once", file, b.Kind)
		}
		kinds[b.Kind] = b.Type
	}
	return nil
}

func (l *Loader) translateInput(b *inputBlock) *config.Input {
	return &config.Input{Name: b.Name, Type: b.Type, Size: sizeOrDefault(b.Size)}
}

func (l *Loader) translateConstant(b *constantBlock) *config.Constant {
	return &config.Constant{Name: b.Name, Type: b.Type, Values: b.Values}
}

func (l *Loader) translateBinary(b *binaryBlock) *config.Binary {
	return &config.Binary{Name: b.Name, Op: b.Op, LHS: b.LHS, RHS: b.RHS}
}

func (l *Loader) translateNode(b *nodeBlock) *config.Node {
	n := &config.Node{Name: b.Name, Kind: b.Kind, Inputs: b.Inputs, Type: b.Type, Size: sizeOrDefault(b.Size), Values: b.Values}
	if b.Op != nil {
		n.Op = *b.Op
	}
	return n
}

// sizeOrDefault returns the declared element count, or 1 (a scalar).
func sizeOrDefault(size *int) int {
	if size == nil {
		return 1
	}
	return *size
}
