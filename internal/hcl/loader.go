package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/emlc/internal/config"
	"github.com/specialistvlad/emlc/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths and merges what they declare into
// one model. A path may be a file or a directory, which is walked
// recursively. Paths must exist.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		NodeKinds: make(map[string]string),
		Graph:     &config.Graph{},
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	if len(hclFiles) == 0 {
		return nil, nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		l.translateSettings(&root, &model.Settings)
		if err := l.translateNodeKinds(file, root.NodeKinds, model.NodeKinds); err != nil {
			return nil, nil, err
		}
		for _, b := range root.Inputs {
			model.Graph.Inputs = append(model.Graph.Inputs, l.translateInput(b))
		}
		for _, b := range root.Constants {
			model.Graph.Constants = append(model.Graph.Constants, l.translateConstant(b))
		}
		for _, b := range root.Binaries {
			model.Graph.Binaries = append(model.Graph.Binaries, l.translateBinary(b))
		}
		for _, b := range root.Nodes {
			model.Graph.Nodes = append(model.Graph.Nodes, l.translateNode(b))
		}
	}

	logger.Debug("HCL loading complete.",
		"node_kinds", len(model.NodeKinds),
		"inputs", len(model.Graph.Inputs),
		"constants", len(model.Graph.Constants),
		"binaries", len(model.Graph.Binaries),
		"nodes", len(model.Graph.Nodes))
	return model, NewConverter(), nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found, in walk order and without duplicates.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		} else {
			return nil, fmt.Errorf("%s is not an .hcl file", path)
		}
	}
	return allFiles, nil
}
