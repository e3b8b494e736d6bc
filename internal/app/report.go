package app

import (
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Report summarizes a successful compile run.
type Report struct {
	Function       string `yaml:"function" msgpack:"function"`
	Backend        string `yaml:"backend" msgpack:"backend"`
	Nodes          int    `yaml:"nodes" msgpack:"nodes"`
	Inputs         int    `yaml:"inputs" msgpack:"inputs"`
	Outputs        int    `yaml:"outputs" msgpack:"outputs"`
	InputElements  int    `yaml:"input_elements" msgpack:"input_elements"`
	OutputElements int    `yaml:"output_elements" msgpack:"output_elements"`
	Globals        uint64 `yaml:"globals" msgpack:"globals"`
	TempSlots      int    `yaml:"temp_slots" msgpack:"temp_slots"`
}

// Encode writes r to w in format.
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case ReportYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case ReportMsgpack:
		return msgpack.NewEncoder(w).Encode(r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// DecodeReport reads a report previously written with Encode.
func DecodeReport(rd io.Reader, format string) (*Report, error) {
	var r Report
	switch format {
	case ReportYAML:
		if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
			return nil, err
		}
	case ReportMsgpack:
		if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
	return &r, nil
}

func writeReport(path, format string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.Encode(f, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}
