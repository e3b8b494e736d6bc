// Package config defines the format-agnostic configuration model of the
// compiler driver, along with the interfaces (Loader, Converter) for loading
// and interpreting configuration from various sources.
//
// A config.Model carries two things: compiler settings (logging, backend and
// the node kind table) and the graph manifest the driver compiles. Both may
// come from the same file or from several files. Concrete implementations,
// such as for HCL, live in separate packages.
package config
