// Package app contains the compiler driver. It wires configuration loading,
// graph construction, the node type registry, an emitter backend and the
// compiler into a single compile run, decoupled from any specific entrypoint
// like a CLI.
package app
