// Package cli implements the emlc command line: argument parsing, mapping of
// flags onto app.Config and rendering of human readable summaries. Errors
// returned to the entrypoint carry a process exit code.
package cli
