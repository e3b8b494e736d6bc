// Package hcl provides the concrete HCL implementation for the configuration
// loading and data conversion interfaces defined in the `config` package.
// It is responsible for file discovery, parsing, HCL-to-model translation
// and CTY-to-Go data binding.
//
// One file may hold compiler settings, the node kind table and graph
// declarations side by side:
//
//	log_level = "debug"
//	backend   = "llvm"
//
//	node_kind "SoftmaxNode" { type = "binaryOp" }
//
//	input "x" {
//	  type = "double"
//	  size = 2
//	}
//	constant "bias" {
//	  type   = "double"
//	  values = [0.5, 1.5]
//	}
//	binary "sum" {
//	  op  = "add"
//	  lhs = "x"
//	  rhs = "bias"
//	}
package hcl
