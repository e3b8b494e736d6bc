// Package registry maps the runtime kind identifiers carried by graph nodes
// (e.g. "ConstantNode") to the closed NodeType enumeration the compiler
// dispatches on.
//
// The Registry is populated exactly once, before any compilation starts, and
// is read-only afterwards. Lookups of unrecognized kinds never fail: they
// return Unknown and leave the decision of whether that is fatal to the
// caller. Because the table is frozen after Init, any number of compilers may
// share one Registry from separate goroutines without locking.
package registry
