/*
Package compiler drives the compilation of a model graph into a single entry
point function.

A Compiler binds the model's entry and leaf nodes, opens the "Predict" scope
on its emitter, compiles every node in dependency order and copies leaf values
to the output buffer before closing the scope. Each node is compiled by the
handler selected from its NodeType, which is looked up in the registry by the
node's kind.

The Compiler also decides where values live:

  - entry values are read in place from the "input" buffer,
  - constant nodes get one global each,
  - binary operation results get a temporary that is released once its last
    consumer (or the copy to "output") has been emitted.

Compilation is all or nothing. When any step fails the emitter scope is
aborted, and the error names the failing node and port where one applies.
A Compiler is single threaded; several may share one frozen registry.
*/
package compiler
