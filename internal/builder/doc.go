/*
Package builder constructs a model.Graph from the graph manifest in a
config.Model. It is the bridge between declarative configuration and the
in-memory graph the compiler consumes.

Construction is a two-phase process:

 1. Indexing: every declaration (input, constant, binary, node) is recorded
    by name. Names are unique across all declaration types.

 2. Node creation: declarations are materialized in source order, grouped by
    declaration type. A declaration that reads another one by name causes the
    producer to be materialized first, so declarations may reference names
    declared later or in another file. A reference chain that comes back to
    a declaration being materialized is reported as a cycle.

The resulting graph's traversal order is therefore a producers-first order
that is stable for a given manifest.
*/
package builder
