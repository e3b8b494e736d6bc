// Package graph analyzes a model.Model without mutating it.
//
// Everything here is a pure function of its arguments. The analyzer answers
// the questions the compiler asks before it emits anything:
//
//   - Which nodes are graph entry points? (CollectInputNodes, CollectEntryNodes)
//   - Which nodes are leaves, i.e. the graph outputs? (CollectOutputNodes)
//   - How many ports and elements do those sets span? (CountInputs, CountOutputs
//     and their element variants), which sizes the function signature.
//   - In which order can nodes be emitted so that every producer comes before
//     its consumers? (DependencyOrder)
//
// An output is defined structurally: any node that nothing reads is an output,
// regardless of its kind.
package graph
