// Package unit models code units and builds their dependency graph.
//
// A code unit is the granularity at which dependency resolution and
// packaging operate. Graph membership is keyed by ID (name + content
// fingerprint), so membership tests are structural rather than
// reference-based.
//
// Key operations:
//   - BuildGraph: BFS expansion through a Resolver, topological ordering,
//     duplicate-name detection
package unit
