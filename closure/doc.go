// Package closure implements the object graph walker.
//
// Walking a live object graph collects the set of named types a receiving
// node must know before the graph can be reconstructed there. The walker
// prunes traversal with the shape analyzer: a sealed shape's structure is
// already fully known to the receiver, so its instances are never inspected.
//
// Key types:
//   - NodeKind: closed enum over graph node kinds, one handler per variant
//   - Walker: identity-memoized traversal over reflect values
//   - Dependency: reachable types grouped by owning code unit
package closure
