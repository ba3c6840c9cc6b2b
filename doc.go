// Package nodeset models compact, human-readable representations of large
// finite sets of structured names used in cluster administration.
//
// A nodeset denotes a set of strings generated by a cartesian product of
// literal text fragments and integer ranges, e.g. r[1-2]sw[1-2]_port[1-2]
// denotes 8 names. Outside brackets '-' is the difference operator, so it
// cannot appear inside a bare name. The package provides:
//
//   - RangeSet: a compact set of non-negative integers, each carrying a
//     zero-padding width.
//   - Product: one cartesian factor — literal fragments interleaved with
//     RangeSet dimensions.
//   - NodeSet: a union of Products, with a set algebra (union, intersection,
//     difference, symmetric difference) over it.
//   - Parse: a recursive-descent parser from nodeset expression text to a
//     NodeSet, including group references resolved through a pluggable
//     GroupResolver.
//   - Fold: the inverse of expansion — the most compact NodeSet denoting the
//     same set of names, with stride and pad-width inference.
//
// The package is purely functional: every operation takes immutable inputs
// and returns a new value. No operation performs I/O, logs, or retains
// mutable shared state; scheduling, cancellation, and persistence are the
// caller's concern.
package nodeset
