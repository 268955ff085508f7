// Package shape implements the type sealedness analyzer.
//
// It answers, for any runtime type descriptor, whether the type's structural
// shape is fully self-contained ("sealed") or must be inspected per instance
// and shipped to a receiving node. Recursive type definitions are handled by
// a two-phase fixpoint: a partial shape record is inserted into the memo
// table before a type's fields are classified, and refined in place once the
// field results are known.
//
// Key types:
//   - Kind: closed enum of shape variants
//   - Shape: one record per distinct reflect.Type for one analysis run
//   - Field: field-descriptor capability (name, declaring type, Read)
//   - Analyzer: memoized Classify entry point with recursion depth guard
package shape
