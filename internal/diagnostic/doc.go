// Package diagnostic provides structured warnings, errors, and
// informational notes for code-unit resolution.
//
// Key capabilities:
//   - Dropped unresolvable-reference notes during graph expansion
//   - Duplicate-name and ownership error reports
//   - Merging of per-pass diagnostics into one result
package diagnostic
