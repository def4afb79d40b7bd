// Package validate implements the cross-reference checks that cannot run
// incrementally during parsing.
//
// Checks are ordered so later passes may assume earlier ones hold:
//
//  1. [UniqueIDs] - resource IDs are unique across every kind
//  2. [ForwardRefs] - cross-resource references point backwards in
//     document order
//  3. [ComponentGraph] - component references resolve and form no cycle
//  4. per-extension semantic rules ([MaterialRules], [SliceRules], ...)
//     driven through the extension registry
//  5. [PartRefs] - referenced package parts exist
//
// Every violation aborts validation with the first error found; no check
// repairs or degrades.
package validate
