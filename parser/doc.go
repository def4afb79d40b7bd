// Package parser turns 3MF package bytes into a validated model.
//
// The streaming model builder consumes the XML token stream of the root
// model part, dispatching each element by (namespace, local name) to a
// decoder for the extension that owns it. Which namespaces are live depends
// on the caller's [Config]: content in a namespace that resolves to neither
// an enabled built-in extension nor a registered custom extension is inert
// and skipped, unless the document lists it in requiredextensions, in which
// case the whole parse fails.
//
// After the root part is built, multi-part assembly resolves sliceref and
// production path references by recursively parsing the referenced parts
// with the same configuration, decrypting any part the keystore lists as
// protected through the caller's [KeyProvider]. The cross-reference
// validator then runs over the assembled model.
//
// Any failure aborts the whole parse; no partial model is ever returned.
package parser
