// Package extensions holds the capability-indexed registry of 3MF extension
// handlers.
//
// A [Handler] bundles everything the pipeline needs to know about one
// extension: its identity, whether a model uses it, its semantic validation
// pass, and optional post-parse and pre-write mutation hooks. The [Registry]
// keys handlers by extension variant, keeps registration order, and
// short-circuits on the first failing handler. Handlers must not depend on
// running before or after any other handler.
package extensions
