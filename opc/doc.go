// Package opc provides access to the ZIP-based OPC container a 3MF package
// is stored in.
//
// A container is a set of named parts. The package layer resolves parts by
// exact path or with a leading slash stripped (producers disagree on
// normalization), validates declared content types against
// [Content_Types].xml, and walks relationship parts to locate the root
// model part and the package thumbnail.
package opc
