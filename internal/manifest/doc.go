// Package manifest reads and validates plugin descriptors (info.yaml).
//
// A plugin directory without a readable, well-formed descriptor is simply not
// a plugin: Read reports it as absent instead of returning an error. The
// descriptor's type value is classified into a Kind (backend or standard-ui)
// and a SubKind drawn from two closed, disjoint vocabularies.
package manifest
