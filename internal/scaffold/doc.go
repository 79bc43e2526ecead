// Package scaffold generates a new plugin directory inside an Answer
// checkout from embedded templates. Backend plugins get a Go implementation
// stub for their sub-kind; standard UI plugins get a Go wrapper plus a
// React component and build files. Every plugin gets i18n files, info.yaml,
// a README and a go.mod.
package scaffold
