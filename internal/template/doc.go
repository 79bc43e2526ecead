// Package template renders {{name}} placeholders in plugin scaffolding.
//
// Substitution is a single left-to-right pass: a token whose name is a key
// of the Context is replaced by the value verbatim, and the inserted value
// is never scanned again. Unknown tokens stay in the output and are reported
// as warnings, never as errors.
package template
