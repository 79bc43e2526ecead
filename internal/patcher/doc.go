// Package patcher registers and unregisters plugins in a host project by
// editing two text files: the entry-point source file, which must blank-import
// each active plugin, and go.mod, which must replace each plugin's module
// path with its local directory.
//
// Both files are treated as conventionally formatted text and edited with
// anchored, line-level patterns; they are never parsed. Every edit is
// idempotent, and every Install or Uninstall call runs inside one
// Transaction so that either all files reach their new state or all are
// restored byte for byte.
package patcher
