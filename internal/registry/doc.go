// Package registry finds the plugins under a host project's plugins
// directory and works out which of them are currently registered.
//
// Discovery and status are recomputed from disk on every call; nothing is
// cached between invocations.
package registry
