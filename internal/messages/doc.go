// Package messages holds user-facing strings for the CLI and prompts.
package messages
