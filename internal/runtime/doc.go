// Package runtime runs the small set of external commands the CLI needs
// (go mod tidy, pnpm install, the host's i18n merge) with a timeout per
// attempt and capped retries with exponential backoff.
package runtime
