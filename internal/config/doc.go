// Package config resolves the tool's settings from built-in defaults, the
// user file at ~/.answer-plugin/config.yaml, and the environment, in that
// order of precedence (environment wins).
//
// Besides the ANSWER_PLUGIN_* variables, the legacy names ANSWER_PLUGINS_PATH,
// ANSWER_I18N_PATH, GO_MOD_TIDY_TIMEOUT, PNPM_INSTALL_TIMEOUT and LOG_LEVEL
// are honoured. Timeouts accept Go durations ("90s") or bare milliseconds.
package config
