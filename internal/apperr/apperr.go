// Package apperr defines the error taxonomy shared by every command.
//
// Each error carries a Kind. Validation, command-execution, configuration
// and discovery errors are recoverable: the CLI reports them as warnings and
// exits 0. File-system and template errors are fatal and exit 1.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindFileSystem
	KindTemplate
	KindCommandExecution
	KindConfiguration
	KindDiscovery
)

var kindNames = map[Kind]string{
	KindValidation:       "validation",
	KindFileSystem:       "filesystem",
	KindTemplate:         "template",
	KindCommandExecution: "command",
	KindConfiguration:    "configuration",
	KindDiscovery:        "discovery",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Recoverable reports whether errors of this kind downgrade to a warning.
func (k Kind) Recoverable() bool {
	switch k {
	case KindValidation, KindCommandExecution, KindConfiguration, KindDiscovery:
		return true
	}
	return false
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	// Field names the offending input for validation errors.
	Field string
	// Path is the file or directory involved, when there is one.
	Path string
	// Command and ExitCode describe a failed external command.
	Command  string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	switch {
	case e.Path != "":
		fmt.Fprintf(&b, " (%s)", e.Path)
	case e.Command != "":
		fmt.Fprintf(&b, " (%s", e.Command)
		if e.ExitCode != 0 {
			fmt.Fprintf(&b, ", exit code %d", e.ExitCode)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Recoverable reports whether the error should be reported as a warning.
func (e *Error) Recoverable() bool { return e.Kind.Recoverable() }

// Validation reports invalid user input.
func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// FileSystem wraps a read, write, or directory failure on path.
func FileSystem(path, message string, err error) *Error {
	return &Error{Kind: KindFileSystem, Path: path, Message: message, Err: err}
}

// Template wraps a failure to read or render the template at path.
func Template(path, message string, err error) *Error {
	return &Error{Kind: KindTemplate, Path: path, Message: message, Err: err}
}

// CommandExecution reports an external command that failed after all retries.
func CommandExecution(command string, exitCode int, err error) *Error {
	return &Error{Kind: KindCommandExecution, Command: command, ExitCode: exitCode, Message: "command failed", Err: err}
}

// Configuration reports an invalid configuration value.
func Configuration(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// Discovery reports a failure to enumerate plugins under path.
func Discovery(path, message string, err error) *Error {
	return &Error{Kind: KindDiscovery, Path: path, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err's chain holds an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// IsRecoverable reports whether err's chain holds a recoverable *Error.
// Unclassified errors are fatal.
func IsRecoverable(err error) bool {
	return KindOf(err).Recoverable()
}
