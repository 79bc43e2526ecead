package runtime

import (
	"strings"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/google/shlex"
)

// allowed lists the argument prefixes a command line must start with.
var allowed = [][]string{
	{"go", "mod", "tidy"},
	{"go", "mod", "edit"},
	{"go", "build"},
	{"go", "run", "./cmd/answer/main.go", "i18n"},
	{"pnpm", "install"},
}

// Shell metacharacters are never passed through, even though no shell is
// involved, so a command line means the same thing logged as executed.
const forbiddenChars = ";&|$`<>\n\r"

// Parse splits command into arguments and checks it against the allow-list.
func Parse(command string) ([]string, error) {
	if strings.TrimSpace(command) == "" {
		return nil, apperr.Validation("command", "command is empty")
	}
	if i := strings.IndexAny(command, forbiddenChars); i >= 0 {
		return nil, apperr.Validation("command", "command %q contains forbidden character %q", command, command[i])
	}
	args, err := shlex.Split(command)
	if err != nil {
		return nil, apperr.Validation("command", "cannot parse command %q: %v", command, err)
	}
	if !Allowed(args) {
		return nil, apperr.Validation("command", "command %q is not allowed", command)
	}
	return args, nil
}

// Allowed reports whether args begins with an allow-listed prefix.
func Allowed(args []string) bool {
	for _, prefix := range allowed {
		if hasPrefix(args, prefix) {
			return true
		}
	}
	return false
}

func hasPrefix(args, prefix []string) bool {
	if len(args) < len(prefix) {
		return false
	}
	for i := range prefix {
		if args[i] != prefix[i] {
			return false
		}
	}
	return true
}
