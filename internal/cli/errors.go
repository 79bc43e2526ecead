package cli

import (
	"fmt"
	"io"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/fatih/color"
)

// handleError prints err and returns the exit code. Recoverable errors
// (bad input, failed external commands, configuration, discovery) are
// printed as warnings and exit 0; everything else exits 1.
func handleError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if apperr.IsRecoverable(err) {
		fmt.Fprintln(w, color.YellowString("%s%s", messages.WarningPrefix, err))
		return 0
	}
	fmt.Fprintln(w, color.RedString("%s%s", messages.ErrorPrefix, err))
	return 1
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.YellowString(messages.WarningPrefix+format, args...))
}
