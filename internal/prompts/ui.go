// Package prompts collects plugin details interactively with huh forms.
package prompts

import (
	"errors"
	"fmt"
	"os"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Option is one choice in a Select prompt.
type Option struct {
	Label string
	Value string
}

// UI defines the interaction methods.
type UI interface {
	Select(title string, options []Option, value *string) error
	Input(title string, validate func(string) error, value *string) error
	Confirm(title string, value *bool) error
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a HuhUI using the default terminal check.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: IsInteractive}
}

func (ui *HuhUI) runForm(field huh.Field) error {
	checker := ui.isTerminal
	if checker == nil {
		checker = IsInteractive
	}
	if !checker() {
		return apperr.Validation("input", messages.PromptRequiresTerminal)
	}

	err := runFormFunc(huh.NewForm(huh.NewGroup(field)).WithOutput(os.Stderr))
	if errors.Is(err, huh.ErrUserAborted) {
		return apperr.Validation("input", messages.PromptCancelled)
	}
	if err != nil {
		return fmt.Errorf("running prompt: %w", err)
	}
	return nil
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []Option, value *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value)
	}
	return ui.runForm(huh.NewSelect[string]().Title(title).Options(opts...).Value(value))
}

// Input renders a single-line text prompt.
func (ui *HuhUI) Input(title string, validate func(string) error, value *string) error {
	field := huh.NewInput().Title(title).Value(value)
	if validate != nil {
		field = field.Validate(validate)
	}
	return ui.runForm(field)
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runForm(huh.NewConfirm().Title(title).Value(value))
}
