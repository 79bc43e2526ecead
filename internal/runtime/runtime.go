package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/rs/zerolog"
)

// Options controls a single Execute call.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// Retries is the number of attempts after the first.
	Retries int
	// RetryDelay is the wait before the first retry; it doubles each time.
	RetryDelay time.Duration
	// Env holds extra KEY=VALUE pairs layered over the process environment.
	Env []string
}

// Defaults applied to zero Options fields.
const (
	DefaultTimeout = 60 * time.Second
	MaxRetries     = 5
	MaxRetryDelay  = 30 * time.Second
)

// Output captures one finished attempt.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner starts a process and waits for it. A non-zero exit is reported in
// Output with a nil error; err is reserved for failures to run at all.
type Runner interface {
	Run(ctx context.Context, dir string, env []string, args []string) (*Output, error)
}

// Executor validates and runs commands.
type Executor struct {
	runner Runner
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(e *Executor) { e.runner = r }
}

// WithLogger sets the logger. The default logs nothing.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// New returns an Executor that runs real processes unless WithRunner is given.
func New(opts ...Option) *Executor {
	e := &Executor{runner: &ProcessRunner{}, logger: zerolog.Nop(), sleep: sleepContext}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs command and returns its trimmed stdout. The command must pass
// Parse. Each attempt gets its own timeout; a failed attempt is retried up
// to opts.Retries times, waiting RetryDelay, then twice that, and so on.
// Cancelling ctx stops both the running attempt and any pending retry.
func (e *Executor) Execute(ctx context.Context, command string, opts Options) (string, error) {
	args, err := Parse(command)
	if err != nil {
		return "", err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := min(max(opts.Retries, 0), MaxRetries)

	log := e.logger.With().Str("component", "runtime").Str("command", command).Logger()

	var lastErr error
	lastCode := -1
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := backoff(opts.RetryDelay, attempt)
			log.Debug().Int("attempt", attempt+1).Dur("delay", delay).Msg("Retrying command")
			if err := e.sleep(ctx, delay); err != nil {
				return "", apperr.CommandExecution(command, lastCode, err)
			}
		}

		out, err := e.attempt(ctx, args, opts, timeout)
		switch {
		case err != nil:
			lastErr, lastCode = err, -1
		case out.ExitCode != 0:
			lastErr, lastCode = exitError(out), out.ExitCode
		default:
			log.Debug().Int("attempt", attempt+1).Msg("Command succeeded")
			return strings.TrimSpace(out.Stdout), nil
		}

		log.Warn().Int("attempt", attempt+1).Int("exit_code", lastCode).Err(lastErr).Msg("Command attempt failed")
		if ctx.Err() != nil {
			break
		}
	}
	return "", apperr.CommandExecution(command, lastCode, lastErr)
}

func (e *Executor) attempt(ctx context.Context, args []string, opts Options, timeout time.Duration) (*Output, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := e.runner.Run(actx, opts.Dir, opts.Env, args)
	if errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, fmt.Errorf("timed out after %s", timeout)
	}
	if out == nil && err == nil {
		out = &Output{}
	}
	return out, err
}

// backoff returns the wait before retry n (1-based).
func backoff(base time.Duration, n int) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base << (n - 1)
	if d <= 0 || d > MaxRetryDelay {
		return MaxRetryDelay
	}
	return d
}

func exitError(out *Output) error {
	if msg := strings.TrimSpace(out.Stderr); msg != "" {
		return fmt.Errorf("exit status %d: %s", out.ExitCode, msg)
	}
	return fmt.Errorf("exit status %d", out.ExitCode)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
