package runtime

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner returns its results in order, repeating the last one.
type scriptedRunner struct {
	results []scriptedResult
	calls   [][]string
	dirs    []string
}

type scriptedResult struct {
	out   *Output
	err   error
	block bool
}

func (r *scriptedRunner) Run(ctx context.Context, dir string, _ []string, args []string) (*Output, error) {
	r.calls = append(r.calls, args)
	r.dirs = append(r.dirs, dir)
	res := r.results[min(len(r.calls), len(r.results))-1]
	if res.block {
		<-ctx.Done()
		return &Output{ExitCode: -1}, nil
	}
	return res.out, res.err
}

func newTestExecutor(r Runner) (*Executor, *[]time.Duration) {
	var delays []time.Duration
	e := New(WithRunner(r))
	e.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return e, &delays
}

func TestParse(t *testing.T) {
	tests := []struct {
		command string
		want    []string
		wantErr bool
	}{
		{command: "go mod tidy", want: []string{"go", "mod", "tidy"}},
		{command: "  go   mod  tidy  -v ", want: []string{"go", "mod", "tidy", "-v"}},
		{command: "pnpm install", want: []string{"pnpm", "install"}},
		{command: "go run ./cmd/answer/main.go i18n -s ./i18n", want: []string{"go", "run", "./cmd/answer/main.go", "i18n", "-s", "./i18n"}},
		{command: `go mod edit -replace "a=./b c"`, want: []string{"go", "mod", "edit", "-replace", "a=./b c"}},
		{command: "go build ./...", want: []string{"go", "build", "./..."}},
		{command: "", wantErr: true},
		{command: "rm -rf /", wantErr: true},
		{command: "go test ./...", wantErr: true},
		{command: "go mod tidy; rm -rf /", wantErr: true},
		{command: "go mod tidy && echo", wantErr: true},
		{command: "go mod tidy | cat", wantErr: true},
		{command: "go mod tidy $(whoami)", wantErr: true},
		{command: "go mod tidy `id`", wantErr: true},
		{command: "go mod tidy > out", wantErr: true},
		{command: "go mod tidy\nrm x", wantErr: true},
		{command: `go mod edit "unterminated`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got, err := Parse(tt.command)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindValidation), "want validation error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecute_Success(t *testing.T) {
	r := &scriptedRunner{results: []scriptedResult{{out: &Output{Stdout: "  done\n"}}}}
	e, delays := newTestExecutor(r)

	out, err := e.Execute(context.Background(), "go mod tidy", Options{Dir: "/project", Retries: 3})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Len(t, r.calls, 1)
	assert.Equal(t, []string{"/project"}, r.dirs)
	assert.Empty(t, *delays)
}

func TestExecute_RejectedCommandNeverRuns(t *testing.T) {
	r := &scriptedRunner{results: []scriptedResult{{out: &Output{}}}}
	e, _ := newTestExecutor(r)

	_, err := e.Execute(context.Background(), "curl example.com", Options{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Empty(t, r.calls)
}

func TestExecute_RetriesWithBackoff(t *testing.T) {
	r := &scriptedRunner{results: []scriptedResult{
		{out: &Output{ExitCode: 1, Stderr: "network"}},
		{out: &Output{ExitCode: 1, Stderr: "network"}},
		{out: &Output{Stdout: "ok"}},
	}}
	e, delays := newTestExecutor(r)

	out, err := e.Execute(context.Background(), "pnpm install", Options{Retries: 3, RetryDelay: 100 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Len(t, r.calls, 3)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *delays)
}

func TestExecute_FailureAfterRetries(t *testing.T) {
	r := &scriptedRunner{results: []scriptedResult{{out: &Output{ExitCode: 2, Stderr: "missing module"}}}}
	e, delays := newTestExecutor(r)

	_, err := e.Execute(context.Background(), "go mod tidy", Options{Retries: 2, RetryDelay: time.Second})
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindCommandExecution, appErr.Kind)
	assert.Equal(t, 2, appErr.ExitCode)
	assert.Equal(t, "go mod tidy", appErr.Command)
	assert.Contains(t, err.Error(), "missing module")
	assert.Len(t, r.calls, 3)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
}

func TestExecute_RetriesCapped(t *testing.T) {
	r := &scriptedRunner{results: []scriptedResult{{out: &Output{ExitCode: 1}}}}
	e, _ := newTestExecutor(r)

	_, err := e.Execute(context.Background(), "go mod tidy", Options{Retries: 100})
	require.Error(t, err)
	assert.Len(t, r.calls, MaxRetries+1)
}

func TestExecute_RunnerError(t *testing.T) {
	r := &scriptedRunner{results: []scriptedResult{{err: errors.New("pnpm not found in PATH")}}}
	e, _ := newTestExecutor(r)

	_, err := e.Execute(context.Background(), "pnpm install", Options{})
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, -1, appErr.ExitCode)
	assert.Contains(t, err.Error(), "pnpm not found")
}

func TestExecute_Timeout(t *testing.T) {
	r := &scriptedRunner{results: []scriptedResult{{block: true}}}
	e, _ := newTestExecutor(r)

	_, err := e.Execute(context.Background(), "go mod tidy", Options{Timeout: 20 * time.Millisecond, Retries: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindCommandExecution))
	assert.Contains(t, err.Error(), "timed out")
	assert.Len(t, r.calls, 2)
}

func TestExecute_CancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &scriptedRunner{results: []scriptedResult{{out: &Output{ExitCode: 1}}}}
	e := New(WithRunner(r))
	e.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := e.Execute(ctx, "go mod tidy", Options{Retries: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, r.calls, 1)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Duration(0), backoff(0, 3))
	assert.Equal(t, time.Second, backoff(time.Second, 1))
	assert.Equal(t, 4*time.Second, backoff(time.Second, 3))
	assert.Equal(t, MaxRetryDelay, backoff(time.Second, 10))
}

func TestMergeEnv(t *testing.T) {
	env := mergeEnv([]string{"A=1", "B=2"}, []string{"B=3", "C=4", "bogus"})
	assert.Equal(t, []string{"A=1", "B=3", "C=4"}, env)
}

func TestProcessRunner(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go not available, skipping")
	}

	out, err := (&ProcessRunner{}).Run(context.Background(), t.TempDir(), nil, []string{"go", "env", "GOOS"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.NotEmpty(t, out.Stdout)

	out, err = (&ProcessRunner{}).Run(context.Background(), t.TempDir(), nil, []string{"go", "mod", "tidy"})
	require.NoError(t, err)
	assert.NotEqual(t, 0, out.ExitCode, "tidy outside a module should fail")
}

func TestProcessRunner_MissingBinary(t *testing.T) {
	_, err := (&ProcessRunner{}).Run(context.Background(), "", nil, []string{"definitely-not-a-real-binary-xyz"})
	assert.Error(t, err)
}
