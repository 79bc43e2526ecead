package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ProcessRunner runs commands as child processes.
type ProcessRunner struct {
	// Stdout and Stderr, when set, also receive the process output as it is
	// produced.
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts args[0] with the remaining arguments and waits for it.
func (p *ProcessRunner) Run(ctx context.Context, dir string, env []string, args []string) (*Output, error) {
	if len(args) == 0 {
		return nil, errors.New("no command given")
	}
	bin, err := exec.LookPath(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", args[0], err)
	}

	cmd := exec.CommandContext(ctx, bin, args[1:]...)
	cmd.Dir = dir
	cmd.Env = mergeEnv(os.Environ(), env)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = tee(&stdoutBuf, p.Stdout)
	cmd.Stderr = tee(&stderrBuf, p.Stderr)

	err = cmd.Run()
	out := &Output{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("running %s: %w", args[0], err)
	}
	return out, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}

// mergeEnv layers KEY=VALUE pairs from extra over env.
func mergeEnv(env, extra []string) []string {
	for _, kv := range extra {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env = setEnv(env, key, value)
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
