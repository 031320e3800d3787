package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// Result is the captured outcome of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs a command and captures its output. Probes take a Runner so tests
// can replace the real process.
type Runner interface {
	Capture(ctx context.Context, name string, args ...string) (*Result, error)
}

// LocalRunner runs commands on this machine without a shell.
type LocalRunner struct{}

// Capture runs name with args, bounded by ctx. A non-zero exit status is not an
// error; it is reported in Result.ExitCode. The error is set when the command
// could not be started or ctx expired before it finished.
func (LocalRunner) Capture(ctx context.Context, name string, args ...string) (*Result, error) {
	return Capture(ctx, name, args...)
}

// Capture is LocalRunner.Capture.
func Capture(ctx context.Context, name string, args ...string) (*Result, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("'%s' wasn't found in PATH", name),
			fmt.Sprintf("Install '%s' or add it to your PATH.", name))
	}

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, path, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	runErr := command.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, errors.WrapWithCode(ctxErr, errors.ErrExec,
			fmt.Sprintf("'%s' did not finish in time", commandLine(name, args)), "")
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, errors.WrapWithCode(runErr, errors.ErrExec,
			fmt.Sprintf("Couldn't run '%s'", commandLine(name, args)),
			"Make sure the command exists and is executable.")
	}

	return res, nil
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
