package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	logw "github.com/ralphhook/ralph-hook-fmt/internal/log"
)

const (
	DefaultTimeout = 30 * time.Second
	// DefaultWaitDelay is how long a formatter is given to exit after being interrupted before it is killed.
	DefaultWaitDelay = 2 * time.Second
)

// ErrTimeout indicates a formatter did not finish within the allowed time.
var ErrTimeout = errors.New("timed out")

// Executor runs a selected formatter against a Target.
type Executor struct {
	Timeout   time.Duration
	WaitDelay time.Duration

	log *log.Logger
}

func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Executor{
		Timeout:   timeout,
		WaitDelay: DefaultWaitDelay,
		log:       log.WithPrefix("format | exec"),
	}
}

// Run applies each of the selection's commands in turn, stopping at the first failure.
// The timeout covers all commands. There is no fallback to another candidate if the selected one fails.
func (e *Executor) Run(ctx context.Context, sel *Selection, t *Target) *Outcome {
	start := time.Now()

	outcome := &Outcome{
		Path:      t.Path,
		Language:  t.Language,
		Stage:     StageExecute,
		Formatter: sel.Candidate.Name,
		Attempts:  sel.Attempts,
	}

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	for _, command := range sel.Commands {
		exitCode, diagnostic, err := e.apply(ctx, command, sel.Dir)
		if err != nil {
			outcome.Class = ToolFailed
			outcome.ExitCode = exitCode
			outcome.Diagnostic = diagnostic
			outcome.Err = err
			outcome.Elapsed = time.Since(start)

			e.log.Infof("%s failed on %s: %v", sel.Candidate.Name, t.Path, err)

			return outcome
		}
	}

	outcome.Class = Success
	outcome.Elapsed = time.Since(start)

	e.log.Infof("formatted %s with %s in %v", t.Path, sel.Candidate.Name, outcome.Elapsed)

	return outcome
}

func (e *Executor) apply(ctx context.Context, command *Command, dir string) (int, string, error) {
	argv := command.Argv()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	// replace the default Cancel handler installed by CommandContext because it sends SIGKILL (-9).
	// If the formatter ignores the interrupt, WaitDelay ensures it is killed anyway.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = e.WaitDelay
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer

	stdoutLog := &logw.Writer{Log: e.log, Level: log.DebugLevel}
	defer stdoutLog.Flush()

	cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
	cmd.Stderr = &stderr

	e.log.Debugf("executing: %s", cmd.String())

	err := cmd.Run()

	if ctx.Err() != nil {
		// partial output from an interrupted formatter is of no use
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %v", ErrTimeout, e.Timeout)
		}

		return -1, err.Error(), err
	}

	if err == nil {
		return 0, "", nil
	}

	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	diagnostic := strings.TrimSpace(stderr.String())
	if diagnostic == "" {
		diagnostic = strings.TrimSpace(stdout.String())
	}

	if diagnostic == "" {
		diagnostic = err.Error()
	}

	return exitCode, Truncate(diagnostic, MaxDiagnostic), fmt.Errorf("%s: %w", command.Executable.Path, err)
}
