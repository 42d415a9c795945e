package format

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
	"github.com/ralphhook/ralph-hook-fmt/lang"
)

// Options control how a Dispatcher resolves and runs formatters.
type Options struct {
	// ProjectOnly restricts the search for formatters to the project containing the file.
	ProjectOnly bool
	// Disabled lists candidates which must never be selected.
	Disabled []string
	// Excludes are glob patterns for files which are skipped.
	Excludes []string
	Timeout  time.Duration
	// Environ is the environment used when searching PATH, defaulting to os.Environ().
	Environ []string
}

// Dispatcher takes a single file through classification, resolution and execution.
type Dispatcher struct {
	opts     Options
	excludes []glob.Glob

	resolver *Resolver
	executor *Executor

	log *log.Logger
}

func NewDispatcher(opts Options) (*Dispatcher, error) {
	excludes, err := compileGlobs(opts.Excludes)
	if err != nil {
		return nil, err
	}

	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}

	return &Dispatcher{
		opts:     opts,
		excludes: excludes,
		resolver: NewResolver(opts.ProjectOnly, opts.Disabled),
		executor: NewExecutor(opts.Timeout),
		log:      log.WithPrefix("format"),
	}, nil
}

// Format formats the file at path with the most preferred formatter available for it.
// It never returns an error, every failure is described by the returned Outcome.
func (d *Dispatcher) Format(ctx context.Context, path string) *Outcome {
	start := time.Now()

	outcome := d.format(ctx, path)
	if outcome.Elapsed == 0 {
		outcome.Elapsed = time.Since(start)
	}

	d.log.Debug("outcome", "path", outcome.Path, "class", outcome.Class, "formatter", outcome.Formatter)

	return outcome
}

func (d *Dispatcher) format(ctx context.Context, path string) *Outcome {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if _, err := os.Stat(path); err != nil {
		return &Outcome{
			Path:  path,
			Class: InternalError,
			Stage: StageInput,
			Err:   fmt.Errorf("file does not exist: %s", path),
		}
	}

	if pathMatches(path, d.excludes) {
		return &Outcome{Path: path, Class: Skipped, Stage: StageClassify, Language: lang.Skipped}
	}

	language := lang.Classify(path)

	switch language {
	case lang.Skipped:
		return &Outcome{Path: path, Class: Skipped, Stage: StageClassify, Language: language}
	case lang.Unsupported:
		return &Outcome{Path: path, Class: Unsupported, Stage: StageClassify, Language: language}
	}

	target, err := NewTarget(path, language, d.opts.Environ)
	if err != nil {
		return &Outcome{Path: path, Class: InternalError, Stage: StageClassify, Language: language, Err: err}
	}

	sel, err := d.resolver.Resolve(target)
	if err != nil {
		outcome := &Outcome{
			Path:     target.Path,
			Class:    ToolNotFound,
			Stage:    StageResolve,
			Language: language,
			Err:      err,
		}

		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			outcome.Attempts = notFound.Attempts
		}

		return outcome
	}

	return d.executor.Run(ctx, sel, target)
}
