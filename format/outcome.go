package format

import (
	"time"
	"unicode/utf8"

	"github.com/ralphhook/ralph-hook-fmt/lang"
)

// Class categorises the outcome of handling a single file.
type Class int

const (
	Success Class = iota
	ToolFailed
	ToolNotFound
	Skipped
	Unsupported
	InternalError
)

func (c Class) String() string {
	switch c {
	case Success:
		return "success"
	case ToolFailed:
		return "tool_failed"
	case ToolNotFound:
		return "tool_not_found"
	case Skipped:
		return "skipped"
	case Unsupported:
		return "unsupported"
	case InternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Stage names the part of the pipeline an Outcome was decided in.
type Stage string

const (
	StageConfig   Stage = "config"
	StageInput    Stage = "input"
	StageClassify Stage = "classify"
	StageResolve  Stage = "resolve"
	StageExecute  Stage = "execute"
)

// MaxDiagnostic is the maximum number of bytes of formatter output kept in an Outcome.
const MaxDiagnostic = 1024

// Outcome describes what happened to a file.
type Outcome struct {
	Path     string
	Language lang.Language
	Class    Class
	Stage    Stage

	// Formatter is the name of the selected candidate, if any.
	Formatter string
	// Attempts lists candidates which were passed over during resolution.
	Attempts []Attempt

	ExitCode   int
	Diagnostic string
	Elapsed    time.Duration

	Err error
}

// Failed reports whether the outcome should be surfaced as a problem.
func (o *Outcome) Failed() bool {
	return o.Class == ToolFailed || o.Class == InternalError
}

// Truncate shortens s to at most n bytes without splitting a multibyte character, marking the cut with an
// ellipsis.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	const ellipsis = "…"

	cut := n - len(ellipsis)
	if cut < 0 {
		cut = 0
	}

	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + ellipsis
}
