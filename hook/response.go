package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/ralphhook/ralph-hook-fmt/build"
	"github.com/ralphhook/ralph-hook-fmt/format"
)

// MaxMessage bounds the length of a system message so a noisy formatter cannot flood the host's UI.
const MaxMessage = 2048

// Response tells the host how to proceed. Continue is always true, formatting never blocks the host.
type Response struct {
	Continue      bool   `json:"continue"`
	SystemMessage string `json:"systemMessage,omitempty"`
}

// Continue returns a Response which carries no message.
func Continue() Response {
	return Response{Continue: true}
}

// NewResponse builds the response for an outcome. A summary is only attached in debug mode.
func NewResponse(outcome *format.Outcome, debug bool) Response {
	r := Continue()
	if debug {
		r.SystemMessage = Summary(outcome)
	}

	return r
}

// ErrorResponse builds the response for a failure which happened before a file could be dispatched.
func ErrorResponse(stage format.Stage, err error, debug bool) Response {
	return NewResponse(&format.Outcome{Class: format.InternalError, Stage: stage, Err: err}, debug)
}

// Summary renders a human-readable description of outcome.
func Summary(o *format.Outcome) string {
	var msg string

	switch o.Class {
	case format.Success:
		msg = fmt.Sprintf("%s: formatted with %s in %v", o.Language, o.Formatter, o.Elapsed.Round(time.Millisecond))
	case format.ToolNotFound:
		msg = fmt.Sprintf("%s: formatter not found", o.Language)
		if len(o.Attempts) > 0 {
			tried := make([]string, len(o.Attempts))
			for i, attempt := range o.Attempts {
				tried[i] = attempt.String()
			}

			msg += " (tried " + strings.Join(tried, ", ") + ")"
		}
	case format.ToolFailed:
		msg = fmt.Sprintf("%s: %s (%s) failed", o.Stage, o.Formatter, o.Language)
		if o.ExitCode > 0 {
			msg += fmt.Sprintf(": exit status %d", o.ExitCode)
		}

		if o.Diagnostic != "" {
			msg += ": " + o.Diagnostic
		}
	case format.Skipped:
		msg = "Skipped " + filepath.Base(o.Path)
	case format.Unsupported:
		if ext := filepath.Ext(o.Path); ext != "" {
			msg = "Unsupported file extension: " + ext
		} else {
			msg = "Unsupported file: " + filepath.Base(o.Path)
		}
	case format.InternalError:
		msg = fmt.Sprintf("%s: %v", o.Stage, o.Err)
	}

	return format.Truncate(fmt.Sprintf("[%s] %s", build.Name, msg), MaxMessage)
}

// Write encodes r to w as a single line of JSON.
func (r Response) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	return nil
}
