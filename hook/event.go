// Package hook implements the boundary with the automation host: decoding the event which triggered us and
// encoding the response which tells the host to carry on.
package hook

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/buger/jsonparser"
)

var ErrNoFilePath = errors.New("could not extract file path from event")

// Event is the subset of a tool-use event we need.
type Event struct {
	HookEventName string
	ToolName      string
	// Cwd is the host's working directory, relative file paths are resolved against it.
	Cwd      string
	FilePath string
}

// ReadEvent decodes an Event from r. An error is returned if the event has no `tool_input.file_path`.
func ReadEvent(r io.Reader) (*Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	return ParseEvent(data)
}

// ParseEvent decodes an Event from data.
func ParseEvent(data []byte) (*Event, error) {
	path, err := jsonparser.GetString(data, "tool_input", "file_path")
	if err != nil || path == "" {
		return nil, ErrNoFilePath
	}

	event := &Event{FilePath: path}

	// the remaining fields are optional
	event.HookEventName, _ = jsonparser.GetString(data, "hook_event_name")
	event.ToolName, _ = jsonparser.GetString(data, "tool_name")
	event.Cwd, _ = jsonparser.GetString(data, "cwd")

	return event, nil
}

// Path returns the event's file path, resolved against the event's working directory if it is relative.
func (e *Event) Path() string {
	if filepath.IsAbs(e.FilePath) || e.Cwd == "" {
		return e.FilePath
	}

	return filepath.Join(e.Cwd, e.FilePath)
}
