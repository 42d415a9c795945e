package format

import (
	"fmt"
	"path/filepath"

	"github.com/ralphhook/ralph-hook-fmt/lang"
	"mvdan.cc/sh/v3/expand"
)

// Target is the file being formatted.
type Target struct {
	// Path is the absolute path to the file.
	Path     string
	Language lang.Language

	env expand.Environ
}

// NewTarget creates a Target for path, using environ when searching PATH for executables.
func NewTarget(path string, language lang.Language, environ []string) (*Target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	return &Target{
		Path:     abs,
		Language: language,
		env:      expand.ListEnviron(environ...),
	}, nil
}

// Dir returns the directory containing the file.
func (t *Target) Dir() string {
	return filepath.Dir(t.Path)
}
