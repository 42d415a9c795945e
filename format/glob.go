package format

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// compileGlobs prepares the exclude patterns. `*` does not cross path separators, `**` does.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, len(patterns))

	for i, pattern := range patterns {
		g, err := glob.Compile(pattern, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("failed to compile exclude pattern '%v': %w", pattern, err)
		}

		globs[i] = g
	}

	return globs, nil
}

// pathMatches checks the absolute path and the base name of the file against globs.
func pathMatches(path string, globs []glob.Glob) bool {
	base := filepath.Base(path)

	for idx := range globs {
		if globs[idx].Match(path) || globs[idx].Match(base) {
			return true
		}
	}

	return false
}
