package project

import (
	"bytes"
	"os"
)

// Declares reports whether the build descriptor at path mentions plugin.
// A plain substring search is enough to tell whether e.g. the spotless plugin has been configured, and avoids
// having to evaluate Gradle scripts.
func Declares(path string, plugin string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	return bytes.Contains(data, []byte(plugin))
}
