package test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/ralphhook/ralph-hook-fmt/config"
	cp "github.com/otiai10/copy"
	"github.com/stretchr/testify/require"
)

func WriteConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create a new config file: %v", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err = encoder.Encode(cfg); err != nil {
		t.Fatalf("failed to write to config file: %v", err)
	}
}

// TempExamples copies the example projects into a temporary directory, returning its path.
func TempExamples(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	require.NoError(t, cp.Copy("../test/examples", tempDir), "failed to copy test data to dir")

	return tempDir
}

// FakeFormatter writes an executable script called name into dir which appends a line naming itself to the last
// argument it receives, then runs body. It returns the path of the script.
func FakeFormatter(t *testing.T, dir string, name string, body ...string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755), "failed to create formatter dir")

	script := []string{
		"#!/bin/sh",
		`for last; do :; done`,
		fmt.Sprintf(`echo "formatted by %s" >> "$last"`, name),
	}
	script = append(script, body...)

	path := filepath.Join(dir, name)
	require.NoError(
		t,
		os.WriteFile(path, []byte(strings.Join(script, "\n")+"\n"), 0o755), //nolint:gosec
		"failed to write formatter script",
	)

	return path
}

// BinDir creates an empty directory for fake formatters and makes it the only entry on PATH for the rest of the
// test, so that formatters installed on the machine running the tests cannot interfere.
func BinDir(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, os.Mkdir(dir, 0o755), "failed to create bin dir")

	t.Setenv("PATH", dir)

	return dir
}

// Contents returns the contents of the file at path.
func Contents(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read %s", path)

	return string(data)
}
