// Package project locates the build and package descriptors surrounding a file.
// Every search starts in the directory containing the file and moves upwards towards the filesystem root.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

var ErrNotFound = errors.New("not found")

// Markers are the files whose presence identifies the root of a project, regardless of its language.
var Markers = []string{
	"Cargo.toml",
	"package.json",
	"pyproject.toml",
	"setup.py",
	"pom.xml",
	"build.gradle",
	"build.gradle.kts",
	"go.mod",
}

// FindUp searches searchDir and each of its parents in turn for the first of fileNames which exists as a regular
// file, returning its path and the directory it was found in.
func FindUp(searchDir string, fileNames ...string) (path string, dir string, err error) {
	for _, dir := range eachDir(searchDir) {
		for _, f := range fileNames {
			path := filepath.Join(dir, f)
			if fileExists(path) {
				return path, dir, nil
			}
		}
	}

	return "", "", fmt.Errorf("could not find %s in %s: %w", fileNames, searchDir, ErrNotFound)
}

// FindUpFunc is like FindUp, but a candidate file is only accepted if fn returns true for it.
func FindUpFunc(searchDir string, fn func(path string) bool, fileNames ...string) (path string, dir string, err error) {
	for _, dir := range eachDir(searchDir) {
		for _, f := range fileNames {
			path := filepath.Join(dir, f)
			if fileExists(path) && fn(path) {
				return path, dir, nil
			}
		}
	}

	return "", "", fmt.Errorf("could not find %s in %s: %w", fileNames, searchDir, ErrNotFound)
}

// Root returns the nearest directory above file containing one of Markers.
// If there is none, the root of the enclosing git worktree is used instead.
func Root(file string) (string, error) {
	dir := filepath.Dir(file)

	if _, root, err := FindUp(dir, Markers...); err == nil {
		return root, nil
	}

	return GitRoot(dir)
}

// GitRoot returns the root of the git worktree containing dir.
func GitRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository from %s: %w", dir, ErrNotFound)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open git worktree from %s: %w", dir, ErrNotFound)
	}

	return wt.Filesystem.Root(), nil
}

// NodeRoot returns the directory of the nearest package.json.
func NodeRoot(file string) (string, error) {
	_, dir, err := FindUp(filepath.Dir(file), "package.json")

	return dir, err
}

// PythonRoot returns the directory of the nearest pyproject.toml or setup.py.
func PythonRoot(file string) (string, error) {
	_, dir, err := FindUp(filepath.Dir(file), "pyproject.toml", "setup.py")

	return dir, err
}

// JavaRoot returns the directory of the nearest Maven or Gradle build descriptor.
func JavaRoot(file string) (string, error) {
	_, dir, err := FindUp(filepath.Dir(file), "pom.xml", "build.gradle", "build.gradle.kts")

	return dir, err
}

// eachDir returns path followed by each of its parents, ending with the filesystem root.
func eachDir(path string) (paths []string) {
	path, err := filepath.Abs(path)
	if err != nil {
		return
	}

	for {
		paths = append(paths, path)

		parent := filepath.Dir(path)
		if parent == path {
			return
		}

		path = parent
	}
}

func fileExists(path string) bool {
	// Some broken filesystems like SSHFS return file information on stat() but
	// then cannot open the file. So we use os.Open.
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return false
	}

	return fi.Mode().IsRegular()
}

// Executable reports whether path is a regular file with at least one execute bit set.
func Executable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}

	return fi.Mode().IsRegular() && fi.Mode().Perm()&0o111 != 0
}
