package format

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ralphhook/ralph-hook-fmt/project"
	"mvdan.cc/sh/v3/interp"
)

// ErrCommandNotFound is returned when a Locator cannot find the executable for a command.
var ErrCommandNotFound = errors.New("command not found")

// Executable is a located command, along with any arguments which must precede the formatter's own.
type Executable struct {
	Path string
	Args []string
}

// RootFunc returns the directory a local search should be relative to.
type RootFunc func(t *Target) (string, error)

// Locator is a single place in which to search for a command's executable.
// Local locators search inside the project containing the target, Global locators search the machine at large.
type Locator struct {
	Name   string
	Global bool

	find func(t *Target, command string) (*Executable, error)
}

func (l Locator) Locate(t *Target, command string) (*Executable, error) {
	exe, err := l.find(t, command)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Name, err)
	}

	return exe, nil
}

// Local searches each of dirs, relative to the directory returned by root, for an executable named after the
// command.
func Local(name string, root RootFunc, dirs ...string) Locator {
	return Locator{
		Name: name,
		find: func(t *Target, command string) (*Executable, error) {
			base, err := root(t)
			if err != nil {
				return nil, err
			}

			for _, dir := range dirs {
				path := filepath.Join(base, dir, command)
				if project.Executable(path) {
					return &Executable{Path: path}, nil
				}
			}

			return nil, ErrCommandNotFound
		},
	}
}

// Wrapper locates a build tool wrapper script such as gradlew, which stands in for the command itself.
// The search starts in the directory returned by root and continues upwards, as multi-module builds keep the
// wrapper at the top.
func Wrapper(file string, root RootFunc) Locator {
	return Locator{
		Name: file,
		find: func(t *Target, _ string) (*Executable, error) {
			base, err := root(t)
			if err != nil {
				return nil, err
			}

			path, _, err := project.FindUpFunc(base, project.Executable, file)
			if err != nil {
				return nil, ErrCommandNotFound
			}

			return &Executable{Path: path}, nil
		},
	}
}

// Toolchain locates a command on the PATH, but only for targets within a project found by root. The project's
// own descriptor drives the command, so it is not considered Global and remains available in project-only mode.
func Toolchain(name string, root RootFunc) Locator {
	return Locator{
		Name: name,
		find: func(t *Target, command string) (*Executable, error) {
			if _, err := root(t); err != nil {
				return nil, err
			}

			path, err := interp.LookPathDir(t.Dir(), t.env, command)
			if err != nil {
				return nil, ErrCommandNotFound
			}

			return &Executable{Path: path}, nil
		},
	}
}

// GoTool locates a command pinned with a `tool` directive in the nearest go.mod, which is then run with `go tool`.
func GoTool() Locator {
	return Locator{
		Name: "go tool",
		find: func(t *Target, command string) (*Executable, error) {
			mod, err := project.GoModule(t.Path)
			if err != nil {
				return nil, err
			}

			tool, ok := mod.Tool(command)
			if !ok {
				return nil, ErrCommandNotFound
			}

			goExe, err := interp.LookPathDir(t.Dir(), t.env, "go")
			if err != nil {
				return nil, ErrCommandNotFound
			}

			return &Executable{Path: goExe, Args: []string{"tool", tool}}, nil
		},
	}
}

// SearchPath locates a command on the PATH.
func SearchPath() Locator {
	return Locator{
		Name:   "PATH",
		Global: true,
		find: func(t *Target, command string) (*Executable, error) {
			path, err := interp.LookPathDir(t.Dir(), t.env, command)
			if err != nil {
				return nil, ErrCommandNotFound
			}

			return &Executable{Path: path}, nil
		},
	}
}

func nodeRoot(t *Target) (string, error) {
	if dir, err := project.NodeRoot(t.Path); err == nil {
		return dir, nil
	}

	return project.Root(t.Path)
}

func pythonRoot(t *Target) (string, error) {
	if dir, err := project.PythonRoot(t.Path); err == nil {
		return dir, nil
	}

	return project.Root(t.Path)
}

func javaRoot(t *Target) (string, error) {
	return project.JavaRoot(t.Path)
}

func goModuleRoot(t *Target) (string, error) {
	mod, err := project.GoModule(t.Path)
	if err != nil {
		return "", err
	}

	return mod.Dir, nil
}

func cargoWorkspaceRoot(t *Target) (string, error) {
	crate, err := project.CargoCrate(t.Path)
	if err != nil {
		return "", err
	}

	return crate.WorkspaceDir, nil
}
