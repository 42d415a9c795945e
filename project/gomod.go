package project

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// Module describes the Go module containing a file.
type Module struct {
	Dir string
	// Tools are the package paths declared with `tool` directives.
	Tools []string
}

// GoModule parses the nearest go.mod above file.
func GoModule(file string) (*Module, error) {
	modPath, dir, err := FindUp(filepath.Dir(file), "go.mod")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(modPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", modPath, err)
	}

	mf, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", modPath, err)
	}

	mod := &Module{Dir: dir}

	for _, tool := range mf.Tool {
		mod.Tools = append(mod.Tools, tool.Path)
	}

	return mod, nil
}

// Tool returns the declared tool whose command name is name, e.g. `mvdan.cc/gofumpt` for `gofumpt`.
func (m *Module) Tool(name string) (string, bool) {
	for _, tool := range m.Tools {
		if path.Base(tool) == name {
			return tool, true
		}
	}

	return "", false
}
