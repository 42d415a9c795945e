package project

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// cargoManifest is the subset of Cargo.toml we care about.
type cargoManifest struct {
	Package *struct {
		// Edition is either a string or `{ workspace = true }`.
		Edition any `toml:"edition"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
		Package *struct {
			Edition string `toml:"edition"`
		} `toml:"package"`
	} `toml:"workspace"`
}

// edition returns the package's own edition, and whether it is inherited from the workspace instead.
func (m *cargoManifest) edition() (string, bool) {
	if m.Package == nil {
		return "", false
	}

	switch e := m.Package.Edition.(type) {
	case string:
		return e, false
	case map[string]any:
		inherit, _ := e["workspace"].(bool)

		return "", inherit
	default:
		return "", false
	}
}

func (m *cargoManifest) workspaceEdition() string {
	if m.Workspace == nil || m.Workspace.Package == nil {
		return ""
	}

	return m.Workspace.Package.Edition
}

// Crate describes the Cargo package containing a file.
type Crate struct {
	// Dir is the directory of the nearest Cargo.toml.
	Dir string
	// WorkspaceDir is the directory of the enclosing workspace manifest, or Dir if the crate is not part of one.
	WorkspaceDir string
	// Edition is the Rust edition the crate is written in, empty if the manifest does not say.
	Edition string
}

// CargoCrate finds the Cargo package containing file, along with the root of its workspace if there is one.
func CargoCrate(file string) (*Crate, error) {
	path, dir, err := FindUp(filepath.Dir(file), "Cargo.toml")
	if err != nil {
		return nil, err
	}

	manifest, err := readCargoManifest(path)
	if err != nil {
		return nil, err
	}

	crate := &Crate{
		Dir:          dir,
		WorkspaceDir: dir,
	}

	edition, inherited := manifest.edition()
	crate.Edition = edition

	if manifest.Workspace != nil {
		if inherited {
			crate.Edition = manifest.workspaceEdition()
		}

		return crate, nil
	}

	// a member crate, look further up for a workspace manifest
	var workspace *cargoManifest

	isWorkspace := func(path string) bool {
		m, err := readCargoManifest(path)
		if err != nil || m.Workspace == nil {
			return false
		}

		workspace = m

		return true
	}

	if parent := filepath.Dir(dir); parent != dir {
		if _, wsDir, err := FindUpFunc(parent, isWorkspace, "Cargo.toml"); err == nil {
			crate.WorkspaceDir = wsDir

			if inherited {
				crate.Edition = workspace.workspaceEdition()
			}
		}
	}

	return crate, nil
}

func readCargoManifest(path string) (*cargoManifest, error) {
	var manifest cargoManifest

	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &manifest, nil
}
