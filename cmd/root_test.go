package cmd_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralphhook/ralph-hook-fmt/cmd"
	"github.com/ralphhook/ralph-hook-fmt/config"
	"github.com/ralphhook/ralph-hook-fmt/test"
	"github.com/stretchr/testify/require"
)

func TestGoOnPath(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt")

	path := filepath.Join(tempDir, "go", "main.go")

	hookFmt(t,
		withArgs("--debug"),
		withEvent(writeEvent(path, "")),
		withResponse(func(r response) {
			as.True(r.Continue)
			as.Contains(r.SystemMessage, "[ralph-hook-fmt] Go: formatted with gofmt in")
		}),
	)

	as.Contains(test.Contents(t, path), "formatted by gofmt")
}

func TestQuietByDefault(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt", "echo 'syntax error' >&2", "exit 2")

	for _, event := range []string{
		writeEvent(filepath.Join(tempDir, "go", "main.go"), ""),
		writeEvent(filepath.Join(tempDir, "misc", "file.xyz"), ""),
		writeEvent(filepath.Join(tempDir, "does-not-exist.go"), ""),
		`{"tool_input": {}}`,
		`not json`,
	} {
		hookFmt(t, withEvent(event), withOutput(func(out string) {
			as.Equal("{\"continue\":true}\n", out)
		}))
	}
}

func TestInvalidEvent(t *testing.T) {
	as := require.New(t)

	for _, event := range []string{
		"",
		"not valid json",
		`{"tool_name": "Write", "tool_input": {}}`,
		`{"tool_input": {"file_path": ""}}`,
	} {
		hookFmt(t,
			withArgs("--debug"),
			withEvent(event),
			withResponse(func(r response) {
				as.True(r.Continue)
				as.Equal("[ralph-hook-fmt] input: could not extract file path from event", r.SystemMessage)
			}),
		)
	}
}

func TestDebugMessages(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)

	debug := func(path string, fn func(string)) {
		t.Helper()

		hookFmt(t,
			withArgs("--debug"),
			withEvent(writeEvent(path, "")),
			withResponse(func(r response) {
				as.True(r.Continue)
				fn(r.SystemMessage)
			}),
		)
	}

	debug(filepath.Join(tempDir, "missing.rs"), func(msg string) {
		as.Contains(msg, "does not exist")
	})

	debug(filepath.Join(tempDir, "misc", "file.xyz"), func(msg string) {
		as.Equal("[ralph-hook-fmt] Unsupported file extension: .xyz", msg)
	})

	debug(filepath.Join(tempDir, "node", "package.json"), func(msg string) {
		as.Equal("[ralph-hook-fmt] Skipped package.json", msg)
	})

	debug(filepath.Join(tempDir, "python", "pkg", "app.py"), func(msg string) {
		as.Contains(msg, "Python: formatter not found")
		as.Contains(msg, "ruff: not found")
		as.Contains(msg, "yapf: not found")
	})

	test.FakeFormatter(t, bin, "black", "echo 'cannot parse' >&2", "exit 123")

	debug(filepath.Join(tempDir, "python", "pkg", "app.py"), func(msg string) {
		as.Equal("[ralph-hook-fmt] execute: black (Python) failed: exit status 123: cannot parse", msg)
	})

	// a failed format never stops the host, but is logged
	hookFmt(t,
		withEvent(writeEvent(filepath.Join(tempDir, "python", "pkg", "app.py"), "")),
		withOutput(func(out string) {
			as.Equal("{\"continue\":true}\n", out)
		}),
		withStderr(func(out string) {
			as.Contains(out, "format failed")
			as.Contains(out, "black")
		}),
	)
}

func TestRelativePath(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt")

	hookFmt(t,
		withArgs("--debug"),
		withEvent(writeEvent("main.go", filepath.Join(tempDir, "go"))),
		withResponse(func(r response) {
			as.Contains(r.SystemMessage, "formatted with gofmt")
		}),
	)

	as.Contains(test.Contents(t, filepath.Join(tempDir, "go", "main.go")), "formatted by gofmt")
}

func TestUnknownFlags(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt")

	hookFmt(t,
		withArgs("--debug", "--some-future-flag", "--another=value", "positional"),
		withEvent(writeEvent(filepath.Join(tempDir, "go", "main.go"), "")),
		withResponse(func(r response) {
			as.Contains(r.SystemMessage, "formatted with gofmt")
		}),
	)
}

func TestProjectOnly(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "prettier")
	test.FakeFormatter(t, bin, "dprint")

	path := filepath.Join(tempDir, "node", "src", "index.js")

	hookFmt(t,
		withArgs("--debug", "--project-only"),
		withEvent(writeEvent(path, "")),
		withResponse(func(r response) {
			as.Contains(r.SystemMessage, "JavaScript/TypeScript: formatter not found")
		}),
	)

	hookFmt(t,
		withArgs("--debug"),
		withEvent(writeEvent(path, "")),
		withResponse(func(r response) {
			as.Contains(r.SystemMessage, "formatted with dprint")
		}),
	)

	// a project-local install is still used
	test.FakeFormatter(t, filepath.Join(tempDir, "node", "node_modules", ".bin"), "prettier")

	hookFmt(t,
		withArgs("--debug", "--project-only"),
		withEvent(writeEvent(path, "")),
		withResponse(func(r response) {
			as.Contains(r.SystemMessage, "formatted with prettier")
		}),
	)

	// a toolchain on PATH is used for files within its own kind of project
	test.FakeFormatter(t, bin, "gofmt")

	hookFmt(t,
		withArgs("--debug", "--project-only"),
		withEvent(writeEvent(filepath.Join(tempDir, "go", "main.go"), "")),
		withResponse(func(r response) {
			as.Contains(r.SystemMessage, "Go: formatted with gofmt")
		}),
	)
}

func TestEnv(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt")
	test.FakeFormatter(t, bin, "gofumpt")

	path := filepath.Join(tempDir, "go", "main.go")

	t.Setenv("RALPH_HOOK_FMT_DEBUG", "true")

	hookFmt(t, withEvent(writeEvent(path, "")), withResponse(func(r response) {
		as.Contains(r.SystemMessage, "formatted with gofumpt")
	}))

	t.Setenv("RALPH_HOOK_FMT_DISABLE", "gofumpt")

	hookFmt(t, withEvent(writeEvent(path, "")), withResponse(func(r response) {
		as.Contains(r.SystemMessage, "formatted with gofmt")
	}))
}

func TestConfigFile(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt")
	test.FakeFormatter(t, bin, "gofumpt")

	path := filepath.Join(tempDir, "go", "main.go")

	t.Run("found next to the file", func(t *testing.T) {
		hookFmt(t,
			withConfig(filepath.Join(tempDir, ".ralph-hook-fmt.toml"), &config.Config{
				Debug:   true,
				Disable: []string{"gofumpt"},
			}),
			withEvent(writeEvent(path, "")),
			withResponse(func(r response) {
				as.Contains(r.SystemMessage, "formatted with gofmt")
			}),
		)
	})

	t.Run("excludes", func(t *testing.T) {
		hookFmt(t,
			withConfig(filepath.Join(tempDir, "go", "ralph-hook-fmt.toml"), &config.Config{
				Debug:    true,
				Excludes: []string{"*.go"},
			}),
			withEvent(writeEvent(path, "")),
			withResponse(func(r response) {
				as.Equal("[ralph-hook-fmt] Skipped main.go", r.SystemMessage)
			}),
		)
	})

	t.Run("explicit", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.toml")

		hookFmt(t,
			withArgs("--config-file", configPath),
			withConfig(configPath, &config.Config{
				Debug:    true,
				Excludes: []string{"**/misc/**"},
			}),
			withEvent(writeEvent(filepath.Join(tempDir, "misc", "README.md"), "")),
			withResponse(func(r response) {
				as.Equal("[ralph-hook-fmt] Skipped README.md", r.SystemMessage)
			}),
		)
	})

	t.Run("invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "broken.toml")
		as.NoError(os.WriteFile(configPath, []byte("excludes = [\n"), 0o600))

		// an unreadable config file is ignored
		hookFmt(t,
			withArgs("--debug", "--config-file", configPath),
			withEvent(writeEvent(path, "")),
			withResponse(func(r response) {
				as.True(r.Continue)
				as.Contains(r.SystemMessage, "formatted with")
			}),
		)
	})
}

func TestInvalidOptions(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	test.BinDir(t)

	path := filepath.Join(tempDir, "go", "main.go")

	hookFmt(t,
		withArgs("--debug", "--timeout=-5s"),
		withEvent(writeEvent(path, "")),
		withResponse(func(r response) {
			as.Equal("[ralph-hook-fmt] config: timeout must be greater than zero", r.SystemMessage)
		}),
	)

	hookFmt(t,
		withArgs("--debug", "--excludes", "[unterminated"),
		withEvent(writeEvent(path, "")),
		withResponse(func(r response) {
			as.True(r.Continue)
			as.True(strings.HasPrefix(r.SystemMessage, "[ralph-hook-fmt] config: "), r.SystemMessage)
		}),
	)
}

func TestTimeout(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt", "PATH=/usr/bin:/bin exec sleep 30")

	hookFmt(t,
		withArgs("--debug", "--timeout", "200ms"),
		withEvent(writeEvent(filepath.Join(tempDir, "go", "main.go"), "")),
		withResponse(func(r response) {
			as.True(r.Continue)
			as.Contains(r.SystemMessage, "gofmt (Go) failed")
			as.Contains(r.SystemMessage, "timed out after 200ms")
		}),
	)
}

func TestVerbose(t *testing.T) {
	as := require.New(t)

	tempDir := test.TempExamples(t)
	bin := test.BinDir(t)
	test.FakeFormatter(t, bin, "gofmt")

	hookFmt(t,
		withArgs("-vv"),
		withEvent(writeEvent(filepath.Join(tempDir, "go", "main.go"), "")),
		withOutput(func(out string) {
			as.Equal("{\"continue\":true}\n", out)
		}),
		withStderr(func(out string) {
			as.Contains(out, "received event")
		}),
	)
}

type response struct {
	Continue      bool   `json:"continue"`
	SystemMessage string `json:"systemMessage"`
}

func writeEvent(path string, cwd string) string {
	event := map[string]any{
		"session_id":      "test",
		"hook_event_name": "PostToolUse",
		"tool_name":       "Write",
		"tool_input": map[string]any{
			"file_path": path,
			"content":   "",
		},
	}
	if cwd != "" {
		event["cwd"] = cwd
	}

	data, err := json.Marshal(event)
	if err != nil {
		panic(fmt.Errorf("failed to marshal event: %w", err))
	}

	return string(data)
}

type options struct {
	args  []string
	event string

	config struct {
		path  string
		value *config.Config
	}

	assertOut    func(string)
	assertStderr func(string)
}

type option func(*options)

func withArgs(args ...string) option {
	return func(o *options) {
		o.args = args
	}
}

func withEvent(event string) option {
	return func(o *options) {
		o.event = event
	}
}

func withConfig(path string, cfg *config.Config) option {
	return func(o *options) {
		o.config.path = path
		o.config.value = cfg
	}
}

func withOutput(fn func(string)) option {
	return func(o *options) {
		o.assertOut = fn
	}
}

func withStderr(fn func(string)) option {
	return func(o *options) {
		o.assertStderr = fn
	}
}

func withResponse(fn func(response)) option {
	return func(o *options) {
		o.assertOut = func(out string) {
			var r response
			if err := json.Unmarshal([]byte(out), &r); err != nil {
				panic(fmt.Errorf("response is not valid json: %q: %w", out, err))
			}

			fn(r)
		}
	}
}

func hookFmt(t *testing.T, opt ...option) {
	t.Helper()

	// build options
	opts := &options{}
	for _, option := range opt {
		option(opts)
	}

	// we must pass an empty array otherwise cobra will use os.Args[1:]
	args := opts.args
	if args == nil {
		args = []string{}
	}

	// write config
	if opts.config.value != nil {
		test.WriteConfig(t, opts.config.path, opts.config.value)
	}

	t.Logf("ralph-hook-fmt %s < %s", strings.Join(args, " "), opts.event)

	var stdout, stderr bytes.Buffer

	root := cmd.NewRoot()

	root.SetArgs(args)
	root.SetIn(strings.NewReader(opts.event))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	// the exit status is always zero
	require.NoError(t, root.Execute())

	t.Log("\n" + stderr.String())

	if opts.assertOut != nil {
		opts.assertOut(stdout.String())
	}

	if opts.assertStderr != nil {
		opts.assertStderr(stderr.String())
	}
}
