package lang

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Language identifies the family of formatters a file belongs to.
type Language int

const (
	Unsupported Language = iota
	Skipped
	JavaScript
	Rust
	Python
	Java
	Go
	JSON
	YAML
	TOML
	HTML
	Vue
	CSS
	Markdown
	GraphQL
	Handlebars
)

var names = map[Language]string{
	Unsupported: "unsupported",
	Skipped:     "skipped",
	JavaScript:  "JavaScript/TypeScript",
	Rust:        "Rust",
	Python:      "Python",
	Java:        "Java",
	Go:          "Go",
	JSON:        "JSON",
	YAML:        "YAML",
	TOML:        "TOML",
	HTML:        "HTML",
	Vue:         "Vue",
	CSS:         "CSS",
	Markdown:    "Markdown",
	GraphQL:     "GraphQL",
	Handlebars:  "Handlebars",
}

func (l Language) String() string {
	if name, ok := names[l]; ok {
		return name
	}

	return "unknown"
}

var extensions = map[string]Language{
	".js":         JavaScript,
	".jsx":        JavaScript,
	".ts":         JavaScript,
	".tsx":        JavaScript,
	".mjs":        JavaScript,
	".cjs":        JavaScript,
	".mts":        JavaScript,
	".cts":        JavaScript,
	".rs":         Rust,
	".py":         Python,
	".pyi":        Python,
	".java":       Java,
	".go":         Go,
	".json":       JSON,
	".jsonc":      JSON,
	".json5":      JSON,
	".yaml":       YAML,
	".yml":        YAML,
	".toml":       TOML,
	".html":       HTML,
	".htm":        HTML,
	".vue":        Vue,
	".css":        CSS,
	".scss":       CSS,
	".less":       CSS,
	".md":         Markdown,
	".markdown":   Markdown,
	".mdx":        Markdown,
	".graphql":    GraphQL,
	".gql":        GraphQL,
	".hbs":        Handlebars,
	".handlebars": Handlebars,
}

// skipNames are files which must never be rewritten, whatever their extension says.
// Formatting package.json can reorder keys and upset package managers.
var skipNames = map[string]struct{}{
	"package.json": {},
}

// interpreters maps a shebang interpreter to the language of the script.
var interpreters = map[string]Language{
	"python":  Python,
	"python2": Python,
	"python3": Python,
	"node":    JavaScript,
	"deno":    JavaScript,
	"bun":     JavaScript,
}

// Classify determines the Language of the file at path.
// Files without an extension are classified by their shebang, if they have one.
func Classify(path string) Language {
	base := filepath.Base(path)
	if _, ok := skipNames[base]; ok {
		return Skipped
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return fromShebang(path)
	}

	if l, ok := extensions[ext]; ok {
		return l
	}

	return Unsupported
}

func fromShebang(path string) Language {
	interpreter := Shebang(path)
	if interpreter == "" {
		return Unsupported
	}

	if l, ok := interpreters[interpreter]; ok {
		return l
	}

	return Unsupported
}

// Shebang returns the interpreter named by the first line of the file at path, e.g. `python3` for both
// `#!/usr/bin/python3` and `#!/usr/bin/env -S python3 -u`.
// An empty string is returned if the file cannot be read or has no shebang.
func Shebang(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	reader := bufio.NewReader(f)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}

	line, ok := strings.CutPrefix(strings.TrimSpace(line), "#!")
	if !ok {
		return ""
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	interpreter := filepath.Base(fields[0])
	if interpreter != "env" {
		return interpreter
	}

	// skip any flags passed to env, the first remaining field is the interpreter
	for _, field := range fields[1:] {
		if !strings.HasPrefix(field, "-") {
			return filepath.Base(field)
		}
	}

	return ""
}
