package format

import (
	"slices"

	"github.com/ralphhook/ralph-hook-fmt/lang"
	"github.com/ralphhook/ralph-hook-fmt/project"
)

var (
	nodeBin    = Local("node_modules/.bin", nodeRoot, "node_modules/.bin")
	venv       = Local("virtualenv", pythonRoot, ".venv/bin", "venv/bin")
	goTool     = GoTool()
	searchPath = SearchPath()

	goModule     = Toolchain("go.mod", goModuleRoot)
	cargoProject = Toolchain("Cargo.toml", cargoWorkspaceRoot)
	javaProject  = Toolchain("Java build", javaRoot)
)

// oxfmt is the shared formatter for JavaScript and the data and markup languages.
var oxfmt = &Candidate{
	Name:  "oxfmt",
	Steps: []Step{{Command: "oxfmt", Args: []string{"--write"}, Locators: []Locator{nodeBin, searchPath}}},
	Dir:   nodeRoot,
}

func nodeLocal(name string, args ...string) *Candidate {
	return &Candidate{
		Name:  name,
		Steps: []Step{{Command: name, Args: args, Locators: []Locator{nodeBin}}},
		Dir:   nodeRoot,
	}
}

func python(name string, args ...string) *Candidate {
	return &Candidate{
		Name:  name,
		Steps: []Step{{Command: name, Args: args, Locators: []Locator{venv, searchPath}}},
		Dir:   pythonRoot,
	}
}

func global(name string, args ...string) *Candidate {
	return &Candidate{
		Name:  name,
		Steps: []Step{{Command: name, Args: args, Locators: []Locator{searchPath}}},
	}
}

func goStep(name string) Step {
	locators := []Locator{goTool, goModule, searchPath}
	if name == "gofmt" {
		// gofmt ships with the toolchain and cannot be declared as a tool
		locators = []Locator{goModule, searchPath}
	}

	return Step{Command: name, Args: []string{"-w"}, Locators: locators}
}

func gofmt(names ...string) *Candidate {
	c := &Candidate{Dir: goModuleRoot}

	for i, name := range names {
		if i > 0 {
			c.Name += " + "
		}

		c.Name += name
		c.Steps = append(c.Steps, goStep(name))
	}

	return c
}

// spotless applies when the nearest build descriptor, or one of its parents, configures the spotless plugin.
func spotless(descriptors ...string) Predicate {
	declares := func(path string) bool {
		return project.Declares(path, "spotless")
	}

	return func(t *Target) bool {
		if _, err := project.JavaRoot(t.Path); err != nil {
			return false
		}

		_, _, err := project.FindUpFunc(t.Dir(), declares, descriptors...)

		return err == nil
	}
}

func inCargoProject(t *Target) bool {
	_, err := project.CargoCrate(t.Path)

	return err == nil
}

// rustEdition passes on the edition from Cargo.toml, rustfmt assumes 2015 without it.
func rustEdition(t *Target) []string {
	crate, err := project.CargoCrate(t.Path)
	if err != nil || crate.Edition == "" {
		return nil
	}

	return []string{"--edition", crate.Edition}
}

// registry maps each language to its formatters in order of preference.
// It is initialised once and never modified, ChainFor hands out copies.
var registry = map[lang.Language]Chain{
	lang.JavaScript: {
		oxfmt,
		nodeLocal("biome", "format", "--write"),
		nodeLocal("prettier", "--write"),
		{
			Name:  "dprint",
			Steps: []Step{{Command: "dprint", Args: []string{"fmt"}, Locators: []Locator{nodeBin, searchPath}}},
			Dir:   nodeRoot,
		},
	},
	lang.Rust: {
		{
			Name:    "cargo fmt",
			Steps:   []Step{{Command: "cargo", Args: []string{"fmt", "--", FilePlaceholder}, Locators: []Locator{cargoProject}}},
			Applies: inCargoProject,
			Dir:     cargoWorkspaceRoot,
		},
		{
			Name:  "rustfmt",
			Steps: []Step{{Command: "rustfmt", Options: rustEdition, Locators: []Locator{searchPath}}},
		},
	},
	lang.Python: {
		python("ruff", "format"),
		python("black"),
		python("autopep8", "--in-place"),
		python("yapf", "-i"),
	},
	lang.Java: {
		{
			Name: "spotless (Maven)",
			Steps: []Step{{
				Command:  "mvn",
				Args:     []string{"spotless:apply", "-DspotlessFiles=" + FilePlaceholder},
				Locators: []Locator{Wrapper("mvnw", javaRoot), javaProject},
			}},
			Applies: spotless("pom.xml"),
			Dir:     javaRoot,
		},
		{
			Name: "spotless (Gradle)",
			Steps: []Step{{
				Command:  "gradle",
				Args:     []string{"spotlessApply", "-PspotlessIdeHook=" + FilePlaceholder},
				Locators: []Locator{Wrapper("gradlew", javaRoot), javaProject},
			}},
			Applies: spotless("build.gradle", "build.gradle.kts"),
			Dir:     javaRoot,
		},
		global("google-java-format", "--replace"),
		global("palantir-java-format", "--replace"),
	},
	lang.Go: {
		gofmt("goimports", "gofumpt"),
		gofmt("gofumpt"),
		gofmt("goimports"),
		gofmt("gofmt"),
	},
	lang.JSON:       {oxfmt},
	lang.YAML:       {oxfmt},
	lang.TOML:       {oxfmt},
	lang.HTML:       {oxfmt},
	lang.Vue:        {oxfmt},
	lang.CSS:        {oxfmt},
	lang.Markdown:   {oxfmt},
	lang.GraphQL:    {oxfmt},
	lang.Handlebars: {oxfmt},
}

// ChainFor returns the formatters for l in order of preference.
// Unsupported and skipped languages have an empty chain.
func ChainFor(l lang.Language) Chain {
	return slices.Clone(registry[l])
}
