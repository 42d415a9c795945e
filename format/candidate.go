package format

import (
	"strings"
)

// FilePlaceholder is replaced with the target's path wherever it appears in a Step's Args.
const FilePlaceholder = "{file}"

// Predicate reports whether a Candidate can be applied to a Target, beyond its executable being available.
type Predicate func(t *Target) bool

// Step is a single command invocation.
type Step struct {
	Command string
	// Args are passed to Command. If none of them contain FilePlaceholder the target's path is appended.
	Args []string
	// Options is optional and returns arguments derived from the target, which precede Args.
	Options func(t *Target) []string
	// Locators are searched in order for Command's executable.
	Locators []Locator
}

// args returns the arguments for invoking the step against t.
func (s Step) args(t *Target) []string {
	path := t.Path
	args := make([]string, 0, len(s.Args)+1)
	substituted := false

	if s.Options != nil {
		args = append(args, s.Options(t)...)
	}

	for _, arg := range s.Args {
		if strings.Contains(arg, FilePlaceholder) {
			arg = strings.ReplaceAll(arg, FilePlaceholder, path)
			substituted = true
		}

		args = append(args, arg)
	}

	if !substituted {
		args = append(args, path)
	}

	return args
}

// Candidate is a formatter which may be used for a language.
type Candidate struct {
	Name string
	// Steps are run in sequence, all of them must be located for the candidate to be selected.
	Steps []Step
	// Applies is optional, a nil Predicate always applies.
	Applies Predicate
	// Dir is optional and determines the working directory, defaulting to the directory containing the target.
	Dir RootFunc
}

// Chain is an ordered list of candidates, the first to be both applicable and located is used.
type Chain []*Candidate

// Names returns the candidate names in priority order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, candidate := range c {
		names[i] = candidate.Name
	}

	return names
}
