package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ralphhook/ralph-hook-fmt/lang"
)

// ErrNoFormatter is returned when none of the candidates for a language could be resolved.
var ErrNoFormatter = errors.New("formatter not found")

// Attempt records why a candidate was passed over.
type Attempt struct {
	Candidate string
	Reason    string
}

func (a Attempt) String() string {
	return a.Candidate + ": " + a.Reason
}

// NotFoundError describes a failed resolution.
type NotFoundError struct {
	Language lang.Language
	Attempts []Attempt
}

func (e *NotFoundError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: %v", e.Language, ErrNoFormatter)
	}

	tried := make([]string, len(e.Attempts))
	for i, attempt := range e.Attempts {
		tried[i] = attempt.String()
	}

	return fmt.Sprintf("%s: %v (tried %s)", e.Language, ErrNoFormatter, strings.Join(tried, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNoFormatter
}

// Command is a located Step, ready to run.
type Command struct {
	Executable *Executable
	Args       []string
}

// Argv returns the full command line.
func (c *Command) Argv() []string {
	argv := []string{c.Executable.Path}
	argv = append(argv, c.Executable.Args...)

	return append(argv, c.Args...)
}

// Selection is the outcome of a successful resolution.
type Selection struct {
	Candidate *Candidate
	Commands  []*Command
	// Dir is the working directory for Commands.
	Dir string
	// Attempts lists the higher priority candidates which were passed over.
	Attempts []Attempt
}

// Resolver selects a formatter for a Target.
type Resolver struct {
	projectOnly bool
	disabled    map[string]bool

	log *log.Logger
}

// NewResolver creates a Resolver.
// When projectOnly is set, only executables installed within the target's project are considered.
// Candidates named in disabled are never selected.
func NewResolver(projectOnly bool, disabled []string) *Resolver {
	r := &Resolver{
		projectOnly: projectOnly,
		disabled:    make(map[string]bool, len(disabled)),
		log:         log.WithPrefix("format | resolve"),
	}

	for _, name := range disabled {
		r.disabled[name] = true
	}

	return r
}

// Resolve walks the chain for the target's language in order, returning the first candidate which applies to the
// target and whose commands can all be located. Lower priority candidates are not examined once one is selected.
// A *NotFoundError is returned if no candidate can be used.
func (r *Resolver) Resolve(t *Target) (*Selection, error) {
	var attempts []Attempt

	chain := ChainFor(t.Language)
	r.log.Debugf("candidates for %s: %s", t.Path, strings.Join(chain.Names(), ", "))

	for _, candidate := range chain {
		if r.disabled[candidate.Name] {
			attempts = append(attempts, Attempt{candidate.Name, "disabled"})

			continue
		}

		if candidate.Applies != nil && !candidate.Applies(t) {
			r.log.Debugf("%s does not apply to %s", candidate.Name, t.Path)
			attempts = append(attempts, Attempt{candidate.Name, "not applicable"})

			continue
		}

		commands, err := r.locate(candidate, t)
		if err != nil {
			r.log.Debugf("%s: %v", candidate.Name, err)
			attempts = append(attempts, Attempt{candidate.Name, "not found"})

			continue
		}

		dir := t.Dir()
		if candidate.Dir != nil {
			if d, err := candidate.Dir(t); err == nil {
				dir = d
			}
		}

		r.log.Debugf("selected %s for %s", candidate.Name, t.Path)

		return &Selection{
			Candidate: candidate,
			Commands:  commands,
			Dir:       dir,
			Attempts:  attempts,
		}, nil
	}

	return nil, &NotFoundError{Language: t.Language, Attempts: attempts}
}

func (r *Resolver) locate(candidate *Candidate, t *Target) ([]*Command, error) {
	commands := make([]*Command, 0, len(candidate.Steps))

	for _, step := range candidate.Steps {
		exe, err := r.locateStep(step, t)
		if err != nil {
			return nil, err
		}

		commands = append(commands, &Command{Executable: exe, Args: step.args(t)})
	}

	return commands, nil
}

func (r *Resolver) locateStep(step Step, t *Target) (*Executable, error) {
	var errs []error

	for _, locator := range step.Locators {
		if locator.Global && r.projectOnly {
			continue
		}

		exe, err := locator.Locate(t, step.Command)
		if err == nil {
			r.log.Debugf("located %s via %s: %s", step.Command, locator.Name, exe.Path)

			return exe, nil
		}

		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%s: %w", step.Command, ErrCommandNotFound)
	}

	return nil, fmt.Errorf("%s: %w", step.Command, errors.Join(errs...))
}
