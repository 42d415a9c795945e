package format

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/ralphhook/ralph-hook-fmt/config"
	"github.com/ralphhook/ralph-hook-fmt/format"
	"github.com/ralphhook/ralph-hook-fmt/hook"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Run reads a tool-use event from stdin, formats the file it names and writes the response to stdout.
// Every failure is reported through the response, so Run only ever returns nil.
func Run(v *viper.Viper, cmd *cobra.Command, configFile string) error {
	stdout := cmd.OutOrStdout()

	cfg, err := config.FromViper(v)
	if err != nil {
		respond(stdout, hook.ErrorResponse(format.StageConfig, err, v.GetBool("debug")))

		return nil
	}

	configureLogging(cmd.ErrOrStderr(), cfg.Verbose)

	event, err := hook.ReadEvent(cmd.InOrStdin())
	if err != nil {
		log.Debugf("failed to read event: %v", err)
		respond(stdout, hook.ErrorResponse(format.StageInput, err, cfg.Debug))

		return nil
	}

	path := event.Path()

	log.Debug("received event", "hook", event.HookEventName, "tool", event.ToolName, "path", path)

	// a config file alongside the formatted file may adjust our behaviour
	if configPath := config.Find(configFile, filepath.Dir(path)); configPath != "" {
		log.Debugf("using config file: %s", configPath)

		if err = config.Load(v, configPath); err != nil {
			log.Warn(err)
		} else if fileCfg, err := config.FromViper(v); err != nil {
			log.Warn(err)
		} else {
			cfg = fileCfg

			configureLogging(cmd.ErrOrStderr(), cfg.Verbose)
		}
	}

	dispatcher, err := format.NewDispatcher(format.Options{
		ProjectOnly: cfg.ProjectOnly,
		Disabled:    cfg.Disable,
		Excludes:    cfg.Excludes,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		respond(stdout, hook.ErrorResponse(format.StageConfig, err, cfg.Debug))

		return nil
	}

	outcome := dispatcher.Format(cmd.Context(), path)
	if outcome.Failed() {
		log.Warn(
			"format failed",
			"path", outcome.Path, "stage", outcome.Stage, "formatter", outcome.Formatter, "err", outcome.Err,
		)
	}

	respond(stdout, hook.NewResponse(outcome, cfg.Debug))

	return nil
}

func respond(w io.Writer, r hook.Response) {
	if err := r.Write(w); err != nil {
		log.Error(err)
	}
}

func configureLogging(w io.Writer, verbosity uint8) {
	log.SetOutput(w)
	log.SetReportTimestamp(false)

	switch verbosity {
	case 0:
		log.SetLevel(log.WarnLevel)
	case 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.DebugLevel)
	}
}
