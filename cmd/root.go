package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ralphhook/ralph-hook-fmt/build"
	"github.com/ralphhook/ralph-hook-fmt/cmd/format"
	"github.com/ralphhook/ralph-hook-fmt/config"
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	var configFile string

	// create a viper instance for reading in config
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:     build.Name + " [flags] < event.json",
		Short:   "Formats the file named by a tool-use event with the best formatter available for it",
		Version: build.Version,
		Args:    cobra.ArbitraryArgs,
		// errors are reported to the host in the response, never via usage or a non-zero exit
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return format.Run(v, cmd, configFile)
		},
	}

	cmd.SetVersionTemplate(build.Name + " {{.Version}}\n")

	fs := cmd.Flags()

	// add our config flags to the command's flag set
	config.SetFlags(fs)

	fs.StringVar(
		&configFile, "config-file", "",
		"Load the config file from the given path (defaults to searching upwards from the formatted file for "+
			".ralph-hook-fmt.toml or ralph-hook-fmt.toml).",
	)
	fs.BoolP("version", "V", false, "Print the version.")

	// bind our command's flags to viper
	if err := v.BindPFlags(fs); err != nil {
		// only fails for a nil flag set
		log.Error(fmt.Errorf("failed to bind flags to viper: %w", err))
	}

	return cmd
}
