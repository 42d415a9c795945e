package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/ralphhook/ralph-hook-fmt/cmd"
	"github.com/ralphhook/ralph-hook-fmt/hook"
)

func main() {
	if err := cmd.NewRoot().Execute(); err != nil {
		// the host must never be blocked, so even a bad invocation gets told to continue and we exit 0
		log.Error(err)

		if err = hook.Continue().Write(os.Stdout); err != nil {
			log.Error(err)
		}
	}
}
