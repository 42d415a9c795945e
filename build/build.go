package build

var (
	Name    = "ralph-hook-fmt"
	Version = "v0.0.0+dev"
)
