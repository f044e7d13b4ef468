package cli

import (
	"context"
	"os"

	"github.com/UdayKhare09/Elrond/internal/client/config"
	"github.com/UdayKhare09/Elrond/internal/flagx"
)

// Main loads configuration and runs the command named in os.Args, or the
// prompt loop when none is given. It returns the process exit code.
func Main(ctx context.Context) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		printlnFn("error:", err)
		return 2
	}

	args := flagx.Positional(os.Args[1:], config.ValueFlags)
	if err := NewApp(cfg).Run(ctx, args); err != nil {
		printlnFn("error:", describe(err))
		return 1
	}
	return 0
}
