package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/forge-app/forge-api/internal/config"
	"github.com/forge-app/forge-api/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
)

// Context is handed to every command.
type Context struct {
	Config *config.Config
}

var CLI struct {
	Serve        ServeCmd        `cmd:"" help:"Run the HTTP API." default:"1"`
	Migrate      MigrateCmd      `cmd:"" help:"Create or update the database schema."`
	SweepPrayers SweepPrayersCmd `cmd:"" help:"Mark unrecorded prayers of a past day as missed for every user."`
	Version      VersionCmd      `cmd:"" help:"Print the version."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("forge"),
		kong.Description("Forge personal life-management API"),
		kong.UsageOnError(),
	)

	if ctx.Command() == "version" {
		ctx.FatalIfErrorf(ctx.Run(&Context{}))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.IsProduction(), cfg.LogFile)
	logger.SetLevel(cfg.LogLevel)

	if err := ctx.Run(&Context{Config: cfg}); err != nil {
		logger.Log.Error().Err(err).Str("command", ctx.Command()).Msg("command failed")
		os.Exit(1)
	}
}
