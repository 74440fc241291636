package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/cli"
)

// Version is set via ldflags at build time
var Version = "dev"

var CLI struct {
	Version  kong.VersionFlag
	Timezone string `help:"IANA timezone for schedules." env:"REMINDER_TIMEZONE"`

	Preview  cli.PreviewCmd  `cmd:"" help:"Print upcoming reminders of a schedule profile."`
	Identify cli.IdentifyCmd `cmd:"" help:"Classify notification identifiers."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Convert legacy settings into a schedule profile."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("reminderctl"),
		kong.Description("Inspect exercise reminder schedules"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	loc := time.Local
	if CLI.Timezone != "" {
		l, err := time.LoadLocation(CLI.Timezone)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid timezone %q: %v\n", CLI.Timezone, err)
			os.Exit(1)
		}
		loc = l
	}

	if err := ctx.Run(&cli.Context{Out: os.Stdout, Location: loc}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
