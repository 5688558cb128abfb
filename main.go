package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/sadopc/vitalog/internal/cli"
	"github.com/sadopc/vitalog/internal/logger"
	"github.com/sadopc/vitalog/internal/store"
)

var version = "dev"

var CLI struct {
	Version kong.VersionFlag `help:"Show version and exit."`
	DB      string           `help:"Path to the SQLite database." env:"VITALOG_DB" type:"path"`
	User    string           `help:"User id to log as. Defaults to the generated local id." env:"VITALOG_USER"`
	Debug   bool             `help:"Verbose logging, mirrored to stderr."`

	Tui      cli.TuiCmd      `cmd:"" default:"1" help:"Open the interactive dashboard."`
	Log      cli.LogCmd      `cmd:"" help:"Record measurements for a day."`
	Show     cli.ShowCmd     `cmd:"" help:"Print one day's log."`
	Complete cli.CompleteCmd `cmd:"" help:"Mark a day as completed."`
	Streak   cli.StreakCmd   `cmd:"" help:"Show the current streak."`
	Stats    cli.StatsCmd    `cmd:"" help:"Weekly averages and trends."`
	Insights cli.InsightsCmd `cmd:"" help:"Suggestions based on recent days."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Export   cli.ExportCmd   `cmd:"" help:"Export all logs to CSV or JSON."`
	Import   cli.ImportCmd   `cmd:"" help:"Import daily wearable summaries."`
	Config   cli.ConfigCmd   `cmd:"" help:"View or change settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vitalog"),
		kong.Description("Daily health log with streaks, weekly trends and insights"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": version},
	)

	dbPath := CLI.DB
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, Dir: filepath.Dir(dbPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening database: %v\n", err)
		os.Exit(1)
	}

	userID := CLI.User
	if userID == "" {
		userID, err = s.UserID()
		if err != nil {
			s.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	appCtx := &cli.Context{Store: s, UserID: userID}
	err = ctx.Run(appCtx)
	s.Close()
	if err != nil {
		logger.Error("command failed", "command", ctx.Command(), "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Close()
		os.Exit(1)
	}
}
