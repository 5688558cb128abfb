package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/vitalog/internal/analytics"
	"github.com/sadopc/vitalog/internal/export"
	"github.com/sadopc/vitalog/internal/logger"
	"github.com/sadopc/vitalog/internal/wearable"
)

type ExportCmd struct {
	Format string `short:"f" enum:"csv,json" default:"csv" help:"Output format: csv or json."`
	Out    string `short:"o" type:"path" help:"Output file. Defaults to vitalog-export-<date> in the home directory."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	records, err := ctx.allLogs()
	if err != nil {
		return err
	}

	path := c.Out
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, fmt.Sprintf("vitalog-export-%s.%s", ctx.now().Format("2006-01-02"), c.Format))
	}

	switch c.Format {
	case "json":
		habitKeys, err := ctx.Store.HabitKeys()
		if err != nil {
			return err
		}
		sum := analytics.Summarize(records, habitKeys, ctx.now())
		err = export.ToJSON(records, &sum, path)
		if err != nil {
			return err
		}
	default:
		if err := export.ToCSV(records, path); err != nil {
			return err
		}
	}

	logger.Info("exported logs", "path", path, "format", c.Format, "count", len(records))
	ctx.printf("Exported %s to %s\n", plural(len(records), "day"), path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON file of daily wearable summaries."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	days, err := wearable.ReadFile(c.File)
	if err != nil {
		return err
	}
	res, err := wearable.Import(ctx.Store, ctx.UserID, days)
	if err != nil {
		return err
	}
	ctx.printf("Imported %s: %d new, %d merged, %d skipped",
		plural(len(days), "day"), res.Created, res.Merged, res.Skipped)
	if res.Dropped > 0 {
		ctx.printf(", %s out of range", plural(res.Dropped, "value"))
	}
	ctx.printf("\n")
	return nil
}
