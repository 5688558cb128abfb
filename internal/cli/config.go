package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/sadopc/vitalog/internal/dailylog"
	"github.com/sadopc/vitalog/internal/store"
)

type ConfigCmd struct {
	List ConfigListCmd `cmd:"" default:"1" help:"Show all settings."`
	Set  ConfigSetCmd  `cmd:"" help:"Change a setting."`
}

type ConfigListCmd struct{}

func (c *ConfigListCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetAllSettings()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(ctx.out(), 0, 4, 2, ' ', 0)
	for _, s := range settings {
		fmt.Fprintf(w, "%s\t%s\n", s.Key, s.Value)
	}
	return w.Flush()
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting key: sleep_goal, exercise_goal, week_start or default_source."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Validate() error {
	return validateSetting(c.Key, c.Value)
}

func (c *ConfigSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.SetSetting(c.Key, c.Value); err != nil {
		return err
	}
	ctx.printf("%s = %s\n", c.Key, c.Value)
	return nil
}

func validateSetting(k, v string) error {
	switch k {
	case store.SettingSleepGoal, store.SettingExerciseGoal:
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 1440 {
			return fmt.Errorf("%s must be minutes between 0 and 1440", k)
		}
	case store.SettingWeekStart:
		if v != "monday" && v != "sunday" {
			return fmt.Errorf("%s must be monday or sunday", k)
		}
	case store.SettingDefaultSource:
		if s := dailylog.Source(v); s != dailylog.SourceManual && s != dailylog.SourceWearable {
			return fmt.Errorf("%s must be manual or wearable", k)
		}
	case store.SettingUserID:
		return fmt.Errorf("%s is generated and cannot be changed", k)
	default:
		return fmt.Errorf("unknown setting %q", k)
	}
	return nil
}
