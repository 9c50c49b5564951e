package cli

import (
	"fmt"
	"io"
)

type SettingsCmd struct {
	Get SettingsGetCmd `cmd:"" help:"Read a setting."`
	Set SettingsSetCmd `cmd:"" help:"Write a setting."`
}

type SettingsGetCmd struct {
	Key     string `arg:"" help:"Setting key."`
	Default string `help:"Value to print when the key is unset." default:""`
}

func (c *SettingsGetCmd) Run(ctx *Context) error {
	value, err := ctx.Store.GetSetting(ctx, c.Key, c.Default)
	if err != nil {
		return err
	}

	return ctx.Render(map[string]string{"key": c.Key, "value": value}, func(w io.Writer) error {
		fmt.Fprintln(w, value)
		return nil
	})
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key."`
	Value string `arg:"" help:"Setting value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.SetSetting(ctx, c.Key, c.Value); err != nil {
		return err
	}

	return ctx.Render(map[string]any{"success": true}, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ %s = %q\n", c.Key, c.Value)
		return nil
	})
}
