package publish

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"easycv/common"
	"easycv/interact"
	"easycv/state"
)

// ThemeShow prints persisted theme.
func ThemeShow(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	store, err := openThemeStore(env)
	if err != nil {
		return err
	}
	t := interact.NewController("cli", store, interact.WithLogger(env.Log)).Theme()
	_, err = fmt.Fprintln(cmd.Root().Writer, t)
	return err
}

// ThemeSet persists theme given as the only argument.
func ThemeSet(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("exactly one theme expected (%s)", strings.Join(common.ThemeNames(), ", "))
	}
	t, err := common.ParseTheme(cmd.Args().First())
	if err != nil {
		return err
	}
	store, err := openThemeStore(env)
	if err != nil {
		return err
	}
	if err := store.Set(interact.ThemeKey, t.String()); err != nil {
		return fmt.Errorf("unable to store theme: %w", err)
	}
	env.Log.Info("Theme stored", zap.Stringer("theme", t))
	return nil
}

// ThemeCycle advances persisted theme the same way theme toggle does.
func ThemeCycle(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	store, err := openThemeStore(env)
	if err != nil {
		return err
	}
	ctrl := interact.NewController("cli", store, interact.WithLogger(env.Log))
	t := ctrl.ToggleTheme()
	_, err = fmt.Fprintln(cmd.Root().Writer, t)
	return err
}

func openThemeStore(env *state.LocalEnv) (interact.PreferenceStore, error) {
	store, err := env.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("unable to open preferences: %w", err)
	}
	if env.Cfg.Preferences.Store != "sqlite" {
		env.Log.Warn("Preferences are kept in memory, theme will not survive program exit")
	}
	return store, nil
}
