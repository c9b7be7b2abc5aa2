package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"easycv/state"
	"easycv/styles"
)

// Run is the render command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return errors.New("no input source has been specified")
	}

	dst := cmd.String("output")
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	stylesheet, err := styles.Load(env.Cfg.Page.StylesheetPath, env.Cfg.Page.InlineDefaultStylesheet, log)
	if err != nil {
		return err
	}
	store, err := env.OpenStore()
	if err != nil {
		return fmt.Errorf("unable to open preferences: %w", err)
	}

	p := New(env.Cfg, dst, env.Log)
	p.Rpt = env.Rpt
	p.Store = store
	p.Stylesheet = stylesheet
	if cmd.Bool("overwrite") {
		p.Overwrite = true
	}
	if cmd.Bool("no-actions") {
		p.Actions = false
	}

	log.Info("Processing starting", zap.Strings("sources", args), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if cmd.Bool("watch") {
		w, err := NewWatcher(p, args, env.Cfg.Output.WatchDebounce)
		if err != nil {
			return fmt.Errorf("unable to start watching: %w", err)
		}
		return w.Run(ctx)
	}

	sources, err := Collect(args, log)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		log.Warn("No documents found", zap.Strings("sources", args))
		return nil
	}
	return p.Publish(ctx, sources)
}
