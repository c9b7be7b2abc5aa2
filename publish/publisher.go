// Package publish renders CV documents from disk into standalone XHTML pages.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"easycv/config"
	"easycv/cv"
	"easycv/dom"
	"easycv/interact"
	"easycv/render"
	"easycv/styles"
)

// Publisher turns sources into pages under destination directory.
type Publisher struct {
	Cfg        *config.Config
	Rpt        *config.Report
	Store      interact.PreferenceStore
	Stylesheet []byte
	Dst        string
	Overwrite  bool
	// Actions may be switched off from command line regardless of
	// configuration.
	Actions bool

	log *zap.Logger
}

func New(cfg *config.Config, dst string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		Cfg:       cfg,
		Dst:       dst,
		Overwrite: cfg.Output.Overwrite,
		Actions:   cfg.Render.Actions,
		log:       log.Named("publish"),
	}
}

// Publish renders all sources concurrently. Failure of one source does not
// stop others, all failures are returned together.
func (p *Publisher) Publish(ctx context.Context, sources []Source) error {
	var (
		mu   sync.Mutex
		errs error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Cfg.Output.WorkerCount())

	for _, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := p.PublishOne(src); err != nil {
				p.log.Error("Unable to process file", zap.String("file", src.Path), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", src.Rel, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errs
}

// PublishOne renders single source and returns name of produced page.
func (p *Publisher) PublishOne(src Source) (outputName string, rerr error) {
	log := p.log.With(zap.String("from", src.Rel))
	log.Info("Rendering starting")
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Rendering ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("rendering panic: %v", r)
		} else if rerr == nil {
			log.Info("Rendering completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	doc, err := cv.LoadFile(src.Path)
	if err != nil {
		return "", fmt.Errorf("unable to load document: %w", err)
	}
	if err := p.Rpt.StoreCopy("source/"+filepath.ToSlash(src.Rel), src.Path); err != nil {
		log.Debug("Unable to store source in report", zap.Error(err))
	}

	outputName = OutputPath(doc, src, p.Dst, &p.Cfg.Output, log)
	if err := p.prepareDestination(outputName, log); err != nil {
		return "", err
	}

	page, err := p.Page(doc)
	if err != nil {
		return "", err
	}

	f, err := os.Create(outputName)
	if err != nil {
		return "", fmt.Errorf("unable to create output: %w", err)
	}
	_, err = page.WriteTo(f)
	if err = multierr.Append(err, f.Close()); err != nil {
		return "", fmt.Errorf("unable to write output: %w", err)
	}

	p.Rpt.Store("result/"+filepath.ToSlash(src.Rel)+OutputExt, outputName)
	return outputName, nil
}

func (p *Publisher) prepareDestination(outputName string, log *zap.Logger) error {
	_, err := os.Stat(outputName)
	switch {
	case err == nil:
		if !p.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
		return nil
	default:
		return err
	}
}

// Page renders document onto a fresh page configured from Cfg.
func (p *Publisher) Page(doc *cv.Document) (*dom.Page, error) {
	page := dom.NewPage(dom.PageOptions{
		Language:   p.Cfg.Page.Tag(),
		Stylesheet: p.Stylesheet,
		MountID:    p.Cfg.Page.Mount,
	})

	r := render.New(page, p.log,
		render.WithStore(p.Store),
		render.WithPrintFallbackDelay(p.Cfg.Render.PrintFallbackDelay))

	root, err := r.RenderCV("#"+p.Cfg.Page.Mount, doc, render.Options{
		NoActions:         !p.Actions,
		KeepDocumentTitle: !p.Cfg.Render.SetDocumentTitle,
		TitleTemplate:     p.Cfg.Render.TitleTemplate,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render document: %w", err)
	}

	if p.Actions {
		style := page.Head().CreateElement("style")
		style.CreateAttr("type", "text/css")
		style.SetText(styles.IsolationRule(root.SelectAttrValue(interact.PrintIDAttr, "")))
	}
	return page, nil
}
