// Package interact implements behavior attached to rendered CV: persisted
// theme cycling and print isolation of a single render on a shared page.
package interact

import (
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"easycv/common"
	"easycv/dom"
)

// Controller belongs to exactly one render.
type Controller struct {
	id    string
	store PreferenceStore
	clock Clock
	delay time.Duration
	log   *zap.Logger

	theme common.Theme

	host    Host
	root    *etree.Element
	toggle  *etree.Element
	options []*etree.Element
	slider  *etree.Element

	// cancels pending print marker cleanup
	cancelPrint func()
}

type Option func(*Controller)

func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithPrintFallbackDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// NewController reads current theme from the store once. Missing, unreadable
// or unknown value means system theme.
func NewController(id string, store PreferenceStore, opts ...Option) *Controller {
	c := &Controller{
		id:    id,
		store: store,
		clock: SystemClock{},
		delay: DefaultPrintFallbackDelay,
		log:   zap.NewNop(),
		theme: common.ThemeSystem,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("interact").With(zap.String("print_id", id))

	if store == nil {
		return c
	}
	value, ok, err := store.Get(ThemeKey)
	switch {
	case err != nil:
		c.log.Warn("Unable to read theme preference, using system", zap.Error(err))
	case !ok:
	default:
		if t, err := common.ParseTheme(value); err == nil {
			c.theme = t
		} else {
			c.log.Debug("Ignoring unknown theme preference", zap.String("value", value))
		}
	}
	return c
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) Theme() common.Theme {
	return c.theme
}

// Attach applies current theme to root and binds page controls found under
// it. With nil host only the theme is applied, controls stay inert.
// Attaching again to the same host and root changes nothing.
func (c *Controller) Attach(host Host, root *etree.Element) {
	if host != nil && c.host == host && c.root == root {
		return
	}
	c.host, c.root = host, root
	c.toggle, c.options, c.slider = nil, nil, nil
	if host == nil {
		c.applyTheme()
		return
	}

	for _, el := range root.FindElements(".//*[@" + ActionAttr + "]") {
		switch el.SelectAttrValue(ActionAttr, "") {
		case ActionToggleTheme:
			c.toggle = el
			c.options = el.FindElements(".//*[@" + ThemeOptAttr + "]")
			c.slider = el.FindElement(".//div[@class='theme-toggle-slider']")
			host.On(el, func() { c.ToggleTheme() })
		case ActionPrint:
			host.On(el, c.Print)
		case ActionScrollTop:
			host.On(el, c.ScrollToTop)
		}
	}
	c.applyTheme()
}

// ToggleTheme advances theme one step, persists it and applies it.
func (c *Controller) ToggleTheme() common.Theme {
	next := c.theme.Next()
	if c.store != nil {
		if err := c.store.Set(ThemeKey, next.String()); err != nil {
			c.log.Warn("Unable to persist theme preference", zap.Stringer("theme", next), zap.Error(err))
		}
	}
	c.theme = next
	c.applyTheme()
	c.log.Debug("Theme changed", zap.Stringer("theme", next))
	return next
}

func (c *Controller) applyTheme() {
	if c.root == nil {
		return
	}
	if c.theme == common.ThemeSystem {
		c.root.RemoveAttr(ThemeAttr)
	} else {
		c.root.CreateAttr(ThemeAttr, c.theme.String())
	}

	for _, opt := range c.options {
		if opt.SelectAttrValue(ThemeOptAttr, "") == c.theme.String() {
			dom.AddClass(opt, "active")
		} else {
			dom.RemoveClass(opt, "active")
		}
	}
	if c.toggle != nil {
		c.toggle.CreateAttr("aria-label", themeAriaLabel(c.theme))
	}
	if c.slider != nil {
		c.slider.CreateAttr("style", sliderStyle(c.theme))
	}
}

// Print marks page so only this render is printable and triggers printing.
// Marker is removed when print context ends or, without print media query,
// after fallback delay.
func (c *Controller) Print() {
	if c.host == nil {
		return
	}
	if c.cancelPrint != nil {
		c.cancelPrint()
		c.cancelPrint = nil
	}

	body := c.host.Body()
	dom.AddClass(body, PrintOnlyClass)
	body.CreateAttr(PrintIDAttr, c.id)

	if mq := c.host.PrintMedia(); mq != nil {
		c.cancelPrint = mq.AddListener(func(matches bool) {
			if !matches {
				c.endPrint()
			}
		})
	} else {
		stop := c.clock.AfterFunc(c.delay, func() { c.host.Dispatch(c.endPrint) })
		c.cancelPrint = func() { stop() }
	}

	c.log.Debug("Print requested")
	c.host.Print()
}

func (c *Controller) endPrint() {
	if c.cancelPrint != nil {
		c.cancelPrint()
		c.cancelPrint = nil
	}
	body := c.host.Body()
	if owner := body.SelectAttrValue(PrintIDAttr, ""); owner != c.id {
		c.log.Debug("Print marker owned by another render, leaving it", zap.String("owner", owner))
		return
	}
	dom.RemoveClass(body, PrintOnlyClass)
	body.RemoveAttr(PrintIDAttr)
}

// PrintActive reports whether this render currently owns print marker.
func (c *Controller) PrintActive() bool {
	if c.host == nil {
		return false
	}
	return c.host.Body().SelectAttrValue(PrintIDAttr, "") == c.id
}

func (c *Controller) ScrollToTop() {
	if c.host != nil {
		c.host.ScrollToTop()
	}
}
