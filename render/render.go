// Package render builds CV pages and mounts them on a live page replacing
// whatever was there before.
package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"easycv/build"
	"easycv/cv"
	"easycv/dom"
	"easycv/interact"
)

var (
	// ErrNoEnvironment is returned when renderer has no page to mount on.
	ErrNoEnvironment = errors.New("no page to render into")
	// ErrNoMatch is returned when lookup key resolves to nothing.
	ErrNoMatch = errors.New("no element matches lookup key")
	// ErrWrongTarget is returned when target is neither element nor lookup
	// key.
	ErrWrongTarget = errors.New("target must be a page element or lookup key")
)

// DefaultTitleTemplate is used when options do not provide one.
const DefaultTitleTemplate = "%s - Curriculum Vitae"

// Options control a single render. Zero value adds page controls and sets
// page title to bare header name.
type Options struct {
	// NoActions drops floating page controls.
	NoActions bool
	// KeepDocumentTitle leaves page title alone.
	KeepDocumentTitle bool
	// TitleTemplate has first "%s" replaced by name. Template without token
	// is used verbatim, empty one means bare name.
	TitleTemplate string
}

func DefaultOptions() Options {
	return Options{TitleTemplate: DefaultTitleTemplate}
}

// Title computes page title for header name.
func Title(template, name string) string {
	switch {
	case strings.Contains(template, "%s"):
		return strings.Replace(template, "%s", name, 1)
	case template != "":
		return template
	default:
		return name
	}
}

// Renderer is safe for concurrent use, renders into the same page are
// serialized by the page.
type Renderer struct {
	page    *dom.Page
	store   interact.PreferenceStore
	clock   interact.Clock
	delay   time.Duration
	ids     func() string
	log     *zap.Logger
	builder *build.Builder

	mu          sync.Mutex
	controllers map[*etree.Element]*interact.Controller
}

type Option func(*Renderer)

// WithStore sets theme preference store, without one theme is not persisted.
func WithStore(store interact.PreferenceStore) Option {
	return func(r *Renderer) {
		r.store = store
	}
}

func WithClock(clock interact.Clock) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

func WithPrintFallbackDelay(d time.Duration) Option {
	return func(r *Renderer) {
		r.delay = d
	}
}

// WithIDs replaces print identifier generator.
func WithIDs(next func() string) Option {
	return func(r *Renderer) {
		if next != nil {
			r.ids = next
		}
	}
}

// New creates renderer for page. Page may be nil, in which case only
// CreateCVElement is usable.
func New(page *dom.Page, log *zap.Logger, opts ...Option) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		page:        page,
		clock:       interact.SystemClock{},
		delay:       interact.DefaultPrintFallbackDelay,
		ids:         newPrintID,
		log:         log.Named("render"),
		controllers: make(map[*etree.Element]*interact.Controller),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.builder = build.New(log)
	return r
}

func newPrintID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "easycv-" + uuid.NewString()
	}
	return "easycv-" + id.String()
}

// CreateCVElement builds detached tree for the document. Its controls are
// bound once element is placed on the page and passed to Bind. Renderer
// keeps track of the element until it is rendered over or passed to Release.
func (r *Renderer) CreateCVElement(doc *cv.Document, opts Options) (*etree.Element, error) {
	el, _, err := r.create(doc, opts)
	return el, err
}

func (r *Renderer) create(doc *cv.Document, opts Options) (*etree.Element, *interact.Controller, error) {
	if doc == nil {
		doc = cv.New()
	}
	id := r.ids()
	ctrl := interact.NewController(id, r.store,
		interact.WithClock(r.clock),
		interact.WithPrintFallbackDelay(r.delay),
		interact.WithLogger(r.log))

	desc := r.builder.Document(doc, build.Settings{
		PrintID: id,
		Actions: !opts.NoActions,
		Theme:   ctrl.Theme(),
	})
	root, err := dom.Materialize(desc)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to materialize document: %w", err)
	}
	ctrl.Attach(nil, root)

	r.mu.Lock()
	r.controllers[root] = ctrl
	r.mu.Unlock()

	return root, ctrl, nil
}

// Bind activates controls of element produced by CreateCVElement after it
// was attached to the page by caller. Binding again is a no-op.
func (r *Renderer) Bind(root *etree.Element) error {
	if r.page == nil {
		return ErrNoEnvironment
	}
	r.mu.Lock()
	ctrl, ok := r.controllers[root]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: element was not created by this renderer", ErrWrongTarget)
	}

	var err error
	r.page.Dispatch(func() {
		if !r.page.Contains(root) {
			err = fmt.Errorf("%w: element is not attached to the page", ErrWrongTarget)
			return
		}
		ctrl.Attach(r.page, root)
	})
	return err
}

// RenderCV replaces content of target with freshly built document tree and
// returns its root. Target is either *etree.Element on the page or lookup key
// ("#id" or element path), first match is used.
func (r *Renderer) RenderCV(target any, doc *cv.Document, opts Options) (*etree.Element, error) {
	if r.page == nil {
		return nil, ErrNoEnvironment
	}
	if doc == nil {
		doc = cv.New()
	}

	root, ctrl, err := r.create(doc, opts)
	if err != nil {
		return nil, err
	}

	r.page.Dispatch(func() {
		var mount *etree.Element
		if mount, err = r.resolve(target); err != nil {
			return
		}

		for _, old := range mount.ChildElements() {
			r.release(old)
		}
		dom.Clear(mount)
		mount.AddChild(root)
		ctrl.Attach(r.page, root)

		if name := strings.TrimSpace(doc.Header.Name); !opts.KeepDocumentTitle && name != "" {
			r.page.SetTitle(Title(opts.TitleTemplate, name))
		}
	})
	if err != nil {
		r.mu.Lock()
		delete(r.controllers, root)
		r.mu.Unlock()
		return nil, err
	}

	r.log.Debug("Document rendered",
		zap.String("print_id", ctrl.ID()),
		zap.String("theme", ctrl.Theme().String()))
	return root, nil
}

func (r *Renderer) resolve(target any) (*etree.Element, error) {
	switch t := target.(type) {
	case *etree.Element:
		if t == nil || !r.page.Contains(t) {
			return nil, fmt.Errorf("%w: element is not attached to the page", ErrWrongTarget)
		}
		return t, nil
	case string:
		found, err := r.page.Find(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoMatch, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoMatch, t)
		}
		if len(found) > 1 {
			r.log.Debug("Lookup key matches several elements, using first", zap.String("key", t), zap.Int("matches", len(found)))
		}
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrWrongTarget, target)
	}
}

// Release drops handlers and controller of element produced by
// CreateCVElement, it can not be bound afterwards.
func (r *Renderer) Release(root *etree.Element) {
	if r.page == nil {
		r.mu.Lock()
		delete(r.controllers, root)
		r.mu.Unlock()
		return
	}
	r.page.Dispatch(func() { r.release(root) })
}

// release forgets handlers and controller of subtree being removed.
func (r *Renderer) release(el *etree.Element) {
	r.page.Forget(el)

	r.mu.Lock()
	defer r.mu.Unlock()
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		delete(r.controllers, e)
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(el)
}
