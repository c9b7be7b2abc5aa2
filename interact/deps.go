package interact

import (
	"time"

	"github.com/beevik/etree"

	"easycv/dom"
)

// ThemeKey is preference store key holding theme.
const ThemeKey = "easycv-theme"

// DefaultPrintFallbackDelay is used to clear print marker on platforms without
// print media query.
const DefaultPrintFallbackDelay = 1500 * time.Millisecond

// PreferenceStore is durable key-value storage for user preferences.
type PreferenceStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Clock schedules delayed calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// SystemClock is Clock backed by runtime timers.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Host is the surface rendered tree lives on.
type Host interface {
	// Body returns document root which carries print markers.
	Body() *etree.Element
	// On binds activation handler to element.
	On(el *etree.Element, handler func())
	// Dispatch runs fn serialized with other tree mutations.
	Dispatch(fn func())
	Print()
	ScrollToTop()
	// PrintMedia returns nil when platform cannot observe print context.
	PrintMedia() dom.MediaQuery
}
