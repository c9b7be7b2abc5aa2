// Package contact turns raw header contact mapping into ordered list of
// display ready entries.
package contact

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"easycv/cv"
)

// priority keys always come first in this order
var priorityKeys = []string{"phone", "email", "website"}

var (
	fontIconRe   = regexp.MustCompile(`(?i)\bfa-[\w-]+`)
	httpSchemeRe = regexp.MustCompile(`(?i)^https?://`)
)

// IconKind is type of contact icon.
type IconKind int

const (
	IconFontAwesome IconKind = iota + 1
)

// Icon describes how to draw contact icon.
type Icon struct {
	Kind  IconKind
	Token string
}

// Entry is a normalized contact.
type Entry struct {
	Key          string
	Value        string
	DisplayValue string
	Href         string
	Icon         *Icon
	OpenInNewTab *bool
	Label        string
}

// Normalize produces entries for all keys with usable values: priority keys
// first, then the rest in encounter order.
func Normalize(c cv.Contact, log *zap.Logger) []Entry {
	if log == nil {
		log = zap.NewNop()
	}

	entries := make([]Entry, 0, c.Len())
	seen := make(map[string]bool, c.Len())

	add := func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		raw, ok := c.Get(key)
		if !ok {
			return
		}
		if e, ok := newEntry(key, raw, log); ok {
			entries = append(entries, e)
			return
		}
		log.Debug("Dropping contact without usable value", zap.String("key", key))
	}

	for _, key := range priorityKeys {
		add(key)
	}
	for _, key := range c.Keys() {
		add(key)
	}
	return entries
}

func newEntry(key string, raw cv.RawContact, log *zap.Logger) (Entry, bool) {
	switch raw.Kind {
	case cv.RawString:
		value := strings.TrimSpace(raw.Text)
		if value == "" {
			return Entry{}, false
		}
		return Entry{
			Key:          key,
			Value:        value,
			DisplayValue: value,
			Href:         defaultHref(key, value),
		}, true

	case cv.RawObject:
		value := strings.TrimSpace(raw.Value)
		if value == "" {
			return Entry{}, false
		}
		e := Entry{
			Key:          key,
			Value:        value,
			DisplayValue: value,
			Href:         strings.TrimSpace(raw.Href),
			Icon:         ResolveIcon(raw.Icon),
			OpenInNewTab: raw.NewTab,
			Label:        strings.TrimSpace(raw.Label),
		}
		if display := strings.TrimSpace(raw.Display); display != "" {
			e.DisplayValue = display
		}
		if e.Href == "" {
			e.Href = defaultHref(key, value)
		}
		if e.Icon == nil && strings.TrimSpace(raw.Icon) != "" {
			log.Debug("Ignoring unrecognized contact icon", zap.String("key", key), zap.String("icon", raw.Icon))
		}
		return e, true
	}
	return Entry{}, false
}

func defaultHref(key, value string) string {
	switch key {
	case "email":
		return "mailto:" + value
	case "website":
		return FormatWebsite(value)
	}
	return ""
}

// FormatWebsite prefixes value with https:// unless it already has http(s)
// scheme.
func FormatWebsite(value string) string {
	if httpSchemeRe.MatchString(value) {
		return value
	}
	return "https://" + value
}

// ResolveIcon recognizes font icon tokens only. Image icons are not
// supported.
func ResolveIcon(raw string) *Icon {
	token := strings.TrimSpace(raw)
	if token == "" || !fontIconRe.MatchString(token) {
		return nil
	}
	return &Icon{Kind: IconFontAwesome, Token: token}
}
