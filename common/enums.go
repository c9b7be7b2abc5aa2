// Package common keeps small enumerations shared by the renderer, the
// configuration and the command line front end.
package common

import (
	"fmt"
	"strings"
)

// Theme is the color scheme preference persisted between renders.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeSystem Theme = "system"
	ThemeDark   Theme = "dark"
)

// cycle order, activation advances one step
var themes = []Theme{ThemeLight, ThemeSystem, ThemeDark}

// ErrInvalidTheme is returned when a string is not a known theme.
var ErrInvalidTheme = fmt.Errorf("not a valid Theme, try [%s]", strings.Join(ThemeNames(), ", "))

// ThemeNames returns a list of possible string values of Theme.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for _, t := range themes {
		names = append(names, string(t))
	}
	return names
}

// Themes returns all themes in cycle order.
func Themes() []Theme {
	return append([]Theme(nil), themes...)
}

func (t Theme) String() string {
	return string(t)
}

func (t Theme) IsValid() bool {
	return t.Index() >= 0
}

// Index returns position of the theme in cycle order or -1.
func (t Theme) Index() int {
	for i, v := range themes {
		if v == t {
			return i
		}
	}
	return -1
}

// Next returns the theme following t. Unknown values restart the cycle from
// system.
func (t Theme) Next() Theme {
	i := t.Index()
	if i < 0 {
		return ThemeSystem.Next()
	}
	return themes[(i+1)%len(themes)]
}

// ParseTheme attempts to convert a string to a Theme.
func ParseTheme(name string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(name)))
	if t.IsValid() {
		return t, nil
	}
	return "", fmt.Errorf("%s is %w", name, ErrInvalidTheme)
}

// MarshalText implements the text marshaller method.
func (t Theme) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// UnmarshalText implements the text unmarshaller method.
func (t *Theme) UnmarshalText(text []byte) error {
	v, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
