package interact

import (
	"fmt"

	"easycv/common"
	"easycv/tree"
)

// Markup contract between rendered tree and controller.
const (
	ContainerClass = "easycv-container"
	PrintIDAttr    = "data-easycv-print-id"
	PrintOnlyClass = "easycv-print-cv-only"
	ThemeAttr      = "data-theme"
	ActionAttr     = "data-easycv-action"
	ThemeOptAttr   = "data-theme-option"

	ActionScrollTop   = "scroll-top"
	ActionToggleTheme = "toggle-theme"
	ActionPrint       = "print"
)

var themeLabels = map[common.Theme]string{
	common.ThemeLight:  "☀️",
	common.ThemeSystem: "AUTO",
	common.ThemeDark:   "🌙",
}

func themeAriaLabel(t common.Theme) string {
	return fmt.Sprintf("Theme: %s. Click to cycle through themes.", t)
}

func sliderStyle(t common.Theme) string {
	return fmt.Sprintf("transform: translateX(%d%%)", max(t.Index(), 0)*100)
}

// Controls describes floating page controls: scroll to top, optional theme
// toggle drawn for the given theme and print.
func Controls(theme common.Theme, withThemeToggle bool) tree.Node {
	var toggle tree.Node
	if withThemeToggle {
		toggle = ThemeToggle(theme)
	}
	return tree.El("div", tree.Attrs(tree.Class("floating-actions"), tree.A("aria-label", "page controls")),
		actionButton(ActionScrollTop, "Back to Top"),
		toggle,
		actionButton(ActionPrint, "Download PDF"),
	)
}

func actionButton(action, label string) tree.Node {
	return tree.El("button", tree.Attrs(
		tree.Class("action-button"),
		tree.A("type", "button"),
		tree.A(ActionAttr, action),
	), tree.Text(label))
}

// ThemeToggle describes three state theme switch.
func ThemeToggle(theme common.Theme) tree.Node {
	themes := common.Themes()
	children := make([]tree.Node, 0, len(themes)+1)
	for _, t := range themes {
		active := ""
		if t == theme {
			active = "active"
		}
		children = append(children, tree.El("span", tree.Attrs(
			tree.Class("theme-toggle-option", active),
			tree.A(ThemeOptAttr, t.String()),
		), tree.Text(themeLabels[t])))
	}
	children = append(children, tree.El("div", tree.Attrs(
		tree.Class("theme-toggle-slider"),
		tree.A("style", sliderStyle(theme)),
	)))

	return tree.El("div", tree.Attrs(tree.Class("theme-toggle-wrapper")),
		tree.El("button", tree.Attrs(
			tree.Class("theme-toggle-container"),
			tree.A("type", "button"),
			tree.A("aria-label", themeAriaLabel(theme)),
			tree.A(ActionAttr, ActionToggleTheme),
		), children...),
	)
}
