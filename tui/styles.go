// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	focusTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#7C3AED"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("#313244"))

	instanceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89B4FA")).
			Underline(true)

	signalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")).
			Italic(true)

	probedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	cursorStyle = lipgloss.NewStyle().
			Reverse(true)

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#F9E2AF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))
)

// fit truncates every line of s to width visible cells and pads or cuts s to
// height lines.
func fit(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if height >= 0 {
		for len(lines) < height {
			lines = append(lines, "")
		}
		lines = lines[:height]
	}
	for i, l := range lines {
		if width >= 0 && lipgloss.Width(l) > width {
			l = ansi.Truncate(l, width, "")
		}
		if pad := width - lipgloss.Width(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}
