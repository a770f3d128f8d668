// SPDX-License-Identifier: MPL-2.0

package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette shared with the command layer. Each color carries a light and a
// dark variant so forced color schemes stay readable.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#7C3AED"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}
)

// styles holds every style the renderer uses. The zero-color variant keeps
// layout (bold, borders) but drops foreground colors.
type styles struct {
	header  lipgloss.Style
	name    lipgloss.Style
	source  lipgloss.Style
	exec    lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
	title   lipgloss.Style
	unknown string
}

func newStyles(w io.Writer, opts Options) styles {
	r := lipgloss.NewRenderer(w)
	if opts.DarkBackground != nil {
		r.SetHasDarkBackground(*opts.DarkBackground)
	}
	if opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}

	s := styles{
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		name:    r.NewStyle().Bold(true),
		source:  r.NewStyle(),
		exec:    r.NewStyle(),
		muted:   r.NewStyle(),
		label:   r.NewStyle().Bold(true),
		ok:      r.NewStyle(),
		warn:    r.NewStyle(),
		bad:     r.NewStyle().Bold(true),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle(),
		title:   r.NewStyle().Bold(true),
		unknown: "-",
	}
	if opts.NoColor {
		return s
	}

	s.header = s.header.Foreground(colorPrimary)
	s.title = s.title.Foreground(colorPrimary)
	s.source = s.source.Foreground(colorAccent)
	s.exec = s.exec.Foreground(colorMuted)
	s.muted = s.muted.Foreground(colorMuted).Italic(true)
	s.label = s.label.Foreground(colorWarning)
	s.ok = s.ok.Foreground(colorSuccess)
	s.warn = s.warn.Foreground(colorWarning)
	s.bad = s.bad.Foreground(colorError)
	s.border = s.border.Foreground(colorMuted)
	return s
}
