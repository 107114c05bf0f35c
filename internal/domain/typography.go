package domain

import "strings"

// Breakpoint is a named device-width class.
type Breakpoint string

const (
	BreakpointNarrow Breakpoint = "narrow"
	BreakpointMedium Breakpoint = "medium"
	BreakpointWide   Breakpoint = "wide"
)

func (b Breakpoint) String() string { return string(b) }

func (b Breakpoint) IsValid() bool {
	switch b {
	case BreakpointNarrow, BreakpointMedium, BreakpointWide:
		return true
	}
	return false
}

// Rank orders breakpoints narrow < medium < wide. Unknown values rank -1.
func (b Breakpoint) Rank() int {
	switch b {
	case BreakpointNarrow:
		return 0
	case BreakpointMedium:
		return 1
	case BreakpointWide:
		return 2
	}
	return -1
}

// ParseBreakpoint accepts the canonical names and the device aliases
// mobile, tablet and desktop (case-insensitive).
func ParseBreakpoint(s string) (Breakpoint, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "narrow", "mobile":
		return BreakpointNarrow, true
	case "medium", "tablet":
		return BreakpointMedium, true
	case "wide", "desktop":
		return BreakpointWide, true
	}
	return "", false
}

// TypographyProfile is a calibrated set of rendering parameters for one
// breakpoint. All lengths are CSS pixels.
type TypographyProfile struct {
	CanvasWidth   float64
	CanvasHeight  float64
	FontSize      float64
	LineHeight    float64
	WordSpacing   float64
	LetterSpacing float64
}

// FitsLines reports whether n lines of LineHeight fit in CanvasHeight.
func (p TypographyProfile) FitsLines(n int) bool {
	return p.LineHeight*float64(n) <= p.CanvasHeight
}
