// Package typography maps device widths to calibrated rendering profiles.
//
// The profiles are a fixed table validated against the printed edition: each
// of the 15 lines fits its canvas at the listed font size and spacing without
// reflow. Nothing here measures glyphs at runtime.
package typography

import (
	"fmt"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// Content ladder thresholds, applied to the width of the rendering container.
const (
	ContentMediumMin = 400
	ContentWideMin   = 600
)

// Viewport ladder thresholds, applied to the window/screen width.
const (
	ViewportMediumMin = 768
	ViewportWideMin   = 1024
)

// profiles holds the calibrated constants. LineHeight*15 stays below CanvasHeight.
var profiles = map[domain.Breakpoint]domain.TypographyProfile{
	domain.BreakpointNarrow: {
		CanvasWidth:   360,
		CanvasHeight:  640,
		FontSize:      17,
		LineHeight:    40,
		WordSpacing:   0,
		LetterSpacing: 0,
	},
	domain.BreakpointMedium: {
		CanvasWidth:   560,
		CanvasHeight:  920,
		FontSize:      26,
		LineHeight:    58,
		WordSpacing:   1,
		LetterSpacing: 0,
	},
	domain.BreakpointWide: {
		CanvasWidth:   800,
		CanvasHeight:  1240,
		FontSize:      36,
		LineHeight:    80,
		WordSpacing:   2,
		LetterSpacing: 0.5,
	},
}

// ContentBreakpoint classifies a rendering container width.
// Boundaries belong to the larger class.
func ContentBreakpoint(width int) domain.Breakpoint {
	switch {
	case width >= ContentWideMin:
		return domain.BreakpointWide
	case width >= ContentMediumMin:
		return domain.BreakpointMedium
	default:
		return domain.BreakpointNarrow
	}
}

// ViewportBreakpoint classifies a window/screen width.
// Boundaries belong to the larger class.
func ViewportBreakpoint(width int) domain.Breakpoint {
	switch {
	case width >= ViewportWideMin:
		return domain.BreakpointWide
	case width >= ViewportMediumMin:
		return domain.BreakpointMedium
	default:
		return domain.BreakpointNarrow
	}
}

// Profile returns the calibrated profile for bp.
func Profile(bp domain.Breakpoint) (domain.TypographyProfile, error) {
	p, ok := profiles[bp]
	if !ok {
		return domain.TypographyProfile{}, domain.NewValidationError("breakpoint", fmt.Sprintf("unknown breakpoint %q", bp))
	}
	return p, nil
}

// Profiles returns a copy of the whole table.
func Profiles() map[domain.Breakpoint]domain.TypographyProfile {
	out := make(map[domain.Breakpoint]domain.TypographyProfile, len(profiles))
	for k, v := range profiles {
		out[k] = v
	}
	return out
}

// DefaultBreakpoint is used when a selector carries no hint at all.
const DefaultBreakpoint = domain.BreakpointWide

// Selector carries the caller's typography hint. The first field that is
// set wins in the order Breakpoint, ContainerWidth, ViewportWidth. A nil
// width means no hint; a width of 0 is still a measurement.
type Selector struct {
	Breakpoint     domain.Breakpoint
	ContainerWidth *int
	ViewportWidth  *int
}

// Width returns a pointer to w for building selectors.
func Width(w int) *int { return &w }

// Resolve picks the breakpoint for s and returns it with its profile.
func Resolve(s Selector) (domain.Breakpoint, domain.TypographyProfile, error) {
	var bp domain.Breakpoint
	switch {
	case s.Breakpoint != "":
		bp = s.Breakpoint
	case s.ContainerWidth != nil:
		bp = ContentBreakpoint(*s.ContainerWidth)
	case s.ViewportWidth != nil:
		bp = ViewportBreakpoint(*s.ViewportWidth)
	default:
		bp = DefaultBreakpoint
	}

	p, err := Profile(bp)
	if err != nil {
		return "", domain.TypographyProfile{}, err
	}
	return bp, p, nil
}
