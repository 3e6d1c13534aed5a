package layout

import "math"

// Resolve computes the layout for a viewport using DefaultBreakpoints.
func Resolve(width, height float64) Descriptor {
	return DefaultBreakpoints().Resolve(width, height)
}

// Resolve computes the layout for a viewport of width x height pixels.
// Dimensions must be positive; other values give an unspecified result.
func (b Breakpoints) Resolve(width, height float64) Descriptor {
	d := defaultDescriptor()

	switch {
	case height <= b.ShortModeHeight:
		d.FullScreen = true
		if width >= b.LandscapeThreshold {
			d.Direction = Landscape
		} else {
			d.LogoSize = LogoSmall
		}
	case height <= b.IntermediateHeight:
		if width > b.LandscapeThreshold {
			d.Direction = Landscape
			d.MaxWidth = MaxWidthMD
			if height < b.FormHeight+2*b.DialogPadding {
				d.FullScreen = true
			}
		} else {
			d.LogoSize = LogoSmall
			if height < b.FormHeight+b.NominalSmallLogoMinHeight+2*b.DialogPadding {
				d.FullScreen = true
			}
		}
	case b.ThinModeThreshold < thinModeLimit:
		// Never true with the default set. Kept as found; see DESIGN.md.
		d.FullScreen = true
	}

	windowPadding := b.DialogPadding
	if d.FullScreen {
		windowPadding = 0
	}

	switch {
	case d.Direction == Landscape:
		slotWidth := (width - 2*windowPadding - b.LandscapeSidePadding) / 2
		slotHeight := math.Max(height-2*windowPadding, b.FormHeight)
		if slotWidth/slotHeight > b.LogoAspectRatio {
			// height-constrained
			d.LogoWidth = percent(slotHeight * b.LogoAspectRatio / slotWidth * 100)
		}
	case d.LogoSize == LogoSmall:
		available := width - 2*windowPadding - 2*b.PortraitSidePadding
		if available < b.NominalSmallLogoWidth {
			d.LogoWidth = percent(available / b.NominalSmallLogoWidth * 100)
		} else {
			d.LogoWidth = LogoWidthAuto
		}
	}

	return d
}
