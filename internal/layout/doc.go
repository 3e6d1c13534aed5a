/*
Package layout resolves the authentication dialog layout from viewport size.

# Overview

The dialog adapts to the space it is given. A single pure function maps
viewport dimensions (in pixels) to a Descriptor:
  - FullScreen: dialog occupies the whole viewport
  - Direction: logo stacked over the form (portrait) or beside it (landscape)
  - LogoSize: large or small logo asset
  - MaxWidth: width cap token when not full screen
  - LogoWidth: CSS-style width of the logo inside its slot

# Height tiers

Height is checked first and exactly one tier applies:
  - height <= ShortModeHeight: always full screen
  - height <= IntermediateHeight: full screen only when the form would not fit
  - otherwise: defaults

Logo width is derived afterwards from the resolved tier values.

# Breakpoints

All thresholds live in Breakpoints. DefaultBreakpoints returns the stock
set; callers may supply their own to tune or test alternate layouts.
Overrides is the config form: nil fields keep the default and set fields
win, zero included.

# Terminals

Terminals report size in cells. CellMetrics converts between cells and
pixels so the same thresholds apply in a TUI.

# Example Usage

	d := layout.Resolve(1200, 900)
	if d.FullScreen {
		// render without border
	}
*/
package layout
