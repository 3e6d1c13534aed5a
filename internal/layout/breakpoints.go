package layout

// thinModeLimit is the literal the thin-mode threshold is compared against.
const thinModeLimit = 360

// Breakpoints holds the pixel thresholds used by the resolver.
// WithDefaults treats every zero field as unset; config files go through
// Overrides instead, where an explicit 0 is kept.
type Breakpoints struct {
	// Padding around dialog content when not full screen
	DialogPadding float64 `yaml:"dialog_padding" json:"dialog_padding"`
	// Horizontal padding in portrait mode
	PortraitSidePadding float64 `yaml:"portrait_side_padding" json:"portrait_side_padding"`
	// Gap between logo and form in landscape mode
	LandscapeSidePadding float64 `yaml:"landscape_side_padding" json:"landscape_side_padding"`

	// Minimum height needed to render the form
	FormHeight float64 `yaml:"form_height" json:"form_height"`
	// Extra height budget when the small logo is shown
	NominalSmallLogoMinHeight float64 `yaml:"nominal_small_logo_min_height" json:"nominal_small_logo_min_height"`
	// Natural width of the small logo
	NominalSmallLogoWidth float64 `yaml:"nominal_small_logo_width" json:"nominal_small_logo_width"`

	ShortModeHeight    float64 `yaml:"short_mode_height" json:"short_mode_height"`
	IntermediateHeight float64 `yaml:"intermediate_height" json:"intermediate_height"`
	LandscapeThreshold float64 `yaml:"landscape_threshold" json:"landscape_threshold"`
	ThinModeThreshold  float64 `yaml:"thin_mode_threshold" json:"thin_mode_threshold"`

	// Width / height of the large logo asset
	LogoAspectRatio float64 `yaml:"logo_aspect_ratio" json:"logo_aspect_ratio"`
}

// DefaultBreakpoints returns the stock thresholds.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{
		DialogPadding:             48,
		PortraitSidePadding:       24,
		LandscapeSidePadding:      8,
		FormHeight:                260,
		NominalSmallLogoMinHeight: 140,
		NominalSmallLogoWidth:     369,
		ShortModeHeight:           300,
		IntermediateHeight:        628,
		LandscapeThreshold:        560,
		ThinModeThreshold:         360,
		LogoAspectRatio:           1000.0 / 889.0,
	}
}

// WithDefaults returns a copy of b with every zero field taken from
// DefaultBreakpoints.
func (b Breakpoints) WithDefaults() Breakpoints {
	d := DefaultBreakpoints()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&b.DialogPadding, d.DialogPadding)
	fill(&b.PortraitSidePadding, d.PortraitSidePadding)
	fill(&b.LandscapeSidePadding, d.LandscapeSidePadding)
	fill(&b.FormHeight, d.FormHeight)
	fill(&b.NominalSmallLogoMinHeight, d.NominalSmallLogoMinHeight)
	fill(&b.NominalSmallLogoWidth, d.NominalSmallLogoWidth)
	fill(&b.ShortModeHeight, d.ShortModeHeight)
	fill(&b.IntermediateHeight, d.IntermediateHeight)
	fill(&b.LandscapeThreshold, d.LandscapeThreshold)
	fill(&b.ThinModeThreshold, d.ThinModeThreshold)
	fill(&b.LogoAspectRatio, d.LogoAspectRatio)
	return b
}
