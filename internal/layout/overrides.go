package layout

// Overrides is the config form of Breakpoints. A nil field keeps the
// default; a set field wins even when it is zero, so a config can ask for
// landscape_side_padding: 0.
type Overrides struct {
	DialogPadding             *float64 `yaml:"dialog_padding,omitempty" json:"dialog_padding,omitempty"`
	PortraitSidePadding       *float64 `yaml:"portrait_side_padding,omitempty" json:"portrait_side_padding,omitempty"`
	LandscapeSidePadding      *float64 `yaml:"landscape_side_padding,omitempty" json:"landscape_side_padding,omitempty"`
	FormHeight                *float64 `yaml:"form_height,omitempty" json:"form_height,omitempty"`
	NominalSmallLogoMinHeight *float64 `yaml:"nominal_small_logo_min_height,omitempty" json:"nominal_small_logo_min_height,omitempty"`
	NominalSmallLogoWidth     *float64 `yaml:"nominal_small_logo_width,omitempty" json:"nominal_small_logo_width,omitempty"`
	ShortModeHeight           *float64 `yaml:"short_mode_height,omitempty" json:"short_mode_height,omitempty"`
	IntermediateHeight        *float64 `yaml:"intermediate_height,omitempty" json:"intermediate_height,omitempty"`
	LandscapeThreshold        *float64 `yaml:"landscape_threshold,omitempty" json:"landscape_threshold,omitempty"`
	ThinModeThreshold         *float64 `yaml:"thin_mode_threshold,omitempty" json:"thin_mode_threshold,omitempty"`
	LogoAspectRatio           *float64 `yaml:"logo_aspect_ratio,omitempty" json:"logo_aspect_ratio,omitempty"`
}

// Apply returns b with every set override written over it
func (o Overrides) Apply(b Breakpoints) Breakpoints {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&b.DialogPadding, o.DialogPadding)
	set(&b.PortraitSidePadding, o.PortraitSidePadding)
	set(&b.LandscapeSidePadding, o.LandscapeSidePadding)
	set(&b.FormHeight, o.FormHeight)
	set(&b.NominalSmallLogoMinHeight, o.NominalSmallLogoMinHeight)
	set(&b.NominalSmallLogoWidth, o.NominalSmallLogoWidth)
	set(&b.ShortModeHeight, o.ShortModeHeight)
	set(&b.IntermediateHeight, o.IntermediateHeight)
	set(&b.LandscapeThreshold, o.LandscapeThreshold)
	set(&b.ThinModeThreshold, o.ThinModeThreshold)
	set(&b.LogoAspectRatio, o.LogoAspectRatio)
	return b
}

// Resolved applies o to DefaultBreakpoints
func (o Overrides) Resolved() Breakpoints {
	return o.Apply(DefaultBreakpoints())
}

// OrDefault returns b, or DefaultBreakpoints when b is entirely unset.
// Unlike WithDefaults, individual zero fields are kept.
func (b Breakpoints) OrDefault() Breakpoints {
	if b == (Breakpoints{}) {
		return DefaultBreakpoints()
	}
	return b
}
