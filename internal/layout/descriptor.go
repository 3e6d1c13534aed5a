package layout

import (
	"strconv"
	"strings"
)

// Direction is the arrangement of logo and form
type Direction string

const (
	Portrait  Direction = "portrait"  // logo stacked above the form
	Landscape Direction = "landscape" // logo beside the form
)

// LogoSize selects the logo asset variant
type LogoSize string

const (
	LogoSmall LogoSize = "small"
	LogoLarge LogoSize = "large"
)

// MaxWidth is a breakpoint token capping the dialog width
type MaxWidth string

const (
	MaxWidthXS MaxWidth = "xs"
	MaxWidthMD MaxWidth = "md"
)

// Pixels returns the width cap in pixels for the token.
func (w MaxWidth) Pixels() float64 {
	switch w {
	case MaxWidthMD:
		return 960
	default:
		return 444
	}
}

// Logo width values that are not percentages
const (
	LogoWidthFull = "100%"
	LogoWidthAuto = "auto"
)

// Descriptor is the computed dialog layout
type Descriptor struct {
	FullScreen bool      `json:"fullScreen" yaml:"full_screen"`
	Direction  Direction `json:"layoutDirection" yaml:"layout_direction"`
	LogoSize   LogoSize  `json:"logoSize" yaml:"logo_size"`
	MaxWidth   MaxWidth  `json:"maxWidth" yaml:"max_width"`
	LogoWidth  string    `json:"logoWidth" yaml:"logo_width"`
}

// defaultDescriptor is the starting point of every resolution.
func defaultDescriptor() Descriptor {
	return Descriptor{
		FullScreen: false,
		Direction:  Portrait,
		LogoSize:   LogoLarge,
		MaxWidth:   MaxWidthXS,
		LogoWidth:  LogoWidthFull,
	}
}

// percent formats v as a CSS percentage using the shortest exact decimal.
func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// LogoPercent returns the logo width as a percentage when LogoWidth is one.
func (d Descriptor) LogoPercent() (float64, bool) {
	s, ok := strings.CutSuffix(d.LogoWidth, "%")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LogoFraction returns the share of the logo slot the logo should fill.
// "auto" means natural size, which callers treat as the whole slot.
func (d Descriptor) LogoFraction() float64 {
	if v, ok := d.LogoPercent(); ok {
		return v / 100
	}
	return 1
}
