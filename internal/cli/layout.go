package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/studiowebux/authdialog/internal/layout"
)

// LayoutOptions describes the viewport to resolve
type LayoutOptions struct {
	Width       float64
	Height      float64
	Cells       bool // Width and Height are terminal cells, not pixels
	Metrics     layout.CellMetrics
	Breakpoints layout.Breakpoints
	Format      string // text, json or yaml
}

// LayoutReport is the resolved layout plus what the dialog derives from it
type LayoutReport struct {
	Width      float64           `json:"width" yaml:"width"`
	Height     float64           `json:"height" yaml:"height"`
	Descriptor layout.Descriptor `json:"descriptor" yaml:"descriptor"`
	Asset      layout.Asset      `json:"asset" yaml:"asset"`
	AssetURL   string            `json:"assetUrl" yaml:"asset_url"`
	LogoSpan   int               `json:"logoSpan" yaml:"logo_span"`
	FormSpan   int               `json:"formSpan" yaml:"form_span"`
}

// ParseDimension parses a positive width or height argument
func ParseDimension(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dimension %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid dimension %q: must be positive", s)
	}
	return v, nil
}

// ResolveLayout computes the report for opts
func ResolveLayout(opts LayoutOptions) LayoutReport {
	width, height := opts.Width, opts.Height
	if opts.Cells {
		width, height = opts.Metrics.WithDefaults().Viewport(int(opts.Width), int(opts.Height))
	}

	d := opts.Breakpoints.OrDefault().Resolve(width, height)
	asset := layout.LogoAsset(d)
	logoSpan, formSpan := layout.GridSpans(d)

	return LayoutReport{
		Width:      width,
		Height:     height,
		Descriptor: d,
		Asset:      asset,
		AssetURL:   asset.URL(),
		LogoSpan:   logoSpan,
		FormSpan:   formSpan,
	}
}

// Layout resolves the viewport in opts and writes the report to w
func Layout(w io.Writer, opts LayoutOptions) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %vx%v", opts.Width, opts.Height)
	}

	report := ResolveLayout(opts)

	out, ok, err := marshal(report, opts.Format)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	if !ok {
		out = formatLayout(report)
	}

	_, err = io.WriteString(w, out)
	return err
}

// formatLayout renders the report for a terminal
func formatLayout(r LayoutReport) string {
	var sb strings.Builder
	d := r.Descriptor

	fmt.Fprintf(&sb, "Viewport: %sx%s px\n", formatPixels(r.Width), formatPixels(r.Height))

	mode := colorGreen + "dialog" + colorReset
	if d.FullScreen {
		mode = colorYellow + "full screen" + colorReset
	}
	fmt.Fprintf(&sb, "Mode:      %s (max width %s, %spx)\n", mode, d.MaxWidth, formatPixels(d.MaxWidth.Pixels()))
	fmt.Fprintf(&sb, "Direction: %s\n", d.Direction)
	fmt.Fprintf(&sb, "Logo:      %s, width %s\n", d.LogoSize, d.LogoWidth)
	fmt.Fprintf(&sb, "Asset:     %s%s%s (%s)\n", colorCyan, r.Asset, colorReset, r.AssetURL)
	fmt.Fprintf(&sb, "Grid:      logo %d/%d, form %d/%d\n", r.LogoSpan, layout.GridColumns, r.FormSpan, layout.GridColumns)

	if pct, ok := d.LogoPercent(); ok && pct <= 0 {
		fmt.Fprintf(&sb, "\n%sWarning: no room for the logo at this width%s\n", colorRed, colorReset)
	}

	return sb.String()
}

func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
