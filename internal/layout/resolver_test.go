package layout

import (
	"math"
	"strings"
	"testing"
)

func TestResolve_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		width      float64
		height     float64
		fullScreen bool
		direction  Direction
		logoSize   LogoSize
		maxWidth   MaxWidth
		logoPct    float64 // 0 means LogoWidth is compared to logoWidth
		logoWidth  string
	}{
		{"roomy desktop", 1200, 900, false, Portrait, LogoLarge, MaxWidthXS, 0, "100%"},
		{"short and narrow", 320, 280, true, Portrait, LogoSmall, MaxWidthXS, 272.0 / 369 * 100, ""},
		{"short and wide", 700, 280, true, Landscape, LogoLarge, MaxWidthXS, 280 * (1000.0 / 889) / 346 * 100, ""},
		{"intermediate wide", 700, 500, false, Landscape, LogoLarge, MaxWidthMD, 0, "100%"},
		{"intermediate narrow", 300, 500, false, Portrait, LogoSmall, MaxWidthXS, 156.0 / 369 * 100, ""},
		{"intermediate very narrow", 200, 500, false, Portrait, LogoSmall, MaxWidthXS, 56.0 / 369 * 100, ""},
		{"short boundary landscape", 560, 280, true, Landscape, LogoLarge, MaxWidthXS, 0, "100%"},
		{"intermediate boundary is not landscape", 560, 500, false, Portrait, LogoSmall, MaxWidthXS, 0, "auto"},
		{"intermediate wide but short", 700, 350, true, Landscape, LogoLarge, MaxWidthMD, 0, "100%"},
		{"intermediate narrow but short", 300, 450, true, Portrait, LogoSmall, MaxWidthXS, 252.0 / 369 * 100, ""},
		{"height exactly short mode", 1200, 300, true, Landscape, LogoLarge, MaxWidthXS, 300 * (1000.0 / 889) / 596 * 100, ""},
		{"height exactly intermediate", 300, 628, false, Portrait, LogoSmall, MaxWidthXS, 156.0 / 369 * 100, ""},
		{"height just above intermediate", 300, 629, false, Portrait, LogoLarge, MaxWidthXS, 0, "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(tt.width, tt.height)

			if d.FullScreen != tt.fullScreen {
				t.Errorf("FullScreen = %v, want %v", d.FullScreen, tt.fullScreen)
			}
			if d.Direction != tt.direction {
				t.Errorf("Direction = %s, want %s", d.Direction, tt.direction)
			}
			if d.LogoSize != tt.logoSize {
				t.Errorf("LogoSize = %s, want %s", d.LogoSize, tt.logoSize)
			}
			if d.MaxWidth != tt.maxWidth {
				t.Errorf("MaxWidth = %s, want %s", d.MaxWidth, tt.maxWidth)
			}

			if tt.logoPct == 0 {
				if d.LogoWidth != tt.logoWidth {
					t.Errorf("LogoWidth = %q, want %q", d.LogoWidth, tt.logoWidth)
				}
				return
			}
			got, ok := d.LogoPercent()
			if !ok {
				t.Fatalf("LogoWidth %q is not a percentage", d.LogoWidth)
			}
			if math.Abs(got-tt.logoPct) > 1e-9 {
				t.Errorf("LogoWidth = %q, want %v%%", d.LogoWidth, tt.logoPct)
			}
		})
	}
}

func TestResolve_SmallLogoPercentFormat(t *testing.T) {
	d := Resolve(200, 500)
	if !strings.HasPrefix(d.LogoWidth, "15.17") || !strings.HasSuffix(d.LogoWidth, "%") {
		t.Errorf("expected ~15.18%%, got %q", d.LogoWidth)
	}
}

func TestResolve_NegativeSmallLogoWidth(t *testing.T) {
	// Below 144px the portrait paddings exceed the viewport; the
	// percentage is kept as computed and consumers clamp it.
	d := Resolve(100, 500)
	if d.FullScreen || d.LogoSize != LogoSmall {
		t.Fatalf("expected a boxed small-logo layout, got %+v", d)
	}
	pct, ok := d.LogoPercent()
	if !ok {
		t.Fatalf("expected a percentage, got %q", d.LogoWidth)
	}
	want := (100.0 - 2*48 - 2*24) / 369 * 100
	if math.Abs(pct-want) > 1e-9 || pct >= 0 {
		t.Errorf("LogoPercent() = %v, want %v", pct, want)
	}
	if !strings.HasPrefix(d.LogoWidth, "-11.92") {
		t.Errorf("LogoWidth = %q, want -11.92...%%", d.LogoWidth)
	}

	// The sign flips exactly where the paddings use up the width
	if d := Resolve(144, 500); d.LogoWidth != "0%" {
		t.Errorf("Resolve(144, 500) = %q, want 0%%", d.LogoWidth)
	}
	for w := 1.0; w < 144; w += 7 {
		if pct, _ := Resolve(w, 500).LogoPercent(); pct >= 0 {
			t.Errorf("Resolve(%v, 500): percent %v, want negative", w, pct)
		}
	}

	// Full screen drops the window padding, so the same width stays positive
	if pct, _ := Resolve(100, 400).LogoPercent(); pct <= 0 {
		t.Errorf("full-screen Resolve(100, 400): percent %v, want positive", pct)
	}
}

func TestOverrides_ExplicitZero(t *testing.T) {
	zero, threshold := 0.0, 400.0
	bp := Overrides{LandscapeSidePadding: &zero, LandscapeThreshold: &threshold}.Resolved()

	want := DefaultBreakpoints()
	want.LandscapeSidePadding = 0
	want.LandscapeThreshold = 400
	if bp != want {
		t.Errorf("Resolved() = %+v, want %+v", bp, want)
	}
	if bp.OrDefault() != bp {
		t.Error("OrDefault must keep a partly zero set")
	}
	if (Breakpoints{}).OrDefault() != DefaultBreakpoints() {
		t.Error("OrDefault of an empty set must be the defaults")
	}
	if (Overrides{}).Resolved() != DefaultBreakpoints() {
		t.Error("empty overrides must resolve to the defaults")
	}
}

func TestResolve_Deterministic(t *testing.T) {
	for w := 200.0; w <= 2000; w += 37 {
		for h := 100.0; h <= 1200; h += 23 {
			a := Resolve(w, h)
			b := Resolve(w, h)
			if a != b {
				t.Fatalf("Resolve(%v, %v) not deterministic: %+v vs %+v", w, h, a, b)
			}
		}
	}
}

func TestResolve_Properties(t *testing.T) {
	bp := DefaultBreakpoints()

	for w := 200.0; w <= 2000; w += 37 {
		for h := 100.0; h <= 1200; h += 23 {
			d := Resolve(w, h)

			switch {
			case h <= bp.ShortModeHeight:
				if !d.FullScreen {
					t.Errorf("(%v, %v): short tier must be full screen", w, h)
				}
				if w >= bp.LandscapeThreshold && d.Direction != Landscape {
					t.Errorf("(%v, %v): expected landscape", w, h)
				}
				if w < bp.LandscapeThreshold && d.LogoSize != LogoSmall {
					t.Errorf("(%v, %v): expected small logo", w, h)
				}
				if d.MaxWidth != MaxWidthXS {
					t.Errorf("(%v, %v): short tier keeps xs, got %s", w, h, d.MaxWidth)
				}
			case h <= bp.IntermediateHeight:
				wide := d.Direction == Landscape && d.MaxWidth == MaxWidthMD && d.LogoSize == LogoLarge
				narrow := d.Direction == Portrait && d.MaxWidth == MaxWidthXS && d.LogoSize == LogoSmall
				if !wide && !narrow {
					t.Errorf("(%v, %v): intermediate tier produced %+v", w, h, d)
				}
			default:
				if d.FullScreen || d.Direction != Portrait || d.LogoSize != LogoLarge || d.MaxWidth != MaxWidthXS {
					t.Errorf("(%v, %v): tall tier must keep defaults, got %+v", w, h, d)
				}
			}

			if pct, ok := d.LogoPercent(); ok {
				if pct <= 0 || pct > 100 {
					t.Errorf("(%v, %v): logo percent %v out of (0, 100]", w, h, pct)
				}
			} else if d.LogoWidth != LogoWidthAuto {
				t.Errorf("(%v, %v): unexpected logo width %q", w, h, d.LogoWidth)
			}
		}
	}
}

func TestBreakpoints_ThinModeBranch(t *testing.T) {
	// The default set never reaches the thin-mode branch.
	if d := Resolve(1200, 900); d.FullScreen {
		t.Error("default breakpoints must not force full screen on tall viewports")
	}

	bp := Breakpoints{ThinModeThreshold: 100}.WithDefaults()
	d := bp.Resolve(1200, 900)
	if !d.FullScreen {
		t.Error("a thin-mode threshold under 360 forces full screen")
	}
	if d.LogoWidth != LogoWidthFull {
		t.Errorf("expected 100%%, got %q", d.LogoWidth)
	}
}

func TestBreakpoints_WithDefaults(t *testing.T) {
	got := Breakpoints{}.WithDefaults()
	if got != DefaultBreakpoints() {
		t.Errorf("empty breakpoints should equal defaults, got %+v", got)
	}

	custom := Breakpoints{LandscapeThreshold: 400}.WithDefaults()
	if custom.LandscapeThreshold != 400 {
		t.Errorf("custom value overwritten: %v", custom.LandscapeThreshold)
	}
	if custom.DialogPadding != 48 {
		t.Errorf("missing default padding: %v", custom.DialogPadding)
	}

	if d := custom.Resolve(450, 500); d.Direction != Landscape {
		t.Errorf("custom landscape threshold ignored: %+v", d)
	}
}
