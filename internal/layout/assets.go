package layout

import "strings"

// Asset identifies a logo image variant
type Asset string

const (
	AssetTall      Asset = "tall"
	AssetLandscape Asset = "landscape"
	AssetPortrait  Asset = "portrait"
)

var assetURLs = map[Asset]string{
	AssetTall:      "https://liquid-labs.com/static/img/app/liquid-labs-login-tall.svg",
	AssetLandscape: "https://liquid-labs.com/static/img/landing/liquid-labs-logo-landscape.svg",
	AssetPortrait:  "https://liquid-labs.com/static/img/landing/liquid-labs-logo-portrait.svg",
}

var assetArt = map[Asset][]string{
	AssetTall: {
		"    ~~~~~~~~    ",
		"  ~~        ~~  ",
		" ~~  ~~~~~~  ~~ ",
		" ~~ ~~    ~~ ~~ ",
		" ~~  ~~~~~~  ~~ ",
		"  ~~        ~~  ",
		"    ~~~~~~~~    ",
		"                ",
		"     LIQUID     ",
		"      LABS      ",
	},
	AssetLandscape: {
		"(~~) LIQUID LABS",
	},
	AssetPortrait: {
		" (~~) ",
		"LIQUID",
		" LABS ",
	},
}

// Wordmark is the text fallback when no rendition fits.
const Wordmark = "LIQUID LABS"

// LogoAsset picks the logo variant for a descriptor. Small logos use the
// crop opposite to the dialog direction so the logo runs along the short
// side.
func LogoAsset(d Descriptor) Asset {
	if d.LogoSize == LogoLarge {
		return AssetTall
	}
	if d.Direction == Portrait {
		return AssetLandscape
	}
	return AssetPortrait
}

// URL returns the image location of the asset.
func (a Asset) URL() string {
	return assetURLs[a]
}

// Art returns the terminal rendition of the asset.
func (a Asset) Art() []string {
	return assetArt[a]
}

// ArtWidth returns the widest line of the terminal rendition.
func (a Asset) ArtWidth() int {
	w := 0
	for _, line := range assetArt[a] {
		if n := len([]rune(line)); n > w {
			w = n
		}
	}
	return w
}

// Render returns the rendition if it fits in maxCols, else the wordmark
// cut to maxCols.
func (a Asset) Render(maxCols int) string {
	if maxCols <= 0 {
		return ""
	}
	if a.ArtWidth() <= maxCols {
		return strings.Join(a.Art(), "\n")
	}
	mark := []rune(Wordmark)
	if len(mark) > maxCols {
		mark = mark[:maxCols]
	}
	return string(mark)
}

// GridColumns is the number of columns in the dialog grid.
const GridColumns = 12

// GridSpans returns how many of GridColumns the logo and the form occupy.
func GridSpans(d Descriptor) (logo, form int) {
	if d.Direction == Portrait {
		return GridColumns, GridColumns
	}
	if d.LogoSize == LogoLarge {
		return 6, 6
	}
	return 2, 10
}
