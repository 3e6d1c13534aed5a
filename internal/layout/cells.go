package layout

import "math"

// CellMetrics is the pixel size of one terminal cell
type CellMetrics struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// DefaultCellMetrics matches a common 8x16 terminal font.
func DefaultCellMetrics() CellMetrics {
	return CellMetrics{CellWidth: 8, CellHeight: 16}
}

// WithDefaults fills zero or negative fields from DefaultCellMetrics.
func (c CellMetrics) WithDefaults() CellMetrics {
	d := DefaultCellMetrics()
	if c.CellWidth <= 0 {
		c.CellWidth = d.CellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = d.CellHeight
	}
	return c
}

// Viewport converts a terminal size in cells to pixels.
func (c CellMetrics) Viewport(cols, rows int) (width, height float64) {
	return float64(cols) * c.CellWidth, float64(rows) * c.CellHeight
}

// Cols converts a horizontal pixel length to whole columns, rounding down.
func (c CellMetrics) Cols(px float64) int {
	return int(math.Floor(px / c.CellWidth))
}

// Rows converts a vertical pixel length to whole rows, rounding down.
func (c CellMetrics) Rows(px float64) int {
	return int(math.Floor(px / c.CellHeight))
}
