// Package render turns stored quotations and invoices into customer-facing
// PDF documents. The layout is a fixed template; all variant differences are
// data-driven from the Document view model and the Theme.
package render

import "github.com/johnfercher/maroto/v2/pkg/props"

// Theme carries every visual knob of the document template in one place so
// quotation and invoice rendering share a single source of styling truth.
type Theme struct {
	Primary   props.Color
	Accent    props.Color
	Muted     props.Color
	HeaderBg  props.Color
	// Watermark is the near-white tone of the faint cover text.
	Watermark props.Color
	TitleSize float64
	BodySize  float64
	SmallSize float64
	RowHeight float64
	// DescriptionLimit bounds item descriptions; longer text is truncated
	// with a trailing ellipsis.
	DescriptionLimit int
}

// DefaultTheme returns the standard house style.
func DefaultTheme() Theme {
	return Theme{
		Primary:          props.Color{Red: 23, Green: 54, Blue: 93},
		Accent:           props.Color{Red: 0, Green: 122, Blue: 255},
		Muted:            props.Color{Red: 120, Green: 120, Blue: 120},
		HeaderBg:         props.Color{Red: 235, Green: 240, Blue: 248},
		Watermark:        props.Color{Red: 228, Green: 233, Blue: 240},
		TitleSize:        22,
		BodySize:         9,
		SmallSize:        7.5,
		RowHeight:        6,
		DescriptionLimit: 100,
	}
}

// Truncate bounds s at the theme's description limit, appending an ellipsis
// when anything was cut. Runs on runes so multi-byte text is never split.
func (t Theme) Truncate(s string) string {
	limit := t.DescriptionLimit
	if limit <= 0 || len([]rune(s)) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
