package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Color is an RGB color used in headings and table fills.
type Color struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// Style is the immutable formatting configuration threaded through the
// renderer components. One Style value serves one export; concurrent
// exports with different styles never share state.
type Style struct {
	// ClinicName appears in the document title block.
	ClinicName string `yaml:"clinic_name"`

	// FontFamily is a PDF core font family (Helvetica, Times, Courier).
	FontFamily  string  `yaml:"font_family"`
	BaseSize    float64 `yaml:"base_size"`    // body text, points
	HeadingSize float64 `yaml:"heading_size"` // section headings, points
	TitleSize   float64 `yaml:"title_size"`   // document title, points

	// Accent colors headings and table header fills; Banding fills
	// alternating table rows.
	Accent  Color `yaml:"accent"`
	Banding Color `yaml:"banding"`

	// Page geometry. A4 portrait with uniform margins; these are
	// configuration constants, not per-call parameters.
	MarginInches float64 `yaml:"margin_inches"`

	// Scan image display box, inches. Images fit within this box
	// preserving aspect ratio.
	ImageBoxWidth  float64 `yaml:"image_box_width"`
	ImageBoxHeight float64 `yaml:"image_box_height"`

	// BreakAfterLastImage forces a page break after the final scan image
	// block as well as the intermediate ones. Off by default to avoid a
	// trailing blank page.
	BreakAfterLastImage bool `yaml:"break_after_last_image"`
}

// DefaultStyle returns the built-in report style.
func DefaultStyle() Style {
	return Style{
		ClinicName:     "Dental Case Report",
		FontFamily:     "Helvetica",
		BaseSize:       10,
		HeadingSize:    13,
		TitleSize:      18,
		Accent:         Color{R: 23, G: 87, B: 151},
		Banding:        Color{R: 235, G: 241, B: 247},
		MarginInches:   0.75,
		ImageBoxWidth:  6,
		ImageBoxHeight: 4,
	}
}

// LoadStyle reads a YAML style file and overlays it on the defaults, so a
// file only needs to name the values it changes.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("read style file: %w", err)
	}
	if err := yaml.Unmarshal(data, &style); err != nil {
		return Style{}, fmt.Errorf("parse style file %s: %w", path, err)
	}
	return style, nil
}
