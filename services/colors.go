package services

import (
	"fmt"

	"github.com/azihell/properties-dashboard/models"
)

// Alpha policies.
const (
	AlphaScale    = "scale"
	AlphaConstant = "constant"
)

// Palette colors bins from cheapest (red) to most expensive (violet).
var Palette = [BinCount]models.RGBA{
	{R: 255, G: 45, B: 0},
	{R: 255, G: 165, B: 0},
	{R: 245, G: 255, B: 0},
	{R: 50, G: 255, B: 0},
	{R: 0, G: 235, B: 255},
	{R: 0, G: 10, B: 255},
	{R: 230, G: 0, B: 255},
}

// PaletteNames is index-aligned with Palette.
var PaletteNames = [BinCount]string{"red", "orange", "yellow", "green", "cyan", "blue", "violet"}

// Transparency fades the columns as price grows.
var Transparency = [BinCount]uint8{255, 200, 150, 100, 75, 50, 25}

// MapperOptions configures the Mapper.
type MapperOptions struct {
	AlphaPolicy    string
	ConstantAlpha  uint8
	ElevationScale float64
}

// Mapper attaches bin, color and elevation to cleaned properties.
type Mapper struct {
	opts MapperOptions
}

// NewMapper validates opts and returns a Mapper.
func NewMapper(opts MapperOptions) (*Mapper, error) {
	switch opts.AlphaPolicy {
	case "":
		opts.AlphaPolicy = AlphaScale
	case AlphaScale, AlphaConstant:
	default:
		return nil, fmt.Errorf("mapper: unknown alpha policy %q", opts.AlphaPolicy)
	}
	if opts.ElevationScale <= 0 {
		return nil, fmt.Errorf("mapper: elevation scale must be positive, got %v", opts.ElevationScale)
	}
	return &Mapper{opts: opts}, nil
}

// Color returns the fill for a bin index.
func (m *Mapper) Color(bin int) models.RGBA {
	c := Palette[bin]
	if m.opts.AlphaPolicy == AlphaConstant {
		c.A = m.opts.ConstantAlpha
	} else {
		c.A = Transparency[bin]
	}
	return c
}

// Map returns one ColoredProperty per input property, in input order.
// The input records are copied, never modified.
func (m *Mapper) Map(props []*models.Property, bins models.Binning) []*models.ColoredProperty {
	out := make([]*models.ColoredProperty, 0, len(props))
	for _, p := range props {
		bin := Assign(bins, p.Price)
		out = append(out, &models.ColoredProperty{
			Property:  *p,
			Bin:       bin,
			Color:     m.Color(bin),
			Elevation: p.Price * m.opts.ElevationScale,
		})
	}
	return out
}
