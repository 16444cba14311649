package services

import (
	"fmt"

	"github.com/azihell/properties-dashboard/models"
)

// ViewOptions holds the fixed parts of the map view.
type ViewOptions struct {
	Zoom           float64
	MinZoom        float64
	MaxZoom        float64
	Pitch          float64
	Bearing        float64
	Radius         float64
	ElevationScale float64
	SliderStep     float64
}

// DefaultViewOptions matches the dashboard's street-level 3D view.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		Zoom:           15,
		MinZoom:        13,
		MaxZoom:        17,
		Pitch:          60,
		Bearing:        0,
		Radius:         6,
		ElevationScale: 0.0005,
		SliderStep:     20,
	}
}

// Validate checks that the zoom range is ordered and the sizes are positive.
func (o ViewOptions) Validate() error {
	if o.MinZoom > o.MaxZoom || o.Zoom < o.MinZoom || o.Zoom > o.MaxZoom {
		return fmt.Errorf("view: zoom %v outside [%v, %v]", o.Zoom, o.MinZoom, o.MaxZoom)
	}
	if o.Radius <= 0 || o.ElevationScale <= 0 || o.SliderStep <= 0 {
		return fmt.Errorf("view: radius, elevation scale and slider step must be positive")
	}
	return nil
}

// MapView centers the view on the dataset's mean coordinates.
func MapView(s models.Summary, o ViewOptions) models.MapView {
	return models.MapView{
		Latitude:       s.MeanLatitude,
		Longitude:      s.MeanLongitude,
		Zoom:           o.Zoom,
		MinZoom:        o.MinZoom,
		MaxZoom:        o.MaxZoom,
		Pitch:          o.Pitch,
		Bearing:        o.Bearing,
		Radius:         o.Radius,
		ElevationScale: o.ElevationScale,
	}
}

// Slider spans the dataset bounds and carries the current window.
func Slider(ds *models.Dataset, w models.Window, step float64) models.Slider {
	return models.Slider{Min: ds.Bounds.Lo, Max: ds.Bounds.Hi, Step: step, Window: w}
}

// Tooltip is the hover label of one map column.
func Tooltip(p *models.ColoredProperty) string {
	return fmt.Sprintf("ID: %d\nPrice: %s", p.ID, FormatCurrency(p.Price))
}
