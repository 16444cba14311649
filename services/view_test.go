package services

import (
	"testing"

	"github.com/azihell/properties-dashboard/models"
)

func TestMapViewCentersOnMeans(t *testing.T) {
	s := models.Summary{MeanLatitude: -23.565, MeanLongitude: -46.645}
	v := MapView(s, DefaultViewOptions())

	if v.Latitude != -23.565 || v.Longitude != -46.645 {
		t.Errorf("center: got %v,%v", v.Latitude, v.Longitude)
	}
	if v.Zoom != 15 || v.MinZoom != 13 || v.MaxZoom != 17 || v.Pitch != 60 || v.Radius != 6 {
		t.Errorf("view: got %+v", v)
	}
}

func TestViewOptionsValidate(t *testing.T) {
	if err := DefaultViewOptions().Validate(); err != nil {
		t.Fatalf("defaults: unexpected error: %v", err)
	}

	o := DefaultViewOptions()
	o.Zoom = 20
	if err := o.Validate(); err == nil {
		t.Error("zoom above max: expected an error")
	}

	o = DefaultViewOptions()
	o.SliderStep = 0
	if err := o.Validate(); err == nil {
		t.Error("zero slider step: expected an error")
	}
}

func TestSliderAndTooltip(t *testing.T) {
	props := coloredProps(120000, 480000)
	ds := &models.Dataset{Properties: props, Bounds: Bounds(props)}

	s := Slider(ds, models.Window{Lo: 200, Hi: 300}, 20)
	if s.Min != 120 || s.Max != 480 || s.Step != 20 || s.Window.Lo != 200 {
		t.Errorf("slider: got %+v", s)
	}

	if got, want := Tooltip(props[1]), "ID: 2\nPrice: R$ 480,000.00"; got != want {
		t.Errorf("Tooltip = %q; want %q", got, want)
	}
}
