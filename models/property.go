package models

// RawProperty holds one parsed CSV row before cleaning.
// A nil field means the cell was blank or could not be parsed.
type RawProperty struct {
	Line      int
	ID        *int64
	Price     *float64
	Latitude  *float64
	Longitude *float64
}

// Property is a complete, validated record that survived cleaning.
type Property struct {
	ID        int64
	Price     float64
	Latitude  float64
	Longitude float64
}

// RGBA is the fill color of one map column.
type RGBA struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// ColoredProperty is a cleaned property with its price bin, color and
// column elevation attached.
type ColoredProperty struct {
	Property
	Bin       int
	Color     RGBA
	Elevation float64
}

// CleanResult is the output of the cleaning stage.
type CleanResult struct {
	Properties         []*Property
	MissingCoordinates int
	DroppedMissing     int
	DroppedOutliers    int
}

// Binning describes the 7-bin partition of the price axis.
// Floor is the lower bound of bin 0 (-Inf when unbounded) and Upper[i] is
// the exclusive upper bound of bin i; Upper[6] is always +Inf.
type Binning struct {
	Strategy string
	Floor    float64
	Upper    [7]float64
}

// HistogramBucket counts the properties whose price (in thousands) lies in
// [Lower, Upper).
type HistogramBucket struct {
	Lower float64
	Upper float64
	Count int
}

// Summary holds the dataset metrics shown above the map.
type Summary struct {
	RecordCount            int
	MissingCoordinateCount int
	AveragePrice           float64
	MinPrice               float64
	MaxPrice               float64
	MeanLongitude          float64
	MeanLatitude           float64
	MostExpensive          *Property
}

// Window is a closed price interval expressed in thousands of currency units.
type Window struct {
	Lo float64
	Hi float64
}

// Contains reports whether a stored price lies within the window.
// Prices are compared in thousands, so a window of (min/1000, max/1000)
// contains min and max exactly.
func (w Window) Contains(price float64) bool {
	k := price / 1000
	return k >= w.Lo && k <= w.Hi
}

// Dataset is the immutable result of one load/clean/bin/color cycle.
type Dataset struct {
	Digest     string
	Loaded     int
	Clean      CleanResult
	Binning    Binning
	Properties []*ColoredProperty
	Summary    Summary
	Histogram  []HistogramBucket
	Bounds     Window
}

// MapView is the initial camera and column-layer setup of the map.
type MapView struct {
	Latitude       float64
	Longitude      float64
	Zoom           float64
	MinZoom        float64
	MaxZoom        float64
	Pitch          float64
	Bearing        float64
	Radius         float64
	ElevationScale float64
}

// Slider describes the price range control, in thousands.
type Slider struct {
	Min    float64
	Max    float64
	Step   float64
	Window Window
}
