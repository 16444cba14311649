package api

import (
	"math"
	"time"

	"github.com/azihell/properties-dashboard/models"
	"github.com/azihell/properties-dashboard/services"
)

// PropertyDTO is one map column.
type PropertyDTO struct {
	ID        int64   `json:"id"`
	Price     float64 `json:"price"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Bin       int     `json:"bin"`
	Red       uint8   `json:"red"`
	Green     uint8   `json:"green"`
	Blue      uint8   `json:"blue"`
	Alpha     uint8   `json:"alpha"`
	Elevation float64 `json:"elevation"`
	Tooltip   string  `json:"tooltip"`
}

// SummaryDTO carries the headline metrics.
type SummaryDTO struct {
	RecordCount            int          `json:"record_count"`
	MissingCoordinateCount int          `json:"missing_coordinate_count"`
	AveragePrice           float64      `json:"average_price"`
	AveragePriceLabel      string       `json:"average_price_label"`
	MinPrice               float64      `json:"min_price"`
	MaxPrice               float64      `json:"max_price"`
	MeanLongitude          float64      `json:"mean_longitude"`
	MeanLatitude           float64      `json:"mean_latitude"`
	MostExpensive          *PropertyRef `json:"most_expensive,omitempty"`
}

// PropertyRef identifies a property and its price.
type PropertyRef struct {
	ID    int64   `json:"id"`
	Price float64 `json:"price"`
}

// WindowDTO is a price window in thousands.
type WindowDTO struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// SliderDTO describes the price slider.
type SliderDTO struct {
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Step   float64   `json:"step"`
	Window WindowDTO `json:"window"`
}

// ViewDTO is the initial map view.
type ViewDTO struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Zoom           float64 `json:"zoom"`
	MinZoom        float64 `json:"min_zoom"`
	MaxZoom        float64 `json:"max_zoom"`
	Pitch          float64 `json:"pitch"`
	Bearing        float64 `json:"bearing"`
	Radius         float64 `json:"radius"`
	ElevationScale float64 `json:"elevation_scale"`
}

// BinDTO is one price bin. Unbounded edges are omitted.
type BinDTO struct {
	Index int      `json:"index"`
	Name  string   `json:"name"`
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
	Label string   `json:"label"`
	Color [4]uint8 `json:"color"`
	Count int      `json:"count"`
}

// HistogramDTO is one histogram class in thousands.
type HistogramDTO struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// SessionResponse is returned when a session is created or fetched.
type SessionResponse struct {
	ID              string     `json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	Loaded          int        `json:"loaded"`
	DroppedMissing  int        `json:"dropped_missing"`
	DroppedOutliers int        `json:"dropped_outliers"`
	Strategy        string     `json:"strategy"`
	Summary         SummaryDTO `json:"summary"`
	Slider          SliderDTO  `json:"slider"`
	View            ViewDTO    `json:"view"`
	Bins            []BinDTO   `json:"bins"`
}

// VisibleResponse is a page of the visible set.
type VisibleResponse struct {
	Window WindowDTO `json:"window"`
	ListDataResponse
}

// PropertiesQuery pages through the visible set. Lo and Hi are read
// separately so that an absent bound keeps the session window.
type PropertiesQuery struct {
	Offset int `query:"offset" validate:"min=0"`
	Limit  int `query:"limit" default:"1000" validate:"min=1,max=100000"`
}

// WindowRequest sets the session window.
type WindowRequest struct {
	Lo *float64 `json:"lo" validate:"required"`
	Hi *float64 `json:"hi" validate:"required"`
}

func toPropertyDTO(p *models.ColoredProperty) PropertyDTO {
	return PropertyDTO{
		ID:        p.ID,
		Price:     p.Price,
		Longitude: p.Longitude,
		Latitude:  p.Latitude,
		Bin:       p.Bin,
		Red:       p.Color.R,
		Green:     p.Color.G,
		Blue:      p.Color.B,
		Alpha:     p.Color.A,
		Elevation: p.Elevation,
		Tooltip:   services.Tooltip(p),
	}
}

func toSummaryDTO(s models.Summary) SummaryDTO {
	dto := SummaryDTO{
		RecordCount:            s.RecordCount,
		MissingCoordinateCount: s.MissingCoordinateCount,
		AveragePrice:           s.AveragePrice,
		AveragePriceLabel:      services.FormatCurrency(s.AveragePrice),
		MinPrice:               s.MinPrice,
		MaxPrice:               s.MaxPrice,
		MeanLongitude:          s.MeanLongitude,
		MeanLatitude:           s.MeanLatitude,
	}
	if s.MostExpensive != nil {
		dto.MostExpensive = &PropertyRef{ID: s.MostExpensive.ID, Price: s.MostExpensive.Price}
	}
	return dto
}

func toBinDTOs(ds *models.Dataset, mapper *services.Mapper) []BinDTO {
	counts := services.BinCounts(ds.Properties)
	out := make([]BinDTO, 0, services.BinCount)
	lower := ds.Binning.Floor
	for i, upper := range ds.Binning.Upper {
		c := mapper.Color(i)
		out = append(out, BinDTO{
			Index: i,
			Name:  services.PaletteNames[i],
			Lower: finite(lower),
			Upper: finite(upper),
			Label: services.BinLabel(lower, upper),
			Color: [4]uint8{c.R, c.G, c.B, c.A},
			Count: counts[i],
		})
		lower = upper
	}
	return out
}

func toHistogramDTOs(buckets []models.HistogramBucket) []HistogramDTO {
	out := make([]HistogramDTO, len(buckets))
	for i, b := range buckets {
		out[i] = HistogramDTO{Lower: b.Lower, Upper: b.Upper, Count: b.Count}
	}
	return out
}

func toWindowDTO(w models.Window) WindowDTO {
	return WindowDTO{Lo: w.Lo, Hi: w.Hi}
}

func finite(f float64) *float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}
