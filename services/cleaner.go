package services

import (
	"github.com/azihell/properties-dashboard/models"
	"github.com/azihell/properties-dashboard/utils"
)

// Missing-coordinate counting modes.
const (
	// MissingLatitude counts rows without latitude only. This matches the
	// dashboard's historical figure.
	MissingLatitude = "latitude"
	// MissingEither counts rows lacking latitude or longitude.
	MissingEither = "either"
)

// CleanerOptions configures the Cleaner.
type CleanerOptions struct {
	// OutlierCeiling drops prices strictly above it; 0 disables the check.
	OutlierCeiling float64
	// MissingMode is MissingLatitude or MissingEither.
	MissingMode string
}

// Cleaner turns loaded rows into complete Property records.
type Cleaner struct {
	logger *utils.Logger
	opts   CleanerOptions
}

// NewCleaner creates a Cleaner with the given logger and options.
func NewCleaner(logger *utils.Logger, opts CleanerOptions) *Cleaner {
	if opts.MissingMode == "" {
		opts.MissingMode = MissingLatitude
	}
	return &Cleaner{logger: logger, opts: opts}
}

// Clean filters raw into a new slice of complete records. raw is left as is.
func (c *Cleaner) Clean(raw []*models.RawProperty) *models.CleanResult {
	res := &models.CleanResult{
		Properties:         make([]*models.Property, 0, len(raw)),
		MissingCoordinates: c.countMissingCoordinates(raw),
	}

	for _, r := range raw {
		if r.ID == nil || r.Price == nil || r.Latitude == nil || r.Longitude == nil {
			c.logger.Debug("[cleaner] Dropping incomplete row at line %d", r.Line)
			res.DroppedMissing++
			continue
		}

		if c.opts.OutlierCeiling > 0 && *r.Price > c.opts.OutlierCeiling {
			c.logger.Debug("[cleaner] Dropping outlier %d priced %.2f", *r.ID, *r.Price)
			res.DroppedOutliers++
			continue
		}

		res.Properties = append(res.Properties, &models.Property{
			ID:        *r.ID,
			Price:     *r.Price,
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d properties (missing %d, outliers %d)",
		len(raw), len(res.Properties), res.DroppedMissing, res.DroppedOutliers)
	return res
}

// countMissingCoordinates keeps the historical latitude-only count unless
// MissingEither is configured.
func (c *Cleaner) countMissingCoordinates(raw []*models.RawProperty) int {
	latMissing, eitherMissing := 0, 0
	for _, r := range raw {
		if r.Latitude == nil {
			latMissing++
		}
		if r.Latitude == nil || r.Longitude == nil {
			eitherMissing++
		}
	}

	if c.opts.MissingMode == MissingEither {
		return eitherMissing
	}
	return latMissing
}
