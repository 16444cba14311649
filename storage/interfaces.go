package storage

import "github.com/azihell/properties-dashboard/models"

// PropertyWriter is the interface any export backend must satisfy.
type PropertyWriter interface {
	Write(props []*models.ColoredProperty) error
	Close() error
}
