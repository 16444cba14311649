package services

import "github.com/azihell/properties-dashboard/models"

// PriceUnit converts window endpoints (thousands) to stored prices.
const PriceUnit = 1000.0

// Filter returns the properties priced within w, both ends inclusive, in
// input order. The result shares records with props; props is not changed.
// An inverted window yields an empty result.
func Filter(props []*models.ColoredProperty, w models.Window) []*models.ColoredProperty {
	out := make([]*models.ColoredProperty, 0, len(props))
	if w.Lo > w.Hi {
		return out
	}

	for _, p := range props {
		if w.Contains(p.Price) {
			out = append(out, p)
		}
	}
	return out
}

// Bounds is the default window: the full observed price range in thousands.
func Bounds(props []*models.ColoredProperty) models.Window {
	if len(props) == 0 {
		return models.Window{}
	}
	lo, hi := props[0].Price, props[0].Price
	for _, p := range props[1:] {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}
	return models.Window{Lo: lo / PriceUnit, Hi: hi / PriceUnit}
}
