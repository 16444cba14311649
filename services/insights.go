package services

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/azihell/properties-dashboard/models"
	"github.com/azihell/properties-dashboard/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the summary metrics of a cleaned dataset.
func (s *InsightService) Generate(clean *models.CleanResult) models.Summary {
	summary := models.Summary{MissingCoordinateCount: clean.MissingCoordinates}

	props := clean.Properties
	if len(props) == 0 {
		return summary
	}

	summary.RecordCount = len(props)
	summary.MinPrice = props[0].Price
	summary.MaxPrice = props[0].Price
	summary.MostExpensive = props[0]

	var total, lonTotal, latTotal float64
	for _, p := range props {
		total += p.Price
		lonTotal += p.Longitude
		latTotal += p.Latitude
		if p.Price < summary.MinPrice {
			summary.MinPrice = p.Price
		}
		if p.Price > summary.MaxPrice {
			summary.MaxPrice = p.Price
			summary.MostExpensive = p
		}
	}

	n := float64(len(props))
	summary.AveragePrice = roundTo(total/n, 2)
	summary.MeanLongitude = roundTo(lonTotal/n, 6)
	summary.MeanLatitude = roundTo(latTotal/n, 6)
	return summary
}

// Histogram buckets prices, in thousands, into equal-width classes between
// the minimum and maximum. The maximum lands in the last class.
func (s *InsightService) Histogram(props []*models.Property, classes int) []models.HistogramBucket {
	if len(props) == 0 || classes < 1 {
		return nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range props {
		k := p.Price / PriceUnit
		lo = math.Min(lo, k)
		hi = math.Max(hi, k)
	}

	if lo == hi {
		return []models.HistogramBucket{{Lower: lo, Upper: hi, Count: len(props)}}
	}

	width := (hi - lo) / float64(classes)
	buckets := make([]models.HistogramBucket, classes)
	for i := range buckets {
		buckets[i].Lower = lo + width*float64(i)
		buckets[i].Upper = lo + width*float64(i+1)
	}
	buckets[classes-1].Upper = hi

	for _, p := range props {
		i := int((p.Price/PriceUnit - lo) / width)
		if i >= classes {
			i = classes - 1
		}
		buckets[i].Count++
	}
	return buckets
}

// BinCounts counts properties per price bin.
func BinCounts(props []*models.ColoredProperty) [BinCount]int {
	var counts [BinCount]int
	for _, p := range props {
		counts[p.Bin]++
	}
	return counts
}

// Print writes a terminal report of ds and the visible subset for w.
func (s *InsightService) Print(out io.Writer, ds *models.Dataset, w models.Window, visible []*models.ColoredProperty) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)
	r := ds.Summary

	fmt.Fprintf(out, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(out, "\033[1;35m  PROPERTY PRICE MAP\033[0m\n")
	fmt.Fprintf(out, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(out, "\033[1;33m  Dataset information\033[0m\n")
	fmt.Fprintf(out, "  %s\n", thin)
	fmt.Fprintf(out, "  Rows loaded                    : \033[1m%s\033[0m\n", FormatCount(ds.Loaded))
	fmt.Fprintf(out, "  Number of properties           : \033[1m%s\033[0m\n", FormatCount(r.RecordCount))
	fmt.Fprintf(out, "  Properties missing coordinates : \033[1m%d\033[0m\n", r.MissingCoordinateCount)
	fmt.Fprintf(out, "  Dropped (incomplete / outlier) : %d / %d\n", ds.Clean.DroppedMissing, ds.Clean.DroppedOutliers)
	fmt.Fprintf(out, "  Average price                  : \033[1;32m%s\033[0m\n", FormatCurrency(r.AveragePrice))
	fmt.Fprintf(out, "  Price range                    : %s to %s\n", FormatCurrency(r.MinPrice), FormatCurrency(r.MaxPrice))
	fmt.Fprintf(out, "  Map center (lat, lon)          : %.6f, %.6f\n", r.MeanLatitude, r.MeanLongitude)
	if r.MostExpensive != nil {
		fmt.Fprintf(out, "  Most expensive                 : #%d at \033[1;31m%s\033[0m\n",
			r.MostExpensive.ID, FormatCurrency(r.MostExpensive.Price))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "\033[1;33m  Price bins (%s)\033[0m\n", ds.Binning.Strategy)
	fmt.Fprintf(out, "  %s\n", thin)
	counts := BinCounts(ds.Properties)
	lower := ds.Binning.Floor
	for i, upper := range ds.Binning.Upper {
		fmt.Fprintf(out, "  %-7s %-34s %5d\n", PaletteNames[i], BinLabel(lower, upper), counts[i])
		lower = upper
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "\033[1;33m  Price histogram (R$ x1000)\033[0m\n")
	fmt.Fprintf(out, "  %s\n", thin)
	if len(ds.Histogram) == 0 {
		fmt.Fprintf(out, "  No price data available\n")
	}
	peak := 0
	for _, b := range ds.Histogram {
		if b.Count > peak {
			peak = b.Count
		}
	}
	for _, b := range ds.Histogram {
		bar := 0
		if peak > 0 {
			bar = b.Count * 40 / peak
		}
		fmt.Fprintf(out, "  %9.1f %s %d\n", b.Lower, strings.Repeat("█", bar), b.Count)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "\033[1;33m  Visible window\033[0m\n")
	fmt.Fprintf(out, "  %s\n", thin)
	fmt.Fprintf(out, "  R$ x1.000 %.1f to %.1f : \033[1m%d\033[0m of %d properties\n",
		w.Lo, w.Hi, len(visible), len(ds.Properties))

	fmt.Fprintf(out, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// BinLabel renders a bin range as currency.
func BinLabel(lower, upper float64) string {
	switch {
	case math.IsInf(lower, -1):
		return "below " + FormatCurrency(upper)
	case math.IsInf(upper, 1):
		return FormatCurrency(lower) + " and above"
	default:
		return FormatCurrency(lower) + " to " + FormatCurrency(upper)
	}
}
