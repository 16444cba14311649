package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/azihell/properties-dashboard/models"
	"github.com/azihell/properties-dashboard/utils"
)

// BinCount is the number of price classes on the map.
const BinCount = 7

// Binning strategies.
const (
	StrategyAdaptive = "adaptive"
	StrategyFixed    = "fixed"
)

// DefaultFixedEdges are the upper edges used by the fixed strategy when none
// are configured.
var DefaultFixedEdges = []float64{200000, 320000, 440000, 580000, 700000, 820000, 1000000, math.Inf(1)}

// Binner splits the price axis into BinCount ordered bins.
type Binner struct {
	logger   *utils.Logger
	strategy string
	fixed    [BinCount]float64
}

// NewBinner validates the strategy and, for the fixed strategy, the edges.
// Fixed edges must be strictly increasing; +Inf is appended when missing and
// edges past the sixth collapse into the last, unbounded bin.
func NewBinner(logger *utils.Logger, strategy string, fixedEdges []float64) (*Binner, error) {
	b := &Binner{logger: logger, strategy: strategy}

	switch strategy {
	case StrategyAdaptive:
	case StrategyFixed:
		if len(fixedEdges) == 0 {
			fixedEdges = DefaultFixedEdges
		}
		edges, err := normaliseFixedEdges(fixedEdges)
		if err != nil {
			return nil, fmt.Errorf("binner: %w", err)
		}
		b.fixed = edges
	default:
		return nil, fmt.Errorf("binner: unknown strategy %q", strategy)
	}

	return b, nil
}

func normaliseFixedEdges(edges []float64) ([BinCount]float64, error) {
	var out [BinCount]float64

	if !math.IsInf(edges[len(edges)-1], 1) {
		edges = append(append([]float64(nil), edges...), math.Inf(1))
	}
	if len(edges) < BinCount {
		return out, fmt.Errorf("fixed strategy needs %d upper edges, got %d", BinCount, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return out, errors.New("fixed edges must be strictly increasing")
		}
	}

	copy(out[:BinCount-1], edges[:BinCount-1])
	out[BinCount-1] = math.Inf(1)
	return out, nil
}

// Edges computes the partition for the given prices.
func (b *Binner) Edges(prices []float64) (models.Binning, error) {
	if len(prices) == 0 {
		return models.Binning{}, &EmptyInputError{Stage: "cleaning"}
	}

	if b.strategy == StrategyFixed {
		return models.Binning{Strategy: StrategyFixed, Floor: math.Inf(-1), Upper: b.fixed}, nil
	}

	lo, hi := prices[0], prices[0]
	for _, p := range prices[1:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	if lo == hi {
		return models.Binning{}, &DegenerateRangeError{Price: lo}
	}

	low := lo - 1
	high := hi + 1
	step := (high - low) / BinCount

	bins := models.Binning{Strategy: StrategyAdaptive, Floor: low}
	for i := 0; i < BinCount-1; i++ {
		bins.Upper[i] = low + step*float64(i+1)
	}
	bins.Upper[BinCount-1] = math.Inf(1)

	b.logger.Debug("[binner] Adaptive edges floor=%.2f step=%.2f", low, step)
	return bins, nil
}

// Assign returns the index of the first bin whose upper edge exceeds price.
// A price equal to an edge belongs to the upper bin.
func Assign(bins models.Binning, price float64) int {
	for i, upper := range bins.Upper {
		if price < upper {
			return i
		}
	}
	return BinCount - 1
}
