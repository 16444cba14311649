package services

import (
	"math"
	"testing"

	"github.com/azihell/properties-dashboard/models"
)

func fixedTestBins(t *testing.T) models.Binning {
	t.Helper()
	b, err := NewBinner(newTestLogger(), StrategyFixed, DefaultFixedEdges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bins, err := b.Edges([]float64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return bins
}

func TestMapperScaleAlpha(t *testing.T) {
	m, err := NewMapper(MapperOptions{AlphaPolicy: AlphaScale, ElevationScale: 0.0005})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	props := []*models.Property{
		{ID: 1, Price: 150000},
		{ID: 2, Price: 1500000},
	}
	out := m.Map(props, fixedTestBins(t))

	cheap := models.RGBA{R: 255, G: 45, B: 0, A: 255}
	if out[0].Color != cheap {
		t.Errorf("cheap color: got %+v, want %+v", out[0].Color, cheap)
	}
	dear := models.RGBA{R: 230, G: 0, B: 255, A: 25}
	if out[1].Color != dear {
		t.Errorf("expensive color: got %+v, want %+v", out[1].Color, dear)
	}
	if out[1].Elevation != 750 {
		t.Errorf("elevation: got %v, want 750", out[1].Elevation)
	}
}

func TestMapperConstantAlpha(t *testing.T) {
	m, err := NewMapper(MapperOptions{AlphaPolicy: AlphaConstant, ConstantAlpha: 160, ElevationScale: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for bin := 0; bin < BinCount; bin++ {
		if got := m.Color(bin).A; got != 160 {
			t.Errorf("bin %d alpha: got %d, want 160", bin, got)
		}
	}
}

func TestMapperRejectsBadOptions(t *testing.T) {
	if _, err := NewMapper(MapperOptions{AlphaPolicy: "gradient", ElevationScale: 1}); err == nil {
		t.Error("unknown alpha policy: expected an error")
	}
	if _, err := NewMapper(MapperOptions{ElevationScale: 0}); err == nil {
		t.Error("zero elevation scale: expected an error")
	}
}

func TestMapperCoversEveryRecordOnBoundaries(t *testing.T) {
	m, _ := NewMapper(MapperOptions{ElevationScale: 0.0005})
	bins := fixedTestBins(t)

	var props []*models.Property
	for i, edge := range bins.Upper {
		if math.IsInf(edge, 1) {
			continue
		}
		props = append(props, &models.Property{ID: int64(i), Price: edge})
	}
	props = append(props, &models.Property{ID: 99, Price: bins.Upper[2]})

	out := m.Map(props, bins)
	if len(out) != len(props) {
		t.Fatalf("mapped: got %d, want %d", len(out), len(props))
	}
	for i, p := range out {
		want := Palette[p.Bin]
		if p.Color.R != want.R || p.Color.G != want.G || p.Color.B != want.B {
			t.Errorf("record %d: color %+v does not match bin %d", i, p.Color, p.Bin)
		}
	}
	// Equal prices share bin and color.
	if out[2].Bin != out[len(out)-1].Bin || out[2].Color != out[len(out)-1].Color {
		t.Error("equal prices must share bin and color")
	}
}

func TestMapperCopiesInput(t *testing.T) {
	m, _ := NewMapper(MapperOptions{ElevationScale: 0.0005})
	p := &models.Property{ID: 1, Price: 300000}

	out := m.Map([]*models.Property{p}, fixedTestBins(t))
	out[0].Price = 1
	if p.Price != 300000 {
		t.Error("Map must not share the cleaned record")
	}
}
