package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azihell/properties-dashboard/services"
	"github.com/azihell/properties-dashboard/utils"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, c.HTTPPort)
	assert.Equal(t, services.StrategyAdaptive, c.BinStrategy)
	assert.Equal(t, services.AlphaScale, c.AlphaPolicy)
	assert.Equal(t, 0.0005, c.ElevationScale)
	assert.Equal(t, 2000000.0, c.OutlierCeiling)
	assert.Equal(t, 40, c.HistogramClasses)
	assert.Equal(t, 20.0, c.SliderStep)
	assert.Equal(t, rune(0), c.Delimiter())

	v := c.ViewOptions()
	assert.NoError(t, v.Validate())
	assert.Equal(t, 15.0, v.Zoom)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "propmap.yaml")
	yml := []byte("bin_strategy: fixed\nfixed_edges: [100000, 200000, 300000, 400000, 500000, 600000]\nhttp_port: 9000\ncsv_delimiter: \";\"\n")
	require.NoError(t, os.WriteFile(path, yml, 0o644))

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("ALPHA_POLICY", "CONSTANT")
	t.Setenv("OUTLIER_CEILING", "0")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, c.HTTPPort, "env wins over YAML")
	assert.Equal(t, services.StrategyFixed, c.BinStrategy)
	assert.Len(t, c.FixedEdges, 6)
	assert.Equal(t, ';', c.Delimiter())
	assert.Equal(t, services.AlphaConstant, c.AlphaPolicy)
	assert.Equal(t, 0.0, c.OutlierCeiling)

	opts := c.PipelineOptions()
	assert.Equal(t, ';', opts.Delimiter)
	assert.Equal(t, uint8(160), opts.Mapper.ConstantAlpha)
	_, err = services.NewPipeline(utils.NewNopLogger(), nil, opts)
	assert.NoError(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"BIN_STRATEGY":    "quantile",
		"ALPHA_POLICY":    "gradient",
		"ELEVATION_SCALE": "-1",
		"HTTP_PORT":       "70000",
		"MAP_ZOOM":        "25",
		"FIXED_EDGES":     "300000,200000,100000,400000,500000,600000",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if key == "FIXED_EDGES" {
				t.Setenv("BIN_STRATEGY", "fixed")
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseEdges(t *testing.T) {
	edges, err := parseEdges("200000, 320000,inf")
	require.NoError(t, err)
	assert.Equal(t, []float64{200000, 320000, math.Inf(1)}, edges)

	_, err = parseEdges("200000,abc")
	assert.Error(t, err)
}

func TestMaxUploadBytes(t *testing.T) {
	c := &Config{MaxUploadMB: 2}
	assert.Equal(t, int64(2<<20), c.MaxUploadBytes())
}
