package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/azihell/properties-dashboard/services"
	"github.com/azihell/properties-dashboard/utils"
)

// Config holds all application configuration.
// Values come from struct defaults, then an optional YAML file, then the
// environment (a .env file is loaded first when present).
type Config struct {
	HTTPHost  string `yaml:"http_host" default:"0.0.0.0" validate:"required"`
	HTTPPort  int    `yaml:"http_port" default:"8080" validate:"min=1,max=65535"`
	LogLevel  string `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" default:"console" validate:"oneof=console json"`

	// CSVDelimiter is empty for detection from the header line.
	CSVDelimiter      string    `yaml:"csv_delimiter" validate:"omitempty,max=1"`
	BinStrategy       string    `yaml:"bin_strategy" default:"adaptive" validate:"oneof=adaptive fixed"`
	FixedEdges        []float64 `yaml:"fixed_edges"`
	AlphaPolicy       string    `yaml:"alpha_policy" default:"scale" validate:"oneof=scale constant"`
	ConstantAlpha     int       `yaml:"constant_alpha" default:"160" validate:"min=0,max=255"`
	ElevationScale    float64   `yaml:"elevation_scale" default:"0.0005" validate:"gt=0"`
	OutlierCeiling    float64   `yaml:"outlier_ceiling" default:"2000000" validate:"gte=0"`
	MissingCoordsMode string    `yaml:"missing_coords_mode" default:"latitude" validate:"oneof=latitude either"`
	HistogramClasses  int       `yaml:"histogram_classes" default:"40" validate:"min=1,max=1000"`
	SliderStep        float64   `yaml:"slider_step" default:"20" validate:"gt=0"`

	MaxUploadMB int `yaml:"max_upload_mb" default:"32" validate:"min=1"`
	MaxSessions int `yaml:"max_sessions" default:"64" validate:"min=1"`

	MapZoom      float64 `yaml:"map_zoom" default:"15" validate:"gtefield=MapMinZoom,ltefield=MapMaxZoom"`
	MapMinZoom   float64 `yaml:"map_min_zoom" default:"13" validate:"gte=0"`
	MapMaxZoom   float64 `yaml:"map_max_zoom" default:"17" validate:"gtefield=MapMinZoom"`
	MapPitch     float64 `yaml:"map_pitch" default:"60" validate:"gte=0,lte=85"`
	MapBearing   float64 `yaml:"map_bearing" validate:"gte=-360,lte=360"`
	ColumnRadius float64 `yaml:"column_radius" default:"6" validate:"gt=0"`

	ChromeBin          string `yaml:"chrome_bin"`
	SnapshotTimeoutSec int    `yaml:"snapshot_timeout_sec" default:"60" validate:"min=1"`
	MaxRetries         int    `yaml:"max_retries" default:"3" validate:"min=1"`
	ExportPath         string `yaml:"export_path" default:"./output/visible_properties.csv" validate:"required"`
}

var validate = validator.New()

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field ranges and enums.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.BinStrategy == services.StrategyFixed && len(c.FixedEdges) > 0 {
		if _, err := services.NewBinner(utils.NewNopLogger(), c.BinStrategy, c.FixedEdges); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.HTTPHost = getEnv("HTTP_HOST", c.HTTPHost)
	c.HTTPPort = getEnvInt("HTTP_PORT", c.HTTPPort)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))

	c.CSVDelimiter = getEnv("CSV_DELIMITER", c.CSVDelimiter)
	c.BinStrategy = strings.ToLower(getEnv("BIN_STRATEGY", c.BinStrategy))
	if v := os.Getenv("FIXED_EDGES"); v != "" {
		edges, err := parseEdges(v)
		if err != nil {
			return fmt.Errorf("config: FIXED_EDGES: %w", err)
		}
		c.FixedEdges = edges
	}
	c.AlphaPolicy = strings.ToLower(getEnv("ALPHA_POLICY", c.AlphaPolicy))
	c.ConstantAlpha = getEnvInt("CONSTANT_ALPHA", c.ConstantAlpha)
	c.ElevationScale = getEnvFloat("ELEVATION_SCALE", c.ElevationScale)
	c.OutlierCeiling = getEnvFloat("OUTLIER_CEILING", c.OutlierCeiling)
	c.MissingCoordsMode = strings.ToLower(getEnv("MISSING_COORDS_MODE", c.MissingCoordsMode))
	c.HistogramClasses = getEnvInt("HISTOGRAM_CLASSES", c.HistogramClasses)
	c.SliderStep = getEnvFloat("SLIDER_STEP", c.SliderStep)

	c.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", c.MaxUploadMB)
	c.MaxSessions = getEnvInt("MAX_SESSIONS", c.MaxSessions)

	c.MapZoom = getEnvFloat("MAP_ZOOM", c.MapZoom)
	c.MapMinZoom = getEnvFloat("MAP_MIN_ZOOM", c.MapMinZoom)
	c.MapMaxZoom = getEnvFloat("MAP_MAX_ZOOM", c.MapMaxZoom)
	c.MapPitch = getEnvFloat("MAP_PITCH", c.MapPitch)
	c.MapBearing = getEnvFloat("MAP_BEARING", c.MapBearing)
	c.ColumnRadius = getEnvFloat("COLUMN_RADIUS", c.ColumnRadius)

	c.ChromeBin = getEnv("CHROME_BIN", c.ChromeBin)
	c.SnapshotTimeoutSec = getEnvInt("SNAPSHOT_TIMEOUT_SEC", c.SnapshotTimeoutSec)
	c.MaxRetries = getEnvInt("MAX_RETRIES", c.MaxRetries)
	c.ExportPath = getEnv("EXPORT_PATH", c.ExportPath)
	return nil
}

// Delimiter returns the configured CSV separator, or 0 for detection.
func (c *Config) Delimiter() rune {
	if c.CSVDelimiter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}

// PipelineOptions maps the configuration onto the pipeline stages.
func (c *Config) PipelineOptions() services.PipelineOptions {
	return services.PipelineOptions{
		Delimiter: c.Delimiter(),
		Cleaner: services.CleanerOptions{
			OutlierCeiling: c.OutlierCeiling,
			MissingMode:    c.MissingCoordsMode,
		},
		Strategy:   c.BinStrategy,
		FixedEdges: c.FixedEdges,
		Mapper: services.MapperOptions{
			AlphaPolicy:    c.AlphaPolicy,
			ConstantAlpha:  uint8(c.ConstantAlpha),
			ElevationScale: c.ElevationScale,
		},
		HistogramClasses: c.HistogramClasses,
		CacheSize:        c.MaxSessions,
	}
}

// ViewOptions returns the map view and slider settings.
func (c *Config) ViewOptions() services.ViewOptions {
	return services.ViewOptions{
		Zoom:           c.MapZoom,
		MinZoom:        c.MapMinZoom,
		MaxZoom:        c.MapMaxZoom,
		Pitch:          c.MapPitch,
		Bearing:        c.MapBearing,
		Radius:         c.ColumnRadius,
		ElevationScale: c.ElevationScale,
		SliderStep:     c.SliderStep,
	}
}

// LogConfig returns the logger settings.
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{Level: c.LogLevel, Format: c.LogFormat}
}

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// parseEdges reads a comma-separated list of upper edges; "inf" marks the
// unbounded last edge.
func parseEdges(v string) ([]float64, error) {
	parts := strings.Split(v, ",")
	edges := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.EqualFold(p, "inf") || strings.EqualFold(p, "+inf") {
			edges = append(edges, math.Inf(1))
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid edge %q: %w", p, err)
		}
		edges = append(edges, f)
	}
	return edges, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
