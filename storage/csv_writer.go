package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/azihell/properties-dashboard/models"
)

// ExportHeader is the first row of every export.
var ExportHeader = []string{
	"Property_ID", "Price", "Longitude", "Latitude", "Red", "Green", "Blue", "Alpha", "Elevation",
}

// CSVWriter writes colored properties as CSV with dot decimals.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter writes the header row to w. Close does not close w.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{writer: csv.NewWriter(w)}
	if err := cw.writer.Write(ExportHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return cw, nil
}

// NewCSVFileWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVFileWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	cw, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	cw.closer = f
	return cw, nil
}

// Write appends one row per property.
func (c *CSVWriter) Write(props []*models.ColoredProperty) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range props {
		if err := c.writer.Write(exportRow(p)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func exportRow(p *models.ColoredProperty) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.FormatFloat(p.Longitude, 'f', -1, 64),
		strconv.FormatFloat(p.Latitude, 'f', -1, 64),
		strconv.Itoa(int(p.Color.R)),
		strconv.Itoa(int(p.Color.G)),
		strconv.Itoa(int(p.Color.B)),
		strconv.Itoa(int(p.Color.A)),
		strconv.FormatFloat(p.Elevation, 'f', -1, 64),
	}
}
