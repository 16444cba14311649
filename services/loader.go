package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/azihell/properties-dashboard/models"
	"github.com/azihell/properties-dashboard/utils"
)

// Required CSV columns. Any other column is ignored.
const (
	ColumnID        = "Property_ID"
	ColumnPrice     = "Price"
	ColumnLongitude = "Longitude"
	ColumnLatitude  = "Latitude"
)

var requiredColumns = []string{ColumnID, ColumnPrice, ColumnLongitude, ColumnLatitude}

// Loader parses raw CSV bytes into RawProperty records.
type Loader struct {
	logger    *utils.Logger
	delimiter rune
}

// NewLoader creates a Loader. A zero delimiter means it is detected from the
// header line.
func NewLoader(logger *utils.Logger, delimiter rune) *Loader {
	return &Loader{logger: logger, delimiter: delimiter}
}

// LoadReader reads r to the end and parses it with Load.
func (l *Loader) LoadReader(r io.Reader) ([]*models.RawProperty, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: read input: %w", err)
	}
	return l.Load(data)
}

// Load parses data into one RawProperty per non-blank data row.
// Unparseable numeric cells and unreadable rows become nil fields; a missing
// required column or a header-only file fails the whole load.
func (l *Loader) Load(data []byte) ([]*models.RawProperty, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	delim := l.delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &EmptyInputError{}
		}
		return nil, &MalformedInputError{Err: fmt.Errorf("read header: %w", err)}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := index[name]
		if !ok {
			return nil, &MalformedInputError{Column: name}
		}
		cols[name] = i
	}

	var rows []*models.RawProperty
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// A broken row only loses its own cells.
			l.logger.Warn("[loader] Unreadable row at line %d: %v", parseErr.StartLine, parseErr.Err)
			rows = append(rows, &models.RawProperty{Line: parseErr.StartLine})
			continue
		}
		if err != nil {
			return nil, &MalformedInputError{Err: fmt.Errorf("read row: %w", err)}
		}
		line, _ := r.FieldPos(0)

		cell := func(name string) string {
			i := cols[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		row := &models.RawProperty{
			Line:      line,
			ID:        parseID(cell(ColumnID)),
			Price:     parsePrice(cell(ColumnPrice)),
			Latitude:  parseCoordinate(cell(ColumnLatitude)),
			Longitude: parseCoordinate(cell(ColumnLongitude)),
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &EmptyInputError{}
	}

	l.logger.Info("[loader] Parsed %d rows (delimiter %q)", len(rows), delim)
	return rows, nil
}

// sniffDelimiter picks ',' or ';' by whichever splits the header line into
// more fields. Ties go to ','.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// parseDecimal reads a number whose decimal separator is a comma. When the
// cell has a comma, dots are thousands separators ("200.000,00"); otherwise
// the cell is read as a plain dot-decimal number ("-23.5").
func parseDecimal(cell string) (float64, bool) {
	raw := strings.TrimSpace(cell)
	raw = strings.ReplaceAll(raw, "\u00a0", "")
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return 0, false
	}

	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseID(cell string) *int64 {
	raw := strings.TrimSpace(cell)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return &id
	}
	// Spreadsheet exports often write ids as "17.0" or "17,0".
	f, ok := parseDecimal(raw)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return nil
	}
	id := int64(f)
	return &id
}

func parsePrice(cell string) *float64 {
	f, ok := parseDecimal(cell)
	if !ok || f < 0 {
		return nil
	}
	price := roundTo(f, 2)
	return &price
}

func parseCoordinate(cell string) *float64 {
	f, ok := parseDecimal(cell)
	if !ok {
		return nil
	}
	c := roundTo(f, 6)
	return &c
}
