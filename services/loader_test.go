package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/azihell/properties-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"200.000,00", 200000, true},
		{"150.000,50", 150000.5, true},
		{"1234,5", 1234.5, true},
		{"-23.5", -23.5, true},
		{"  -46,633308 ", -46.633308, true},
		{"1 250 000,00", 1250000, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"1,2,3", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDecimal(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseDecimal(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw   string
		want  int64
		isNil bool
	}{
		{"17", 17, false},
		{" 42 ", 42, false},
		{"17.0", 17, false},
		{"17,5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got := parseID(tt.raw)
		if tt.isNil {
			if got != nil {
				t.Errorf("parseID(%q) = %d; want nil", tt.raw, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parseID(%q) = %v; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestLoaderSemicolonFile(t *testing.T) {
	csv := "Property_ID;Price;Longitude;Latitude;Neighborhood\n" +
		"1;200.000,00;-46,6;-23,5;Centro\n" +
		"2;;-46,6;-23,5;Centro\n" +
		"3;150.000,50;-46,6;;Jardins\n"

	rows, err := NewLoader(newTestLogger(), 0).Load([]byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[0].Price == nil || *rows[0].Price != 200000 {
		t.Errorf("row 1 price: got %v, want 200000", rows[0].Price)
	}
	if rows[0].Latitude == nil || *rows[0].Latitude != -23.5 {
		t.Errorf("row 1 latitude: got %v, want -23.5", rows[0].Latitude)
	}
	if rows[1].Price != nil {
		t.Errorf("row 2 price should be missing, got %v", *rows[1].Price)
	}
	if rows[2].Latitude != nil {
		t.Errorf("row 3 latitude should be missing, got %v", *rows[2].Latitude)
	}
	if rows[2].Line != 4 {
		t.Errorf("row 3 line: got %d, want 4", rows[2].Line)
	}
}

func TestLoaderCommaFileWithQuotedDecimals(t *testing.T) {
	csv := "\ufeffLatitude,Longitude,Price,Property_ID\n" +
		"-23.561234,-46.655678,\"310.500,75\",9\n"

	rows, err := NewLoader(newTestLogger(), 0).Load([]byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rows[0]
	if *r.ID != 9 || *r.Price != 310500.75 || *r.Latitude != -23.561234 || *r.Longitude != -46.655678 {
		t.Errorf("unexpected row: id=%d price=%v lat=%v lon=%v", *r.ID, *r.Price, *r.Latitude, *r.Longitude)
	}
}

func TestLoaderRoundsValues(t *testing.T) {
	csv := "Property_ID;Price;Longitude;Latitude\n" +
		"1;1000,005;-46,12345678;-23,98765432\n"

	rows, err := NewLoader(newTestLogger(), ';').Load([]byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *rows[0].Longitude; got != -46.123457 {
		t.Errorf("longitude: got %v, want -46.123457", got)
	}
	if got := *rows[0].Latitude; got != -23.987654 {
		t.Errorf("latitude: got %v, want -23.987654", got)
	}
}

func TestLoaderMissingColumn(t *testing.T) {
	csv := "Property_ID;Price;Longitude\n1;100,00;-46,6\n"

	_, err := NewLoader(newTestLogger(), 0).Load([]byte(csv))
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if malformed.Column != ColumnLatitude {
		t.Errorf("column: got %q, want %q", malformed.Column, ColumnLatitude)
	}
}

func TestLoaderEmptyInput(t *testing.T) {
	for _, csv := range []string{"", "Property_ID;Price;Longitude;Latitude\n", "Property_ID;Price;Longitude;Latitude\n\n\n"} {
		_, err := NewLoader(newTestLogger(), 0).LoadReader(strings.NewReader(csv))
		var empty *EmptyInputError
		if !errors.As(err, &empty) {
			t.Errorf("input %q: expected EmptyInputError, got %v", csv, err)
		}
	}
}

func TestLoaderShortRowsYieldMissingCells(t *testing.T) {
	csv := "Property_ID;Price;Longitude;Latitude\n5;100,00\n"

	rows, err := NewLoader(newTestLogger(), 0).Load([]byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Longitude != nil || rows[0].Latitude != nil {
		t.Errorf("expected missing coordinates for a short row")
	}
}

func TestLoaderKeepsRowsAroundAStrayQuote(t *testing.T) {
	csv := "Property_ID;Price;Longitude;Latitude\n" +
		"1;100.000,00;-46,6;-23,5\n" +
		"2;15\"0.000,00;-46,6;-23,5\n" +
		"3;300.000,00;-46,7;-23,6\n"

	rows, err := NewLoader(newTestLogger(), 0).Load([]byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[1].Price != nil {
		t.Errorf("broken price cell: got %v, want nil", *rows[1].Price)
	}
	if rows[0].Price == nil || *rows[0].Price != 100000 || rows[2].Price == nil || *rows[2].Price != 300000 {
		t.Error("rows around the broken cell must load normally")
	}

	res := NewCleaner(newTestLogger(), CleanerOptions{}).Clean(rows)
	if len(res.Properties) != 2 || res.DroppedMissing != 1 {
		t.Errorf("clean: got %d kept, %d missing; want 2 and 1", len(res.Properties), res.DroppedMissing)
	}
}
