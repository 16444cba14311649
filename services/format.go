package services

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyPrefix precedes every price label.
const CurrencyPrefix = "R$"

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as "R$ 1,234,567.89".
func FormatCurrency(v float64) string {
	return CurrencyPrefix + " " + printer.Sprintf("%.2f", v)
}

// FormatCount renders n with thousands grouping.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func roundTo(f float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(f*p) / p
}
