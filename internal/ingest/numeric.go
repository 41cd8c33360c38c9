// internal/ingest/numeric.go
package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	numericKeepRe = regexp.MustCompile(`[^0-9.\-]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// CoerceNumber turns an arbitrary cell value into a finite float64,
// defaulting to 0 for blank or unparseable input. It never fails: uploaded
// sheets mix "RM 1,234.50", "1234.5", and blank cells, and rejecting a row
// over a sloppy number would be stricter than the operators want.
// The field name is only used for diagnostics.
func (v Vocabulary) CoerceNumber(value any, field string) float64 {
	s := strings.TrimSpace(stringify(value))
	if s == "" {
		return 0
	}

	for _, cs := range v.CurrencySymbols {
		s = strings.ReplaceAll(s, cs.Symbol, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = whitespaceRe.ReplaceAllString(s, "")
	s = numericKeepRe.ReplaceAllString(s, "")

	if s == "" || s == "-" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		log.Debug().Str("field", field).Str("value", stringify(value)).Msg("unparseable numeric cell, defaulting to 0")
		return 0
	}
	return f
}

// CoerceInt coerces like CoerceNumber and floors the result for
// integer-typed measures (views, order counts).
func (v Vocabulary) CoerceInt(value any, field string) int64 {
	return int64(math.Floor(v.CoerceNumber(value, field)))
}

// DetectCurrency infers a currency code from symbols present in the cost
// cell, falling back to the configured default.
func (v Vocabulary) DetectCurrency(value any) string {
	s := stringify(value)
	for _, cs := range v.CurrencySymbols {
		if strings.Contains(s, cs.Symbol) {
			return cs.Code
		}
	}
	return v.DefaultCurrency
}
