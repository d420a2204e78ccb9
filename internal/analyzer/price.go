package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// PricePoint is a price extracted from free text.
type PricePoint struct {
	Value        float64 `json:"value"`
	Currency     string  `json:"currency"`
	OriginalText string  `json:"original_text"`
	Formatted    string  `json:"formatted"`
}

const currencyAlternation = `TL|₺|USD|EUR|GBP|\$|€|£`

var (
	amountThenCurrency = regexp.MustCompile(`(?i)(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?)\s*(` + currencyAlternation + `)`)
	currencyThenAmount = regexp.MustCompile(`(?i)(` + currencyAlternation + `)\s*(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?)`)
	bareAmount         = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?`)
)

// ParsePrice extracts the first price from text. It recognizes amounts with a
// trailing or leading currency token, or a bare number, in that order of
// preference. Returns nil when no positive finite amount is present.
func ParsePrice(text string) *PricePoint {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	if loc := amountThenCurrency.FindStringSubmatchIndex(normalized); loc != nil {
		return buildPrice(normalized, loc[0], normalized[loc[0]:loc[1]],
			normalized[loc[2]:loc[3]], normalized[loc[4]:loc[5]])
	}

	if loc := currencyThenAmount.FindStringSubmatchIndex(normalized); loc != nil {
		return buildPrice(normalized, loc[0], normalized[loc[0]:loc[1]],
			normalized[loc[4]:loc[5]], normalized[loc[2]:loc[3]])
	}

	if loc := bareAmount.FindStringIndex(normalized); loc != nil {
		return buildPrice(normalized, loc[0], normalized[loc[0]:loc[1]],
			normalized[loc[0]:loc[1]], "")
	}

	return nil
}

func buildPrice(text string, start int, original, amount, currency string) *PricePoint {
	// A minus sign directly before the amount means this is not a price.
	if negated(text, start) {
		return nil
	}

	value, ok := normalizeAmount(amount)
	if !ok {
		return nil
	}

	formatted := strings.TrimSpace(fmt.Sprintf("%.2f %s", value, currency))

	return &PricePoint{
		Value:        value,
		Currency:     currency,
		OriginalText: original,
		Formatted:    formatted,
	}
}

func negated(text string, start int) bool {
	for i := start - 1; i >= 0; i-- {
		switch text[i] {
		case ' ':
			continue
		case '-':
			return true
		default:
			return false
		}
	}
	return false
}

// normalizeAmount resolves the decimal separator. A comma after the last dot
// means European notation: dots group thousands and the comma is the decimal
// mark. Otherwise commas group thousands.
func normalizeAmount(amount string) (float64, bool) {
	lastComma := strings.LastIndex(amount, ",")
	lastDot := strings.LastIndex(amount, ".")

	if lastComma > lastDot {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.Replace(amount, ",", ".", 1)
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, false
	}
	return value, true
}
