// Package pricing holds the display/derivation helpers for prices: currency
// formatting, discount percentages and savings. Everything here is pure and
// degrades to a zero value on degenerate input instead of returning an error.
package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const symbol = "$"

var printer = message.NewPrinter(language.English)

// Discount is the derived view of an (original, discount) price pair.
type Discount struct {
	Percentage  int    `json:"percentage"`
	Savings     string `json:"savings"`
	HasDiscount bool   `json:"has_discount"`
}

// FormatPrice renders amount as a currency string with thousands grouping
// and two decimals. NaN and infinities format as zero.
func FormatPrice(amount float64, showSymbol bool) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	s := printer.Sprintf("%.2f", amount)
	if showSymbol {
		return symbol + s
	}
	return s
}

// FormatPricePtr is FormatPrice for optional amounts; nil formats as zero.
func FormatPricePtr(amount *float64, showSymbol bool) string {
	if amount == nil {
		return FormatPrice(0, showSymbol)
	}
	return FormatPrice(*amount, showSymbol)
}

// CalculateDiscountPercentage returns the rounded percentage saved when
// buying at discountPrice instead of originalPrice. A missing discount, a
// non-positive original, or a "discount" that is not actually cheaper all
// yield 0, never a negative number.
func CalculateDiscountPercentage(originalPrice, discountPrice float64) int {
	if originalPrice <= 0 || discountPrice <= 0 || discountPrice >= originalPrice {
		return 0
	}
	return int(math.Round(100 * (originalPrice - discountPrice) / originalPrice))
}

// FormatDiscount derives the percentage and formatted savings for a price
// pair. HasDiscount is false whenever the percentage clamps to 0.
func FormatDiscount(originalPrice, discountPrice float64) Discount {
	pct := CalculateDiscountPercentage(originalPrice, discountPrice)
	if pct == 0 {
		return Discount{Savings: FormatPrice(0, true)}
	}
	return Discount{
		Percentage:  pct,
		Savings:     FormatPrice(originalPrice-discountPrice, true),
		HasDiscount: true,
	}
}
