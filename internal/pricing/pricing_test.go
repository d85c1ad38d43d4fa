package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		showSymbol bool
		want       string
	}{
		{"zero", 0, true, "$0.00"},
		{"simple", 80, true, "$80.00"},
		{"cents", 9.5, true, "$9.50"},
		{"thousands grouping", 1234.5, true, "$1,234.50"},
		{"no symbol", 80, false, "80.00"},
		{"nan maps to zero", math.NaN(), true, "$0.00"},
		{"positive inf maps to zero", math.Inf(1), true, "$0.00"},
		{"negative inf maps to zero", math.Inf(-1), true, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.amount, tt.showSymbol))
		})
	}
}

func TestFormatPricePtr_NilIsZero(t *testing.T) {
	assert.Equal(t, "$0.00", FormatPricePtr(nil, true))

	v := 12.0
	assert.Equal(t, "$12.00", FormatPricePtr(&v, true))
}

func TestCalculateDiscountPercentage(t *testing.T) {
	tests := []struct {
		name     string
		original float64
		discount float64
		want     int
	}{
		{"twenty percent", 100, 80, 20},
		{"fractional rounds", 100, 66.6, 33},
		{"rounds half away", 100, 87.5, 13},
		{"no discount given", 100, 0, 0},
		{"negative discount", 100, -5, 0},
		{"discount not actually lower", 50, 60, 0},
		{"discount equals original", 50, 50, 0},
		{"zero original", 0, 10, 0},
		{"negative original", -100, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateDiscountPercentage(tt.original, tt.discount))
		})
	}
}

func TestFormatDiscount(t *testing.T) {
	d := FormatDiscount(100, 80)
	assert.True(t, d.HasDiscount)
	assert.Equal(t, 20, d.Percentage)
	assert.Equal(t, "$20.00", d.Savings)
}

func TestFormatDiscount_NotCheaper(t *testing.T) {
	d := FormatDiscount(50, 60)
	assert.False(t, d.HasDiscount)
	assert.Equal(t, 0, d.Percentage)
	assert.Equal(t, "$0.00", d.Savings)
}
