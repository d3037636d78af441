package catalog

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LifetimeValue estimates customer lifetime value as monthly revenue over the
// monthly churn rate.
func LifetimeValue(monthlyRevenueCents int64, churnRate float64) (int64, error) {
	if churnRate <= 0 || churnRate > 1 || math.IsNaN(churnRate) {
		return 0, ErrInvalidChurnRate
	}
	if monthlyRevenueCents < 0 {
		return 0, ErrInvalidRevenue
	}
	return int64(math.Round(float64(monthlyRevenueCents) / churnRate)), nil
}

// PaybackMonths is how many months of revenue recover the acquisition cost.
func PaybackMonths(acquisitionCostCents, monthlyRevenueCents int64) (float64, error) {
	if monthlyRevenueCents <= 0 {
		return 0, ErrInvalidRevenue
	}
	return float64(acquisitionCostCents) / float64(monthlyRevenueCents), nil
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"AUD": "A$",
	"CAD": "C$",
	"IDR": "Rp",
}

// FormatCents renders an amount in minor units, e.g. "$1,234.56" or "-$9.50".
func FormatCents(cents int64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	p := message.NewPrinter(language.English)
	return sign + symbol + p.Sprintf("%d", cents/100) + p.Sprintf(".%02d", cents%100)
}
