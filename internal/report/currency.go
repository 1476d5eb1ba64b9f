package report

import "storepulse/internal/services/woocommerce"

const (
	currencySettingID = "woocommerce_currency"
	defaultCurrency   = "USD"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "CHF",
	"CNY": "¥",
	"SEK": "kr",
	"NZD": "NZ$",
}

// ResolveCurrency returns the display symbol for the store's configured
// currency. A missing, empty or non-string setting falls back to USD; a
// code without a known symbol is used verbatim. Other settings carry
// array values on some stores, so only the currency entry is inspected.
func ResolveCurrency(settings []woocommerce.Setting) string {
	code := defaultCurrency
	for _, s := range settings {
		if s.ID != currencySettingID {
			continue
		}
		if v, ok := s.StringValue(); ok && v != "" {
			code = v
		}
		break
	}
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}
