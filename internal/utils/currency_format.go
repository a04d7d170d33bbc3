package utils

import (
	"strings"

	"github.com/SscSPs/erp_finance/pkg/money"
)

// currencyPrecision lists ISO 4217 currencies whose minor unit is not two
// digits.
var currencyPrecision = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
}

// CurrencyPrecision returns the number of fractional digits used to display
// amounts in currencyCode. Unknown or empty codes use the presentation scale.
func CurrencyPrecision(currencyCode string) int32 {
	if p, ok := currencyPrecision[strings.ToUpper(currencyCode)]; ok {
		return p
	}
	return money.PresentationScale
}

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD returns "12.35"
// Example: amount 12.3456 with JPY returns "12"
func FormatWithCurrencyPrecision(amount money.Decimal, currencyCode string) string {
	return amount.StringFixed(CurrencyPrecision(currencyCode))
}

// FormatAmount renders amount for display, e.g. "1,234.50 USD". The currency
// code is omitted when empty.
func FormatAmount(amount money.Decimal, currencyCode, thousandsSep string) string {
	formatted := amount.Format(CurrencyPrecision(currencyCode), ".", thousandsSep)
	if currencyCode == "" {
		return formatted
	}
	return formatted + " " + strings.ToUpper(currencyCode)
}
