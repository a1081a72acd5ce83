package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyExponents maps ISO 4217 codes to their minor-unit exponent.
// JPY and KRW have no minor unit, most currencies carry two digits.
var currencyExponents = map[string]int32{
	"USD": 2, "EUR": 2, "GBP": 2, "JPY": 0,
	"CNY": 2, "AUD": 2, "CAD": 2, "CHF": 2,
	"SEK": 2, "NZD": 2, "KRW": 0, "SGD": 2,
	"NOK": 2, "MXN": 2, "INR": 2, "BRL": 2,
	"ZAR": 2, "RUB": 2, "TRY": 2, "HKD": 2,
	"DKK": 2, "PLN": 2, "CZK": 2, "HUF": 2,
	"BHD": 3, "KWD": 3, "TND": 3, "OMR": 3,
}

// NormalizeCurrency upper-cases and validates an ISO 4217 currency code.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := currencyExponents[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	return code, nil
}

// CurrencyExponent returns the minor-unit exponent for a currency code.
func CurrencyExponent(code string) (int32, error) {
	code, err := NormalizeCurrency(code)
	if err != nil {
		return 0, err
	}

	return currencyExponents[code], nil
}

// MinorUnits converts a decimal display value to integer minor units for
// the given currency. Values with more precision than the currency carries
// are rejected rather than rounded.
func MinorUnits(value decimal.Decimal, code string) (int64, error) {
	exp, err := CurrencyExponent(code)
	if err != nil {
		return 0, err
	}

	shifted := value.Shift(exp)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s has no %s minor-unit representation", ErrInvalidCurrency, value, code)
	}

	return shifted.IntPart(), nil
}

// FromMinorUnits converts integer minor units back to a decimal display
// value for the given currency.
func FromMinorUnits(units int64, code string) (decimal.Decimal, error) {
	exp, err := CurrencyExponent(code)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromInt(units).Shift(-exp), nil
}
