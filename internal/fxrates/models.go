// Package fxrates provides exchange rates for cross-currency pricing display.
package fxrates

import (
	"errors"
	"time"
)

var (
	// ErrProviderUnavailable indicates the rate provider could not be reached
	// and no cached table was fresh enough to serve.
	ErrProviderUnavailable = errors.New("exchange rate provider unavailable")

	// ErrUnknownCurrency indicates a currency code missing from the rate table.
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// RateTable holds the rates for one base currency.
type RateTable struct {
	// Base is the ISO 4217 code the rates are quoted against.
	Base string

	// Rates maps ISO 4217 codes to the amount of that currency one unit of
	// the base buys.
	Rates map[string]float64

	// FetchedAt is when the provider produced this table.
	FetchedAt time.Time
}

// Rate returns the base->code rate from the table.
func (t *RateTable) Rate(code string) (float64, error) {
	if code == t.Base {
		return 1, nil
	}
	rate, ok := t.Rates[code]
	if !ok || rate <= 0 {
		return 0, ErrUnknownCurrency
	}
	return rate, nil
}
