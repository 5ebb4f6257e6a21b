package models

// FxRateTable is the exchange rate table for one base currency.
type FxRateTable struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt Timestamp          `json:"fetchedAt"`
}

// FxConversion is the result of a cent-amount currency conversion.
type FxConversion struct {
	AmountCents    int64  `json:"amountCents"`
	From           string `json:"from"`
	To             string `json:"to"`
	ConvertedCents int64  `json:"convertedCents"`
}
