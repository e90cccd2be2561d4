package model

import "time"

// ExpirationLayout is the date format used for chain keys.
const ExpirationLayout = "2006-01-02"

// OptionContract is one row of an option chain.
type OptionContract struct {
	ContractSymbol    string    `json:"contract_symbol"`
	Strike            float64   `json:"strike"`
	Expiration        string    `json:"expiration"`
	LastPrice         float64   `json:"last_price"`
	ImpliedVolatility float64   `json:"iv"`
	Volume            float64   `json:"volume"`
	OpenInterest      float64   `json:"open_interest"`
	InTheMoney        bool      `json:"in_the_money"`
	Delta             float64   `json:"delta"`
	HasDelta          bool      `json:"has_delta"`
	Score             float64   `json:"score"`
	LastTradeAt       time.Time `json:"last_trade_at,omitempty"`
}

// ExpirationChain holds the call and put tables for one expiration.
type ExpirationChain struct {
	Calls []OptionContract `json:"calls"`
	Puts  []OptionContract `json:"puts"`
}

// OptionChain maps expiration date (YYYY-MM-DD) to its tables.
type OptionChain map[string]ExpirationChain
