package model

// Action is the advisory action attached to a signal.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
)

// Signal is the output of the rule evaluator for one ticker.
type Signal struct {
	Ticker     string  `json:"ticker"`
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// ConditionKind enumerates the supported buy-condition variants.
type ConditionKind string

const (
	ConditionPriceAboveSMA ConditionKind = "price_above_sma"
	ConditionRSIBelow      ConditionKind = "rsi_below"
)

// Condition is one typed buy-condition. Threshold is only meaningful for rsi_below.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Window    int           `json:"window"`
	Threshold float64       `json:"threshold,omitempty"`
}

// RuleSet is the ordered list of buy-conditions configured for one ticker.
type RuleSet struct {
	BuyIf []Condition `json:"buy_if"`
}
