package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"CapitalSentinel/internal/calculator"
	"CapitalSentinel/internal/model"
	"CapitalSentinel/internal/strategy"
)

// DefaultUniverse is evaluated when the strategy document names no tickers.
var DefaultUniverse = []string{"PLTR", "CRWD", "BTC-USD", "XRP-USD"}

const (
	defaultLongTermPct  = 40
	defaultRSIThreshold = 35
)

// Strategy is the validated strategy document.
type Strategy struct {
	Universe    []string
	Weights     map[string]float64 // ticker -> fraction of the long-term bucket
	Risk        model.RiskLimits
	LongTermPct float64
	Rules       map[string]model.RuleSet // keyed by model.RuleKey
}

// RulesFor returns the rule set for ticker, empty when none is configured.
func (s *Strategy) RulesFor(ticker string) model.RuleSet {
	return s.Rules[model.RuleKey(ticker)]
}

// strategyDoc mirrors the loose yaml layout. Conditions stay untyped until validated.
type strategyDoc struct {
	Universe []string           `yaml:"universe"`
	Weights  map[string]float64 `yaml:"weights"`
	Risk     struct {
		MaxPositionPct    *float64 `yaml:"max_position_pct"`
		MaxBuyUSD         *float64 `yaml:"max_buy_usd"`
		MinCashReserveUSD *float64 `yaml:"min_cash_reserve_usd"`
	} `yaml:"risk"`
	Allocations struct {
		LongTermPct *float64 `yaml:"long_term_pct"`
	} `yaml:"allocations"`
	SOP map[string]struct {
		BuyIf []map[string]any `yaml:"buy_if"`
	} `yaml:"sop"`
}

// LoadStrategy reads the strategy document. A missing file yields the defaults;
// only unreadable or malformed files are errors.
func LoadStrategy(path string) (*Strategy, error) {
	var doc strategyDoc

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read strategy: %w", err)
	}
	if os.IsNotExist(err) {
		log.Warn().Str("path", path).Msg("strategy file not found, using defaults")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse strategy: %w", err)
		}
	}
	return doc.build(), nil
}

// ParseStrategy validates an in-memory strategy document.
func ParseStrategy(data []byte) (*Strategy, error) {
	var doc strategyDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse strategy: %w", err)
	}
	return doc.build(), nil
}

func (d *strategyDoc) build() *Strategy {
	s := &Strategy{
		Weights: make(map[string]float64, len(d.Weights)),
		Risk:    model.DefaultRiskLimits(),
		Rules:   make(map[string]model.RuleSet, len(d.SOP)),
	}

	seen := make(map[string]bool)
	for _, t := range d.Universe {
		t = model.NormalizeTicker(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		s.Universe = append(s.Universe, t)
	}
	if len(s.Universe) == 0 {
		s.Universe = append([]string(nil), DefaultUniverse...)
	}

	for t, w := range d.Weights {
		if math.IsNaN(w) || w < 0 {
			log.Warn().Str("ticker", t).Float64("weight", w).Msg("invalid weight, using 0")
			w = 0
		}
		s.Weights[model.NormalizeTicker(t)] = w
	}

	if v := d.Risk.MaxPositionPct; v != nil {
		s.Risk.MaxPositionPct = clampRisk("max_position_pct", *v)
	}
	if v := d.Risk.MaxBuyUSD; v != nil {
		s.Risk.MaxBuyUSD = clampRisk("max_buy_usd", *v)
	}
	if v := d.Risk.MinCashReserveUSD; v != nil {
		s.Risk.MinCashReserveUSD = clampRisk("min_cash_reserve_usd", *v)
	}

	s.LongTermPct = defaultLongTermPct
	if v := d.Allocations.LongTermPct; v != nil {
		s.LongTermPct = clampRisk("long_term_pct", *v)
	}

	for key, entry := range d.SOP {
		key = model.RuleKey(key)
		var rs model.RuleSet
		for i, raw := range entry.BuyIf {
			c, err := parseCondition(raw)
			if err != nil {
				log.Warn().Str("rules", key).Int("index", i).Err(err).Msg("dropping buy condition")
				continue
			}
			rs.BuyIf = append(rs.BuyIf, c)
		}
		s.Rules[key] = rs
	}
	return s
}

func parseCondition(raw map[string]any) (model.Condition, error) {
	kindRaw, ok := raw["type"]
	if !ok {
		kindRaw = raw["kind"]
	}
	kindStr, _ := kindRaw.(string)
	kind := model.ConditionKind(strings.ToLower(strings.TrimSpace(kindStr)))
	if !strategy.Supported(kind) {
		return model.Condition{}, fmt.Errorf("unknown condition kind %q", kindStr)
	}

	c := model.Condition{Kind: kind}
	switch kind {
	case model.ConditionPriceAboveSMA:
		w, ok := toInt(raw["window"])
		if !ok || w < 1 {
			return model.Condition{}, fmt.Errorf("%s: window must be a positive integer", kind)
		}
		c.Window = w
	case model.ConditionRSIBelow:
		c.Window = calculator.DefaultRSIWindow
		if v, present := raw["window"]; present {
			w, ok := toInt(v)
			if !ok || w < 1 {
				return model.Condition{}, fmt.Errorf("%s: window must be a positive integer", kind)
			}
			c.Window = w
		}
		c.Threshold = defaultRSIThreshold
		if v, present := raw["threshold"]; present {
			th, ok := toFloat(v)
			if !ok {
				return model.Condition{}, fmt.Errorf("%s: threshold must be numeric", kind)
			}
			c.Threshold = th
		}
	}
	return c, nil
}

func clampRisk(name string, v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		log.Warn().Str("field", name).Float64("value", v).Msg("negative setting clamped to 0")
		return 0
	}
	return v
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, !math.IsNaN(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
