package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"CapitalSentinel/internal/model"
)

var (
	ErrInvalidAmount      = errors.New("amount must be a finite non-negative number")
	ErrInvalidAllocations = errors.New("allocations must be non-negative and sum to at most 100")
	ErrUnknownHolding     = errors.New("holding not found")
)

// DefaultState is the snapshot used on first start.
func DefaultState() model.PortfolioState {
	return model.PortfolioState{
		MonthlyIncome: 10000,
		CashOnHand:    50000,
		Allocations:   model.DefaultAllocations(),
		Holdings: []model.Holding{
			{Ticker: "PLTR", Quantity: 10, CostBasis: 14.50},
			{Ticker: "CRWD", Quantity: 5, CostBasis: 180.00},
			{Ticker: "BTC-USD", Quantity: 0.05, CostBasis: 40000.00},
			{Ticker: "XRP-USD", Quantity: 200, CostBasis: 0.55},
		},
	}
}

// Manager owns the portfolio snapshot and writes every change through to the store.
type Manager struct {
	mu    sync.Mutex
	state model.PortfolioState
	store Store
	now   func() time.Time
}

// NewManager loads state from store, seeding it with defaults when nothing was saved.
func NewManager(store Store, defaults model.PortfolioState) (*Manager, error) {
	state, found, err := store.Load()
	if err != nil {
		return nil, err
	}

	m := &Manager{store: store, now: time.Now}
	if !found {
		state = defaults.Clone()
		m.state = state
		if err := m.save(); err != nil {
			return nil, err
		}
		log.Info().Int("holdings", len(state.Holdings)).Msg("portfolio initialized with defaults")
		return m, nil
	}
	m.state = state
	return m, nil
}

// GetState returns a copy of the current portfolio state.
func (m *Manager) GetState() model.PortfolioState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// SetCash updates the cash available to deploy.
func (m *Manager) SetCash(amount float64) error {
	return m.update(func(s *model.PortfolioState) error {
		if !validAmount(amount) {
			return ErrInvalidAmount
		}
		s.CashOnHand = amount
		return nil
	})
}

// SetMonthlyIncome updates the monthly income shown in the allocation split.
func (m *Manager) SetMonthlyIncome(amount float64) error {
	return m.update(func(s *model.PortfolioState) error {
		if !validAmount(amount) {
			return ErrInvalidAmount
		}
		s.MonthlyIncome = amount
		return nil
	})
}

// SetPortfolioValue sets the total portfolio value used for position caps.
// Zero means derive it from cash plus holdings.
func (m *Manager) SetPortfolioValue(amount float64) error {
	return m.update(func(s *model.PortfolioState) error {
		if !validAmount(amount) {
			return ErrInvalidAmount
		}
		s.TotalPortfolioValue = amount
		return nil
	})
}

// SetAllocations replaces the long-term/swing/real-estate split.
func (m *Manager) SetAllocations(a model.Allocations) error {
	return m.update(func(s *model.PortfolioState) error {
		if !validAmount(a.LongTermPct) || !validAmount(a.SwingPct) || !validAmount(a.RealEstatePct) || a.Sum() > 100 {
			return ErrInvalidAllocations
		}
		s.Allocations = a
		return nil
	})
}

// UpsertHolding adds a holding or replaces the existing row for its ticker.
func (m *Manager) UpsertHolding(h model.Holding) error {
	h.Ticker = model.NormalizeTicker(h.Ticker)
	return m.update(func(s *model.PortfolioState) error {
		if h.Ticker == "" {
			return errors.New("ticker is required")
		}
		if !validAmount(h.Quantity) || !validAmount(h.CostBasis) {
			return ErrInvalidAmount
		}
		for i := range s.Holdings {
			if s.Holdings[i].Ticker == h.Ticker {
				s.Holdings[i] = h
				return nil
			}
		}
		s.Holdings = append(s.Holdings, h)
		return nil
	})
}

// RemoveHolding deletes the row for ticker.
func (m *Manager) RemoveHolding(ticker string) error {
	ticker = model.NormalizeTicker(ticker)
	return m.update(func(s *model.PortfolioState) error {
		for i := range s.Holdings {
			if s.Holdings[i].Ticker == ticker {
				s.Holdings = append(s.Holdings[:i], s.Holdings[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%s: %w", ticker, ErrUnknownHolding)
	})
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// update applies fn to a working copy and commits it only when both fn and the store succeed.
func (m *Manager) update(fn func(s *model.PortfolioState) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	next := m.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	m.state = next
	if err := m.save(); err != nil {
		m.state = prev
		log.Error().Err(err).Msg("failed to save portfolio state")
		return err
	}
	return nil
}

func (m *Manager) save() error {
	m.state.UpdatedAt = m.now()
	return m.store.Save(m.state)
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
