package portfolio

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"CapitalSentinel/internal/model"
)

// SQLiteStore persists the portfolio in a SQLite database: one settings row
// plus one row per holding.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the API can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite portfolio store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS portfolio_state (
			id                    INTEGER PRIMARY KEY CHECK (id = 1),
			monthly_income        REAL NOT NULL DEFAULT 0,
			cash_on_hand          REAL NOT NULL DEFAULT 0,
			total_portfolio_value REAL NOT NULL DEFAULT 0,
			long_term_pct         REAL NOT NULL DEFAULT 0,
			swing_pct             REAL NOT NULL DEFAULT 0,
			real_estate_pct       REAL NOT NULL DEFAULT 0,
			updated_at            INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS holdings (
			ticker     TEXT PRIMARY KEY,
			position   INTEGER NOT NULL,
			quantity   REAL NOT NULL,
			cost_basis REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_holdings_position ON holdings(position)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load() (model.PortfolioState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		state   model.PortfolioState
		updated int64
	)
	err := s.db.QueryRow(`SELECT monthly_income, cash_on_hand, total_portfolio_value,
		long_term_pct, swing_pct, real_estate_pct, updated_at
		FROM portfolio_state WHERE id = 1`).Scan(
		&state.MonthlyIncome, &state.CashOnHand, &state.TotalPortfolioValue,
		&state.Allocations.LongTermPct, &state.Allocations.SwingPct, &state.Allocations.RealEstatePct,
		&updated,
	)
	if err == sql.ErrNoRows {
		return model.PortfolioState{}, false, nil
	}
	if err != nil {
		return model.PortfolioState{}, false, fmt.Errorf("load portfolio state: %w", err)
	}
	state.UpdatedAt = time.Unix(updated, 0)

	rows, err := s.db.Query(`SELECT ticker, quantity, cost_basis FROM holdings ORDER BY position`)
	if err != nil {
		return model.PortfolioState{}, false, fmt.Errorf("load holdings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.Ticker, &h.Quantity, &h.CostBasis); err != nil {
			return model.PortfolioState{}, false, fmt.Errorf("scan holding: %w", err)
		}
		state.Holdings = append(state.Holdings, h)
	}
	if err := rows.Err(); err != nil {
		return model.PortfolioState{}, false, err
	}
	return state, true, nil
}

// Save replaces the stored snapshot in a single transaction.
func (s *SQLiteStore) Save(state model.PortfolioState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := state.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO portfolio_state
		(id, monthly_income, cash_on_hand, total_portfolio_value, long_term_pct, swing_pct, real_estate_pct, updated_at)
		VALUES (1,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			monthly_income = excluded.monthly_income,
			cash_on_hand = excluded.cash_on_hand,
			total_portfolio_value = excluded.total_portfolio_value,
			long_term_pct = excluded.long_term_pct,
			swing_pct = excluded.swing_pct,
			real_estate_pct = excluded.real_estate_pct,
			updated_at = excluded.updated_at`,
		state.MonthlyIncome, state.CashOnHand, state.TotalPortfolioValue,
		state.Allocations.LongTermPct, state.Allocations.SwingPct, state.Allocations.RealEstatePct,
		updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save portfolio state: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM holdings`); err != nil {
		return fmt.Errorf("clear holdings: %w", err)
	}
	for i, h := range state.Holdings {
		if _, err := tx.Exec(`INSERT INTO holdings (ticker, position, quantity, cost_basis) VALUES (?,?,?,?)`,
			h.Ticker, i, h.Quantity, h.CostBasis); err != nil {
			return fmt.Errorf("save holding %s: %w", h.Ticker, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite portfolio store")
	return s.db.Close()
}
