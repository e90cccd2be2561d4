package portfolio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapitalSentinel/internal/model"
)

func sampleState() model.PortfolioState {
	s := DefaultState()
	s.TotalPortfolioValue = 75000
	s.UpdatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return s
}

func assertSameState(t *testing.T, want, got model.PortfolioState) {
	t.Helper()
	assert.Equal(t, want.MonthlyIncome, got.MonthlyIncome)
	assert.Equal(t, want.CashOnHand, got.CashOnHand)
	assert.Equal(t, want.TotalPortfolioValue, got.TotalPortfolioValue)
	assert.Equal(t, want.Allocations, got.Allocations)
	assert.Equal(t, want.Holdings, got.Holdings)
	assert.Equal(t, want.UpdatedAt.Unix(), got.UpdatedAt.Unix())
}

func TestJSONStore_MissingFile(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "none.json"))
	_, found, err := s.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSONStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "portfolio.json")
	s := NewJSONStore(path)

	want := sampleState()
	require.NoError(t, s.Save(want))

	got, found, err := s.Load()
	require.NoError(t, err)
	require.True(t, found)
	assertSameState(t, want, got)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, _, err := NewJSONStore(path).Load()
	assert.Error(t, err)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.Load()
	require.NoError(t, err)
	assert.False(t, found)

	want := sampleState()
	require.NoError(t, s.Save(want))
	got, found, err := s.Load()
	require.NoError(t, err)
	require.True(t, found)
	assertSameState(t, want, got)

	// Second save replaces holdings rather than appending.
	want.Holdings = want.Holdings[:1]
	want.CashOnHand = 1234
	require.NoError(t, s.Save(want))
	got, _, err = s.Load()
	require.NoError(t, err)
	assertSameState(t, want, got)
}

func TestMemoryStore_IsolatesCopies(t *testing.T) {
	s := NewMemoryStore()
	state := sampleState()
	require.NoError(t, s.Save(state))

	state.Holdings[0].Quantity = 999
	got, found, err := s.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 10.0, got.Holdings[0].Quantity)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("json", filepath.Join(dir, "p.json"), "")
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)

	s, err = Open("memory", "", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open("sqlite", "", filepath.Join(dir, "p.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("postgres", "", "")
	assert.Error(t, err)
}
