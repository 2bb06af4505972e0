package memory

import (
	"context"
	"sync"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
)

// Store is an in-memory stand-in for the jar spreadsheet, used for local
// development and tests.
type Store struct {
	mu       sync.Mutex
	txs      []core.Transaction
	balances []core.MonthlyBalance
}

func New() *Store {
	return &Store{}
}

// Seed pre-loads transactions and ledger rows, preserving their order.
func Seed(txs []core.Transaction, balances []core.MonthlyBalance) *Store {
	s := New()
	s.txs = append(s.txs, txs...)
	s.balances = append(s.balances, balances...)
	return s
}

func (s *Store) ReadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return nil
}

// ReadBalances returns the seeded and appended rows. The store only holds
// typed records, so the malformed-month list is always empty.
func (s *Store) ReadBalances(_ context.Context) ([]core.MonthlyBalance, []core.Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.MonthlyBalance, len(s.balances))
	copy(out, s.balances)
	return out, nil, nil
}

// AppendBalance appends a ledger row. Duplicate months are dropped under the
// store lock, so concurrent roll-overs cannot create two rows for one month.
func (s *Store) AppendBalance(_ context.Context, row core.MonthlyBalance) error {
	if err := row.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.balances {
		if existing.Month == row.Month {
			return nil
		}
	}
	s.balances = append(s.balances, row)
	return nil
}
