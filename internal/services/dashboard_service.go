package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets"
)

// Dashboard-wide display knobs.
const (
	topKeywordCount    = 5
	recentTxCount      = 10
	firstPurchaseLimit = 12
)

// Dashboard is everything the analytics page renders, computed in one pass
// over the two stores.
type Dashboard struct {
	Empty bool

	Summary  []core.MonthTotal
	Lifetime core.Money
	Average  core.Money

	Highest    core.MonthTotal
	HasHighest bool

	BiggestCarryover core.MonthCarryover
	HasCarryover     bool

	CurrentMonth    core.MonthlyBalance
	HasCurrentMonth bool

	MonthsOverBudget  int
	MonthsUnderBudget int

	PercentChange []float64
	Counts        []core.MonthCount
	Keywords      []core.KeywordCount
	Recent        []core.Transaction

	LongestGapDays int
	HasGap         bool

	FirstPurchases []core.MonthDate
}

// DashboardService computes the analytics page from the raw transaction log
// and balance ledger. All aggregation is recomputed on every call; the ledger
// Spent column is never trusted for analytics.
type DashboardService struct {
	txlog     sheets.TransactionLog
	ledger    sheets.BalanceLedger
	allowance core.Money
	now       func() time.Time
}

func NewDashboardService(txlog sheets.TransactionLog, ledger sheets.BalanceLedger, allowance core.Money) *DashboardService {
	if allowance.Cents <= 0 {
		allowance = core.Money{Cents: DefaultAllowanceCents}
	}
	return &DashboardService{
		txlog:     txlog,
		ledger:    ledger,
		allowance: allowance,
		now:       time.Now,
	}
}

// Report reads both stores and computes the full dashboard.
func (s *DashboardService) Report(ctx context.Context) (*Dashboard, error) {
	txs, err := s.txlog.ReadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	// Aggregates tolerate damaged ledger rows; the malformed months only
	// matter to the balance engine's direct lookup.
	ledger, _, err := s.ledger.ReadBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	d := &Dashboard{
		Summary:  core.MonthlySummary(txs),
		Lifetime: core.LifetimeSpend(txs),
		Counts:   core.PurchaseCountsByMonth(txs),
		Keywords: core.TopKeywords(txs, topKeywordCount),
		Recent:   core.RecentTransactions(txs, recentTxCount),
	}
	d.Empty = len(d.Summary) == 0

	d.Average = core.AverageMonthlySpend(d.Summary)
	d.PercentChange = core.PercentChange(d.Summary)
	d.MonthsOverBudget, d.MonthsUnderBudget = core.BudgetSplit(d.Summary, s.allowance)

	if highest, err := core.HighestSpendMonth(d.Summary); err == nil {
		d.Highest = highest
		d.HasHighest = true
	} else if !errors.Is(err, core.ErrEmptyInput) {
		return nil, err
	}

	if biggest, err := core.BiggestCarryover(ledger); err == nil {
		d.BiggestCarryover = biggest
		d.HasCarryover = true
	} else if !errors.Is(err, core.ErrEmptyInput) {
		return nil, err
	}

	if row, ok := core.CurrentMonthRow(ledger, core.MonthOf(s.now())); ok {
		d.CurrentMonth = row
		d.HasCurrentMonth = true
	}

	if days, ok := core.LongestGapDays(txs); ok {
		d.LongestGapDays = days
		d.HasGap = true
	}

	firsts := core.FirstPurchasePerMonth(txs)
	if len(firsts) > firstPurchaseLimit {
		firsts = firsts[len(firsts)-firstPurchaseLimit:]
	}
	d.FirstPurchases = firsts

	return d, nil
}
