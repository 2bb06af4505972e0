package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets"
)

// DefaultAllowanceCents is the monthly jar credit when nothing is configured.
const DefaultAllowanceCents = 1000

// BalanceService is the jar's balance engine: it answers "how much is left
// this month", lazily creating the month's ledger row with carryover from
// the previous one, and appends purchases to the transaction log.
type BalanceService struct {
	txlog     sheets.TransactionLog
	ledger    sheets.BalanceLedger
	allowance core.Money
	now       func() time.Time
}

func NewBalanceService(txlog sheets.TransactionLog, ledger sheets.BalanceLedger, allowance core.Money) *BalanceService {
	if allowance.Cents <= 0 {
		allowance = core.Money{Cents: DefaultAllowanceCents}
	}
	return &BalanceService{
		txlog:     txlog,
		ledger:    ledger,
		allowance: allowance,
		now:       time.Now,
	}
}

// CurrentMonth returns the month key the service is operating in.
func (s *BalanceService) CurrentMonth() core.Month {
	return core.MonthOf(s.now())
}

// Today returns the current date on the same clock as CurrentMonth, so a
// page rendering both can never show a date outside the shown month.
func (s *BalanceService) Today() core.Date {
	t := s.now().UTC()
	return core.NewDate(t.Year(), t.Month(), t.Day())
}

// Allowance returns the configured monthly credit.
func (s *BalanceService) Allowance() core.Money {
	return s.allowance
}

// CurrentBalance returns the remaining balance for the current month.
//
// When the ledger has no row for the current month yet, one is created with
// the carryover taken from the last row in ledger order (zero for an empty
// ledger) and appended before returning. Once the row exists, further calls
// are pure reads. A row for the current month that exists but could not be
// read is an error, never a reason to roll over again: appending on top of
// it would duplicate the month.
func (s *BalanceService) CurrentBalance(ctx context.Context) (core.Money, error) {
	month := s.CurrentMonth()

	rows, malformed, err := s.ledger.ReadBalances(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("read ledger: %w", err)
	}
	for _, m := range malformed {
		if m == month {
			return core.Money{}, fmt.Errorf("%w: ledger row for %s has unreadable cells", core.ErrMalformedRecord, month)
		}
	}

	if row, ok := core.CurrentMonthRow(rows, month); ok {
		return row.Remaining, nil
	}

	// Roll over the previous remaining balance. The source is the last row
	// in storage order, not the chronologically previous month; the ledger
	// is append-only so the two coincide in practice.
	var carryover core.Money
	if len(rows) > 0 {
		carryover = rows[len(rows)-1].Remaining
	}

	rec := core.MonthlyBalance{
		Month:     month,
		Allowance: s.allowance,
		Carryover: carryover,
		Spent:     core.Money{},
		Remaining: s.allowance.Add(carryover),
	}
	if err := s.ledger.AppendBalance(ctx, rec); err != nil {
		return core.Money{}, fmt.Errorf("append balance row: %w", err)
	}

	slog.InfoContext(ctx, "Created monthly balance row",
		"month", month.String(),
		"carryover_cents", carryover.Cents,
		"remaining_cents", rec.Remaining.Cents)

	return rec.Remaining, nil
}

// LogPurchase validates and appends one purchase to the transaction log.
// The ledger is never touched here; spend is recomputed from the log on read.
func (s *BalanceService) LogPurchase(ctx context.Context, date core.Date, description string, amount core.Money) error {
	if err := date.Validate(); err != nil {
		return err
	}
	if err := amount.Validate(); err != nil {
		return err
	}

	tx := core.Transaction{
		Date:        date,
		Month:       date.MonthKey(),
		Description: description,
		Amount:      amount,
	}
	if err := s.txlog.AppendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}

	slog.InfoContext(ctx, "Purchase logged",
		"date", date.String(),
		"month", tx.Month.String(),
		"amount_cents", amount.Cents)
	return nil
}
