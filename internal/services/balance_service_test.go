package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets/memory"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func cents(c int64) core.Money { return core.Money{Cents: c} }

func TestCurrentBalance_EmptyLedger(t *testing.T) {
	store := memory.New()
	svc := NewBalanceService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 5)

	got, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if got.Cents != 1000 {
		t.Errorf("remaining = %d cents, want 1000", got.Cents)
	}

	rows, _, err := store.ReadBalances(context.Background())
	if err != nil {
		t.Fatalf("ReadBalances: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ledger has %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Month.String() != "2024-03" {
		t.Errorf("month = %s, want 2024-03", row.Month)
	}
	if row.Carryover.Cents != 0 || row.Spent.Cents != 0 || row.Remaining.Cents != 1000 {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestCurrentBalance_CarriesOverLastRow(t *testing.T) {
	store := memory.Seed(nil, []core.MonthlyBalance{
		{
			Month:     core.Month{Year: 2024, Month: time.February},
			Allowance: cents(1000),
			Carryover: cents(0),
			Spent:     cents(800),
			Remaining: cents(200),
		},
	})
	svc := NewBalanceService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 5)

	got, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if got.Cents != 1200 {
		t.Errorf("remaining = %d cents, want 1200", got.Cents)
	}
}

func TestCurrentBalance_ExistingRowIsReadOnly(t *testing.T) {
	store := memory.Seed(nil, []core.MonthlyBalance{
		{
			Month:     core.Month{Year: 2024, Month: time.March},
			Allowance: cents(1000),
			Carryover: cents(250),
			Spent:     cents(0),
			Remaining: cents(1250),
		},
	})
	svc := NewBalanceService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 20)

	for i := 0; i < 3; i++ {
		got, err := svc.CurrentBalance(context.Background())
		if err != nil {
			t.Fatalf("CurrentBalance: %v", err)
		}
		if got.Cents != 1250 {
			t.Errorf("remaining = %d cents, want 1250", got.Cents)
		}
	}

	rows, _, _ := store.ReadBalances(context.Background())
	if len(rows) != 1 {
		t.Errorf("ledger has %d rows, want 1", len(rows))
	}
}

// damagedLedger plays the role of a spreadsheet whose row for a month
// exists but has unreadable cells, the way the sheet adapter reports it.
type damagedLedger struct {
	rows      []core.MonthlyBalance
	malformed []core.Month
	appends   int
}

func (l *damagedLedger) ReadBalances(_ context.Context) ([]core.MonthlyBalance, []core.Month, error) {
	return l.rows, l.malformed, nil
}

func (l *damagedLedger) AppendBalance(_ context.Context, row core.MonthlyBalance) error {
	l.appends++
	l.rows = append(l.rows, row)
	return nil
}

func TestCurrentBalance_MalformedCurrentMonthRow(t *testing.T) {
	ledger := &damagedLedger{
		rows: []core.MonthlyBalance{
			{
				Month:     core.Month{Year: 2024, Month: time.February},
				Allowance: cents(1000),
				Carryover: cents(0),
				Spent:     cents(800),
				Remaining: cents(200),
			},
		},
		malformed: []core.Month{{Year: 2024, Month: time.March}},
	}
	svc := NewBalanceService(memory.New(), ledger, cents(1000))
	svc.now = fixedClock(2024, time.March, 5)

	_, err := svc.CurrentBalance(context.Background())
	if !errors.Is(err, core.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
	if ledger.appends != 0 {
		t.Errorf("appended %d rows for a month that already exists", ledger.appends)
	}
	if len(ledger.rows) != 1 {
		t.Errorf("ledger has %d rows, want the February row only", len(ledger.rows))
	}
}

func TestCurrentBalance_DefaultAllowance(t *testing.T) {
	store := memory.New()
	svc := NewBalanceService(store, store, core.Money{})
	svc.now = fixedClock(2024, time.June, 1)

	got, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if got.Cents != DefaultAllowanceCents {
		t.Errorf("remaining = %d cents, want %d", got.Cents, DefaultAllowanceCents)
	}
}

func TestTodayMatchesCurrentMonthClock(t *testing.T) {
	store := memory.New()
	svc := NewBalanceService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 5)

	if got := svc.Today().String(); got != "2024-03-05" {
		t.Errorf("Today = %s, want 2024-03-05", got)
	}
	if svc.Today().MonthKey() != svc.CurrentMonth() {
		t.Errorf("Today's month %s != CurrentMonth %s", svc.Today().MonthKey(), svc.CurrentMonth())
	}
}

func TestLogPurchase(t *testing.T) {
	store := memory.New()
	svc := NewBalanceService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 5)

	date, err := core.ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if err := svc.LogPurchase(context.Background(), date, "Snack", cents(350)); err != nil {
		t.Fatalf("LogPurchase: %v", err)
	}

	txs, err := store.ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("ReadTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("log has %d rows, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Month.String() != "2024-03" {
		t.Errorf("month = %s, want 2024-03", tx.Month)
	}
	if tx.Description != "Snack" || tx.Amount.Cents != 350 {
		t.Errorf("unexpected transaction: %+v", tx)
	}
}

func TestLogPurchase_ZeroAmountAllowed(t *testing.T) {
	store := memory.New()
	svc := NewBalanceService(store, store, cents(1000))

	date, _ := core.ParseDate("2024-03-05")
	if err := svc.LogPurchase(context.Background(), date, "freebie", core.Money{}); err != nil {
		t.Fatalf("LogPurchase zero amount: %v", err)
	}
}

func TestLogPurchase_Invalid(t *testing.T) {
	store := memory.New()
	svc := NewBalanceService(store, store, cents(1000))
	date, _ := core.ParseDate("2024-03-05")

	if err := svc.LogPurchase(context.Background(), core.Date{}, "x", cents(100)); err == nil {
		t.Error("expected error for zero date")
	}
	if err := svc.LogPurchase(context.Background(), date, "x", cents(-100)); err == nil {
		t.Error("expected error for negative amount")
	}

	txs, _ := store.ReadTransactions(context.Background())
	if len(txs) != 0 {
		t.Errorf("log has %d rows, want 0", len(txs))
	}
}

// The walkthrough from the app's docs: a prior month left 2.00 in the jar,
// a purchase is logged, and the new month opens at 12.00.
func TestRollOverScenario(t *testing.T) {
	store := memory.Seed(nil, []core.MonthlyBalance{
		{
			Month:     core.Month{Year: 2024, Month: time.February},
			Allowance: cents(1000),
			Carryover: cents(0),
			Spent:     cents(800),
			Remaining: cents(200),
		},
	})
	svc := NewBalanceService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 5)

	date, _ := core.ParseDate("2024-03-05")
	if err := svc.LogPurchase(context.Background(), date, "Snack", cents(350)); err != nil {
		t.Fatalf("LogPurchase: %v", err)
	}

	got, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if got.Cents != 1200 {
		t.Errorf("remaining = %d cents, want 1200 (10.00 allowance + 2.00 carryover)", got.Cents)
	}
}
