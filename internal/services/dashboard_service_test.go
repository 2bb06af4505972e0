package services

import (
	"context"
	"testing"
	"time"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets/memory"
)

func mustTx(t *testing.T, date, desc string, amountCents int64) core.Transaction {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	return core.Transaction{
		Date:        d,
		Month:       d.MonthKey(),
		Description: desc,
		Amount:      core.Money{Cents: amountCents},
	}
}

func TestReport_Empty(t *testing.T) {
	store := memory.New()
	svc := NewDashboardService(store, store, cents(1000))

	d, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !d.Empty {
		t.Error("Empty = false, want true")
	}
	if d.HasHighest || d.HasCarryover || d.HasCurrentMonth || d.HasGap {
		t.Errorf("unexpected populated sections: %+v", d)
	}
	if d.Lifetime.Cents != 0 {
		t.Errorf("lifetime = %d, want 0", d.Lifetime.Cents)
	}
}

func TestReport_Full(t *testing.T) {
	txs := []core.Transaction{
		mustTx(t, "2024-01-03", "Lego set", 1200),
		mustTx(t, "2024-01-15", "candy", 150),
		mustTx(t, "2024-02-02", "lego car", 700),
		mustTx(t, "2024-03-05", "Snack", 350),
	}
	ledger := []core.MonthlyBalance{
		{
			Month:     core.Month{Year: 2024, Month: time.February},
			Allowance: cents(1000), Carryover: cents(0),
			Spent: cents(700), Remaining: cents(300),
		},
		{
			Month:     core.Month{Year: 2024, Month: time.March},
			Allowance: cents(1000), Carryover: cents(300),
			Spent: cents(0), Remaining: cents(1300),
		},
	}
	store := memory.Seed(txs, ledger)
	svc := NewDashboardService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 10)

	d, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if d.Empty {
		t.Fatal("Empty = true, want false")
	}
	if len(d.Summary) != 3 {
		t.Fatalf("summary has %d months, want 3", len(d.Summary))
	}
	if d.Lifetime.Cents != 2400 {
		t.Errorf("lifetime = %d cents, want 2400", d.Lifetime.Cents)
	}
	if d.Average.Cents != 800 {
		t.Errorf("average = %d cents, want 800", d.Average.Cents)
	}

	if !d.HasHighest || d.Highest.Month.String() != "2024-01" || d.Highest.Total.Cents != 1350 {
		t.Errorf("highest = %+v (has=%v), want 2024-01 / 1350", d.Highest, d.HasHighest)
	}
	if !d.HasCarryover || d.BiggestCarryover.Month.String() != "2024-03" || d.BiggestCarryover.Carryover.Cents != 300 {
		t.Errorf("biggest carryover = %+v (has=%v), want 2024-03 / 300", d.BiggestCarryover, d.HasCarryover)
	}
	if !d.HasCurrentMonth || d.CurrentMonth.Remaining.Cents != 1300 {
		t.Errorf("current month = %+v (has=%v), want remaining 1300", d.CurrentMonth, d.HasCurrentMonth)
	}

	// 2024-01 spent 13.50, over the 10.00 budget; the other two months under.
	if d.MonthsOverBudget != 1 || d.MonthsUnderBudget != 2 {
		t.Errorf("budget split = %d over / %d under, want 1 / 2",
			d.MonthsOverBudget, d.MonthsUnderBudget)
	}

	if len(d.PercentChange) != len(d.Summary) {
		t.Errorf("percent change has %d entries, want %d", len(d.PercentChange), len(d.Summary))
	}
	if len(d.PercentChange) > 0 && d.PercentChange[0] != 0 {
		t.Errorf("first percent change = %v, want 0", d.PercentChange[0])
	}

	if len(d.Keywords) == 0 || d.Keywords[0].Word != "lego" || d.Keywords[0].Count != 2 {
		t.Errorf("top keyword = %+v, want lego x2", d.Keywords)
	}

	if !d.HasGap {
		t.Error("HasGap = false, want true")
	}
	if len(d.Recent) != 4 {
		t.Errorf("recent has %d rows, want 4", len(d.Recent))
	}
	if d.Recent[0].Description != "Snack" {
		t.Errorf("most recent = %q, want Snack", d.Recent[0].Description)
	}
	if len(d.FirstPurchases) != 3 {
		t.Errorf("first purchases has %d rows, want 3", len(d.FirstPurchases))
	}
}

func TestReport_NoLedgerRowForCurrentMonth(t *testing.T) {
	store := memory.Seed([]core.Transaction{
		mustTx(t, "2024-01-03", "toy", 500),
	}, nil)
	svc := NewDashboardService(store, store, cents(1000))
	svc.now = fixedClock(2024, time.March, 10)

	d, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if d.HasCurrentMonth {
		t.Error("HasCurrentMonth = true, want false")
	}
	if d.HasCarryover {
		t.Error("HasCarryover = true, want false")
	}
	if d.Empty {
		t.Error("Empty = true, want false: there is spending data")
	}
}
