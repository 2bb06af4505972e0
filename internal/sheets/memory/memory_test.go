package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
)

func TestAppendAndReadTransactions(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx := core.Transaction{
		Date:        core.NewDate(2024, time.March, 5),
		Month:       core.Month{Year: 2024, Month: time.March},
		Description: "Snack",
		Amount:      core.Money{Cents: 350},
	}
	if err := s.AppendTransaction(ctx, tx); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := s.ReadTransactions(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("read: got %v, %v", got, err)
	}
	if got[0].Description != "Snack" || got[0].Month.String() != "2024-03" {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestAppendTransactionValidates(t *testing.T) {
	s := New()
	bad := core.Transaction{Amount: core.Money{Cents: -1}}
	if err := s.AppendTransaction(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestAppendBalanceDropsDuplicateMonth(t *testing.T) {
	s := New()
	ctx := context.Background()

	row := core.MonthlyBalance{
		Month:     core.Month{Year: 2024, Month: time.March},
		Allowance: core.Money{Cents: 1000},
		Carryover: core.Money{Cents: 200},
		Remaining: core.Money{Cents: 1200},
	}
	if err := s.AppendBalance(ctx, row); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := s.AppendBalance(ctx, row); err != nil {
		t.Fatalf("duplicate append: %v", err)
	}

	rows, _, err := s.ReadBalances(ctx)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected a single row, got %v, %v", rows, err)
	}
}

func TestSeedPreservesOrder(t *testing.T) {
	jan := core.MonthlyBalance{Month: core.Month{Year: 2024, Month: time.January}, Allowance: core.Money{Cents: 1000}, Remaining: core.Money{Cents: 1000}}
	feb := core.MonthlyBalance{Month: core.Month{Year: 2024, Month: time.February}, Allowance: core.Money{Cents: 1000}, Carryover: core.Money{Cents: 200}, Remaining: core.Money{Cents: 1200}}
	s := Seed(nil, []core.MonthlyBalance{jan, feb})

	rows, _, err := s.ReadBalances(context.Background())
	if err != nil || len(rows) != 2 {
		t.Fatalf("got %v, %v", rows, err)
	}
	if rows[0].Month != jan.Month || rows[1].Month != feb.Month {
		t.Fatalf("order not preserved: %+v", rows)
	}
}
