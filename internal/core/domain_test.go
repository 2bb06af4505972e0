package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-03-05" {
		t.Fatalf("roundtrip: got %s", d)
	}
	if d.MonthKey() != (Month{Year: 2024, Month: time.March}) {
		t.Fatalf("month key: got %v", d.MonthKey())
	}

	for _, bad := range []string{"", "2024-13-01", "03/05/2024", "2024-03"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"2024-03", Month{2024, time.March}, true},
		{" 2024-12 ", Month{2024, time.December}, true},
		{"2024-00", Month{}, false},
		{"2024-13", Month{}, false},
		{"2024", Month{}, false},
		{"", Month{}, false},
	}
	for i, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got %v, %v", i, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrMalformedRecord) {
			t.Fatalf("case %d: expected ErrMalformedRecord, got %v", i, err)
		}
	}
}

func TestMonthString(t *testing.T) {
	if s := (Month{Year: 2024, Month: time.March}).String(); s != "2024-03" {
		t.Fatalf("got %s", s)
	}
	if s := (Month{Year: 987, Month: time.December}).String(); s != "0987-12" {
		t.Fatalf("got %s", s)
	}
}

func TestMonthBefore(t *testing.T) {
	jan := Month{2024, time.January}
	feb := Month{2024, time.February}
	dec23 := Month{2023, time.December}
	if !jan.Before(feb) || feb.Before(jan) {
		t.Fatal("same-year ordering broken")
	}
	if !dec23.Before(jan) {
		t.Fatal("cross-year ordering broken")
	}
	if jan.Before(jan) {
		t.Fatal("month should not be before itself")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero should be valid, got %v", err)
	}
	if err := (Money{Cents: 350}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2024, time.March, 5),
		Month:       Month{2024, time.March},
		Description: "Snack",
		Amount:      Money{Cents: 350},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, Amount: Money{Cents: 1}},
		{Date: NewDate(2024, time.March, 5), Amount: Money{Cents: -1}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMonthlyBalanceValidate(t *testing.T) {
	good := MonthlyBalance{
		Month:     Month{2024, time.March},
		Allowance: Money{Cents: 1000},
		Carryover: Money{Cents: 200},
		Spent:     Money{Cents: 0},
		Remaining: Money{Cents: 1200},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	drifted := good
	drifted.Remaining = Money{Cents: 999}
	if err := drifted.Validate(); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}

	if err := (MonthlyBalance{}).Validate(); !errors.Is(err, ErrMalformedRecord) {
		t.Fatal("zero month should be malformed")
	}
}
