package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type (
	// Date is a calendar date at UTC midnight.
	Date struct {
		time.Time
	}

	// Month is a calendar month used as the grouping key for transactions
	// and ledger rows. The canonical wire form is "YYYY-MM".
	Month struct {
		Year  int
		Month time.Month
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single logged purchase. Month is stored redundantly
	// alongside Date for fast grouping; adapters derive it from Date on write.
	Transaction struct {
		Date        Date
		Month       Month
		Description string
		Amount      Money
	}

	// MonthlyBalance is one ledger row. Remaining equals
	// Allowance + Carryover - Spent at creation time; the backing sheet may
	// recalculate Spent/Remaining afterwards via formulas.
	MonthlyBalance struct {
		Month     Month
		Allowance Money
		Carryover Money
		Spent     Money
		Remaining Money
	}
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyInput       = errors.New("empty input")
)

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the wire form "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey truncates the date to its month.
func (d Date) MonthKey() Month {
	return Month{Year: d.Time.Year(), Month: d.Time.Month()}
}

// String returns the wire form "YYYY-MM-DD".
func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// MonthOf truncates an instant to its calendar month in UTC.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// ParseMonth parses the wire form "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("%w: month %q", ErrMalformedRecord, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Month{}, fmt.Errorf("%w: month %q", ErrMalformedRecord, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return Month{}, fmt.Errorf("%w: month %q", ErrMalformedRecord, s)
	}
	return Month{Year: year, Month: time.Month(m)}, nil
}

// String returns the wire form "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Before reports whether m is chronologically before other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Validate rejects negative amounts. Zero is allowed: a free purchase is
// still worth logging.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (b MonthlyBalance) Validate() error {
	if b.Month.IsZero() {
		return fmt.Errorf("%w: zero month", ErrMalformedRecord)
	}
	if b.Remaining != b.Allowance.Add(b.Carryover).Sub(b.Spent) {
		return fmt.Errorf("%w: remaining does not match allowance+carryover-spent for %s", ErrMalformedRecord, b.Month)
	}
	return nil
}
