package google

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
)

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// isHeaderRow recognizes the header of either worksheet.
func isHeaderRow(cols []string) bool {
	if len(cols) == 0 {
		return false
	}
	first := strings.ToUpper(cols[0])
	return first == "DATE" || first == "MONTH"
}

// parseAmountCents converts a sheet cell to cents. Cells can come back as
// numbers or strings depending on cell formatting; commas are accepted as
// decimal separators. Negative values are rejected.
func parseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", core.ErrMalformedRecord)
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", core.ErrMalformedRecord, s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: negative amount %q", core.ErrMalformedRecord, s)
	}
	return int64(f*100.0 + 0.5), nil
}

// parseSignedCents is parseAmountCents without the sign restriction, for
// ledger cells where drifted formulas can produce negative remainders.
func parseSignedCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty number", core.ErrMalformedRecord)
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", core.ErrMalformedRecord, s)
	}
	if f < 0 {
		return int64(f*100.0 - 0.5), nil
	}
	return int64(f*100.0 + 0.5), nil
}

// parseTransactionRow converts a DATE, MONTH, DESCRIPTION, AMOUNT row into a
// typed transaction. A row without a usable amount or month is an error; a
// bad date alone leaves the date zero, matching how the dashboard treats
// unparseable dates as missing.
func parseTransactionRow(cols []string) (core.Transaction, error) {
	if len(cols) < 4 {
		return core.Transaction{}, fmt.Errorf("%w: want 4 columns, got %d", core.ErrMalformedRecord, len(cols))
	}

	cents, err := parseAmountCents(cols[3])
	if err != nil {
		return core.Transaction{}, err
	}

	date, dateErr := core.ParseDate(cols[0])

	month, err := core.ParseMonth(cols[1])
	if err != nil {
		// The MONTH cell is authoritative but redundant; fall back to the
		// date when only the month cell is damaged.
		if dateErr != nil {
			return core.Transaction{}, err
		}
		month = date.MonthKey()
	}

	return core.Transaction{
		Date:        date,
		Month:       month,
		Description: cols[2],
		Amount:      core.Money{Cents: cents},
	}, nil
}

// parseBalanceRow converts a MONTH, ALLOWANCE, CARRYOVER, SPENT, REMAINING
// row into a typed ledger record.
func parseBalanceRow(cols []string) (core.MonthlyBalance, error) {
	if len(cols) < 5 {
		return core.MonthlyBalance{}, fmt.Errorf("%w: want 5 columns, got %d", core.ErrMalformedRecord, len(cols))
	}

	month, err := core.ParseMonth(cols[0])
	if err != nil {
		return core.MonthlyBalance{}, err
	}

	cells := make([]int64, 4)
	for i, col := range cols[1:5] {
		v, err := parseSignedCents(col)
		if err != nil {
			return core.MonthlyBalance{}, fmt.Errorf("month %s: %w", month, err)
		}
		cells[i] = v
	}

	return core.MonthlyBalance{
		Month:     month,
		Allowance: core.Money{Cents: cells[0]},
		Carryover: core.Money{Cents: cells[1]},
		Spent:     core.Money{Cents: cells[2]},
		Remaining: core.Money{Cents: cells[3]},
	}, nil
}
