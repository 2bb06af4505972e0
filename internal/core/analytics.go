package core

import (
	"regexp"
	"sort"
	"strings"
)

type (
	// MonthTotal is the spend aggregated over one month.
	MonthTotal struct {
		Month Month
		Total Money
	}

	// MonthCount is the number of purchases logged in one month.
	MonthCount struct {
		Month Month
		Count int
	}

	// MonthCarryover pairs a ledger month with its carryover.
	MonthCarryover struct {
		Month     Month
		Carryover Money
	}

	// KeywordCount is a description token and its frequency.
	KeywordCount struct {
		Word  string
		Count int
	}

	// MonthDate pairs a month with the date of its first purchase.
	MonthDate struct {
		Month Month
		Date  Date
	}
)

// Word runs are letters, digits, and underscore. Go's \w stops at ASCII,
// so the class is spelled out to keep accented descriptions in one token.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// MonthlySummary groups transactions by month and sums their amounts.
// Output is ordered ascending by month; transactions without a month key
// are excluded. Grouping is independent of input order.
func MonthlySummary(txs []Transaction) []MonthTotal {
	totals := map[Month]int64{}
	for _, t := range txs {
		if t.Month.IsZero() {
			continue
		}
		totals[t.Month] += t.Amount.Cents
	}
	out := make([]MonthTotal, 0, len(totals))
	for m, cents := range totals {
		out = append(out, MonthTotal{Month: m, Total: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// LifetimeSpend sums the amounts of all transactions.
func LifetimeSpend(txs []Transaction) Money {
	var cents int64
	for _, t := range txs {
		cents += t.Amount.Cents
	}
	return Money{Cents: cents}
}

// HighestSpendMonth returns the month with the largest total. Ties are
// broken by the first occurrence in summary order.
func HighestSpendMonth(summary []MonthTotal) (MonthTotal, error) {
	if len(summary) == 0 {
		return MonthTotal{}, ErrEmptyInput
	}
	best := summary[0]
	for _, mt := range summary[1:] {
		if mt.Total.Cents > best.Total.Cents {
			best = mt
		}
	}
	return best, nil
}

// BiggestCarryover returns the ledger row with the largest carryover.
// Ties are broken by the first occurrence in ledger order.
func BiggestCarryover(ledger []MonthlyBalance) (MonthCarryover, error) {
	if len(ledger) == 0 {
		return MonthCarryover{}, ErrEmptyInput
	}
	best := MonthCarryover{Month: ledger[0].Month, Carryover: ledger[0].Carryover}
	for _, row := range ledger[1:] {
		if row.Carryover.Cents > best.Carryover.Cents {
			best = MonthCarryover{Month: row.Month, Carryover: row.Carryover}
		}
	}
	return best, nil
}

// PercentChange computes the month-over-month change of totals in percent.
// The first month is 0 by definition; a zero previous total also yields 0
// rather than a fault. Output length equals the summary length.
func PercentChange(summary []MonthTotal) []float64 {
	out := make([]float64, len(summary))
	for i := 1; i < len(summary); i++ {
		prev := summary[i-1].Total.Cents
		if prev == 0 {
			continue
		}
		out[i] = float64(summary[i].Total.Cents-prev) / float64(prev) * 100
	}
	return out
}

// PurchaseCountsByMonth counts transactions per month, ordered ascending
// by month.
func PurchaseCountsByMonth(txs []Transaction) []MonthCount {
	counts := map[Month]int{}
	for _, t := range txs {
		if t.Month.IsZero() {
			continue
		}
		counts[t.Month]++
	}
	out := make([]MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MonthCount{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// TopKeywords tokenizes lower-cased descriptions on runs of word characters
// and returns the k most frequent tokens, ties broken by first appearance.
func TopKeywords(txs []Transaction, k int) []KeywordCount {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	order := 0
	for _, t := range txs {
		for _, w := range wordRe.FindAllString(strings.ToLower(t.Description), -1) {
			if _, ok := counts[w]; !ok {
				firstSeen[w] = order
				order++
			}
			counts[w]++
		}
	}
	out := make([]KeywordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, KeywordCount{Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Word] < firstSeen[out[j].Word]
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// LongestGapDays returns the largest gap in whole days between successive
// purchases, sorted by date. ok is false when fewer than two dated
// transactions exist; callers display that as "N/A".
func LongestGapDays(txs []Transaction) (days int, ok bool) {
	dates := make([]Date, 0, len(txs))
	for _, t := range txs {
		if t.Date.IsZero() {
			continue
		}
		dates = append(dates, t.Date)
	}
	if len(dates) < 2 {
		return 0, false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Time.Before(dates[j].Time) })
	var max int
	for i := 1; i < len(dates); i++ {
		gap := int(dates[i].Time.Sub(dates[i-1].Time).Hours() / 24)
		if gap > max {
			max = gap
		}
	}
	return max, true
}

// FirstPurchasePerMonth returns the earliest purchase date of each month,
// ordered ascending by month.
func FirstPurchasePerMonth(txs []Transaction) []MonthDate {
	firsts := map[Month]Date{}
	for _, t := range txs {
		if t.Month.IsZero() || t.Date.IsZero() {
			continue
		}
		if cur, ok := firsts[t.Month]; !ok || t.Date.Time.Before(cur.Time) {
			firsts[t.Month] = t.Date
		}
	}
	out := make([]MonthDate, 0, len(firsts))
	for m, d := range firsts {
		out = append(out, MonthDate{Month: m, Date: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// AverageMonthlySpend is the mean of the monthly totals, rounded half-up
// to the cent. Zero for an empty summary.
func AverageMonthlySpend(summary []MonthTotal) Money {
	if len(summary) == 0 {
		return Money{}
	}
	var sum int64
	for _, mt := range summary {
		sum += mt.Total.Cents
	}
	n := int64(len(summary))
	return Money{Cents: (sum + n/2) / n}
}

// BudgetSplit counts the months whose total exceeds the budget and the
// months at or under it.
func BudgetSplit(summary []MonthTotal, budget Money) (over, under int) {
	for _, mt := range summary {
		if mt.Total.Cents > budget.Cents {
			over++
		} else {
			under++
		}
	}
	return over, under
}

// RecentTransactions returns the latest n transactions by date descending.
// The sort is stable so same-day purchases keep their log order.
func RecentTransactions(txs []Transaction, n int) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Time.Before(out[i].Date.Time) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CurrentMonthRow finds the ledger row for the given month, if present.
func CurrentMonthRow(ledger []MonthlyBalance, month Month) (MonthlyBalance, bool) {
	for _, row := range ledger {
		if row.Month == month {
			return row, true
		}
	}
	return MonthlyBalance{}, false
}
