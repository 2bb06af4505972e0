package http

import (
	"fmt"
	"log/slog"
	"net/http"
)

type summaryRow struct {
	Month         string
	Total         string
	Width         int
	PercentChange string
	Count         int
}

type keywordRow struct {
	Word  string
	Count int
}

type recentRow struct {
	Date        string
	Description string
	Amount      string
}

type firstPurchaseRow struct {
	Month string
	Date  string
}

type dashboardView struct {
	Empty bool

	Lifetime string
	Average  string

	HasHighest   bool
	HighestMonth string
	HighestTotal string

	HasCarryover    bool
	CarryoverMonth  string
	CarryoverAmount string

	HasCurrentMonth bool
	CurrentMonth    string
	Remaining       string
	Spent           string

	MonthsOver  int
	MonthsUnder int

	HasGap  bool
	GapDays int

	Rows           []summaryRow
	Keywords       []keywordRow
	Recent         []recentRow
	FirstPurchases []firstPurchaseRow
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	d, err := s.getDashboard(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", "error", err)
		http.Error(w, "could not load dashboard", http.StatusInternalServerError)
		return
	}

	view := dashboardView{
		Empty:       d.Empty,
		Lifetime:    formatDollars(d.Lifetime.Cents),
		Average:     formatDollars(d.Average.Cents),
		MonthsOver:  d.MonthsOverBudget,
		MonthsUnder: d.MonthsUnderBudget,
	}

	if d.HasHighest {
		view.HasHighest = true
		view.HighestMonth = d.Highest.Month.String()
		view.HighestTotal = formatDollars(d.Highest.Total.Cents)
	}
	if d.HasCarryover {
		view.HasCarryover = true
		view.CarryoverMonth = d.BiggestCarryover.Month.String()
		view.CarryoverAmount = formatDollars(d.BiggestCarryover.Carryover.Cents)
	}
	if d.HasCurrentMonth {
		view.HasCurrentMonth = true
		view.CurrentMonth = d.CurrentMonth.Month.String()
		view.Remaining = formatDollars(d.CurrentMonth.Remaining.Cents)
		view.Spent = formatDollars(d.CurrentMonth.Spent.Cents)
	}
	if d.HasGap {
		view.HasGap = true
		view.GapDays = d.LongestGapDays
	}

	// Bar widths scale against the biggest month so the chart fills the card.
	var maxCents int64
	for _, mt := range d.Summary {
		if mt.Total.Cents > maxCents {
			maxCents = mt.Total.Cents
		}
	}
	counts := make(map[string]int, len(d.Counts))
	for _, mc := range d.Counts {
		counts[mc.Month.String()] = mc.Count
	}
	for i, mt := range d.Summary {
		width := 0
		if maxCents > 0 && mt.Total.Cents > 0 {
			width = int((mt.Total.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		change := ""
		if i > 0 && i < len(d.PercentChange) {
			change = fmt.Sprintf("%+.1f%%", d.PercentChange[i])
		}
		view.Rows = append(view.Rows, summaryRow{
			Month:         mt.Month.String(),
			Total:         formatDollars(mt.Total.Cents),
			Width:         width,
			PercentChange: change,
			Count:         counts[mt.Month.String()],
		})
	}

	for _, kw := range d.Keywords {
		view.Keywords = append(view.Keywords, keywordRow{Word: kw.Word, Count: kw.Count})
	}
	for _, tx := range d.Recent {
		view.Recent = append(view.Recent, recentRow{
			Date:        tx.Date.String(),
			Description: tx.Description,
			Amount:      formatDollars(tx.Amount.Cents),
		})
	}
	for _, fp := range d.FirstPurchases {
		view.FirstPurchases = append(view.FirstPurchases, firstPurchaseRow{
			Month: fp.Month.String(),
			Date:  fp.Date.String(),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err, "template", "dashboard.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
