package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	remaining, err := s.getBalance(r.Context())
	balanceErr := err != nil
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance read error", "error", err)
	}

	data := struct {
		Today      string
		Month      string
		Balance    string
		Allowance  string
		BalanceErr bool
	}{
		Today:      s.balance.Today().String(),
		Month:      s.balance.CurrentMonth().String(),
		Balance:    formatDollars(remaining.Cents),
		Allowance:  formatDollars(s.balance.Allowance().Cents),
		BalanceErr: balanceErr,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	dateStr := strings.TrimSpace(r.Form.Get("date"))
	if dateStr == "" {
		dateStr = s.balance.Today().String()
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
		return
	}

	desc := sanitizeInput(r.Form.Get("description"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}

	if err := s.balance.LogPurchase(r.Context(), date, desc, core.Money{Cents: cents}); err != nil {
		slog.ErrorContext(r.Context(), "Purchase append error", "error", err, "description", desc, "amount_cents", cents)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not save the purchase</div>`))
		return
	}

	s.invalidateCaches()
	w.Header().Set("HX-Trigger", `{"purchase:logged": {"month": "`+date.MonthKey().String()+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Purchase logged: ` +
		template.HTMLEscapeString(desc) +
		` for $` + template.HTMLEscapeString(amountStr) +
		` on ` + template.HTMLEscapeString(dateStr) + `</div>`))
}

// handleJarBalance renders the jar balance partial.
func (s *Server) handleJarBalance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	remaining, err := s.getBalance(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance read error", "error", err)
		_, _ = w.Write([]byte(`<section id="jar-balance" class="jar-balance"><div class="placeholder">Could not load the jar balance</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="jar-balance" class="jar-balance"><div class="placeholder">` + formatDollars(remaining.Cents) + `</div></section>`))
		return
	}

	data := struct {
		Month   string
		Balance string
	}{
		Month:   s.balance.CurrentMonth().String(),
		Balance: formatDollars(remaining.Cents),
	}
	if err := s.templates.ExecuteTemplate(w, "jar_balance.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "jar_balance.html")
		_, _ = w.Write([]byte(`<section id="jar-balance" class="jar-balance"><div class="placeholder">Could not render the jar balance</div></section>`))
	}
}
