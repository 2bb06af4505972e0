package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	ports "github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Column headers of the two worksheets.
var (
	transactionHeaders = []any{"DATE", "MONTH", "DESCRIPTION", "AMOUNT"}
	balanceHeaders     = []any{"MONTH", "ALLOWANCE", "CARRYOVER", "SPENT", "REMAINING"}
)

// Config identifies the spreadsheet and how to authenticate against it.
// Credentials resolution order: inline JSON, key file, then Application
// Default Credentials.
type Config struct {
	SpreadsheetID      string
	TransactionsSheet  string
	BalancesSheet      string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	balancesSheet     string
}

// Ensure interface conformance
var (
	_ ports.TransactionLog = (*Client)(nil)
	_ ports.BalanceLedger  = (*Client)(nil)
)

// New creates a Sheets-backed store for the given spreadsheet.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "transactions"
	}
	if cfg.BalancesSheet == "" {
		cfg.BalancesSheet = "monthly_balances"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: cfg.TransactionsSheet,
		balancesSheet:     cfg.BalancesSheet,
	}, nil
}

// NewFromEnv creates a client from environment variables.
// Required: JAR_SPREADSHEET_ID
// Optional: JAR_TRANSACTIONS_SHEET, JAR_BALANCES_SHEET,
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE (or
// GOOGLE_APPLICATION_CREDENTIALS via ADC).
func NewFromEnv(ctx context.Context) (*Client, error) {
	id := strings.TrimSpace(os.Getenv("JAR_SPREADSHEET_ID"))
	if id == "" {
		return nil, errors.New("missing JAR_SPREADSHEET_ID")
	}
	return New(ctx, Config{
		SpreadsheetID:      id,
		TransactionsSheet:  strings.TrimSpace(os.Getenv("JAR_TRANSACTIONS_SHEET")),
		BalancesSheet:      strings.TrimSpace(os.Getenv("JAR_BALANCES_SHEET")),
		ServiceAccountJSON: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")),
		ServiceAccountFile: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")),
	})
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials, falling back to Application Default Credentials.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte

	switch {
	case cfg.ServiceAccountJSON != "":
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case cfg.ServiceAccountFile != "":
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if credentialsJSON != nil {
		opts = append(opts, goption.WithCredentialsJSON(credentialsJSON))
	}

	service, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// ReadTransactions reads the transactions worksheet. The header row and rows
// that fail to parse are skipped with a warning so one bad row never blocks
// the dataset.
func (c *Client) ReadTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:D", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", core.ErrStoreUnavailable, rng, err)
	}

	var out []core.Transaction
	for i, row := range resp.Values {
		cols := toStrings(row)
		if i == 0 && isHeaderRow(cols) {
			continue
		}
		tx, err := parseTransactionRow(cols)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction row",
				"sheet", c.transactionsSheet, "row", i+1, "error", err)
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// AppendTransaction appends one purchase row. The amount is written as a
// plain decimal so sheet formulas keep working.
func (c *Client) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:D", c.transactionsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		tx.Date.String(),
		tx.Month.String(),
		tx.Description,
		tx.Amount.Dollars(),
	}}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append to %s: %v", core.ErrStoreUnavailable, c.transactionsSheet, err)
	}
	return nil
}

// ReadBalances reads the monthly_balances worksheet. Rows that fail to
// parse are skipped with a warning like ReadTransactions, but when the
// damaged row still has a readable MONTH cell that month is reported back
// so a direct lookup can refuse to treat the row as absent.
func (c *Client) ReadBalances(ctx context.Context) ([]core.MonthlyBalance, []core.Month, error) {
	if c.svc == nil {
		return nil, nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:E", c.balancesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", core.ErrStoreUnavailable, rng, err)
	}

	out, malformed := collectBalanceRows(ctx, c.balancesSheet, resp.Values)
	return out, malformed, nil
}

func collectBalanceRows(ctx context.Context, sheet string, values [][]any) ([]core.MonthlyBalance, []core.Month) {
	var out []core.MonthlyBalance
	var malformed []core.Month
	for i, row := range values {
		cols := toStrings(row)
		if i == 0 && isHeaderRow(cols) {
			continue
		}
		rec, err := parseBalanceRow(cols)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed balance row",
				"sheet", sheet, "row", i+1, "error", err)
			if len(cols) > 0 {
				if month, merr := core.ParseMonth(cols[0]); merr == nil {
					malformed = append(malformed, month)
				}
			}
			continue
		}
		out = append(out, rec)
	}
	return out, malformed
}

// AppendBalance appends one ledger row. The Sheets API offers no uniqueness
// constraint, so concurrent roll-overs can still duplicate a month here;
// the SQLite backend is the one that enforces it.
func (c *Client) AppendBalance(ctx context.Context, rec core.MonthlyBalance) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:E", c.balancesSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		rec.Month.String(),
		rec.Allowance.Dollars(),
		rec.Carryover.Dollars(),
		rec.Spent.Dollars(),
		rec.Remaining.Dollars(),
	}}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append to %s: %v", core.ErrStoreUnavailable, c.balancesSheet, err)
	}
	return nil
}

// EnsureWorksheets creates the two worksheets with header rows when they do
// not exist yet. Used by the sheets-init command.
func (c *Client) EnsureWorksheets(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: get spreadsheet: %v", core.ErrStoreUnavailable, err)
	}
	existing := map[string]bool{}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	for _, w := range []struct {
		title   string
		headers []any
	}{
		{c.transactionsSheet, transactionHeaders},
		{c.balancesSheet, balanceHeaders},
	} {
		if existing[w.title] {
			slog.InfoContext(ctx, "Worksheet already exists", "title", w.title)
			continue
		}
		req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: w.title},
			},
		}}}
		if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("%w: add worksheet %s: %v", core.ErrStoreUnavailable, w.title, err)
		}
		vr := &gsheet.ValueRange{Values: [][]any{w.headers}}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, w.title+"!A1", vr).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("%w: write headers for %s: %v", core.ErrStoreUnavailable, w.title, err)
		}
		slog.InfoContext(ctx, "Created worksheet", "title", w.title)
	}
	return nil
}
