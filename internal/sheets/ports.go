package sheets

import (
	"context"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionLog is the append-only purchase log.
	TransactionLog interface {
		// ReadTransactions returns every stored purchase in storage order.
		// Rows that fail to parse are skipped, not fatal.
		ReadTransactions(ctx context.Context) ([]core.Transaction, error)
		AppendTransaction(ctx context.Context, tx core.Transaction) error
	}

	// BalanceLedger is the per-month balance record store.
	BalanceLedger interface {
		// ReadBalances returns every parseable ledger row in storage order,
		// plus the months of rows that exist but could not be parsed. Callers
		// doing a direct per-month lookup must treat a malformed month as
		// present-but-unreadable, not absent; aggregate readers may ignore it.
		ReadBalances(ctx context.Context) (rows []core.MonthlyBalance, malformed []core.Month, err error)
		// AppendBalance appends a row for a month. Backends that can enforce
		// it treat the month as unique and drop duplicate appends.
		AppendBalance(ctx context.Context, row core.MonthlyBalance) error
	}

	// Store bundles both worksheets of the jar spreadsheet.
	Store interface {
		TransactionLog
		BalanceLedger
	}
)
