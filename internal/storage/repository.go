package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets"

	_ "modernc.org/sqlite"
)

// Sync states for the worker that mirrors rows to Google Sheets.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// SQLiteRepository is the offline-first store. It implements the same ports
// as the Google Sheets client and additionally tracks which rows still need
// to be mirrored to the spreadsheet.
type SQLiteRepository struct {
	db *sql.DB
}

var _ sheets.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadTransactions implements sheets.TransactionLog.
func (r *SQLiteRepository) ReadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, month, description, amount_cents FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: select transactions: %v", core.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var dateStr, monthStr, desc string
		var cents int64
		if err := rows.Scan(&dateStr, &monthStr, &desc, &cents); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, err := rowToTransaction(dateStr, monthStr, desc, cents)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed transaction row", "date", dateStr, "month", monthStr, "error", err)
			continue
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// AppendTransaction implements sheets.TransactionLog.
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.InsertTransaction(ctx, tx)
	return err
}

// InsertTransaction stores a purchase in pending sync state and returns its
// row ID for the sync queue.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, month, description, amount_cents) VALUES (?, ?, ?, ?)`,
		tx.Date.String(), tx.Month.String(), tx.Description, tx.Amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("%w: insert transaction: %v", core.ErrStoreUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Purchase saved to SQLite",
		"id", id,
		"date", tx.Date.String(),
		"month", tx.Month.String(),
		"amount_cents", tx.Amount.Cents)
	return id, nil
}

// GetTransaction retrieves one purchase by row ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var dateStr, monthStr, desc string
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT date, month, description, amount_cents FROM transactions WHERE id = ?`, id).
		Scan(&dateStr, &monthStr, &desc, &cents)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return rowToTransaction(dateStr, monthStr, desc, cents)
}

// ReadBalances implements sheets.BalanceLedger. Rows come back in insertion
// order so the roll-over's "last row" semantics match the spreadsheet. The
// amount columns are INTEGER so only the month key can go bad here; such a
// row cannot be attributed to any month and is skipped with a warning.
func (r *SQLiteRepository) ReadBalances(ctx context.Context) ([]core.MonthlyBalance, []core.Month, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, allowance_cents, carryover_cents, spent_cents, remaining_cents
		 FROM monthly_balances ORDER BY rowid`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: select balances: %v", core.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []core.MonthlyBalance
	for rows.Next() {
		var monthStr string
		var allowance, carryover, spent, remaining int64
		if err := rows.Scan(&monthStr, &allowance, &carryover, &spent, &remaining); err != nil {
			return nil, nil, fmt.Errorf("scan balance: %w", err)
		}
		month, err := core.ParseMonth(monthStr)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed balance row", "month", monthStr, "error", err)
			continue
		}
		out = append(out, core.MonthlyBalance{
			Month:     month,
			Allowance: core.Money{Cents: allowance},
			Carryover: core.Money{Cents: carryover},
			Spent:     core.Money{Cents: spent},
			Remaining: core.Money{Cents: remaining},
		})
	}
	return out, nil, rows.Err()
}

// AppendBalance implements sheets.BalanceLedger. The month primary key makes
// this an insert-if-absent: a concurrent roll-over for the same month is
// silently dropped.
func (r *SQLiteRepository) AppendBalance(ctx context.Context, rec core.MonthlyBalance) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO monthly_balances (month, allowance_cents, carryover_cents, spent_cents, remaining_cents)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT(month) DO NOTHING`,
		rec.Month.String(), rec.Allowance.Cents, rec.Carryover.Cents, rec.Spent.Cents, rec.Remaining.Cents)
	if err != nil {
		return fmt.Errorf("%w: insert balance: %v", core.ErrStoreUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.InfoContext(ctx, "Balance row already present, append dropped", "month", rec.Month.String())
	}
	return nil
}

// PendingTransaction is the minimal data the sync queue needs.
type PendingTransaction struct {
	ID        int64
	CreatedAt time.Time
}

// GetPendingTransactions returns purchases not yet mirrored to the sheet.
func (r *SQLiteRepository) GetPendingTransactions(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions WHERE sync_status = ? ORDER BY id LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingTransaction
	for rows.Next() {
		var p PendingTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkTransactionSynced marks a purchase as mirrored to the sheet.
func (r *SQLiteRepository) MarkTransactionSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkTransactionSyncError marks a purchase whose mirror attempt failed.
func (r *SQLiteRepository) MarkTransactionSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// GetPendingBalances returns ledger rows not yet mirrored to the sheet.
func (r *SQLiteRepository) GetPendingBalances(ctx context.Context, limit int) ([]core.MonthlyBalance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, allowance_cents, carryover_cents, spent_cents, remaining_cents
		 FROM monthly_balances WHERE sync_status = ? ORDER BY rowid LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending balances: %w", err)
	}
	defer rows.Close()

	var out []core.MonthlyBalance
	for rows.Next() {
		var monthStr string
		var allowance, carryover, spent, remaining int64
		if err := rows.Scan(&monthStr, &allowance, &carryover, &spent, &remaining); err != nil {
			return nil, fmt.Errorf("scan pending balance: %w", err)
		}
		month, err := core.ParseMonth(monthStr)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed pending balance", "month", monthStr, "error", err)
			continue
		}
		out = append(out, core.MonthlyBalance{
			Month:     month,
			Allowance: core.Money{Cents: allowance},
			Carryover: core.Money{Cents: carryover},
			Spent:     core.Money{Cents: spent},
			Remaining: core.Money{Cents: remaining},
		})
	}
	return out, rows.Err()
}

// MarkBalanceSynced marks a ledger row as mirrored to the sheet.
func (r *SQLiteRepository) MarkBalanceSynced(ctx context.Context, month core.Month) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE monthly_balances SET sync_status = ? WHERE month = ?`, SyncDone, month.String()); err != nil {
		return fmt.Errorf("mark balance synced: %w", err)
	}
	slog.InfoContext(ctx, "Balance row marked as synced", "month", month.String())
	return nil
}

// MarkBalanceSyncError marks a ledger row whose mirror attempt failed.
func (r *SQLiteRepository) MarkBalanceSyncError(ctx context.Context, month core.Month) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE monthly_balances SET sync_status = ? WHERE month = ?`, SyncError, month.String()); err != nil {
		return fmt.Errorf("mark balance sync error: %w", err)
	}
	slog.WarnContext(ctx, "Balance row marked with sync error", "month", month.String())
	return nil
}

func rowToTransaction(dateStr, monthStr, desc string, cents int64) (core.Transaction, error) {
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, err
	}
	month, err := core.ParseMonth(monthStr)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Month:       month,
		Description: desc,
		Amount:      core.Money{Cents: cents},
	}, nil
}
