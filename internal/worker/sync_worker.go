package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/amqp"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/storage"
)

// SyncWorker mirrors rows from the local SQLite store to the jar spreadsheet.
// It consumes AMQP sync messages and additionally scans for pending rows as a
// backup in case messages are lost.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.Store
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets sheets.Store, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"kind", msg.Kind,
		"id", msg.ID,
		"month", msg.Month)

	switch msg.Kind {
	case amqp.KindPurchase:
		return w.syncPurchase(ctx, msg.ID)
	case amqp.KindBalance:
		month, err := core.ParseMonth(msg.Month)
		if err != nil {
			return fmt.Errorf("parse month %q: %w", msg.Month, err)
		}
		return w.syncBalance(ctx, month)
	default:
		return fmt.Errorf("unknown sync message kind %q", msg.Kind)
	}
}

func (w *SyncWorker) syncPurchase(ctx context.Context, id int64) error {
	tx, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.sheets.AppendTransaction(ctx, tx); err != nil {
		if markErr := w.storage.MarkTransactionSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark transaction sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append transaction to sheet: %w", err)
	}

	if err := w.storage.MarkTransactionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Purchase mirrored to sheet", "id", id, "month", tx.Month.String())
	return nil
}

func (w *SyncWorker) syncBalance(ctx context.Context, month core.Month) error {
	rows, err := w.storage.GetPendingBalances(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending balances: %w", err)
	}

	var rec core.MonthlyBalance
	found := false
	for _, row := range rows {
		if row.Month == month {
			rec = row
			found = true
			break
		}
	}
	if !found {
		// Already mirrored by an earlier message or the pending scan.
		slog.InfoContext(ctx, "Balance row no longer pending, skipping", "month", month.String())
		return nil
	}

	if err := w.sheets.AppendBalance(ctx, rec); err != nil {
		if markErr := w.storage.MarkBalanceSyncError(ctx, month); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark balance sync error", "month", month.String(), "error", markErr)
		}
		return fmt.Errorf("append balance to sheet: %w", err)
	}

	if err := w.storage.MarkBalanceSynced(ctx, month); err != nil {
		return fmt.Errorf("mark balance synced: %w", err)
	}

	slog.InfoContext(ctx, "Balance row mirrored to sheet", "month", month.String())
	return nil
}

// ProcessPending mirrors any rows still in pending state. This is a backup
// mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pendingTxs, err := w.storage.GetPendingTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	for _, pending := range pendingTxs {
		if err := w.syncPurchase(ctx, pending.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending purchase", "id", pending.ID, "error", err)
		}
	}

	pendingBalances, err := w.storage.GetPendingBalances(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending balances: %w", err)
	}
	for _, row := range pendingBalances {
		if err := w.syncBalance(ctx, row.Month); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending balance", "month", row.Month.String(), "error", err)
		}
	}

	if n := len(pendingTxs) + len(pendingBalances); n > 0 {
		slog.InfoContext(ctx, "Processed pending rows", "count", n)
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup, using a
// larger batch than the periodic scan.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pendingTxs, err := w.storage.GetPendingTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	pendingBalances, err := w.storage.GetPendingBalances(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending balances for startup check: %w", err)
	}

	if len(pendingTxs) == 0 && len(pendingBalances) == 0 {
		slog.InfoContext(ctx, "No pending rows found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending rows on startup, processing...",
		"transactions", len(pendingTxs),
		"balances", len(pendingBalances))

	successCount := 0
	errorCount := 0
	for _, pending := range pendingTxs {
		if err := w.syncPurchase(ctx, pending.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync purchase during startup", "id", pending.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}
	for _, row := range pendingBalances {
		if err := w.syncBalance(ctx, row.Month); err != nil {
			slog.ErrorContext(ctx, "Failed to sync balance during startup", "month", row.Month.String(), "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync check completed",
		"synced", successCount,
		"errors", errorCount)
	return nil
}
