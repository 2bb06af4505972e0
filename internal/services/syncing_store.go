package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/amqp"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/storage"
)

// SyncingStore is the offline-first store used when the sqlite backend is
// selected. Writes land in SQLite first, then a sync message is published so
// the worker mirrors the row to the spreadsheet. Publish failures are logged,
// not returned: the pending re-sync pass picks those rows up later.
type SyncingStore struct {
	repo       *storage.SQLiteRepository
	amqpClient *amqp.Client
}

var _ sheets.Store = (*SyncingStore)(nil)

func NewSyncingStore(repo *storage.SQLiteRepository, amqpClient *amqp.Client) *SyncingStore {
	return &SyncingStore{repo: repo, amqpClient: amqpClient}
}

// ReadTransactions implements sheets.TransactionLog.
func (s *SyncingStore) ReadTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.repo.ReadTransactions(ctx)
}

// AppendTransaction implements sheets.TransactionLog. The purchase is durable
// once the SQLite insert succeeds.
func (s *SyncingStore) AppendTransaction(ctx context.Context, tx core.Transaction) error {
	id, err := s.repo.InsertTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("save purchase: %w", err)
	}

	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.PublishPurchaseSync(ctx, id); err != nil {
		slog.WarnContext(ctx, "Purchase saved but sync publish failed, will retry via pending scan",
			"id", id, "error", err)
	}
	return nil
}

// ReadBalances implements sheets.BalanceLedger.
func (s *SyncingStore) ReadBalances(ctx context.Context) ([]core.MonthlyBalance, []core.Month, error) {
	return s.repo.ReadBalances(ctx)
}

// AppendBalance implements sheets.BalanceLedger.
func (s *SyncingStore) AppendBalance(ctx context.Context, rec core.MonthlyBalance) error {
	if err := s.repo.AppendBalance(ctx, rec); err != nil {
		return fmt.Errorf("save balance row: %w", err)
	}

	if s.amqpClient == nil {
		return nil
	}
	if err := s.amqpClient.PublishBalanceSync(ctx, rec.Month.String()); err != nil {
		slog.WarnContext(ctx, "Balance row saved but sync publish failed, will retry via pending scan",
			"month", rec.Month.String(), "error", err)
	}
	return nil
}

func (s *SyncingStore) Close() error {
	var firstErr error
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			firstErr = err
		}
	}
	if s.repo != nil {
		if err := s.repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
