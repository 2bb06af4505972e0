package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/amqp"
	appconfig "github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/config"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/services"
	gsheet "github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets/google"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/sheets/memory"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without it the worker's pending scan still mirrors
	// rows to the spreadsheet, just less promptly.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	store := services.NewSyncingStore(sqliteRepo, amqpClient)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      config.SpreadsheetID,
		TransactionsSheet:  config.TransactionsSheet,
		BalancesSheet:      config.BalancesSheet,
		ServiceAccountJSON: config.ServiceAccountJSON,
		ServiceAccountFile: config.ServiceAccountJSONFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.SpreadsheetID)

	return &Result{Store: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New()
	f.logger.Info("Initialized memory backend")
	return &Result{Store: store}, nil
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *appconfig.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		SpreadsheetID:          appConfig.SpreadsheetID,
		TransactionsSheet:      appConfig.TransactionsSheet,
		BalancesSheet:          appConfig.BalancesSheet,
		ServiceAccountJSON:     appConfig.ServiceAccountJSON,
		ServiceAccountJSONFile: appConfig.ServiceAccountJSONFile,
	}, nil
}
