// Package backend assembles the record store and the optional AMQP relay
// from application configuration.
package backend

import (
	"fmt"
	"log/slog"

	"bkcopilot/internal/amqp"
	"bkcopilot/internal/config"
	"bkcopilot/internal/store"
)

// Type represents the store backend type
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result holds the assembled backend. AMQP is nil when no broker URL is
// configured or the broker is unreachable; the app runs fine without it.
type Result struct {
	Store   store.Store
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the store and optional AMQP client described by cfg.
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	backendType := Type(cfg.StoreBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.StoreBackend)
	}

	var st store.Store
	switch backendType {
	case SQLiteBackend:
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		st = sqliteStore
		f.logger.Info("Initialized SQLite store", "db_path", cfg.SQLiteDBPath)
	case MemoryBackend:
		st = store.NewMemoryStoreFromFiles(cfg.DataDir)
		f.logger.Info("Initialized memory store", "data_dir", cfg.DataDir)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without relay", "error", err)
		} else {
			amqpClient = client
			f.logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	cleanup := func() error {
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		return st.Close()
	}

	return &Result{Store: st, AMQP: amqpClient, Cleanup: cleanup}, nil
}
