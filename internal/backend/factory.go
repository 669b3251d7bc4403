package backend

import (
	"context"
	"fmt"

	applog "dompet/internal/log"
	"dompet/internal/session"
	"dompet/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	if err := repo.Ping(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("sqlite not reachable: %w", err)
	}

	f.logger.Info("Initialized SQLite session backend",
		applog.FieldSessionBackend, config.Type, "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Markers: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory session backend", applog.FieldSessionBackend, MemoryBackend)

	return &BackendResult{
		Markers: session.NewMemoryMarkers(),
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
