package repository

import (
	"context"
	"fmt"

	"github.com/pesio-ai/be-contracts/internal/config"
	"github.com/pesio-ai/be-contracts/internal/database"
)

// OpenStore builds the backend selected by cfg.Storage.Backend. The caller
// owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil

	case config.BackendFile:
		return NewFileStore(cfg.Storage.FileDir)

	case config.BackendSQLite:
		return OpenSQLiteStore(ctx, cfg.Storage.SQLitePath)

	case config.BackendPostgres:
		db, err := database.New(ctx, database.Config{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			Database:    cfg.Database.Database,
			SSLMode:     cfg.Database.SSLMode,
			MaxConns:    cfg.Database.MaxConns,
			MinConns:    cfg.Database.MinConns,
			MaxConnTime: cfg.Database.MaxConnTime,
			MaxIdleTime: cfg.Database.MaxIdleTime,
			HealthCheck: cfg.Database.HealthCheck,
			DSN:         cfg.Database.URL,
		})
		if err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.ownsDB = true
		return s, nil

	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
}
