package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/store"
)

const connectTimeout = 10 * time.Second

// ConnectDB opens the store selected by cfg.Driver and verifies it is
// reachable.
func ConnectDB(ctx context.Context, cfg DatabaseConfig, log *logging.Logger) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch strings.ToLower(cfg.Driver) {
	case DriverMongo:
		s, err := store.ConnectMongo(ctx, cfg.URI, cfg.Name)
		if err != nil {
			return nil, fmt.Errorf("MongoDB connection error: %w", err)
		}
		log.Info("Connected to MongoDB", "database", cfg.Name)
		return s, nil
	case DriverPostgres:
		s, err := store.OpenSQL(ctx, store.DialectPostgres, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("PostgreSQL connection error: %w", err)
		}
		log.Info("Connected to PostgreSQL")
		return s, nil
	case DriverMySQL:
		s, err := store.OpenSQL(ctx, store.DialectMySQL, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("MySQL connection error: %w", err)
		}
		log.Info("Connected to MySQL")
		return s, nil
	case DriverMemory:
		log.Warn("using in-memory store, data is lost on exit")
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
