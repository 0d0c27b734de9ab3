package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/lazypower/rememberme/internal/config"
	"github.com/lazypower/rememberme/internal/store"
	"github.com/lazypower/rememberme/internal/store/mongodb"
	"github.com/lazypower/rememberme/internal/store/sqlite"
)

// openStore opens the backend named by cfg.Database. It also returns a
// human-readable location for log lines.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, string, error) {
	switch cfg.Driver {
	case "mongo":
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		s, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoName)
		if err != nil {
			return nil, "", fmt.Errorf("open mongo: %w", err)
		}
		return s, "mongo database " + cfg.MongoName, nil
	default:
		path := cfg.Path
		if path == "" {
			var err error
			path, err = sqlite.DefaultDBPath()
			if err != nil {
				return nil, "", fmt.Errorf("resolve db path: %w", err)
			}
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open database: %w", err)
		}
		return db, path, nil
	}
}
