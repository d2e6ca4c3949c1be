package cli

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/config"
)

// connectStore opens the Postgres connection pool backing
// internal/assetstore, registered under the pgx/v5 stdlib driver.
func connectStore(cfg config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("cli: connect postgres: %w", err)
	}
	return db, nil
}

// connectBus opens the Redis client backing internal/eventbus.
func connectBus(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}
