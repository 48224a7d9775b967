// Package bootstrap establishes runtime dependencies shared by the server
// and the auxiliary commands.
package bootstrap

import (
	"fmt"

	"lattice/internal/cache"
	"lattice/internal/config"
	"lattice/internal/database"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis. The Redis client may be
// nil when the instance is unreachable; callers degrade to direct database
// reads.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return db, cache.GetClient(), nil
}
