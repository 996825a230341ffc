// README: Toll cache backend selection.
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"ridecost/internal/config"
	"ridecost/internal/modules/toll"
)

// NewTollStore returns the store for cfg.Backend. The postgres and redis
// backends reuse the given connections, which must then be non-nil.
func NewTollStore(ctx context.Context, cfg config.TollCacheConfig, db *pgxpool.Pool, rdb *redis.Client) (toll.Store, error) {
	switch cfg.Backend {
	case config.TollBackendPostgres:
		if db == nil {
			return nil, errors.New("postgres toll cache needs a database pool")
		}
		return toll.NewPostgresStore(db), nil
	case config.TollBackendRedis:
		if rdb == nil {
			return nil, errors.New("redis toll cache needs a redis client")
		}
		return toll.NewRedisStore(rdb), nil
	case config.TollBackendDynamoDB:
		client, err := NewDynamoDB(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return toll.NewDynamoStore(client, cfg.DynamoTable), nil
	case config.TollBackendMemory:
		return toll.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown toll cache backend %q", cfg.Backend)
	}
}
