package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"
)

// DefaultLockTTL 锁默认过期时间
const DefaultLockTTL = 30 * time.Second

// 仅在值匹配时删除，避免释放他人持有的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// UniverseLocker 基于 SET NX 的宇宙级互斥锁
type UniverseLocker struct {
	client *Client
	ttl    time.Duration
}

// NewUniverseLocker 创建锁
func NewUniverseLocker(client *Client, ttl time.Duration) *UniverseLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &UniverseLocker{client: client, ttl: ttl}
}

// LockKey 宇宙锁键
func LockKey(universeID string) string {
	return fmt.Sprintf("lock:universe:%s", universeID)
}

// Lock 获取锁，被占用时返回 ErrConflict
func (l *UniverseLocker) Lock(ctx context.Context, universeID string) (func(context.Context), error) {
	ctx, span := tracer.Start(ctx, "redis.Lock")
	defer span.End()

	key := LockKey(universeID)
	token := uuid.NewString()

	ok, err := l.client.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to acquire universe lock")
	}
	if !ok {
		return nil, apperrors.ErrConflict.WithDetail("universe is being saved by another request")
	}

	return func(ctx context.Context) {
		if err := unlockScript.Run(ctx, l.client.rdb, []string{key}, token).Err(); err != nil {
			logger.Warn(ctx, "failed to release universe lock", "universe_id", universeID, "error", err.Error())
		}
	}, nil
}
