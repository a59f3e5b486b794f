package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker records tokens invalidated before their natural expiry (logout)
// and answers whether a presented token is on that list.
type Revoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Close() error
}

// hashToken keys the revocation list by a digest so raw bearer tokens never
// land in Redis.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

const revokedKeyPrefix = "revoked:"

// RedisRevoker is the production Revoker. Entries carry a TTL matching the
// token's remaining validity, so the list cleans itself up.
type RedisRevoker struct {
	client *redis.Client
}

func NewRedisRevoker(addr string) *RedisRevoker {
	return &RedisRevoker{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *RedisRevoker) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing to track
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+hashToken(token), "1", ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+hashToken(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisRevoker) Close() error {
	return r.client.Close()
}

// MemoryRevoker keeps the revocation list in process memory, for deployments
// without Redis. Expired entries are dropped lazily on lookup.
type MemoryRevoker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *MemoryRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expires[hashToken(token)] = r.now().Add(ttl)
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := hashToken(token)
	deadline, ok := r.expires[key]
	if !ok {
		return false, nil
	}
	if !deadline.After(r.now()) {
		delete(r.expires, key)
		return false, nil
	}
	return true, nil
}

func (r *MemoryRevoker) Close() error {
	return nil
}
