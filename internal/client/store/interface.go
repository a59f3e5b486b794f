// Package store holds the client's durable key-value storage. The session
// layer persists exactly two logical keys here: the bearer token and the
// serialized user profile.
package store

import "context"

// Keys used by the session layer.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Repository is a durable key-value store surviving process restarts.
// Get returns (nil, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
