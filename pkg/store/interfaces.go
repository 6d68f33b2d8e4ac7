package store

import "context"

// StateStore handles persistent application state. Values are opaque strings;
// callers that need structure serialize JSON into them.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// CacheStore handles generic key-value caching of binary payloads, used for
// synthesized speech audio so identical announcements skip re-synthesis.
type CacheStore interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}
