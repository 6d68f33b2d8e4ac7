package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"time"

	"dockboard/pkg/db"
)

// Store composes all sub-interfaces for full store access. Consumers should
// depend on the specific sub-interface they need.
type Store interface {
	StateStore
	CacheStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}

// --- Cache ---

func (s *SQLiteStore) GetCache(ctx context.Context, key string) ([]byte, bool) {
	var val []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM cache WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	// Transparent Decompression
	if len(val) > 2 && val[0] == 0x1f && val[1] == 0x8b {
		decompressed, err := decompress(val)
		if err == nil {
			return decompressed, true
		}
		// Not actually gzipped or corrupted; fall through with the raw bytes.
	}

	return val, true
}

func (s *SQLiteStore) SetCache(ctx context.Context, key string, val []byte) error {
	// Transparent Compression
	compressed, err := compress(val)
	if err == nil {
		val = compressed
	}

	query := `INSERT OR REPLACE INTO cache (key, value, created_at) VALUES (?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

// --- Compression Pooling ---

var (
	// Pool for gzip writers to reuse flate state
	gzipWriterPool = sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}
	// Pool for generic byte buffers
	bufferPool = sync.Pool{
		New: func() interface{} {
			return new(bytes.Buffer)
		},
	}
)

func compress(data []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	w := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(w)

	w.Reset(buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	// Must copy because buf is returned to pool
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
