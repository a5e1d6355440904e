// Package kv is the byte-oriented key-value layer user records are kept in.
// Backends: in-process memory, PostgreSQL, SQLite and S3-compatible object
// storage. Missing keys are reported as common.ErrorNotFound.
package kv

import "context"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

type Entry struct {
	Key   string
	Value []byte
}

// Batcher is implemented by stores that can write several keys atomically.
type Batcher interface {
	SetBatch(ctx context.Context, entries []Entry) error
}

// SetAll writes entries in order, in one batch when s is a Batcher.
func SetAll(ctx context.Context, s Store, entries ...Entry) error {
	if b, ok := s.(Batcher); ok {
		return b.SetBatch(ctx, entries)
	}
	for _, e := range entries {
		if err := s.Set(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}
