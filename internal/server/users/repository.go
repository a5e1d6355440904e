package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/server/kv"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)
	Save(ctx context.Context, rec *UserRecord) error
}

// RecordKey is where the record of username lives.
func RecordKey(username string) string {
	return "user:" + username
}

// IndexKey maps username to its record key.
func IndexKey(username string) string {
	return "username:" + username
}

// KVRepository stores each record under RecordKey and points IndexKey at it.
type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

// GetByUsername returns common.ErrorNotFound for unknown users.
func (r *KVRepository) GetByUsername(ctx context.Context, username string) (*UserRecord, error) {
	key, err := r.store.Get(ctx, IndexKey(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("index lookup: %w", err)
	}

	b, err := r.store.Get(ctx, string(key))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: index of %q points at missing %q", common.ErrorStorageCorruption, username, key)
		}
		return nil, fmt.Errorf("record lookup: %w", err)
	}

	rec, err := UnmarshalRecord(b)
	if err != nil {
		return nil, err
	}
	if rec.Username != username {
		return nil, fmt.Errorf("%w: record %q holds user %q", common.ErrorStorageCorruption, key, rec.Username)
	}
	return rec, nil
}

// Save writes the record and its index entry, atomically when the store
// supports batches.
func (r *KVRepository) Save(ctx context.Context, rec *UserRecord) error {
	if rec == nil || rec.Username == "" {
		return fmt.Errorf("%w: record without username", common.ErrorInvalidArgument)
	}

	key := RecordKey(rec.Username)
	err := kv.SetAll(ctx, r.store,
		kv.Entry{Key: key, Value: MarshalRecord(rec)},
		kv.Entry{Key: IndexKey(rec.Username), Value: []byte(key)},
	)
	if err != nil {
		return fmt.Errorf("save user %q: %w", rec.Username, err)
	}
	return nil
}
