package users

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/server/kv"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *UserRecord {
	return &UserRecord{
		Username:  "alice",
		Y1:        big.NewInt(2),
		Y2:        big.NewInt(3),
		R1:        big.NewInt(18),
		R2:        big.NewInt(16),
		C:         big.NewInt(0),
		S:         big.NewInt(1),
		AuthID:    "auth",
		SessionID: "session",
	}
}

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func TestRecordCodec_RoundTrip(t *testing.T) {
	rec := sampleRecord()

	got, err := UnmarshalRecord(MarshalRecord(rec))
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got, bigIntComparer); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, got.C, "a zero challenge must survive encoding")
}

func TestRecordCodec_AbsentFieldsStayNil(t *testing.T) {
	rec := &UserRecord{Username: "bob", Y1: big.NewInt(5), Y2: big.NewInt(7)}

	got, err := UnmarshalRecord(MarshalRecord(rec))
	require.NoError(t, err)
	assert.Nil(t, got.R1)
	assert.Nil(t, got.C)
	assert.Nil(t, got.S)
	assert.Empty(t, got.AuthID)
}

func TestRecordCodec_Corruption(t *testing.T) {
	for name, b := range map[string][]byte{
		"garbage":     {0xff, 0xff, 0xff},
		"truncated":   MarshalRecord(sampleRecord())[:5],
		"no username": MarshalRecord(&UserRecord{Y1: big.NewInt(1), Y2: big.NewInt(1)}),
		"no y2":       MarshalRecord(&UserRecord{Username: "a", Y1: big.NewInt(1)}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalRecord(b)
			require.ErrorIs(t, err, common.ErrorStorageCorruption)
			assert.ErrorIs(t, err, common.ErrorInternal)
		})
	}
}

func TestKVRepository_SaveAndGet(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewKVRepository(store)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.Save(ctx, sampleRecord()))

	idx, err := store.Get(ctx, "username:alice")
	require.NoError(t, err)
	assert.Equal(t, "user:alice", string(idx))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	if diff := cmp.Diff(sampleRecord(), got, bigIntComparer); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestKVRepository_UsersDoNotShareSlots(t *testing.T) {
	repo := NewKVRepository(kv.NewMemoryStore())
	ctx := context.Background()

	alice := sampleRecord()
	bob := &UserRecord{Username: "bob", Y1: big.NewInt(4), Y2: big.NewInt(9)}
	require.NoError(t, repo.Save(ctx, alice))
	require.NoError(t, repo.Save(ctx, bob))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, int64(2), got.Y1.Int64())

	got, err = repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Y1.Int64())
}

func TestKVRepository_Overwrite(t *testing.T) {
	repo := NewKVRepository(kv.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleRecord()))

	fresh := &UserRecord{Username: "alice", Y1: big.NewInt(13), Y2: big.NewInt(6)}
	require.NoError(t, repo.Save(ctx, fresh))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(13), got.Y1.Int64())
	assert.Nil(t, got.C)
	assert.Empty(t, got.SessionID)
}

func TestKVRepository_Corruption(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewKVRepository(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, IndexKey("dangling"), []byte(RecordKey("dangling"))))
	_, err := repo.GetByUsername(ctx, "dangling")
	require.ErrorIs(t, err, common.ErrorStorageCorruption)

	require.NoError(t, store.Set(ctx, IndexKey("broken"), []byte(RecordKey("broken"))))
	require.NoError(t, store.Set(ctx, RecordKey("broken"), []byte{0xff}))
	_, err = repo.GetByUsername(ctx, "broken")
	require.ErrorIs(t, err, common.ErrorStorageCorruption)

	require.NoError(t, repo.Save(ctx, sampleRecord()))
	require.NoError(t, store.Set(ctx, IndexKey("mallory"), []byte(RecordKey("alice"))))
	_, err = repo.GetByUsername(ctx, "mallory")
	require.ErrorIs(t, err, common.ErrorStorageCorruption)
}

func TestKVRepository_SaveRejectsAnonymous(t *testing.T) {
	repo := NewKVRepository(kv.NewMemoryStore())

	err := repo.Save(context.Background(), &UserRecord{Y1: big.NewInt(1), Y2: big.NewInt(1)})
	require.ErrorIs(t, err, common.ErrorInvalidArgument)
}

type failingStore struct {
	kv.Store
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }

func TestKVRepository_StoreFailure(t *testing.T) {
	repo := NewKVRepository(failingStore{err: errors.New("connection reset")})
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, common.KindInternal, common.KindOf(err))

	err = repo.Save(ctx, sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestResetAttempt(t *testing.T) {
	rec := sampleRecord()
	rec.ResetAttempt()

	assert.Nil(t, rec.R1)
	assert.Nil(t, rec.C)
	assert.Nil(t, rec.S)
	assert.Empty(t, rec.AuthID)
	assert.Empty(t, rec.SessionID)
	assert.Equal(t, int64(3), rec.Y2.Int64())
}
