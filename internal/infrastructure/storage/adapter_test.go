package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/badger"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// brokenKV 模拟连不上或写入失败的存储
type brokenKV struct {
	pingErr error
	setErr  error
}

func (b *brokenKV) Get(context.Context, string) (string, error) { return "", storage.ErrKeyNotFound }
func (b *brokenKV) Set(context.Context, string, string) error   { return b.setErr }
func (b *brokenKV) Del(context.Context, string) error           { return nil }
func (b *brokenKV) Ping(context.Context) error                  { return b.pingErr }

var sample = []book.Book{
	{ID: 1700000000000, Title: "Dune", Author: "Herbert", Year: 1965},
	{ID: 1700000000001, Title: "Emma", Author: "Austen", Year: 1815, IsComplete: true},
}

func TestAdapter_PersistThenRestore(t *testing.T) {
	ctx := context.Background()
	kv, err := badger.Open(t.TempDir(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	a := storage.NewAdapter(ctx, kv, "", zap.NewNop())
	require.True(t, a.Available())
	assert.True(t, a.Durable())
	assert.Equal(t, storage.DefaultKey, a.Key())

	saved, err := a.Persist(ctx, sample)
	require.NoError(t, err)
	assert.True(t, saved)

	raw, err := kv.Get(ctx, storage.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1700000000000,"title":"Dune","author":"Herbert","year":1965,"isComplete":false},
		{"id":1700000000001,"title":"Emma","author":"Austen","year":1815,"isComplete":true}
	]`, raw)

	books, ok, err := a.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample, books)
}

func TestAdapter_VolatileStore(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	a := storage.NewAdapter(ctx, kv, "", zap.NewNop())
	assert.True(t, a.Available())
	assert.False(t, a.Durable())

	saved, err := a.Persist(ctx, sample)
	require.NoError(t, err)
	assert.False(t, saved, "重启即丢失的写入不算持久化")

	books, ok, err := a.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "同一进程内照常读回")
	assert.Equal(t, sample, books)

	w, ok := a.TakeWarning()
	assert.True(t, ok)
	assert.Equal(t, storage.UnavailableWarning, w)
}

func TestAdapter_RestoreNullPayload(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, storage.DefaultKey, "null"))
	a := storage.NewAdapter(ctx, kv, "", zap.NewNop())

	books, ok, err := a.Restore(ctx)
	assert.False(t, ok)
	assert.Nil(t, books)
	assert.ErrorIs(t, err, storage.ErrCorruptPayload)
}

func TestAdapter_RestoreAbsentKey(t *testing.T) {
	a := storage.NewAdapter(context.Background(), memory.NewKVStore(), "", zap.NewNop())

	books, ok, err := a.Restore(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, books)
}

func TestAdapter_RestoreEmptyString(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, "shelf", ""))
	a := storage.NewAdapter(ctx, kv, "shelf", zap.NewNop())

	_, ok, err := a.Restore(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAdapter_RestoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Set(ctx, storage.DefaultKey, "{not json"))
	a := storage.NewAdapter(ctx, kv, "", zap.NewNop())

	books, ok, err := a.Restore(ctx)
	assert.False(t, ok)
	assert.Nil(t, books)
	assert.ErrorIs(t, err, storage.ErrCorruptPayload)
}

func TestAdapter_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		kv   storage.KV
	}{
		{"环境不支持存储", nil},
		{"连接检查失败", &brokenKV{pingErr: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			a := storage.NewAdapter(ctx, tt.kv, "", zap.NewNop())
			assert.False(t, a.Available())

			saved, err := a.Persist(ctx, sample)
			assert.NoError(t, err)
			assert.False(t, saved, "存储不可用时应跳过写入")

			_, ok, err := a.Restore(ctx)
			assert.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, a.Clear(ctx))

			w, ok := a.TakeWarning()
			assert.True(t, ok)
			assert.Equal(t, storage.UnavailableWarning, w)

			_, ok = a.TakeWarning()
			assert.False(t, ok, "警告只提示一次")
		})
	}
}

func TestAdapter_PersistWriteFailure(t *testing.T) {
	kv := &brokenKV{setErr: errors.New("READONLY")}
	a := storage.NewAdapter(context.Background(), kv, "", zap.NewNop())
	require.True(t, a.Available())

	saved, err := a.Persist(context.Background(), sample)
	assert.False(t, saved)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStorageError))

	_, ok := a.TakeWarning()
	assert.False(t, ok, "可用的存储不产生警告")
}

func TestAdapter_Clear(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	a := storage.NewAdapter(ctx, kv, "", zap.NewNop())
	_, err := a.Persist(ctx, sample)
	require.NoError(t, err)

	require.NoError(t, a.Clear(ctx))

	_, err = kv.Get(ctx, storage.DefaultKey)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}
