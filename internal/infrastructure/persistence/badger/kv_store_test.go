package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
)

func openStore(t *testing.T, path string) *KVStore {
	t.Helper()
	s, err := Open(path, "bookshelf:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKVStore_GetSetDel(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, t.TempDir())
	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, "shelf")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "shelf", `[]`))
	require.NoError(t, s.Set(ctx, "shelf", `[{"id":1}]`), "重复写入应覆盖")
	v, err := s.Get(ctx, "shelf")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, v)

	require.NoError(t, s.Del(ctx, "shelf"))
	_, err = s.Get(ctx, "shelf")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	assert.NoError(t, s.Del(ctx, "shelf"), "删除不存在的key不算错误")
}

func TestKVStore_ShelfSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir()
	books := []book.Book{
		{ID: 1700000000000, Title: "Dune", Author: "Herbert", Year: 1965},
		{ID: 1700000000001, Title: "Emma", Author: "Austen", Year: 1815, IsComplete: true},
	}

	first, err := Open(path, "bookshelf:")
	require.NoError(t, err)
	a := storage.NewAdapter(ctx, first, "", zap.NewNop())
	assert.True(t, a.Durable())
	saved, err := a.Persist(ctx, books)
	require.NoError(t, err)
	assert.True(t, saved)
	require.NoError(t, first.Close())

	second := openStore(t, path)
	restored, ok, err := storage.NewAdapter(ctx, second, "", zap.NewNop()).Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, books, restored)
}

func TestKVStore_PingAfterClose(t *testing.T) {
	s, err := Open(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "重复关闭不报错")

	assert.Error(t, s.Ping(context.Background()))
	assert.False(t, storage.NewAdapter(context.Background(), s, "", zap.NewNop()).Available())
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("", "")
	assert.Error(t, err)
}
