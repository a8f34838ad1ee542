package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/application/shelf"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/badger"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
	"github.com/xiebiao/bookshelf/internal/interface/view"
)

func testConfig(t *testing.T, backend string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, Mode: "test"},
		Storage: config.StorageConfig{
			Backend: backend, Key: storage.DefaultKey, Path: t.TempDir(), InitTimeout: 500 * time.Millisecond,
		},
		Redis:   config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 200 * time.Millisecond},
	}
}

func TestProvideKV(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("badger", func(t *testing.T) {
		kv, cleanup, err := ProvideKV(ctx, testConfig(t, config.BackendBadger), log)
		require.NoError(t, err)
		defer cleanup()
		assert.IsType(t, &badger.KVStore{}, kv)
	})

	t.Run("badger目录不可用时退化为不可用", func(t *testing.T) {
		cfg := testConfig(t, config.BackendBadger)
		cfg.Storage.Path = ""
		kv, cleanup, err := ProvideKV(ctx, cfg, log)
		require.NoError(t, err)
		defer cleanup()
		assert.Nil(t, kv)
	})

	t.Run("memory", func(t *testing.T) {
		kv, cleanup, err := ProvideKV(ctx, testConfig(t, config.BackendMemory), log)
		require.NoError(t, err)
		defer cleanup()
		assert.IsType(t, &memory.KVStore{}, kv)
	})

	t.Run("none", func(t *testing.T) {
		kv, cleanup, err := ProvideKV(ctx, testConfig(t, config.BackendNone), log)
		require.NoError(t, err)
		defer cleanup()
		assert.Nil(t, kv)
	})

	t.Run("redis不可达时退化为不可用", func(t *testing.T) {
		kv, cleanup, err := ProvideKV(ctx, testConfig(t, config.BackendRedis), log)
		require.NoError(t, err)
		defer cleanup()
		assert.Nil(t, kv)

		adapter := ProvideAdapter(ctx, kv, testConfig(t, config.BackendRedis), log)
		assert.False(t, adapter.Available())
	})
}

func TestProvidePublisher_Disabled(t *testing.T) {
	pub, cleanup := ProvidePublisher(testConfig(t, config.BackendMemory), zap.NewNop())
	defer cleanup()
	assert.Nil(t, pub)
}

func TestProvideCoordinator_Listeners(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	repo := book.NewCollection()
	kv, err := badger.Open(t.TempDir(), "")
	require.NoError(t, err)
	defer kv.Close()
	adapter := storage.NewAdapter(ctx, kv, "", log)
	board := view.NewBoard()
	indicator := ProvideIndicator()
	events := ProvideCoordinator(repo, adapter, board, indicator, nil, log)

	_, ok := repo.Create("Dune", "Herbert", 1965, true)
	require.True(t, ok)

	saved, err := events.Commit(ctx, "create")
	require.NoError(t, err)
	assert.True(t, saved)

	incomplete, complete := board.Containers()
	assert.Empty(t, incomplete)
	require.Len(t, complete, 1)
	assert.Equal(t, "Dune", complete[0].Title.Text)

	_, marked := indicator.LastSaved()
	assert.True(t, marked)
}

func TestBuild_MemoryBackend(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	a, cleanup, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, a.Storage.Available())
	assert.False(t, a.Storage.Durable())
	assert.Empty(t, a.Shelf.Snapshot())
	assert.NotNil(t, a.Engine)
}

func TestBuild_BadgerBackendSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendBadger)

	first, cleanup, err := Build(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.True(t, first.Storage.Durable())
	_, res, err := first.Shelf.AddBook(ctx, shelf.AddBookRequest{Title: "Dune", Author: "Herbert", Year: "1965"})
	require.NoError(t, err)
	assert.True(t, res.Saved)
	_, marked := first.Indicator.LastSaved()
	assert.True(t, marked)
	cleanup()

	second, cleanup, err := Build(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	require.Len(t, second.Shelf.Snapshot(), 1)
	assert.Equal(t, "Dune", second.Shelf.Snapshot()[0].Title)
	incomplete, _ := second.Board.Containers()
	assert.Len(t, incomplete, 1, "启动时加载后重绘")
}
