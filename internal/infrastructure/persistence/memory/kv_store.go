// Package memory 进程内键值存储,用于开发环境和测试
// 重启即丢失,适配器不会把写入当作持久化
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
)

// KVStore 基于map的键值存储
type KVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKVStore 创建内存键值存储
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

var _ storage.KV = (*KVStore)(nil)

func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	return v, nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

func (s *KVStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

func (s *KVStore) Ping(context.Context) error {
	return nil
}

// Volatile 数据只在进程内存里
func (s *KVStore) Volatile() bool {
	return true
}
