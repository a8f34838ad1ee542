package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// KVStore 基于Redis字符串的键值存储
// Key设计：{prefix}{key}，例如 bookshelf:BOOKSHELF_APPS
// 值不设置过期时间，书架数据需要长期保留
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

// NewKVStore 创建Redis键值存储
func NewKVStore(client redis.UniversalClient, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

var _ storage.KV = (*KVStore)(nil)

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrKeyNotFound
		}
		return "", apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取Redis失败")
	}
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "写入Redis失败")
	}
	return nil
}

func (s *KVStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "删除Redis key失败")
	}
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "Redis不可用")
	}
	return nil
}
