package storage

import (
	"context"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// KV 键值存储抽象
// 存储适配器只依赖get/set/del/ping四个能力,
// badger、memory、redis、mysql四种后端各自实现
type KV interface {
	// Get 读取key,不存在时返回ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set 写入key
	Set(ctx context.Context, key, value string) error

	// Del 删除key,key不存在不算错误
	Del(ctx context.Context, key string) error

	// Ping 检查存储是否可用
	Ping(ctx context.Context) error
}

// ErrKeyNotFound key不存在
var ErrKeyNotFound = apperrors.New(apperrors.ErrCodeNotFound, "存储中不存在该key")

// Volatile 可选接口:数据只保存在进程内存里的KV实现它
// 写入照常进行(同一进程内可以重新加载),但重启即丢失,不算持久化
type Volatile interface {
	Volatile() bool
}

func isVolatile(kv KV) bool {
	v, ok := kv.(Volatile)
	return ok && v.Volatile()
}
