package storage

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// DefaultKey 书架在存储中的固定key
const DefaultKey = "BOOKSHELF_APPS"

// UnavailableWarning 存储不可用时给用户的提示
const UnavailableWarning = "Storage is not available. Books will only be kept for this session."

// Adapter 书架存储适配器
// 设计说明:
// 1. 整个集合序列化为一个字符串,写在固定key下
// 2. 启动时检查一次存储可用性;不可用时所有持久化操作直接跳过,
//    应用退化为纯内存会话
// 3. 不重试:写入失败记录日志并返回错误,由调用方决定如何提示
// 4. 进程内存储(Volatile)照常读写,但写入不算持久化,同样提示用户
type Adapter struct {
	kv        KV
	key       string
	log       *zap.Logger
	available bool
	durable   bool

	warnMu  sync.Mutex
	warning string
}

// NewAdapter 创建存储适配器并立即检查可用性
// kv为nil表示当前环境不支持持久化
func NewAdapter(ctx context.Context, kv KV, key string, log *zap.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	a := &Adapter{kv: kv, key: key, log: log}
	a.available = a.check(ctx)
	a.durable = a.available && !isVolatile(kv)
	if !a.durable {
		a.warning = UnavailableWarning
		log.Warn("存储不可用或不能跨重启保存,本次会话只在内存中保存书架",
			zap.String("key", key), zap.Bool("available", a.available))
	}
	return a
}

func (a *Adapter) check(ctx context.Context) bool {
	if a.kv == nil {
		return false
	}
	if err := a.kv.Ping(ctx); err != nil {
		a.log.Error("存储连接检查失败", zap.Error(err))
		return false
	}
	return true
}

// Available 存储是否可用
func (a *Adapter) Available() bool {
	return a.available
}

// Durable 写入能否跨进程重启保留
func (a *Adapter) Durable() bool {
	return a.durable
}

// Key 书架使用的存储key
func (a *Adapter) Key() string {
	return a.key
}

// TakeWarning 取出待展示的警告,只会返回一次
func (a *Adapter) TakeWarning() (string, bool) {
	a.warnMu.Lock()
	defer a.warnMu.Unlock()

	if a.warning == "" {
		return "", false
	}
	w := a.warning
	a.warning = ""
	return w, true
}

// Persist 序列化并写入整个集合
// 返回值saved表示是否真的持久化了(存储不可用或只是进程内存储时为false且无错误)
func (a *Adapter) Persist(ctx context.Context, books []book.Book) (bool, error) {
	if !a.available {
		return false, nil
	}

	ctx, span := tracing.StartSpan(ctx, "storage.persist")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", a.key), attribute.Int("books", len(books)))

	payload, err := Encode(books)
	if err != nil {
		tracing.RecordError(span, err)
		return false, err
	}

	if err := a.kv.Set(ctx, a.key, payload); err != nil {
		tracing.RecordError(span, err)
		a.log.Error("保存书架失败", zap.String("key", a.key), zap.Error(err))
		return false, apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "保存书架失败")
	}

	a.log.Debug("书架已保存", zap.String("key", a.key), zap.Int("books", len(books)), zap.Bool("durable", a.durable))
	return a.durable, nil
}

// Restore 读取并反序列化集合
// 返回值:
// - key不存在或为空字符串:nil,false,nil(不是错误)
// - 数据无法解析:nil,false,ErrCorruptPayload
// - 成功:books,true,nil
func (a *Adapter) Restore(ctx context.Context) ([]book.Book, bool, error) {
	if !a.available {
		return nil, false, nil
	}

	ctx, span := tracing.StartSpan(ctx, "storage.restore")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", a.key))

	payload, err := a.kv.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		tracing.RecordError(span, err)
		return nil, false, apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "读取书架失败")
	}
	if payload == "" {
		return nil, false, nil
	}

	books, err := Decode(payload)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, false, err
	}
	return books, true, nil
}

// Clear 删除存储中的书架数据
func (a *Adapter) Clear(ctx context.Context) error {
	if !a.available {
		return nil
	}
	if err := a.kv.Del(ctx, a.key); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "清除书架数据失败")
	}
	return nil
}
