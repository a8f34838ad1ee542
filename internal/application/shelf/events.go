package shelf

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// RenderRequest 渲染请求信号:按当前集合重绘两个列表
type RenderRequest struct {
	Books  []book.Book // 当前集合(副本,按插入顺序)
	Reason string      // 触发原因:create/update/delete/toggle/load/search-reset
}

// Persisted 已持久化信号:集合刚写入存储
type Persisted struct {
	Key   string
	Books int
	At    time.Time
}

// RenderListener 渲染请求订阅者
type RenderListener func(RenderRequest)

// PersistedListener 持久化信号订阅者
type PersistedListener func(context.Context, Persisted)

// Persister 持久化能力(storage.Adapter实现)
type Persister interface {
	Persist(ctx context.Context, books []book.Book) (bool, error)
	Key() string
}

// Coordinator 事件协调器
// 设计说明:
// 1. 两个信号:渲染请求、已持久化;订阅者按注册顺序同步调用
// 2. Commit保证先发渲染请求再尝试持久化,存储不可用时界面依然是最新状态
// 3. 只有真正写入成功才发已持久化信号
type Coordinator struct {
	repo  book.Repository
	store Persister
	log   *zap.Logger
	now   func() time.Time

	mu        sync.RWMutex
	onRender  []RenderListener
	onPersist []PersistedListener
}

// NewCoordinator 创建事件协调器
func NewCoordinator(repo book.Repository, store Persister, log *zap.Logger) *Coordinator {
	return &Coordinator{
		repo:  repo,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// OnRender 注册渲染请求订阅者
func (c *Coordinator) OnRender(l RenderListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRender = append(c.onRender, l)
}

// OnPersisted 注册已持久化订阅者
func (c *Coordinator) OnPersisted(l PersistedListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPersist = append(c.onPersist, l)
}

// RequestRender 发出渲染请求信号
func (c *Coordinator) RequestRender(reason string) {
	req := RenderRequest{Books: c.repo.All(), Reason: reason}

	c.mu.RLock()
	listeners := append([]RenderListener(nil), c.onRender...)
	c.mu.RUnlock()

	for _, l := range listeners {
		l(req)
	}
}

// Persist 写入整个集合,成功后发出已持久化信号
// 返回是否真的写入了存储;写入失败只记录日志,不重试
func (c *Coordinator) Persist(ctx context.Context) (bool, error) {
	books := c.repo.All()

	saved, err := c.store.Persist(ctx, books)
	switch {
	case err != nil:
		metrics.RecordPersist("failure")
		c.log.Error("书架持久化失败", zap.Error(err))
		return false, err
	case !saved:
		metrics.RecordPersist("skipped")
		return false, nil
	}
	metrics.RecordPersist("success")

	evt := Persisted{Key: c.store.Key(), Books: len(books), At: c.now()}

	c.mu.RLock()
	listeners := append([]PersistedListener(nil), c.onPersist...)
	c.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, evt)
	}
	return true, nil
}

// Commit 变更后的标准流程:先渲染,再持久化
func (c *Coordinator) Commit(ctx context.Context, reason string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "shelf.commit")
	defer span.End()
	span.SetAttributes(attribute.String("shelf.reason", reason))

	c.RequestRender(reason)
	saved, err := c.Persist(ctx)
	tracing.RecordError(span, err)
	span.SetAttributes(attribute.Bool("shelf.saved", saved))
	return saved, err
}
