package shelf

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// Drawer 展示层的两个列表容器(view.Board实现)
// 搜索只重绘匹配的图书,不经过渲染请求信号
type Drawer interface {
	Redraw(books []book.Book)
	ShowResults(query string, books []book.Book)
}

// Store 存储适配器能力
type Store interface {
	Persister
	Restore(ctx context.Context) ([]book.Book, bool, error)
	Clear(ctx context.Context) error
}

// Service 书架应用服务
// 设计说明:
// 1. 所有交互串行执行:一次交互(变更→渲染→持久化)完成后才处理下一次
// 2. 输入校验在这里完成,失败时返回带用户提示的AppError,不修改集合
// 3. 订阅者在锁内被调用,订阅者里不能再调用Service的方法
type Service struct {
	mu     sync.Mutex
	repo   book.Repository
	store  Store
	events *Coordinator
	drawer Drawer
	log    *zap.Logger
}

// NewService 创建书架应用服务
func NewService(repo book.Repository, store Store, events *Coordinator, drawer Drawer, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		events: events,
		drawer: drawer,
		log:    log,
	}
}

// AddBook 新增图书
// 1. 去除空白、解析年份
// 2. 校验失败返回ErrInvalidBookInput,集合不变
// 3. 创建成功后渲染并持久化
func (s *Service) AddBook(ctx context.Context, req AddBookRequest) (*book.Book, Result, error) {
	year, ok := book.ParseYear(req.Year)
	if !ok || !book.IsValidInput(req.Title, req.Author, year) {
		return nil, Result{}, book.ErrInvalidBookInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, ok := s.repo.Create(req.Title, req.Author, year, req.IsComplete)
	if !ok {
		return nil, Result{}, book.ErrInvalidBookInput
	}
	metrics.RecordMutation("create")
	s.log.Info("新增图书", zap.Int64("id", created.ID), zap.String("title", created.Title))

	return created, s.commit(ctx, "create"), nil
}

// DeleteBook 删除图书
// confirmed=false表示用户还没确认(或拒绝了确认),集合不变
func (s *Service) DeleteBook(ctx context.Context, id int64, confirmed bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.repo.FindByID(id); !ok {
		return Result{}, book.ErrBookNotFound
	}
	if !confirmed {
		return Result{}, book.ErrNotConfirmed
	}

	if !s.repo.Delete(id) {
		return Result{}, book.ErrBookNotFound
	}
	metrics.RecordMutation("delete")
	s.log.Info("删除图书", zap.Int64("id", id))

	return s.commit(ctx, "delete"), nil
}

// ToggleBook 切换阅读状态(无需确认)
func (s *Service) ToggleBook(ctx context.Context, id int64) (*book.Book, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.repo.ToggleComplete(id) {
		return nil, Result{}, book.ErrBookNotFound
	}
	metrics.RecordMutation("toggle")

	toggled, _ := s.repo.FindByID(id)
	return toggled, s.commit(ctx, "toggle"), nil
}

// EditBook 提交一次完整的编辑
// 任一字段为nil视为用户取消;最终输入不合法时返回ErrInvalidEditInput,记录不变
func (s *Service) EditBook(ctx context.Context, id int64, req EditBookRequest) (*book.Book, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.repo.FindByID(id); !ok {
		return nil, Result{}, book.ErrBookNotFound
	}
	if req.Title == nil || req.Author == nil || req.Year == nil {
		return nil, Result{}, book.ErrEditCanceled
	}

	year, ok := book.ParseYear(*req.Year)
	if !ok || !s.repo.Update(id, *req.Title, *req.Author, year) {
		return nil, Result{}, book.ErrInvalidEditInput
	}
	metrics.RecordMutation("update")

	updated, _ := s.repo.FindByID(id)
	s.log.Info("编辑图书", zap.Int64("id", id), zap.String("title", updated.Title))
	return updated, s.commit(ctx, "update"), nil
}

// Search 按书名搜索并只重绘匹配的图书
// 空关键词恢复完整渲染;搜索不修改集合,也不触发持久化
func (s *Service) Search(_ context.Context, query string) []book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.repo.SearchByTitle(query)
	if strings.TrimSpace(query) == "" {
		s.events.RequestRender("search-reset")
		return matched
	}
	s.drawer.ShowResults(strings.TrimSpace(query), matched)
	return matched
}

// Load 从存储加载书架
// key不存在时什么都不做;数据损坏时记录日志,集合保持不变
func (s *Service) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, ok, err := s.store.Restore(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrCorruptPayload) {
			s.log.Error("书架数据解析失败,保持当前书架", zap.Error(err))
		} else {
			s.log.Error("读取书架失败", zap.Error(err))
		}
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	s.repo.Replace(books)
	metrics.RecordMutation("load")
	s.log.Info("书架已加载", zap.Int("books", len(books)))
	s.events.RequestRender("load")
	return len(books), nil
}

// Save 重新持久化当前书架(不重绘)
func (s *Service) Save(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.events.Persist(ctx)
	return Result{Saved: saved}, err
}

// ClearStorage 删除存储中的书架数据(内存中的集合不受影响)
func (s *Service) ClearStorage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Clear(ctx)
}

// Snapshot 当前书架的副本
func (s *Service) Snapshot() []book.Book {
	return s.repo.All()
}

// Get 查询单本图书
func (s *Service) Get(id int64) (*book.Book, error) {
	b, ok := s.repo.FindByID(id)
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

// commit 渲染并持久化;持久化失败不影响本次交互的结果
func (s *Service) commit(ctx context.Context, reason string) Result {
	saved, err := s.events.Commit(ctx, reason)
	if err != nil {
		s.log.Warn("变更已生效但未能保存", zap.String("reason", reason), zap.Error(err))
	}
	return Result{Saved: saved}
}
