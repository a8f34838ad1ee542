// Package app 组装书架应用的全部依赖
// cmd/api/main.go手动调用Build,cmd/api/wire.go用ProviderSet生成同样的组装代码
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/application/shelf"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/badger"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/infrastructure/storage"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
	"github.com/xiebiao/bookshelf/internal/interface/view"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Engine    *gin.Engine
	Shelf     *shelf.Service
	Storage   *storage.Adapter
	Board     *view.Board
	Indicator *view.SavedIndicator
}

// ProviderSet 全部Provider,供wire使用
var ProviderSet = wire.NewSet(
	ProvideKV,
	ProvideAdapter,
	ProvidePublisher,
	book.NewCollection,
	wire.Bind(new(book.Repository), new(*book.Collection)),
	view.NewBoard,
	ProvideIndicator,
	ProvideCoordinator,
	shelf.NewService,
	wire.Bind(new(shelf.Store), new(*storage.Adapter)),
	wire.Bind(new(shelf.Drawer), new(*view.Board)),
	dto.NewFormValidator,
	handler.NewShelfHandler,
	wire.Bind(new(handler.WarningSource), new(*storage.Adapter)),
	handler.NewBookAPIHandler,
	router.New,
	New,
)

// Build 手动组装应用
// 依赖链:KV ← Adapter ← Coordinator ← Service ← Handler ← Router
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	metrics.InitMetrics()

	// 1. 基础设施层
	kv, kvCleanup, err := ProvideKV(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	adapter := ProvideAdapter(ctx, kv, cfg, log)
	publisher, pubCleanup := ProvidePublisher(cfg, log)

	// 2. 领域层与展示层
	repo := book.NewCollection()
	board := view.NewBoard()
	indicator := ProvideIndicator()

	// 3. 应用层
	events := ProvideCoordinator(repo, adapter, board, indicator, publisher, log)
	svc := shelf.NewService(repo, adapter, events, board, log)

	// 4. 接口层
	shelfHandler := handler.NewShelfHandler(svc, board, indicator, adapter, dto.NewFormValidator())
	apiHandler := handler.NewBookAPIHandler(svc)
	engine := router.New(log, shelfHandler, apiHandler)

	cleanup := func() {
		pubCleanup()
		kvCleanup()
	}
	return New(ctx, cfg, log, engine, svc, adapter, board, indicator), cleanup, nil
}

// New 创建App并加载已保存的书架
// 加载失败(数据损坏等)只记录日志,应用以空书架启动
func New(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	engine *gin.Engine,
	svc *shelf.Service,
	adapter *storage.Adapter,
	board *view.Board,
	indicator *view.SavedIndicator,
) *App {
	if n, err := svc.Load(ctx); err == nil {
		log.Info("书架初始化完成",
			zap.String("backend", cfg.Storage.Backend),
			zap.Bool("storage_available", adapter.Available()),
			zap.Bool("storage_durable", adapter.Durable()),
			zap.Int("books", n),
		)
	}

	return &App{
		Config:    cfg,
		Log:       log,
		Engine:    engine,
		Shelf:     svc,
		Storage:   adapter,
		Board:     board,
		Indicator: indicator,
	}
}

// ProvideKV 按配置选择存储后端
// 连接失败不返回错误:KV为nil,适配器会判定存储不可用,应用退化为纯内存会话
func ProvideKV(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.KV, func(), error) {
	noop := func() {}

	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()

	switch cfg.Storage.Backend {
	case config.BackendBadger:
		store, err := badger.Open(cfg.Storage.Path, cfg.Storage.KeyPrefix)
		if err != nil {
			log.Error("Badger不可用", zap.String("path", cfg.Storage.Path), zap.Error(err))
			return nil, noop, nil
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				log.Warn("关闭Badger失败", zap.Error(err))
			}
		}
		return store, cleanup, nil

	case config.BackendMemory:
		return memory.NewKVStore(), noop, nil

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg)
		if err != nil {
			log.Error("Redis不可用", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
			return nil, noop, nil
		}
		return redis.NewKVStore(client, cfg.Storage.KeyPrefix), func() { _ = client.Close() }, nil

	case config.BackendMySQL:
		db, err := mysql.NewDB(ctx, cfg)
		if err != nil {
			log.Error("MySQL不可用", zap.String("host", cfg.Database.Host), zap.Error(err))
			return nil, noop, nil
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return mysql.NewKVStore(db), cleanup, nil

	default:
		// none:当前环境不支持持久化
		return nil, noop, nil
	}
}

// ProvideAdapter 创建存储适配器(启动时检查一次可用性)
func ProvideAdapter(ctx context.Context, kv storage.KV, cfg *config.Config, log *zap.Logger) *storage.Adapter {
	ctx, cancel := withTimeout(ctx, cfg)
	defer cancel()
	return storage.NewAdapter(ctx, kv, cfg.Storage.Key, log)
}

// ProvidePublisher 创建shelf.saved事件发布者
// 未启用或连接失败时返回nil,书架照常工作
func ProvidePublisher(cfg *config.Config, log *zap.Logger) (*mq.Publisher, func()) {
	if !cfg.MQ.Enabled {
		return nil, func() {}
	}
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		log.Warn("RabbitMQ不可用,不发布shelf.saved事件", zap.Error(err))
		return nil, func() {}
	}
	return pub, func() { _ = pub.Close() }
}

// ProvideIndicator 创建"已保存"提示
func ProvideIndicator() *view.SavedIndicator {
	return &view.SavedIndicator{}
}

// ProvideCoordinator 创建事件协调器并注册订阅者
// - 渲染请求 → 重绘两个容器,更新books_total指标
// - 已持久化 → 更新"已保存"提示,发布shelf.saved事件(可选)
func ProvideCoordinator(
	repo book.Repository,
	adapter *storage.Adapter,
	board *view.Board,
	indicator *view.SavedIndicator,
	publisher *mq.Publisher,
	log *zap.Logger,
) *shelf.Coordinator {
	events := shelf.NewCoordinator(repo, adapter, log)

	events.OnRender(func(r shelf.RenderRequest) {
		board.Redraw(r.Books)
		incomplete, complete := book.Partition(r.Books)
		metrics.RecordShelfSize(len(incomplete), len(complete))
	})

	events.OnPersisted(func(_ context.Context, p shelf.Persisted) {
		indicator.Mark(p.At)
	})

	if publisher != nil {
		events.OnPersisted(func(ctx context.Context, p shelf.Persisted) {
			if err := publisher.Publish(ctx, shelf.RoutingKeySaved, shelf.NewSavedEvent(p)); err != nil {
				log.Warn("发布shelf.saved事件失败", zap.Error(err))
			}
		})
	}

	return events
}

func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Storage.InitTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Storage.InitTimeout)
}
