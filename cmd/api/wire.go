//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go;Provider全部定义在internal/app中,
// 与main.go里手动组装的顺序一致

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/app"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// InitializeApp 初始化整个应用
// 返回的cleanup关闭存储连接和消息队列连接
func InitializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app.App, func(), error) {
	wire.Build(app.ProviderSet)
	return nil, nil, nil
}
