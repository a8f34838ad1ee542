// Package router 注册书架页面和JSON接口的全部路由
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/internal/interface/view"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// New 创建并配置gin引擎
// 运行模式(gin.SetMode)由调用方在此之前设置
func New(log *zap.Logger, shelfHandler *handler.ShelfHandler, apiHandler *handler.BookAPIHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log), middleware.Tracing(), middleware.Metrics())
	r.SetHTMLTemplate(view.Templates())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 页面
	r.GET("/", shelfHandler.Index)
	r.POST("/books", shelfHandler.AddBook)
	r.POST("/search", shelfHandler.Search)
	pages := r.Group("/books/:id")
	{
		pages.POST("/toggle", shelfHandler.ToggleBook)
		pages.GET("/delete", shelfHandler.ConfirmDelete)
		pages.POST("/delete", shelfHandler.DeleteBook)
		pages.GET("/edit", shelfHandler.EditForm)
		pages.POST("/edit", shelfHandler.EditBook)
	}

	// JSON接口
	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.GET("", apiHandler.ListBooks)
			books.POST("", apiHandler.CreateBook)
			books.GET("/:id", apiHandler.GetBook)
			books.PUT("/:id", apiHandler.UpdateBook)
			books.PATCH("/:id/toggle", apiHandler.ToggleBook)
			books.DELETE("/:id", apiHandler.DeleteBook)
		}

		shelfGroup := v1.Group("/shelf")
		{
			shelfGroup.POST("/save", apiHandler.SaveShelf)
			shelfGroup.POST("/reload", apiHandler.ReloadShelf)
			shelfGroup.DELETE("/storage", apiHandler.ClearStorage)
		}
	}

	return r
}
