package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/application/shelf"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// BookAPIHandler 书架JSON接口
// 与页面共用同一个shelf.Service,变更同样会触发重绘和持久化
type BookAPIHandler struct {
	svc *shelf.Service
}

// NewBookAPIHandler 创建JSON接口处理器
func NewBookAPIHandler(svc *shelf.Service) *BookAPIHandler {
	return &BookAPIHandler{svc: svc}
}

// ListBooks 图书列表
// @Summary  图书列表,q不为空时按书名过滤(不区分大小写)
// @Router   /api/v1/books [get]
func (h *BookAPIHandler) ListBooks(c *gin.Context) {
	books := h.svc.Snapshot()
	if q := c.Query("q"); q != "" {
		// 只过滤返回结果,不重绘页面上的容器
		books = book.FilterByTitle(books, q)
	}
	response.Success(c, dto.ToShelfResponse(books))
}

// CreateBook 新增图书
// @Router   /api/v1/books [post]
func (h *BookAPIHandler) CreateBook(c *gin.Context) {
	// 1. 参数绑定
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	// 2. 调用应用层
	created, res, err := h.svc.AddBook(c.Request.Context(), req.ToRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建响应
	resp := dto.ToBookResponse(*created)
	response.Success(c, dto.MutationResponse{Book: &resp, Saved: res.Saved})
}

// GetBook 图书详情
// @Router   /api/v1/books/{id} [get]
func (h *BookAPIHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}
	b, err := h.svc.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookResponse(*b))
}

// UpdateBook 编辑图书,三个字段一次提交
// @Router   /api/v1/books/{id} [put]
func (h *BookAPIHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return
	}

	updated, res, err := h.svc.EditBook(c.Request.Context(), id, req.ToRequest())
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.ToBookResponse(*updated)
	response.Success(c, dto.MutationResponse{Book: &resp, Saved: res.Saved})
}

// ToggleBook 切换阅读状态
// @Router   /api/v1/books/{id}/toggle [patch]
func (h *BookAPIHandler) ToggleBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}
	toggled, res, err := h.svc.ToggleBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.ToBookResponse(*toggled)
	response.Success(c, dto.MutationResponse{Book: &resp, Saved: res.Saved})
}

// DeleteBook 删除图书,必须带confirm=true
// @Router   /api/v1/books/{id} [delete]
func (h *BookAPIHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error(c, book.ErrBookNotFound)
		return
	}
	res, err := h.svc.DeleteBook(c.Request.Context(), id, c.Query("confirm") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.MutationResponse{Saved: res.Saved})
}

// SaveShelf 重新写入存储
// @Router   /api/v1/shelf/save [post]
func (h *BookAPIHandler) SaveShelf(c *gin.Context) {
	res, err := h.svc.Save(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.MutationResponse{Saved: res.Saved})
}

// ReloadShelf 从存储重新加载
// 数据损坏时返回50003,内存中的书架保持不变
// @Router   /api/v1/shelf/reload [post]
func (h *BookAPIHandler) ReloadShelf(c *gin.Context) {
	n, err := h.svc.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ReloadResponse{Loaded: n})
}

// ClearStorage 删除存储中的书架数据
// @Router   /api/v1/shelf/storage [delete]
func (h *BookAPIHandler) ClearStorage(c *gin.Context) {
	if err := h.svc.ClearStorage(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
