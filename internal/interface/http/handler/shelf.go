package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/application/shelf"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/view"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// WarningSource 一次性警告(存储不可用时由storage.Adapter提供)
type WarningSource interface {
	TakeWarning() (string, bool)
}

// ShelfHandler 书架页面处理器
// 设计说明:
// 1. 表单提交后重定向回主页(PRG),刷新页面不会重复提交
// 2. 校验失败、用户取消等情况直接在主页上显示警告,状态码200
// 3. 两个列表容器的内容来自view.Board,由渲染请求信号驱动
type ShelfHandler struct {
	svc       *shelf.Service
	board     *view.Board
	indicator *view.SavedIndicator
	warnings  WarningSource
	forms     *dto.FormValidator
}

// NewShelfHandler 创建书架页面处理器
func NewShelfHandler(
	svc *shelf.Service,
	board *view.Board,
	indicator *view.SavedIndicator,
	warnings WarningSource,
	forms *dto.FormValidator,
) *ShelfHandler {
	return &ShelfHandler{
		svc:       svc,
		board:     board,
		indicator: indicator,
		warnings:  warnings,
		forms:     forms,
	}
}

// Index 书架主页
func (h *ShelfHandler) Index(c *gin.Context) {
	h.renderShelf(c, http.StatusOK, view.AddForm{}, "", "")
}

// AddBook 提交新增图书表单
func (h *ShelfHandler) AddBook(c *gin.Context) {
	// 1. 绑定表单
	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderShelf(c, http.StatusBadRequest, view.AddForm{}, "", apperrors.ErrBindError.Message)
		return
	}
	refill := view.AddForm{Title: form.Title, Author: form.Author, Year: form.Year, IsComplete: form.Checked()}

	// 2. 表单长度等格式校验
	if err := h.forms.Validate(form); err != nil {
		h.renderShelf(c, http.StatusOK, refill, "", messageOf(c, err))
		return
	}

	// 3. 调用应用层,必填校验失败时保留用户输入
	if _, _, err := h.svc.AddBook(c.Request.Context(), form.ToRequest()); err != nil {
		h.renderShelf(c, http.StatusOK, refill, "", messageOf(c, err))
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Search 提交搜索表单
// 结果直接写入两个容器,之后刷新主页依然是过滤后的结果,直到下一次渲染请求
func (h *ShelfHandler) Search(c *gin.Context) {
	var form dto.SearchForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderShelf(c, http.StatusBadRequest, view.AddForm{}, "", apperrors.ErrBindError.Message)
		return
	}
	if err := h.forms.Validate(form); err != nil {
		h.renderShelf(c, http.StatusOK, view.AddForm{}, form.Query, messageOf(c, err))
		return
	}

	h.svc.Search(c.Request.Context(), form.Query)
	h.renderShelf(c, http.StatusOK, view.AddForm{}, strings.TrimSpace(form.Query), "")
}

// ToggleBook 切换阅读状态
func (h *ShelfHandler) ToggleBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	if _, _, err := h.svc.ToggleBook(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ConfirmDelete 删除确认页
func (h *ShelfHandler) ConfirmDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	b, err := h.svc.Get(id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, view.TemplateConfirm, view.ConfirmPage{
		Book:    view.Render(*b),
		Message: book.ErrNotConfirmed.Message,
	})
}

// DeleteBook 提交删除确认
// confirm=yes才删除;其它值视为用户拒绝,书架不变
func (h *ShelfHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	confirmed := c.PostForm("confirm") == "yes"

	_, err := h.svc.DeleteBook(c.Request.Context(), id, confirmed)
	if err != nil && !apperrors.HasCode(err, apperrors.ErrCodeConfirmRequired) {
		h.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// EditForm 编辑页,预填当前值
func (h *ShelfHandler) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	b, err := h.svc.Get(id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, view.TemplateEdit, view.NewEditPage(*b))
}

// EditBook 提交编辑
// 取消时直接回到主页;输入不合法时提示"Invalid input. Edit cancelled.",记录不变
func (h *ShelfHandler) EditBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}

	var form dto.EditForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderShelf(c, http.StatusBadRequest, view.AddForm{}, "", apperrors.ErrBindError.Message)
		return
	}
	if err := h.forms.Validate(form); err != nil {
		h.renderShelf(c, http.StatusOK, view.AddForm{}, "", messageOf(c, err))
		return
	}

	_, _, err := h.svc.EditBook(c.Request.Context(), id, form.ToRequest())
	switch {
	case err == nil, apperrors.HasCode(err, apperrors.ErrCodeEditCanceled):
		c.Redirect(http.StatusSeeOther, "/")
	default:
		h.renderError(c, err)
	}
}

// renderShelf 渲染主页
// 存储不可用的警告只展示一次,和本次请求的警告一起显示
func (h *ShelfHandler) renderShelf(c *gin.Context, status int, form view.AddForm, query, warning string) {
	page := view.NewShelfPage(h.board, h.indicator)
	page.Form = form
	if query != "" {
		page.Query = query
	}

	warnings := make([]string, 0, 2)
	if w, ok := h.warnings.TakeWarning(); ok {
		warnings = append(warnings, w)
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}
	page.Warning = strings.Join(warnings, " ")

	c.HTML(status, view.TemplateShelf, page)
}

// renderError 按错误码选择状态码,在主页上显示提示
func (h *ShelfHandler) renderError(c *gin.Context, err error) {
	status := http.StatusOK
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeBookNotFound):
		status = http.StatusNotFound
	case !apperrors.IsAppError(err):
		status = http.StatusInternalServerError
	}
	h.renderShelf(c, status, view.AddForm{}, "", messageOf(c, err))
}

func (h *ShelfHandler) notFound(c *gin.Context) {
	h.renderError(c, book.ErrBookNotFound)
}

// parseID 解析路径中的图书ID
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// messageOf 取用户可见的提示,内部错误挂到gin.Context上由日志中间件输出
func messageOf(c *gin.Context, err error) string {
	appErr := apperrors.GetAppError(err)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	return appErr.Message
}
