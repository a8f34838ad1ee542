package dto

import (
	"strconv"

	"github.com/xiebiao/bookshelf/internal/application/shelf"
	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// =========================================
// HTML表单
// =========================================

// BookForm 新增图书表单(bookForm)
// 年份保留原文,由应用层解析;复选框勾选时浏览器提交"on"
type BookForm struct {
	Title      string `form:"bookFormTitle" validate:"max=500"`
	Author     string `form:"bookFormAuthor" validate:"max=500"`
	Year       string `form:"bookFormYear" validate:"max=16"`
	IsComplete string `form:"bookFormIsComplete"`
}

// Checked 复选框是否勾选
func (f BookForm) Checked() bool {
	switch f.IsComplete {
	case "on", "true", "1":
		return true
	}
	return false
}

// ToRequest 转换为应用层请求
func (f BookForm) ToRequest() shelf.AddBookRequest {
	return shelf.AddBookRequest{
		Title:      f.Title,
		Author:     f.Author,
		Year:       f.Year,
		IsComplete: f.Checked(),
	}
}

// SearchForm 搜索表单(searchBook)
type SearchForm struct {
	Query string `form:"searchBookTitle" validate:"max=500"`
}

// EditForm 编辑表单
// action=cancel表示用户取消,此时忽略其它字段
type EditForm struct {
	Title  string `form:"title" validate:"max=500"`
	Author string `form:"author" validate:"max=500"`
	Year   string `form:"year" validate:"max=16"`
	Action string `form:"action" validate:"omitempty,oneof=save cancel"`
}

// ToRequest 转换为应用层请求,取消时三个字段都为nil
func (f EditForm) ToRequest() shelf.EditBookRequest {
	if f.Action == "cancel" {
		return shelf.EditBookRequest{}
	}
	return shelf.EditBookRequest{Title: &f.Title, Author: &f.Author, Year: &f.Year}
}

// =========================================
// JSON API
// =========================================

// CreateBookRequest JSON新增请求
// 必填校验交给应用层,保证与表单提交的提示一致
type CreateBookRequest struct {
	Title      string `json:"title" binding:"max=500" example:"Dune"`
	Author     string `json:"author" binding:"max=500" example:"Frank Herbert"`
	Year       int    `json:"year" example:"1965"`
	IsComplete bool   `json:"isComplete" example:"false"`
}

// ToRequest 转换为应用层请求
func (r CreateBookRequest) ToRequest() shelf.AddBookRequest {
	return shelf.AddBookRequest{
		Title:      r.Title,
		Author:     r.Author,
		Year:       strconv.Itoa(r.Year),
		IsComplete: r.IsComplete,
	}
}

// UpdateBookRequest JSON编辑请求,三个字段必须同时提交
type UpdateBookRequest struct {
	Title  *string `json:"title" binding:"required,max=500"`
	Author *string `json:"author" binding:"required,max=500"`
	Year   *int    `json:"year" binding:"required"`
}

// ToRequest 转换为应用层请求
func (r UpdateBookRequest) ToRequest() shelf.EditBookRequest {
	req := shelf.EditBookRequest{Title: r.Title, Author: r.Author}
	if r.Year != nil {
		y := strconv.Itoa(*r.Year)
		req.Year = &y
	}
	return req
}

// BookResponse 图书响应,字段名与持久化格式一致
type BookResponse struct {
	ID         int64  `json:"id" example:"1700000000000"`
	Title      string `json:"title" example:"Dune"`
	Author     string `json:"author" example:"Frank Herbert"`
	Year       int    `json:"year" example:"1965"`
	IsComplete bool   `json:"isComplete" example:"false"`
}

// MutationResponse 变更响应
// Saved=false表示变更只在内存中生效(存储不可用或写入失败)
type MutationResponse struct {
	Book  *BookResponse `json:"book,omitempty"`
	Saved bool          `json:"saved"`
}

// ShelfResponse 书架列表响应,按阅读状态分成两组
type ShelfResponse struct {
	Incomplete []BookResponse `json:"incomplete"`
	Complete   []BookResponse `json:"complete"`
	Total      int            `json:"total"`
}

// ReloadResponse 重新加载结果
type ReloadResponse struct {
	Loaded int `json:"loaded"`
}

// ToBookResponse 领域对象转换为响应
func ToBookResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Year:       b.Year,
		IsComplete: b.IsComplete,
	}
}

// ToShelfResponse 按阅读状态分组
func ToShelfResponse(books []book.Book) ShelfResponse {
	incomplete, complete := book.Partition(books)
	resp := ShelfResponse{
		Incomplete: make([]BookResponse, 0, len(incomplete)),
		Complete:   make([]BookResponse, 0, len(complete)),
		Total:      len(books),
	}
	for _, b := range incomplete {
		resp.Incomplete = append(resp.Incomplete, ToBookResponse(b))
	}
	for _, b := range complete {
		resp.Complete = append(resp.Complete, ToBookResponse(b))
	}
	return resp
}
