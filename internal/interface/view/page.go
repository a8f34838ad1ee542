package view

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

//go:embed templates/*.html
var templateFS embed.FS

// 模板名称(文件名)
const (
	TemplateShelf   = "shelf.html"
	TemplateEdit    = "edit.html"
	TemplateConfirm = "confirm.html"
)

// Templates 解析内嵌模板,交给gin.Engine.SetHTMLTemplate使用
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// AddForm 新增图书表单的回填值(校验失败时保留用户输入)
type AddForm struct {
	Title      string
	Author     string
	Year       string
	IsComplete bool
}

// ShelfPage 书架主页
type ShelfPage struct {
	IncompleteListID string
	CompleteListID   string
	Incomplete       []Fragment
	Complete         []Fragment
	Form             AddForm
	Query            string
	Warning          string
	LastSaved        string
}

// NewShelfPage 用两个容器的当前内容组装主页
func NewShelfPage(board *Board, indicator *SavedIndicator) ShelfPage {
	incomplete, complete := board.Containers()
	page := ShelfPage{
		IncompleteListID: IncompleteListID,
		CompleteListID:   CompleteListID,
		Incomplete:       incomplete,
		Complete:         complete,
		Query:            board.Query(),
	}
	if at, ok := indicator.LastSaved(); ok {
		page.LastSaved = at.Format("2006-01-02 15:04:05")
	}
	return page
}

// EditPage 编辑页,字段预填当前值
type EditPage struct {
	BookID  string
	Title   string
	Author  string
	Year    string
	Warning string
}

// NewEditPage 由图书构造编辑页
func NewEditPage(b book.Book) EditPage {
	return EditPage{
		BookID: strconv.FormatInt(b.ID, 10),
		Title:  b.Title,
		Author: b.Author,
		Year:   strconv.Itoa(b.Year),
	}
}

// ConfirmPage 删除确认页
type ConfirmPage struct {
	Book    Fragment
	Message string
}
