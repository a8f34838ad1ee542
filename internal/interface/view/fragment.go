// Package view 把图书转换成页面片段,并维护两个列表容器
package view

import (
	"fmt"
	"strconv"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// 片段及子元素的data-testid,自动化测试依赖这些固定值定位元素
const (
	TestIDItem         = "bookItem"
	TestIDTitle        = "bookItemTitle"
	TestIDAuthor       = "bookItemAuthor"
	TestIDYear         = "bookItemYear"
	TestIDToggleButton = "bookItemIsCompleteButton"
	TestIDDeleteButton = "bookItemDeleteButton"
	TestIDEditButton   = "bookItemEditButton"
)

// 按钮文案
const (
	LabelMarkAsRead   = "Mark as read"
	LabelMarkAsUnread = "Mark as unread"
	LabelDeleteBook   = "Delete book"
	LabelEditBook     = "Edit book"
)

const (
	authorLineFormat = "Author: %s"
	yearLineFormat   = "Year: %d"
)

// Element 带testid的文本元素
type Element struct {
	TestID string
	Text   string
}

// Control 带testid的操作按钮
// Action是表单提交地址,Method是提交方式(GET打开确认/编辑页,POST直接执行)
type Control struct {
	TestID string
	Label  string
	Action string
	Method string
}

// Fragment 单本图书的展示片段
type Fragment struct {
	TestID string
	BookID string
	Title  Element
	Author Element
	Year   Element
	Toggle Control
	Delete Control
	Edit   Control
}

// Render 把图书转换为展示片段(纯函数,每次渲染都整体重建)
func Render(b book.Book) Fragment {
	id := strconv.FormatInt(b.ID, 10)

	toggleLabel := LabelMarkAsRead
	if b.IsComplete {
		toggleLabel = LabelMarkAsUnread
	}

	return Fragment{
		TestID: TestIDItem,
		BookID: id,
		Title:  Element{TestID: TestIDTitle, Text: b.Title},
		Author: Element{TestID: TestIDAuthor, Text: fmt.Sprintf(authorLineFormat, b.Author)},
		Year:   Element{TestID: TestIDYear, Text: fmt.Sprintf(yearLineFormat, b.Year)},
		Toggle: Control{TestID: TestIDToggleButton, Label: toggleLabel, Action: "/books/" + id + "/toggle", Method: "post"},
		Delete: Control{TestID: TestIDDeleteButton, Label: LabelDeleteBook, Action: "/books/" + id + "/delete", Method: "get"},
		Edit:   Control{TestID: TestIDEditButton, Label: LabelEditBook, Action: "/books/" + id + "/edit", Method: "get"},
	}
}
