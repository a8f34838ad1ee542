package book

import (
	"strconv"
	"strings"
)

// Book 图书实体
// 设计说明:
// 1. ID由创建时间(毫秒)派生,在集合生命周期内唯一
// 2. JSON字段名与持久化格式保持一致(isComplete为驼峰)
// 3. 实体本身不做I/O,持久化由storage适配器负责
type Book struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Year       int    `json:"year"`
	IsComplete bool   `json:"isComplete"`
}

// NewBook 创建新图书(工厂方法)
// 参数会先去除首尾空白,不合法时返回nil
func NewBook(id int64, title, author string, year int, isComplete bool) *Book {
	title, author = strings.TrimSpace(title), strings.TrimSpace(author)
	if !IsValidInput(title, author, year) {
		return nil
	}
	return &Book{
		ID:         id,
		Title:      title,
		Author:     author,
		Year:       year,
		IsComplete: isComplete,
	}
}

// IsValidInput 校验新增图书的字段
// 业务规则:
// - 书名、作者去除空白后不能为空
// - 年份不能为0(新增表单里年份为0视为没填)
func IsValidInput(title, author string, year int) bool {
	return IsValidEdit(title, author) && year != 0
}

// IsValidEdit 校验编辑后的字段
// 编辑只要求书名、作者非空;年份已经由ParseYear保证是数字,0也接受
func IsValidEdit(title, author string) bool {
	return strings.TrimSpace(title) != "" && strings.TrimSpace(author) != ""
}

// ParseYear 解析表单中的年份
// 非数字、空字符串都返回ok=false
func ParseYear(raw string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return year, true
}

// ToggleComplete 切换阅读状态
func (b *Book) ToggleComplete() {
	b.IsComplete = !b.IsComplete
}

// UpdateInfo 更新图书基本信息
// 书名或作者为空时保持原值并返回false
func (b *Book) UpdateInfo(title, author string, year int) bool {
	title, author = strings.TrimSpace(title), strings.TrimSpace(author)
	if !IsValidEdit(title, author) {
		return false
	}
	b.Title = title
	b.Author = author
	b.Year = year
	return true
}
