package view

import (
	"sync"
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// 两个列表容器的固定标识
const (
	IncompleteListID = "incompleteBookList"
	CompleteListID   = "completeBookList"
)

// Board 未读完/已读完两个列表容器
// 每次重绘都清空两个容器再按阅读状态重新填充,从不增量修改
// query记录当前生效的搜索关键词,完整重绘时清空
type Board struct {
	mu         sync.RWMutex
	incomplete []Fragment
	complete   []Fragment
	query      string
}

// NewBoard 创建空的列表容器
func NewBoard() *Board {
	return &Board{}
}

// Redraw 清空并按完整集合重绘两个容器
func (b *Board) Redraw(books []book.Book) {
	b.draw("", books)
}

// ShowResults 只展示搜索结果,并记住关键词
func (b *Board) ShowResults(query string, books []book.Book) {
	b.draw(query, books)
}

// Query 当前生效的搜索关键词,没有过滤时为空
func (b *Board) Query() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.query
}

func (b *Board) draw(query string, books []book.Book) {
	incomplete, complete := book.Partition(books)

	inFrags := make([]Fragment, 0, len(incomplete))
	for _, bk := range incomplete {
		inFrags = append(inFrags, Render(bk))
	}
	doneFrags := make([]Fragment, 0, len(complete))
	for _, bk := range complete {
		doneFrags = append(doneFrags, Render(bk))
	}

	b.mu.Lock()
	b.incomplete = inFrags
	b.complete = doneFrags
	b.query = query
	b.mu.Unlock()
}

// Containers 返回两个容器当前内容的副本
func (b *Board) Containers() (incomplete, complete []Fragment) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	incomplete = append([]Fragment(nil), b.incomplete...)
	complete = append([]Fragment(nil), b.complete...)
	return incomplete, complete
}

// SavedIndicator "已保存"提示,订阅已持久化信号
type SavedIndicator struct {
	mu   sync.RWMutex
	last time.Time
}

// Mark 记录最近一次保存时间
func (s *SavedIndicator) Mark(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = at
}

// LastSaved 最近一次保存时间,从未保存过时ok=false
func (s *SavedIndicator) LastSaved() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, !s.last.IsZero()
}
