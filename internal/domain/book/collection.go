package book

import (
	"sync"
	"time"
)

// Collection 内存中的有序图书集合(Repository实现)
// 设计说明:
// 1. 使用切片保存,保持插入顺序;展示时再按IsComplete分组
// 2. 读写锁保护切片,HTTP并发请求不会破坏集合
// 3. lastID记录已发放的最大ID,保证同一毫秒内创建的图书ID也不重复
type Collection struct {
	mu     sync.RWMutex
	books  []Book
	lastID int64
	now    func() time.Time
}

// NewCollection 创建空集合
func NewCollection() *Collection {
	return &Collection{now: time.Now}
}

// NewCollectionWithClock 创建使用指定时钟的集合(测试用)
func NewCollectionWithClock(now func() time.Time) *Collection {
	return &Collection{now: now}
}

var _ Repository = (*Collection)(nil)

// nextID 由当前时间派生新ID,不大于已发放的ID时顺延
func (c *Collection) nextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// Create 创建图书
func (c *Collection) Create(title, author string, year int, isComplete bool) (*Book, bool) {
	if !IsValidInput(title, author, year) {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b := NewBook(c.nextID(), title, author, year, isComplete)
	c.books = append(c.books, *b)

	created := *b
	return &created, true
}

// FindByID 根据ID查找图书
func (c *Collection) FindByID(id int64) (*Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, false
	}
	found := c.books[i]
	return &found, true
}

// Delete 删除图书
func (c *Collection) Delete(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.books = append(c.books[:i], c.books[i+1:]...)
	return true
}

// ToggleComplete 切换阅读状态
func (c *Collection) ToggleComplete(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.books[i].ToggleComplete()
	return true
}

// Update 更新图书信息
func (c *Collection) Update(id int64, title, author string, year int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	return c.books[i].UpdateInfo(title, author, year)
}

// All 返回全部图书的副本
func (c *Collection) All() []Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// Replace 整体替换集合
// 已发放ID的高水位更新为加载数据中的最大ID,避免新建图书与旧数据撞ID
func (c *Collection) Replace(books []Book) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = make([]Book, len(books))
	copy(c.books, books)

	c.lastID = 0
	for _, b := range c.books {
		if b.ID > c.lastID {
			c.lastID = b.ID
		}
	}
}

// SearchByTitle 按书名搜索
func (c *Collection) SearchByTitle(query string) []Book {
	return FilterByTitle(c.All(), query)
}

// Len 图书数量
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books)
}

func (c *Collection) indexOf(id int64) int {
	for i := range c.books {
		if c.books[i].ID == id {
			return i
		}
	}
	return -1
}
