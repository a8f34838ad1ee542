package shelf

import "time"

// AddBookRequest 新增图书请求(表单原始输入)
type AddBookRequest struct {
	Title      string
	Author     string
	Year       string // 表单中的年份原文,由用例解析
	IsComplete bool
}

// EditBookRequest 编辑图书请求
// 字段为nil表示用户在该步取消,整个编辑作废
type EditBookRequest struct {
	Title  *string
	Author *string
	Year   *string
}

// Result 变更结果
type Result struct {
	Saved bool // 是否已写入存储
}

// SavedEvent 发布到消息队列的shelf.saved事件
type SavedEvent struct {
	Type  string    `json:"type"` // 固定为shelf.saved
	Key   string    `json:"key"`
	Books int       `json:"books"`
	At    time.Time `json:"at"`
}

// RoutingKeySaved shelf.saved事件的routing key
const RoutingKeySaved = "shelf.saved"

// NewSavedEvent 由已持久化信号构造消息
func NewSavedEvent(p Persisted) SavedEvent {
	return SavedEvent{Type: RoutingKeySaved, Key: p.Key, Books: p.Books, At: p.At}
}
