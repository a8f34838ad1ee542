package storage

import (
	"encoding/json"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// ErrCorruptPayload 持久化的数据无法解析
var ErrCorruptPayload = apperrors.New(apperrors.ErrCodeCorruptPayload, "书架数据已损坏,无法加载")

// Encode 将整个集合序列化为JSON数组
// 空集合编码为"[]"而不是"null"
func Encode(books []book.Book) (string, error) {
	if books == nil {
		books = []book.Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return "", apperrors.Wrap(err, "序列化书架失败")
	}
	return string(data), nil
}

// Decode 将JSON数组反序列化为集合(保持顺序)
// 只接受数组:"null"解码后是nil切片,同样按损坏处理,避免清空当前书架
func Decode(payload string) ([]book.Book, error) {
	var books []book.Book
	if err := json.Unmarshal([]byte(payload), &books); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeCorruptPayload, ErrCorruptPayload.Message)
	}
	if books == nil {
		return nil, ErrCorruptPayload
	}
	return books, nil
}
