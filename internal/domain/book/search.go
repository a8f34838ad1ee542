package book

import (
	"strings"

	"golang.org/x/text/cases"
)

// FilterByTitle 返回书名包含关键词的图书(保持原顺序)
// 匹配规则:
// 1. 关键词先去除首尾空白,为空时返回全部图书
// 2. 使用Unicode大小写折叠比较,"DUN"能匹配"Dune","ÉTÉ"能匹配"été"
func FilterByTitle(books []Book, query string) []Book {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Book, len(books))
		copy(out, books)
		return out
	}

	// Caser有内部状态,不能跨goroutine共享,每次调用新建
	folder := cases.Fold()
	needle := folder.String(query)

	out := make([]Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(folder.String(b.Title), needle) {
			out = append(out, b)
		}
	}
	return out
}

// Partition 按阅读状态拆分为未读完和已读完两组(各自保持原顺序)
func Partition(books []Book) (incomplete, complete []Book) {
	incomplete = make([]Book, 0, len(books))
	complete = make([]Book, 0, len(books))
	for _, b := range books {
		if b.IsComplete {
			complete = append(complete, b)
		} else {
			incomplete = append(incomplete, b)
		}
	}
	return incomplete, complete
}
