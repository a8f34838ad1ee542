package view

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		book       book.Book
		wantToggle string
	}{
		{"未读完", book.Book{ID: 42, Title: "Dune", Author: "Herbert", Year: 1965}, LabelMarkAsRead},
		{"已读完", book.Book{ID: 43, Title: "Emma", Author: "Austen", Year: 1815, IsComplete: true}, LabelMarkAsUnread},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Render(tt.book)

			assert.Equal(t, TestIDItem, f.TestID)
			assert.Equal(t, strconv.FormatInt(tt.book.ID, 10), f.BookID)
			assert.Equal(t, tt.book.Title, f.Title.Text)
			assert.Equal(t, TestIDTitle, f.Title.TestID)
			assert.Equal(t, "Author: "+tt.book.Author, f.Author.Text)
			assert.Equal(t, TestIDAuthor, f.Author.TestID)
			assert.Equal(t, TestIDYear, f.Year.TestID)
			assert.Equal(t, tt.wantToggle, f.Toggle.Label)
			assert.Equal(t, TestIDToggleButton, f.Toggle.TestID)
			assert.Equal(t, TestIDDeleteButton, f.Delete.TestID)
			assert.Equal(t, TestIDEditButton, f.Edit.TestID)
		})
	}

	f := Render(book.Book{ID: 1700000000000, Title: "Dune", Author: "Herbert", Year: 1965})
	assert.Equal(t, "1700000000000", f.BookID)
	assert.Equal(t, "Year: 1965", f.Year.Text)
	assert.Equal(t, "/books/1700000000000/toggle", f.Toggle.Action)
}

func TestBoard_RedrawReplacesContents(t *testing.T) {
	b := NewBoard()

	b.Redraw([]book.Book{
		{ID: 1, Title: "A", Author: "a", Year: 1},
		{ID: 2, Title: "B", Author: "b", Year: 2, IsComplete: true},
		{ID: 3, Title: "C", Author: "c", Year: 3},
	})
	incomplete, complete := b.Containers()
	require.Len(t, incomplete, 2)
	require.Len(t, complete, 1)
	assert.Equal(t, "A", incomplete[0].Title.Text)
	assert.Equal(t, "C", incomplete[1].Title.Text)
	assert.Equal(t, "B", complete[0].Title.Text)

	b.Redraw(nil)
	incomplete, complete = b.Containers()
	assert.Empty(t, incomplete, "重绘前应清空容器")
	assert.Empty(t, complete)
}

func TestBoard_QueryFollowsLastDraw(t *testing.T) {
	b := NewBoard()
	all := []book.Book{
		{ID: 1, Title: "Dune", Author: "a", Year: 1},
		{ID: 2, Title: "Emma", Author: "b", Year: 2},
	}

	b.ShowResults("dun", all[:1])
	assert.Equal(t, "dun", b.Query())
	incomplete, _ := b.Containers()
	require.Len(t, incomplete, 1)

	page := NewShelfPage(b, &SavedIndicator{})
	assert.Equal(t, "dun", page.Query, "刷新主页时搜索框保留关键词")

	b.Redraw(all)
	assert.Empty(t, b.Query(), "完整重绘后不再处于过滤状态")
	incomplete, _ = b.Containers()
	assert.Len(t, incomplete, 2)
}

func TestSavedIndicator(t *testing.T) {
	var s SavedIndicator
	_, ok := s.LastSaved()
	assert.False(t, ok)

	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	s.Mark(at)
	got, ok := s.LastSaved()
	assert.True(t, ok)
	assert.Equal(t, at, got)
}

func TestTemplates_ShelfPage(t *testing.T) {
	board := NewBoard()
	board.Redraw([]book.Book{
		{ID: 7, Title: "<Dune>", Author: "Herbert", Year: 1965},
		{ID: 8, Title: "Emma", Author: "Austen", Year: 1815, IsComplete: true},
	})
	page := NewShelfPage(board, &SavedIndicator{})
	page.Warning = "Please fill Title, Author, and Year."

	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, TemplateShelf, page))
	html := buf.String()

	assert.Contains(t, html, `id="incompleteBookList"`)
	assert.Contains(t, html, `id="completeBookList"`)
	assert.Contains(t, html, `data-bookid="7"`)
	assert.Contains(t, html, `data-testid="bookItemIsCompleteButton">Mark as unread`)
	assert.Contains(t, html, "&lt;Dune&gt;", "书名需要转义")
	assert.Contains(t, html, "Please fill Title, Author, and Year.")
	assert.NotContains(t, html, "savedIndicator")
}

func TestTemplates_EditAndConfirm(t *testing.T) {
	b := book.Book{ID: 9, Title: "Dune", Author: "Herbert", Year: 1965}
	tpl := Templates()

	var buf bytes.Buffer
	require.NoError(t, tpl.ExecuteTemplate(&buf, TemplateEdit, NewEditPage(b)))
	assert.Contains(t, buf.String(), `action="/books/9/edit"`)
	assert.Contains(t, buf.String(), `value="1965"`)

	buf.Reset()
	require.NoError(t, tpl.ExecuteTemplate(&buf, TemplateConfirm, ConfirmPage{Book: Render(b), Message: "sure?"}))
	assert.Contains(t, buf.String(), `action="/books/9/delete"`)
	assert.Contains(t, buf.String(), "sure?")
}
