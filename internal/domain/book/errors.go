package book

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found.")

	// ErrInvalidBookInput 新增图书时输入不完整
	ErrInvalidBookInput = apperrors.New(apperrors.ErrCodeInvalidBookInput, "Please fill Title, Author, and Year.")

	// ErrInvalidEditInput 编辑图书时输入不合法
	ErrInvalidEditInput = apperrors.New(apperrors.ErrCodeInvalidEditInput, "Invalid input. Edit cancelled.")

	// ErrNotConfirmed 删除未经用户确认
	ErrNotConfirmed = apperrors.New(apperrors.ErrCodeConfirmRequired, "Are you sure you want to delete this book?")

	// ErrEditCanceled 用户取消了编辑
	ErrEditCanceled = apperrors.New(apperrors.ErrCodeEditCanceled, "Edit cancelled.")
)
