package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	plain := New(ErrCodeBookNotFound, "图书不存在")
	assert.Equal(t, "[40402] 图书不存在", plain.Error())

	wrapped := WrapCode(fmt.Errorf("dial tcp: refused"), ErrCodeStorageError, "保存书架失败")
	assert.Equal(t, "[50004] 保存书架失败: dial tcp: refused", wrapped.Error())
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	sentinel := New(ErrCodeCorruptPayload, "书架数据已损坏")
	wrapped := WrapCode(errors.New("invalid character"), ErrCodeCorruptPayload, "解析书架数据失败")

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, HasCode(fmt.Errorf("outer: %w", wrapped), ErrCodeCorruptPayload))
}

func TestGetAppError(t *testing.T) {
	t.Run("已经是AppError", func(t *testing.T) {
		appErr := GetAppError(fmt.Errorf("ctx: %w", ErrInvalidParams))
		assert.Equal(t, ErrCodeInvalidParams, appErr.Code)
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		raw := errors.New("boom")
		appErr := GetAppError(raw)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, raw)
		assert.False(t, IsAppError(raw))
	})
}
