package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// FormValidator HTML表单校验器
// JSON请求由gin的binding标签校验;表单走这里,使用form标签名生成提示
type FormValidator struct {
	v *validator.Validate
}

// NewFormValidator 创建表单校验器
func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" && name != "-" {
			return name
		}
		return fld.Name
	})
	return &FormValidator{v: v}
}

// Validate 校验表单,失败时返回ErrCodeInvalidParams
func (fv *FormValidator) Validate(form any) error {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.WrapCode(err, apperrors.ErrCodeInvalidParams, "参数错误")
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+" "+friendlyMessage(fe))
	}
	return apperrors.New(apperrors.ErrCodeInvalidParams, strings.Join(msgs, "; "))
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
