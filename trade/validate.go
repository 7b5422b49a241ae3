package trade

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError 表示输入在进入布局之前就被判定为不合法。
// 引擎不做业务语义校验（如单号唯一性），只拦结构性错误。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("输入校验失败: %s（%s）", e.Field, e.Reason)
}

var validate = validator.New()

// Validate 在布局开始前校验 DocumentSpec：
// 种类/币种/枚举取值、必填字段、负数量与负单价。
// 不静默纠正任何值；第一处错误即返回。
func Validate(spec DocumentSpec) error {
	if !spec.Currency.Valid() {
		return &ValidationError{Field: "currency", Reason: fmt.Sprintf("未知币种 %q", spec.Currency)}
	}
	if err := validate.Struct(spec); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return &ValidationError{Field: fe.Namespace(), Reason: fe.Tag()}
		}
		return err
	}
	// decimal 字段无法用 tag 表达，逐项检查
	for i, it := range spec.Items {
		if it.UnitPrice.IsNegative() {
			return &ValidationError{
				Field:  fmt.Sprintf("items[%d].unitPrice", i),
				Reason: "单价不能为负",
			}
		}
	}
	return nil
}
