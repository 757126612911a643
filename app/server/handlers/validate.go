package handlers

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// 把 ozzo-validation 的错误按字段顺序展开成 { msg, param } 列表
func validationItems(err error, fields ...string) ([]errorItem, bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	items := make([]errorItem, 0, len(verrs))
	for _, field := range fields {
		if ferr, ok := verrs[field]; ok && ferr != nil {
			items = append(items, errorItem{Msg: ferr.Error(), Param: field})
		}
	}

	return items, true
}
