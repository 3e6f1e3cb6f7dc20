package usecase

import (
	"errors"
	"fmt"
)

// チェックアウトで返す構造化エラーコード。
// 4xxで返すものだけコードを持つ
const (
	CodeCartEmpty         = "cart_empty"
	CodeItemNotFound      = "item_not_found"
	CodeInsufficientStock = "insufficient_stock"
	CodeStockRaceLost     = "stock_race_lost"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d: %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// コード付き（チェックアウト系）
func NewHTTPErrorCode(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
