package compendium

import (
	"errors"
	"fmt"

	"github.com/shouni/go-dungeon-buddy/pkg/search"
)

// InvalidInputError は検索語が不正であることを示します。呼び出し元の誤りのため再試行しません。
type InvalidInputError struct {
	Term   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("無効な検索語です (%s): %q", e.Reason, e.Term)
}

// UnknownResolutionError は、検索の解決結果がどの種類にも該当しなかったことを示します。
// 発生した場合は search.Resolver の不具合です。
type UnknownResolutionError struct {
	Kind search.Kind
}

func (e *UnknownResolutionError) Error() string {
	return fmt.Sprintf("不明な解決結果です: %s", e.Kind)
}

// IsInvalidInput は与えられたエラーが InvalidInputError であるかを判断します。
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
