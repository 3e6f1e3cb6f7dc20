package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// スラッグの形式が不正
	ErrInvalidSlug = errors.New("invalid slug")

	// 価格が不正（負数など）
	ErrInvalidPrice = errors.New("invalid price")
)

// 小文字英数とハイフンのみ。先頭末尾のハイフンは不可
var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// 価格の上限。numeric(10,2)に収まる範囲
var maxPrice = decimal.RequireFromString("99999999.99")

type catalogValidator struct{}

// Usecaseは interface を依存注入
func NewCatalogValidator() usecase.CatalogValidator {
	return &catalogValidator{}
}

// 商品登録の入力を検証
func (v *catalogValidator) ValidateCreateItem(ctx context.Context, name string, slug string, price decimal.Decimal, stockQty int64) error {
	if err := v.ValidateName(name); err != nil {
		return err
	}
	if err := v.ValidateSlug(slug); err != nil {
		return err
	}
	if err := v.ValidatePrice(price); err != nil {
		return err
	}
	if stockQty < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (v *catalogValidator) ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 255 {
		return ErrInvalidInput
	}
	return nil
}

func (v *catalogValidator) ValidateSlug(slug string) error {
	if slug == "" || len(slug) > 255 {
		return ErrInvalidSlug
	}
	if !slugRe.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

// 価格は0以上、上限以内
func (v *catalogValidator) ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if price.GreaterThan(maxPrice) {
		return ErrInvalidPrice
	}
	return nil
}

// カテゴリ作成の入力を検証
func (v *catalogValidator) ValidateCategory(title string, slug string) error {
	if err := v.ValidateName(title); err != nil {
		return err
	}
	return v.ValidateSlug(slug)
}

// タグ・レアリティ作成の入力を検証
func (v *catalogValidator) ValidateTaxonomy(name string, slug string, status string) error {
	if err := v.ValidateName(name); err != nil {
		return err
	}
	if err := v.ValidateSlug(slug); err != nil {
		return err
	}

	switch model.TaxonomyStatus(status) {
	case model.TaxonomyStatusActive, model.TaxonomyStatusInactive:
		return nil
	}
	return ErrInvalidInput
}
