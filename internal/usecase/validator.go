package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// カタログ系入力の検証。実装はvalidatorパッケージ
type CatalogValidator interface {
	ValidateCreateItem(ctx context.Context, name string, slug string, price decimal.Decimal, stockQty int64) error
	ValidateName(name string) error
	ValidateSlug(slug string) error
	ValidatePrice(price decimal.Decimal) error

	//カテゴリ作成の入力
	ValidateCategory(title string, slug string) error

	//タグ・レアリティ共通の入力
	ValidateTaxonomy(name string, slug string, status string) error
}
