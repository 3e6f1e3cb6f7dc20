package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// slugなどのユニーク制約違反
var ErrDuplicate = errors.New("duplicate")

// 一覧検索の条件
type ItemListQuery struct {
	Page       int
	Limit      int
	Q          string
	SetName    string
	CategoryID *int64
	RarityID   *int64
	TagID      *int64
	Sort       string
}

// カード（商品）の永続化だけを約束。
type ItemRepository interface {
	List(ctx context.Context, q ItemListQuery) ([]model.Item, int64, error)
	FindByID(ctx context.Context, id int64) (model.Item, error)
	FindBySlug(ctx context.Context, slug string) (model.Item, error)

	//チェックアウト用。カート明細が参照するカードを一括で読む
	FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error)

	Create(ctx context.Context, item model.Item) (model.Item, error)

	//PATCH用。渡されたカラムだけ更新する
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error

	Delete(ctx context.Context, id int64) error

	//カテゴリ削除の参照チェック
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)

	//タグの付け替え（PATCHでtag_idsが来たときだけ）
	ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error
	ListTagIDs(ctx context.Context, itemID int64) ([]int64, error)

	//ダッシュボード用の集計
	Count(ctx context.Context) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int64) (int64, error)
}
