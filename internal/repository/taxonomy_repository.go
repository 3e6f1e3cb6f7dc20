package repository

import (
	"context"

	"app/internal/domain/model"
)

// タグ・レアリティ一覧の絞り込み条件
type TaxonomyListQuery struct {
	Page  int
	Limit int

	//名前の部分一致
	Search string

	//指定があればstatusで絞る
	Status string

	//一般ユーザー向け（active＋visibleのみ）
	PublicOnly bool
}

type TagRepository interface {
	List(ctx context.Context, q TaxonomyListQuery) ([]model.Tag, int64, error)
	FindByID(ctx context.Context, id int64) (model.Tag, error)

	Create(ctx context.Context, t model.Tag) (model.Tag, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	//タグが付いている商品数
	CountUsage(ctx context.Context, tagID int64) (int64, error)
}

type RarityRepository interface {
	List(ctx context.Context, q TaxonomyListQuery) ([]model.Rarity, int64, error)
	FindByID(ctx context.Context, id int64) (model.Rarity, error)

	Create(ctx context.Context, r model.Rarity) (model.Rarity, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	CountUsage(ctx context.Context, rarityID int64) (int64, error)
}
