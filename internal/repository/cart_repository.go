package repository

import (
	"context"

	"app/internal/domain/model"
)

// カート明細の保存・取得の約束。
// 1ユーザー×1商品で1行。注文確定時はDeleteByUserIDで全消しする
type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	FindByUserAndItem(ctx context.Context, userID int64, itemID int64) (model.CartItem, error)

	// 同一商品は数量を加算
	Upsert(ctx context.Context, userID int64, itemID int64, addQty int64) error

	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error

	//ユーザーの明細を全削除（注文確定・カートクリア）
	DeleteByUserID(ctx context.Context, userID int64) error
}
