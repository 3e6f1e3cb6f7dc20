package model

import "time"

// カートの明細。1ユーザー×1商品につき1行（複合ユニーク）。
// 価格はここに持たない。確定時に商品の現在価格を読み直す。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_item;index" json:"user_id"`
	ItemID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_item;index" json:"item_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
