package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。price_at_timeは確定時の単価スナップショットで以後変更しない
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`
	ItemID  int64 `gorm:"not null;index" json:"item_id"`

	Quantity int64 `gorm:"not null" json:"quantity"`

	PriceAtTime decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_at_time"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
