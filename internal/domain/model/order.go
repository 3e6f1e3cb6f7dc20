package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 注文ヘッダ。チェックアウト成功につき1件だけ作られる
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//外部に見せる注文番号（UUID）
	PublicID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"public_id"`

	UserID int64 `gorm:"not null;index" json:"user_id"`

	//明細（数量×確定時単価）の合計。2桁丸め
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`

	Status OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
