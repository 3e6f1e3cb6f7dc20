package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 販売するカード1種類。
// 価格と在庫はこの行が正で、注文確定時は必ずここを読み直す。
type Item struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID int64  `gorm:"not null;index" json:"category_id"`
	RarityID   *int64 `gorm:"index" json:"rarity_id"`

	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//収録セット名（例：Base Set）
	SetName string `gorm:"type:varchar(255);index" json:"set_name"`

	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`

	//価格はfloat禁止。numeric(10,2)で固定小数
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`

	ImageURL    string `gorm:"type:text" json:"image_url"`
	Description string `gorm:"type:text" json:"description"`

	//在庫。注文確定の条件付きUPDATEでしか減らない
	StockQty int64 `gorm:"not null;default:0" json:"stock_qty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
