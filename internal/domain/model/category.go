package model

import "time"

// カードのカテゴリ（例：ポケモン、MTGなど）
// 商品が参照している間は削除できない
type Category struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title string `gorm:"type:varchar(255);not null;uniqueIndex" json:"title"`

	//URL用のスラッグ（一意）
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`

	ImageURL    string `gorm:"type:text" json:"image_url"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
