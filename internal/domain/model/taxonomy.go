package model

import "time"

// タグ・レアリティ共通のステータス
type TaxonomyStatus string

const (
	TaxonomyStatusActive   TaxonomyStatus = "active"
	TaxonomyStatusInactive TaxonomyStatus = "inactive"
)

// カードに付ける自由なタグ（例：holo、promo）
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`

	Description string `gorm:"type:text" json:"description"`

	//inactiveのタグは一般ユーザーには出さない
	Status     TaxonomyStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Visibility bool           `gorm:"not null;default:true" json:"visibility"`

	//SEO用メタ情報
	MetaTitle       string `gorm:"type:varchar(255)" json:"meta_title"`
	MetaDescription string `gorm:"type:text" json:"meta_description"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// カードのレアリティ（例：common、secret rare）
type Rarity struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`

	Description string `gorm:"type:text" json:"description"`

	Status     TaxonomyStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Visibility bool           `gorm:"not null;default:true" json:"visibility"`

	MetaTitle       string `gorm:"type:varchar(255)" json:"meta_title"`
	MetaDescription string `gorm:"type:text" json:"meta_description"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 商品とタグの中間テーブル（同じ組は1行だけ）
type ItemTag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID    int64     `gorm:"not null;uniqueIndex:idx_item_tag;index" json:"item_id"`
	TagID     int64     `gorm:"not null;uniqueIndex:idx_item_tag;index" json:"tag_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
