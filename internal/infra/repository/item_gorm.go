package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

// 検索/絞り込み/ソート/ページング付きでカードを返す。
func (r *ItemGormRepository) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Item{})

	// q はnameとset_nameを対象
	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name LIKE ? OR set_name LIKE ?", like, like)
	}
	if strings.TrimSpace(q.SetName) != "" {
		tx = tx.Where("set_name = ?", strings.TrimSpace(q.SetName))
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.RarityID != nil {
		tx = tx.Where("rarity_id = ?", *q.RarityID)
	}

	//タグ絞り込みは中間テーブルをJOIN
	if q.TagID != nil {
		tx = tx.Joins("JOIN item_tags ON item_tags.item_id = items.id").
			Where("item_tags.tag_id = ?", *q.TagID)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Item{}, 0, err
	}

	switch q.Sort {
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id desc")
	case "name":
		tx = tx.Order("name asc").Order("id asc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return []model.Item{}, 0, err
	}

	return items, total, nil
}

func (r *ItemGormRepository) FindByID(ctx context.Context, id int64) (model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).First(&it, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (r *ItemGormRepository) FindBySlug(ctx context.Context, slug string) (model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// チェックアウト用の一括取得。見つからないIDは単に結果に入らない
func (r *ItemGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Item, error) {
	if len(ids) == 0 {
		return []model.Item{}, nil
	}

	var items []model.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return []model.Item{}, err
	}
	return items, nil
}

func (r *ItemGormRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Item{}, repo.ErrDuplicate
		}
		return model.Item{}, err
	}
	return item, nil
}

// 渡されたカラムだけ更新する（PATCH）
func (r *ItemGormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		Updates(fields)

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return repo.ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ItemGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//中間テーブルを先に消す
		if err := tx.Where("item_id = ?", id).Delete(&model.ItemTag{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Item{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *ItemGormRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// タグを丸ごと付け替える
func (r *ItemGormRepository) ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&model.ItemTag{}).Error; err != nil {
			return err
		}

		if len(tagIDs) == 0 {
			return nil
		}

		now := time.Now()
		rows := make([]model.ItemTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			rows = append(rows, model.ItemTag{
				ItemID:    itemID,
				TagID:     tagID,
				CreatedAt: now,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *ItemGormRepository) ListTagIDs(ctx context.Context, itemID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.ItemTag{}).
		Where("item_id = ?", itemID).
		Order("tag_id asc").
		Pluck("tag_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ItemGormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ItemGormRepository) CountOutOfStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("stock_qty = 0").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ItemGormRepository) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("stock_qty > 0 AND stock_qty < ?", threshold).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
