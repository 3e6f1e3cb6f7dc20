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

// タグとレアリティは同じ形なので、絞り込みの組み立てだけ共通化する
func applyTaxonomyFilter(tx *gorm.DB, q repo.TaxonomyListQuery) *gorm.DB {
	if q.PublicOnly {
		tx = tx.Where("status = ?", model.TaxonomyStatusActive).
			Where("visibility = ?", true)
	}
	if strings.TrimSpace(q.Status) != "" {
		tx = tx.Where("status = ?", strings.TrimSpace(q.Status))
	}
	if strings.TrimSpace(q.Search) != "" {
		like := "%" + strings.TrimSpace(q.Search) + "%"
		tx = tx.Where("name LIKE ?", like)
	}
	return tx
}

type TagGormRepository struct {
	db *gorm.DB
}

// DI
func NewTagGormRepository(db *gorm.DB) *TagGormRepository {
	return &TagGormRepository{db: db}
}

func (r *TagGormRepository) List(ctx context.Context, q repo.TaxonomyListQuery) ([]model.Tag, int64, error) {
	tx := applyTaxonomyFilter(r.db.WithContext(ctx).Model(&model.Tag{}), q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Tag{}, 0, err
	}

	var tags []model.Tag
	offset := (q.Page - 1) * q.Limit
	err := tx.Order("updated_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).
		Find(&tags).Error
	if err != nil {
		return []model.Tag{}, 0, err
	}

	return tags, total, nil
}

func (r *TagGormRepository) FindByID(ctx context.Context, id int64) (model.Tag, error) {
	var t model.Tag
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tag{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

func (r *TagGormRepository) Create(ctx context.Context, t model.Tag) (model.Tag, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Tag{}, repo.ErrDuplicate
		}
		return model.Tag{}, err
	}
	return t, nil
}

func (r *TagGormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&model.Tag{}).
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

func (r *TagGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.ItemTag{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Tag{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *TagGormRepository) CountUsage(ctx context.Context, tagID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ItemTag{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

type RarityGormRepository struct {
	db *gorm.DB
}

// DI
func NewRarityGormRepository(db *gorm.DB) *RarityGormRepository {
	return &RarityGormRepository{db: db}
}

func (r *RarityGormRepository) List(ctx context.Context, q repo.TaxonomyListQuery) ([]model.Rarity, int64, error) {
	tx := applyTaxonomyFilter(r.db.WithContext(ctx).Model(&model.Rarity{}), q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Rarity{}, 0, err
	}

	var rars []model.Rarity
	offset := (q.Page - 1) * q.Limit
	err := tx.Order("updated_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).
		Find(&rars).Error
	if err != nil {
		return []model.Rarity{}, 0, err
	}

	return rars, total, nil
}

func (r *RarityGormRepository) FindByID(ctx context.Context, id int64) (model.Rarity, error) {
	var ra model.Rarity
	err := r.db.WithContext(ctx).First(&ra, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Rarity{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Rarity{}, err
	}
	return ra, nil
}

func (r *RarityGormRepository) Create(ctx context.Context, ra model.Rarity) (model.Rarity, error) {
	if err := r.db.WithContext(ctx).Create(&ra).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Rarity{}, repo.ErrDuplicate
		}
		return model.Rarity{}, err
	}
	return ra, nil
}

func (r *RarityGormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&model.Rarity{}).
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

func (r *RarityGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Rarity{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RarityGormRepository) CountUsage(ctx context.Context, rarityID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("rarity_id = ?", rarityID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
