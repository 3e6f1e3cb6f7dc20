package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// RarityUsecase はレアリティの閲覧と管理。
// タグと違い、使用中のレアリティは削除できない（商品のrarity_idが参照するため）
type RarityUsecase struct {
	rarityRepo repo.RarityRepository
	validator  CatalogValidator
}

func NewRarityUsecase(rarityRepo repo.RarityRepository, validator CatalogValidator) *RarityUsecase {
	return &RarityUsecase{rarityRepo: rarityRepo, validator: validator}
}

type RarityListOutput struct {
	Data []model.Rarity `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func (u *RarityUsecase) ListPublic(ctx context.Context, in TaxonomyListInput) (RarityListOutput, error) {
	return u.list(ctx, in, true)
}

func (u *RarityUsecase) ListAdmin(ctx context.Context, in TaxonomyListInput) (RarityListOutput, error) {
	if in.Status != "" {
		if err := validateTaxonomyStatus(in.Status); err != nil {
			return RarityListOutput{}, err
		}
	}
	return u.list(ctx, in, false)
}

func (u *RarityUsecase) list(ctx context.Context, in TaxonomyListInput, publicOnly bool) (RarityListOutput, error) {
	page, limit := ClampPageLimit(in.Page, in.Limit)

	rs, total, err := u.rarityRepo.List(ctx, repo.TaxonomyListQuery{
		Page:       page,
		Limit:      limit,
		Search:     in.Search,
		Status:     in.Status,
		PublicOnly: publicOnly,
	})
	if err != nil {
		return RarityListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return RarityListOutput{
		Data: rs,
		Meta: NewPaginationMeta(page, limit, total),
	}, nil
}

func (u *RarityUsecase) GetByID(ctx context.Context, id int64) (model.Rarity, error) {
	if id <= 0 {
		return model.Rarity{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	r, err := u.rarityRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Rarity{}, NewHTTPError(http.StatusNotFound, "rarity not found")
	}
	if err != nil {
		return model.Rarity{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return r, nil
}

func (u *RarityUsecase) AdminCreate(ctx context.Context, in CreateTaxonomyInput) (model.Rarity, error) {
	status := in.Status
	if status == "" {
		status = string(model.TaxonomyStatusActive)
	}
	if err := u.validator.ValidateTaxonomy(in.Name, in.Slug, status); err != nil {
		return model.Rarity{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	visibility := true
	if in.Visibility != nil {
		visibility = *in.Visibility
	}

	created, err := u.rarityRepo.Create(ctx, model.Rarity{
		Name:            in.Name,
		Slug:            in.Slug,
		Description:     in.Description,
		Status:          model.TaxonomyStatus(status),
		Visibility:      visibility,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
	})
	if err == repo.ErrDuplicate {
		return model.Rarity{}, NewHTTPError(http.StatusConflict, "slug already used")
	}
	if err != nil {
		return model.Rarity{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *RarityUsecase) AdminUpdate(ctx context.Context, id int64, in UpdateTaxonomyInput) (model.Rarity, error) {
	if id <= 0 {
		return model.Rarity{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fields, err := taxonomyUpdateFields(u.validator, in)
	if err != nil {
		return model.Rarity{}, err
	}

	if len(fields) > 0 {
		if err := u.rarityRepo.UpdateFields(ctx, id, fields); err != nil {
			if err == repo.ErrDuplicate {
				return model.Rarity{}, NewHTTPError(http.StatusConflict, "slug already used")
			}
			if err == repo.ErrNotFound {
				return model.Rarity{}, NewHTTPError(http.StatusNotFound, "rarity not found")
			}
			return model.Rarity{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.GetByID(ctx, id)
}

// 使用中なら409
func (u *RarityUsecase) AdminDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.rarityRepo.FindByID(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "rarity not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	count, err := u.rarityRepo.CountUsage(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if count > 0 {
		return NewHTTPError(http.StatusConflict, "rarity is in use")
	}

	if err := u.rarityRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "rarity not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
