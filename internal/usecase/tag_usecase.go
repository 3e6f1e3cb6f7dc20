package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// TagUsecase はタグの閲覧と管理。
// 一般ユーザーにはactiveかつvisibleのものだけ見せる
type TagUsecase struct {
	tagRepo   repo.TagRepository
	validator CatalogValidator
}

func NewTagUsecase(tagRepo repo.TagRepository, validator CatalogValidator) *TagUsecase {
	return &TagUsecase{tagRepo: tagRepo, validator: validator}
}

type TaxonomyListInput struct {
	Page   int
	Limit  int
	Search string
	Status string
}

type CreateTaxonomyInput struct {
	Name            string
	Slug            string
	Description     string
	Status          string
	Visibility      *bool
	MetaTitle       string
	MetaDescription string
}

type UpdateTaxonomyInput struct {
	Name            *string
	Slug            *string
	Description     *string
	Status          *string
	Visibility      *bool
	MetaTitle       *string
	MetaDescription *string
}

type TagListOutput struct {
	Data []model.Tag    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// 公開一覧
func (u *TagUsecase) ListPublic(ctx context.Context, in TaxonomyListInput) (TagListOutput, error) {
	return u.list(ctx, in, true)
}

// 管理者一覧（statusで絞れる）
func (u *TagUsecase) ListAdmin(ctx context.Context, in TaxonomyListInput) (TagListOutput, error) {
	if in.Status != "" {
		if err := validateTaxonomyStatus(in.Status); err != nil {
			return TagListOutput{}, err
		}
	}
	return u.list(ctx, in, false)
}

func (u *TagUsecase) list(ctx context.Context, in TaxonomyListInput, publicOnly bool) (TagListOutput, error) {
	page, limit := ClampPageLimit(in.Page, in.Limit)

	tags, total, err := u.tagRepo.List(ctx, repo.TaxonomyListQuery{
		Page:       page,
		Limit:      limit,
		Search:     in.Search,
		Status:     in.Status,
		PublicOnly: publicOnly,
	})
	if err != nil {
		return TagListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return TagListOutput{
		Data: tags,
		Meta: NewPaginationMeta(page, limit, total),
	}, nil
}

func (u *TagUsecase) GetByID(ctx context.Context, id int64) (model.Tag, error) {
	if id <= 0 {
		return model.Tag{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	t, err := u.tagRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Tag{}, NewHTTPError(http.StatusNotFound, "tag not found")
	}
	if err != nil {
		return model.Tag{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return t, nil
}

func (u *TagUsecase) AdminCreate(ctx context.Context, in CreateTaxonomyInput) (model.Tag, error) {
	status := in.Status
	if status == "" {
		status = string(model.TaxonomyStatusActive)
	}
	if err := u.validator.ValidateTaxonomy(in.Name, in.Slug, status); err != nil {
		return model.Tag{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	visibility := true
	if in.Visibility != nil {
		visibility = *in.Visibility
	}

	created, err := u.tagRepo.Create(ctx, model.Tag{
		Name:            in.Name,
		Slug:            in.Slug,
		Description:     in.Description,
		Status:          model.TaxonomyStatus(status),
		Visibility:      visibility,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
	})
	if err == repo.ErrDuplicate {
		return model.Tag{}, NewHTTPError(http.StatusConflict, "slug already used")
	}
	if err != nil {
		return model.Tag{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *TagUsecase) AdminUpdate(ctx context.Context, id int64, in UpdateTaxonomyInput) (model.Tag, error) {
	if id <= 0 {
		return model.Tag{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fields, err := taxonomyUpdateFields(u.validator, in)
	if err != nil {
		return model.Tag{}, err
	}

	if len(fields) > 0 {
		if err := u.tagRepo.UpdateFields(ctx, id, fields); err != nil {
			if err == repo.ErrDuplicate {
				return model.Tag{}, NewHTTPError(http.StatusConflict, "slug already used")
			}
			if err == repo.ErrNotFound {
				return model.Tag{}, NewHTTPError(http.StatusNotFound, "tag not found")
			}
			return model.Tag{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.GetByID(ctx, id)
}

// タグ削除。商品に付いたままでも削除できる（中間行は商品側で掃除する）
func (u *TagUsecase) AdminDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.tagRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "tag not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// タグ・レアリティ共通の部分更新マップを作る
func taxonomyUpdateFields(v CatalogValidator, in UpdateTaxonomyInput) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if in.Name != nil {
		if err := v.ValidateName(*in.Name); err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fields["name"] = *in.Name
	}
	if in.Slug != nil {
		if err := v.ValidateSlug(*in.Slug); err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fields["slug"] = *in.Slug
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		if err := validateTaxonomyStatus(*in.Status); err != nil {
			return nil, err
		}
		fields["status"] = *in.Status
	}
	if in.Visibility != nil {
		fields["visibility"] = *in.Visibility
	}
	if in.MetaTitle != nil {
		fields["meta_title"] = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		fields["meta_description"] = *in.MetaDescription
	}

	return fields, nil
}

func validateTaxonomyStatus(s string) error {
	switch model.TaxonomyStatus(s) {
	case model.TaxonomyStatusActive, model.TaxonomyStatusInactive:
		return nil
	}
	return NewHTTPError(http.StatusBadRequest, "invalid status")
}
