package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CategoryUsecase はカテゴリのCRUDです。
// 商品が参照しているカテゴリは削除できない
type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	itemRepo     repo.ItemRepository
	validator    CatalogValidator
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository, itemRepo repo.ItemRepository, validator CatalogValidator) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		validator:    validator,
	}
}

type CreateCategoryInput struct {
	Title       string
	Slug        string
	ImageURL    string
	Description string
}

type UpdateCategoryInput struct {
	Title       *string
	Slug        *string
	ImageURL    *string
	Description *string
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cs, nil
}

func (u *CategoryUsecase) GetByID(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	c, err := u.categoryRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	if slug == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	c, err := u.categoryRepo.FindBySlug(ctx, slug)
	if err == repo.ErrNotFound {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) AdminCreate(ctx context.Context, in CreateCategoryInput) (model.Category, error) {
	if err := u.validator.ValidateCategory(in.Title, in.Slug); err != nil {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{
		Title:       in.Title,
		Slug:        in.Slug,
		ImageURL:    in.ImageURL,
		Description: in.Description,
	})
	if err == repo.ErrDuplicate {
		return model.Category{}, NewHTTPError(http.StatusConflict, "title or slug already used")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 部分更新。nilのフィールドは触らない
func (u *CategoryUsecase) AdminUpdate(ctx context.Context, id int64, in UpdateCategoryInput) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if err := u.validator.ValidateName(*in.Title); err != nil {
			return model.Category{}, NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fields["title"] = *in.Title
	}
	if in.Slug != nil {
		if err := u.validator.ValidateSlug(*in.Slug); err != nil {
			return model.Category{}, NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fields["slug"] = *in.Slug
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	if len(fields) > 0 {
		if err := u.categoryRepo.UpdateFields(ctx, id, fields); err != nil {
			if err == repo.ErrDuplicate {
				return model.Category{}, NewHTTPError(http.StatusConflict, "title or slug already used")
			}
			if err == repo.ErrNotFound {
				return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
			}
			return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.GetByID(ctx, id)
}

// 削除。参照している商品が1件でもあれば409
func (u *CategoryUsecase) AdminDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.categoryRepo.FindByID(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "category not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	count, err := u.itemRepo.CountByCategory(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if count > 0 {
		return NewHTTPError(http.StatusConflict, "category is in use")
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "category not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
