package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// ItemUsecase はカード（商品）の閲覧と管理の業務ロジックです
type ItemUsecase struct {
	itemRepo     repo.ItemRepository
	categoryRepo repo.CategoryRepository
	rarityRepo   repo.RarityRepository
	tagRepo      repo.TagRepository
	invRepo      repo.InventoryRepository
	auditRepo    repo.AuditLogRepository
	validator    CatalogValidator
}

func NewItemUsecase(
	itemRepo repo.ItemRepository,
	categoryRepo repo.CategoryRepository,
	rarityRepo repo.RarityRepository,
	tagRepo repo.TagRepository,
	invRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	validator CatalogValidator,
) *ItemUsecase {
	return &ItemUsecase{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		rarityRepo:   rarityRepo,
		tagRepo:      tagRepo,
		invRepo:      invRepo,
		auditRepo:    auditRepo,
		validator:    validator,
	}
}

// 一覧の検索条件（ハンドラがクエリから詰める）
type ItemListInput struct {
	Page       int
	Limit      int
	Q          string
	SetName    string
	CategoryID *int64
	RarityID   *int64
	TagID      *int64
	Sort       string
}

type ItemOutput struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	RarityID    *int64          `json:"rarity_id"`
	Name        string          `json:"name"`
	SetName     string          `json:"set_name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	StockQty    int64           `json:"stock_qty"`
	TagIDs      []int64         `json:"tag_ids,omitempty"`
}

type ItemListOutput struct {
	Data []ItemOutput   `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type CreateItemInput struct {
	CategoryID  int64
	RarityID    *int64
	Name        string
	SetName     string
	Slug        string
	Price       decimal.Decimal
	ImageURL    string
	Description string
	StockQty    int64
	TagIDs      []int64
}

// PATCH用。nilのフィールドは「変更しない」
type UpdateItemInput struct {
	CategoryID  *int64
	RarityID    *int64
	Name        *string
	SetName     *string
	Slug        *string
	Price       *decimal.Decimal
	ImageURL    *string
	Description *string
	TagIDs      []int64
}

type UpdateInventoryInput struct {
	StockQty int64
	Reason   string
}

// 公開一覧。pageとlimitはここでクランプする
func (u *ItemUsecase) List(ctx context.Context, in ItemListInput) (ItemListOutput, error) {
	page, limit := ClampPageLimit(in.Page, in.Limit)

	items, total, err := u.itemRepo.List(ctx, repo.ItemListQuery{
		Page:       page,
		Limit:      limit,
		Q:          in.Q,
		SetName:    in.SetName,
		CategoryID: in.CategoryID,
		RarityID:   in.RarityID,
		TagID:      in.TagID,
		Sort:       in.Sort,
	})
	if err != nil {
		return ItemListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ItemOutput, 0, len(items))
	for _, it := range items {
		out = append(out, toItemOutput(it, nil))
	}

	return ItemListOutput{
		Data: out,
		Meta: NewPaginationMeta(page, limit, total),
	}, nil
}

func (u *ItemUsecase) GetByID(ctx context.Context, id int64) (ItemOutput, error) {
	if id <= 0 {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	it, err := u.itemRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return ItemOutput{}, NewHTTPError(http.StatusNotFound, "item not found")
	}
	if err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	tagIDs, err := u.itemRepo.ListTagIDs(ctx, it.ID)
	if err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toItemOutput(it, tagIDs), nil
}

// スラッグでの詳細取得（商品ページ用）
func (u *ItemUsecase) GetBySlug(ctx context.Context, slug string) (ItemOutput, error) {
	if slug == "" {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	it, err := u.itemRepo.FindBySlug(ctx, slug)
	if err == repo.ErrNotFound {
		return ItemOutput{}, NewHTTPError(http.StatusNotFound, "item not found")
	}
	if err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	tagIDs, err := u.itemRepo.ListTagIDs(ctx, it.ID)
	if err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toItemOutput(it, tagIDs), nil
}

// 管理者の商品登録
func (u *ItemUsecase) AdminCreate(ctx context.Context, in CreateItemInput) (ItemOutput, error) {
	if err := u.validator.ValidateCreateItem(ctx, in.Name, in.Slug, in.Price, in.StockQty); err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	//参照先の存在チェック
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "category not found")
		}
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if in.RarityID != nil {
		if _, err := u.rarityRepo.FindByID(ctx, *in.RarityID); err != nil {
			if err == repo.ErrNotFound {
				return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "rarity not found")
			}
			return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	for _, tagID := range in.TagIDs {
		if _, err := u.tagRepo.FindByID(ctx, tagID); err != nil {
			if err == repo.ErrNotFound {
				return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "tag not found")
			}
			return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	created, err := u.itemRepo.Create(ctx, model.Item{
		CategoryID:  in.CategoryID,
		RarityID:    in.RarityID,
		Name:        in.Name,
		SetName:     in.SetName,
		Slug:        in.Slug,
		Price:       in.Price.Round(2),
		ImageURL:    in.ImageURL,
		Description: in.Description,
		StockQty:    in.StockQty,
	})
	if err == repo.ErrDuplicate {
		return ItemOutput{}, NewHTTPError(http.StatusConflict, "slug already used")
	}
	if err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if len(in.TagIDs) > 0 {
		if err := u.itemRepo.ReplaceTags(ctx, created.ID, in.TagIDs); err != nil {
			return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return toItemOutput(created, in.TagIDs), nil
}

// 管理者の部分更新。nilでないフィールドだけを反映する
func (u *ItemUsecase) AdminUpdate(ctx context.Context, id int64, in UpdateItemInput) (ItemOutput, error) {
	if id <= 0 {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.itemRepo.FindByID(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return ItemOutput{}, NewHTTPError(http.StatusNotFound, "item not found")
		}
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	fields := map[string]interface{}{}

	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == repo.ErrNotFound {
				return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "category not found")
			}
			return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		fields["category_id"] = *in.CategoryID
	}
	if in.RarityID != nil {
		if _, err := u.rarityRepo.FindByID(ctx, *in.RarityID); err != nil {
			if err == repo.ErrNotFound {
				return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "rarity not found")
			}
			return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		fields["rarity_id"] = *in.RarityID
	}
	if in.Name != nil {
		if err := u.validator.ValidateName(*in.Name); err != nil {
			return ItemOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fields["name"] = *in.Name
	}
	if in.SetName != nil {
		fields["set_name"] = *in.SetName
	}
	if in.Slug != nil {
		if err := u.validator.ValidateSlug(*in.Slug); err != nil {
			return ItemOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fields["slug"] = *in.Slug
	}
	if in.Price != nil {
		if err := u.validator.ValidatePrice(*in.Price); err != nil {
			return ItemOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fields["price"] = in.Price.Round(2)
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	if len(fields) > 0 {
		if err := u.itemRepo.UpdateFields(ctx, id, fields); err != nil {
			if err == repo.ErrDuplicate {
				return ItemOutput{}, NewHTTPError(http.StatusConflict, "slug already used")
			}
			if err == repo.ErrNotFound {
				return ItemOutput{}, NewHTTPError(http.StatusNotFound, "item not found")
			}
			return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	//tag_idsのキーが来たときだけ付け替え（nilは「変更なし」）
	if in.TagIDs != nil {
		for _, tagID := range in.TagIDs {
			if _, err := u.tagRepo.FindByID(ctx, tagID); err != nil {
				if err == repo.ErrNotFound {
					return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "tag not found")
				}
				return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		if err := u.itemRepo.ReplaceTags(ctx, id, in.TagIDs); err != nil {
			return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.GetByID(ctx, id)
}

func (u *ItemUsecase) AdminDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.itemRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "item not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 在庫の直接設定。調整履歴と監査ログを必ず残す
func (u *ItemUsecase) AdminUpdateInventory(ctx context.Context, adminUserID int64, itemID int64, in UpdateInventoryInput) (ItemOutput, error) {
	if itemID <= 0 {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.StockQty < 0 {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid stock_qty")
	}

	before, err := u.itemRepo.FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return ItemOutput{}, NewHTTPError(http.StatusNotFound, "item not found")
	}
	if err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.invRepo.SetStock(ctx, itemID, in.StockQty); err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.invRepo.CreateAdjustment(ctx, model.InventoryAdjustment{
		ItemID:      itemID,
		AdminUserID: adminUserID,
		Delta:       in.StockQty - before.StockQty,
		Reason:      in.Reason,
	}); err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査ログ（UPDATE_STOCK）。書けなければエラーにする
	if err := u.writeStockAudit(ctx, adminUserID, itemID, before.StockQty, in.StockQty); err != nil {
		return ItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetByID(ctx, itemID)
}

func (u *ItemUsecase) writeStockAudit(ctx context.Context, adminUserID int64, itemID int64, beforeQty int64, afterQty int64) error {
	beforeJSON, _ := json.Marshal(map[string]int64{"stock_qty": beforeQty})
	afterJSON, _ := json.Marshal(map[string]int64{"stock_qty": afterQty})

	return u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceItem,
		ResourceID:   itemID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
	})
}

func toItemOutput(it model.Item, tagIDs []int64) ItemOutput {
	return ItemOutput{
		ID:          it.ID,
		CategoryID:  it.CategoryID,
		RarityID:    it.RarityID,
		Name:        it.Name,
		SetName:     it.SetName,
		Slug:        it.Slug,
		Price:       it.Price,
		ImageURL:    it.ImageURL,
		Description: it.Description,
		StockQty:    it.StockQty,
		TagIDs:      tagIDs,
	}
}
