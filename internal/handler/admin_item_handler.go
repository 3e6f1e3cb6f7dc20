package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /admin/items のHTTP
type AdminItemHandler struct {
	uc *usecase.ItemUsecase
}

// DI
func NewAdminItemHandler(uc *usecase.ItemUsecase) *AdminItemHandler {
	return &AdminItemHandler{uc: uc}
}

type CreateItemRequest struct {
	CategoryID  int64           `json:"category_id"`
	RarityID    *int64          `json:"rarity_id"`
	Name        string          `json:"name"`
	SetName     string          `json:"set_name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	StockQty    int64           `json:"stock_qty"`
	TagIDs      []int64         `json:"tag_ids"`
}

// PATCH用。JSONで送られたキーだけ更新する
type UpdateItemRequest struct {
	CategoryID  *int64           `json:"category_id"`
	RarityID    *int64           `json:"rarity_id"`
	Name        *string          `json:"name"`
	SetName     *string          `json:"set_name"`
	Slug        *string          `json:"slug"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Description *string          `json:"description"`
	TagIDs      []int64          `json:"tag_ids"`
}

type UpdateInventoryRequest struct {
	StockQty int64  `json:"stock_qty"`
	Reason   string `json:"reason"`
}

func (h *AdminItemHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/items", h.create)
	admin.PATCH("/items/:id", h.update)
	admin.DELETE("/items/:id", h.delete)
	admin.PUT("/inventory/:item_id", h.updateInventory)
}

func (h *AdminItemHandler) create(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminCreate(c.Request().Context(), usecase.CreateItemInput{
		CategoryID:  req.CategoryID,
		RarityID:    req.RarityID,
		Name:        req.Name,
		SetName:     req.SetName,
		Slug:        req.Slug,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		StockQty:    req.StockQty,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminItemHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminUpdate(c.Request().Context(), id, usecase.UpdateItemInput{
		CategoryID:  req.CategoryID,
		RarityID:    req.RarityID,
		Name:        req.Name,
		SetName:     req.SetName,
		Slug:        req.Slug,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminItemHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDelete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// 在庫の直接設定。調整履歴と監査ログが残る
func (h *AdminItemHandler) updateInventory(c echo.Context) error {
	id, err := parseIDParam(c, "item_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateInventoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminUpdateInventory(c.Request().Context(), adminID, id, usecase.UpdateInventoryInput{
		StockQty: req.StockQty,
		Reason:   req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
