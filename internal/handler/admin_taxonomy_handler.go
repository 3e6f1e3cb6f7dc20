package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/tags と /admin/rarities をまとめる
type AdminTaxonomyHandler struct {
	tagUC    *usecase.TagUsecase
	rarityUC *usecase.RarityUsecase
}

// DI
func NewAdminTaxonomyHandler(tagUC *usecase.TagUsecase, rarityUC *usecase.RarityUsecase) *AdminTaxonomyHandler {
	return &AdminTaxonomyHandler{tagUC: tagUC, rarityUC: rarityUC}
}

type CreateTaxonomyRequest struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	Visibility      *bool  `json:"visibility"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

type UpdateTaxonomyRequest struct {
	Name            *string `json:"name"`
	Slug            *string `json:"slug"`
	Description     *string `json:"description"`
	Status          *string `json:"status"`
	Visibility      *bool   `json:"visibility"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
}

func (h *AdminTaxonomyHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/tags", h.listTags)
	admin.POST("/tags", h.createTag)
	admin.PATCH("/tags/:id", h.updateTag)
	admin.DELETE("/tags/:id", h.deleteTag)

	admin.GET("/rarities", h.listRarities)
	admin.POST("/rarities", h.createRarity)
	admin.PATCH("/rarities/:id", h.updateRarity)
	admin.DELETE("/rarities/:id", h.deleteRarity)
}

func (h *AdminTaxonomyHandler) listTags(c echo.Context) error {
	in, err := taxonomyListInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	out, err := h.tagUC.ListAdmin(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminTaxonomyHandler) createTag(c echo.Context) error {
	var req CreateTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.tagUC.AdminCreate(c.Request().Context(), toCreateTaxonomyInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminTaxonomyHandler) updateTag(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.tagUC.AdminUpdate(c.Request().Context(), id, toUpdateTaxonomyInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminTaxonomyHandler) deleteTag(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.tagUC.AdminDelete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminTaxonomyHandler) listRarities(c echo.Context) error {
	in, err := taxonomyListInput(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	out, err := h.rarityUC.ListAdmin(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminTaxonomyHandler) createRarity(c echo.Context) error {
	var req CreateTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.rarityUC.AdminCreate(c.Request().Context(), toCreateTaxonomyInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminTaxonomyHandler) updateRarity(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateTaxonomyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.rarityUC.AdminUpdate(c.Request().Context(), id, toUpdateTaxonomyInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminTaxonomyHandler) deleteRarity(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.rarityUC.AdminDelete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func taxonomyListInput(c echo.Context) (usecase.TaxonomyListInput, error) {
	page, limit, err := parsePageLimit(c)
	if err != nil {
		return usecase.TaxonomyListInput{}, err
	}

	return usecase.TaxonomyListInput{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}, nil
}

func toCreateTaxonomyInput(req CreateTaxonomyRequest) usecase.CreateTaxonomyInput {
	return usecase.CreateTaxonomyInput{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		Status:          req.Status,
		Visibility:      req.Visibility,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
}

func toUpdateTaxonomyInput(req UpdateTaxonomyRequest) usecase.UpdateTaxonomyInput {
	return usecase.UpdateTaxonomyInput{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		Status:          req.Status,
		Visibility:      req.Visibility,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
}
