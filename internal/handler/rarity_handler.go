package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /rarities の公開API
type RarityHandler struct {
	uc *usecase.RarityUsecase
}

// DI
func NewRarityHandler(uc *usecase.RarityUsecase) *RarityHandler {
	return &RarityHandler{uc: uc}
}

func (h *RarityHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/rarities", h.list)
	e.GET("/rarities/:id", h.detail)
}

func (h *RarityHandler) list(c echo.Context) error {
	page, limit, err := parsePageLimit(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	out, err := h.uc.ListPublic(c.Request().Context(), usecase.TaxonomyListInput{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *RarityHandler) detail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
