package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/dashboard と /admin/audit-logs のHTTP
type DashboardHandler struct {
	dashboardUC *usecase.DashboardUsecase
	auditUC     *usecase.AuditLogUsecase
}

// DI
func NewDashboardHandler(dashboardUC *usecase.DashboardUsecase, auditUC *usecase.AuditLogUsecase) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, auditUC: auditUC}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/dashboard", h.stats)
	admin.GET("/audit-logs", h.auditLogs)
}

func (h *DashboardHandler) stats(c echo.Context) error {
	out, err := h.dashboardUC.GetStats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) auditLogs(c echo.Context) error {
	page, limit, err := parsePageLimit(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	actorUserID, err := parseInt64Query(c, "actor_user_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_user_id"})
	}
	resourceID, err := parseInt64Query(c, "resource_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
	}

	out, err := h.auditUC.List(c.Request().Context(), usecase.AuditLogListInput{
		Page:         page,
		Limit:        limit,
		ActorUserID:  actorUserID,
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   resourceID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
