package middleware

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AuthJWTがcontextに入れたroleを見て、管理者だけ通す。
// 管理画面系（/admin配下）の全ルートに掛ける
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, guardJSON("unauthorized", CodeTokenInvalid))
			}

			if model.Role(role) != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, guardJSON("admin only", CodeAdminOnly))
			}

			return next(c)
		}
	}
}
