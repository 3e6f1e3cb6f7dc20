package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

// アクセストークンのclaims。subはユーザーID、tvはtoken_version
type AccessTokenClaims struct {
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

// bearerAuth用のJWT検証ミドルウェア。
// 検証できたらuser_id / user_role / token_versionをcontextへ入れる
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, err := bearerToken(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, guardJSON("unauthorized", CodeTokenInvalid))
			}

			claims := &AccessTokenClaims{}
			token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, guardJSON("unauthorized", CodeTokenInvalid))
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, guardJSON("unauthorized", CodeTokenInvalid))
			}

			//roleは既知の値だけ通す
			role := model.Role(claims.Role)
			if role != model.RoleUser && role != model.RoleAdmin {
				return c.JSON(http.StatusUnauthorized, guardJSON("unauthorized", CodeTokenInvalid))
			}

			if claims.TokenVersion < 0 {
				return c.JSON(http.StatusUnauthorized, guardJSON("unauthorized", CodeTokenInvalid))
			}

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, string(role))
			c.Set(CtxTokenVersionKey, claims.TokenVersion)

			return next(c)
		}
	}
}

// Authorization: Bearer <token> からtokenを抜く
func bearerToken(c echo.Context) (string, error) {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("not a bearer token")
	}

	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", errors.New("empty bearer token")
	}
	return raw, nil
}
