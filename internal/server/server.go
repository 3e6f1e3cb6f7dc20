package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// ルート登録に必要なハンドラをまとめる
type Handlers struct {
	Item          *handler.ItemHandler
	Category      *handler.CategoryHandler
	Tag           *handler.TagHandler
	Rarity        *handler.RarityHandler
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	AdminItem     *handler.AdminItemHandler
	AdminCategory *handler.AdminCategoryHandler
	AdminTaxonomy *handler.AdminTaxonomyHandler
	AdminOrder    *handler.AdminOrderHandler
	Dashboard     *handler.DashboardHandler
}

// New はechoを組み立てて全ルートを登録する
func New(cfg config.Config, h Handlers, userRepo repository.UserRepository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowCredentials: true,
	}))

	//公開ルート
	h.Item.RegisterRoutes(e)
	h.Category.RegisterRoutes(e)
	h.Tag.RegisterRoutes(e)
	h.Rarity.RegisterRoutes(e)

	//要ログイン
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)

	//管理者のみ
	h.AdminItem.RegisterRoutes(e, cfg, userRepo)
	h.AdminCategory.RegisterRoutes(e, cfg, userRepo)
	h.AdminTaxonomy.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.Dashboard.RegisterRoutes(e, cfg, userRepo)

	return e
}
