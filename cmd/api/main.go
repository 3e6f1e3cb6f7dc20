package main

import (
	"log"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Rarity{},
		&model.Tag{},
		&model.Item{},
		&model.ItemTag{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	tagRepo := infraRepo.NewTagGormRepository(gormDB)
	rarityRepo := infraRepo.NewRarityGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	invRepo := infraRepo.NewInventoryGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Validator
	catalogValidator := validator.NewCatalogValidator()

	//Usecase生成
	itemUC := usecase.NewItemUsecase(itemRepo, categoryRepo, rarityRepo, tagRepo, invRepo, auditRepo, catalogValidator)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, itemRepo, catalogValidator)
	tagUC := usecase.NewTagUsecase(tagRepo, catalogValidator)
	rarityUC := usecase.NewRarityUsecase(rarityRepo, catalogValidator)
	cartUC := usecase.NewCartUsecase(cartRepo, itemRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	dashboardUC := usecase.NewDashboardUsecase(itemRepo, categoryRepo, orderRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Item:          handler.NewItemHandler(itemUC),
		Category:      handler.NewCategoryHandler(categoryUC),
		Tag:           handler.NewTagHandler(tagUC),
		Rarity:        handler.NewRarityHandler(rarityUC),
		Cart:          handler.NewCartHandler(cartUC),
		Order:         handler.NewOrderHandler(orderUC),
		AdminItem:     handler.NewAdminItemHandler(itemUC),
		AdminCategory: handler.NewAdminCategoryHandler(categoryUC),
		AdminTaxonomy: handler.NewAdminTaxonomyHandler(tagUC, rarityUC),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC),
		Dashboard:     handler.NewDashboardHandler(dashboardUC, auditUC),
	}

	//Server起動
	e := server.New(cfg, handlers, userRepo)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
