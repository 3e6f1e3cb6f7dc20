package main

import (
	"context"
	"log"
	"os"

	"app/internal/domain/model"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 開発用の初期データ投入。
// 管理者ユーザー1人とサンプルカタログを作る。2回目以降はスキップ
func main() {
	_ = godotenv.Load()

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

	ctx := context.Background()

	if err := seedAdmin(ctx, gormDB); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := seedCatalog(gormDB); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	log.Println("seed done")
}

func seedAdmin(ctx context.Context, gormDB *gorm.DB) error {
	users := infraRepo.NewUserGormRepository(gormDB)

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin-password"
	}

	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Println("admin already exists, skip")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	return users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
}

func seedCatalog(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("catalog already exists, skip")
		return nil
	}

	category := model.Category{
		Title:       "Pokemon",
		Slug:        "pokemon",
		Description: "Pokemon trading cards",
	}
	if err := gormDB.Create(&category).Error; err != nil {
		return err
	}

	rarity := model.Rarity{
		Name:       "Holo Rare",
		Slug:       "holo-rare",
		Status:     model.TaxonomyStatusActive,
		Visibility: true,
	}
	if err := gormDB.Create(&rarity).Error; err != nil {
		return err
	}

	tag := model.Tag{
		Name:       "First Edition",
		Slug:       "first-edition",
		Status:     model.TaxonomyStatusActive,
		Visibility: true,
	}
	if err := gormDB.Create(&tag).Error; err != nil {
		return err
	}

	items := []model.Item{
		{
			CategoryID: category.ID,
			RarityID:   &rarity.ID,
			Name:       "Charizard",
			SetName:    "Base Set",
			Slug:       "base-set-charizard",
			Price:      decimal.RequireFromString("350.00"),
			StockQty:   3,
		},
		{
			CategoryID: category.ID,
			Name:       "Pikachu",
			SetName:    "Jungle",
			Slug:       "jungle-pikachu",
			Price:      decimal.RequireFromString("12.50"),
			StockQty:   20,
		},
	}
	if err := gormDB.Create(&items).Error; err != nil {
		return err
	}

	return gormDB.Create(&model.ItemTag{ItemID: items[0].ID, TagID: tag.ID}).Error
}
