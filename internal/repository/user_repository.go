package repository

import (
	"app/internal/domain/model"
	"context"
)

// 認証は外部側。ここではミドルウェアの照合とseedに必要な分だけ
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
