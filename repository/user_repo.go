package repository

import (
	"context"

	"autoshop-backend/models"

	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("lower(email) = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser hashes the plain password through the model hook.
func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepo) SaveUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

type DigestLogRepo struct {
	db *gorm.DB
}

func NewDigestLogRepo(db *gorm.DB) *DigestLogRepo {
	return &DigestLogRepo{db: db}
}

func (r *DigestLogRepo) CreateDigestLog(ctx context.Context, entry *models.DigestLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
