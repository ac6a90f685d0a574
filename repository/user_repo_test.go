package repository

import (
	"context"
	"errors"
	"testing"

	"autoshop-backend/models"
	"autoshop-backend/services"
	"autoshop-backend/utils"
)

func TestUserRepoHashesOnCreate(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.CreateUser(ctx, &models.User{Email: "owner@shop.test", Password: "correct horse", Roles: models.DefaultRole}); err != nil {
		t.Fatal(err)
	}
	user, err := repo.FindUserByEmail(ctx, "owner@shop.test")
	if err != nil {
		t.Fatal(err)
	}
	if user.Password == "correct horse" || !utils.CheckPasswordHash("correct horse", user.Password) {
		t.Error("password not stored as a bcrypt hash")
	}

	if _, err := repo.FindUserByEmail(ctx, "nobody@shop.test"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown email: %v", err)
	}
}
