package repository

import (
	"context"
	"errors"
	"testing"

	"autoshop-backend/models"
	"autoshop-backend/services"

	"github.com/google/uuid"
)

func includedDescriptions(s *models.Service) []string {
	var out []string
	for _, p := range s.IncludedProducts() {
		out = append(out, p.Description)
	}
	return out
}

func TestServiceInclusionsFollowGivenOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogRepo(db)
	ctx := context.Background()

	oil := &models.Product{Description: "Engine oil", Price: models.MustMoney("45")}
	filter := &models.Product{Description: "Oil filter", Price: models.MustMoney("18")}
	for _, p := range []*models.Product{oil, filter} {
		if err := repo.CreateProduct(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	service := &models.Service{Description: "Logbook service", Price: models.MustMoney("249.5")}
	if err := repo.CreateService(ctx, service); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceInclusions(ctx, service.ID, []uuid.UUID{filter.ID, oil.ID}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.FindService(ctx, service.ID)
	if err != nil {
		t.Fatal(err)
	}
	if names := includedDescriptions(got); len(names) != 2 || names[0] != "Oil filter" || names[1] != "Engine oil" {
		t.Errorf("included = %v", names)
	}
	if got.Price.String() != "249.50" {
		t.Errorf("price = %s", got.Price)
	}

	if err := repo.DeleteProduct(ctx, filter.ID); err != nil {
		t.Fatal(err)
	}
	got, err = repo.FindService(ctx, service.ID)
	if err != nil {
		t.Fatal(err)
	}
	if names := includedDescriptions(got); len(names) != 1 || names[0] != "Engine oil" {
		t.Errorf("after deleting a bundled product: %v", names)
	}

	if err := repo.DeleteService(ctx, service.ID); err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, db, &models.ServiceProduct{}, "service_id = ?", service.ID); n != 0 {
		t.Errorf("%d join rows left", n)
	}
	if _, err := repo.FindService(ctx, service.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("find after delete: %v", err)
	}
	if _, err := repo.FindProduct(ctx, oil.ID); err != nil {
		t.Errorf("deleting the service removed a product: %v", err)
	}
}
