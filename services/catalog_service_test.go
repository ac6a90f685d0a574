package services

import (
	"context"
	"errors"
	"testing"

	"autoshop-backend/logger"
	"autoshop-backend/models"

	"github.com/google/uuid"
)

type memoryCatalogStore struct {
	products   map[uuid.UUID]models.Product
	services   map[uuid.UUID]models.Service
	inclusions map[uuid.UUID][]uuid.UUID
}

func newMemoryCatalogStore(products ...models.Product) *memoryCatalogStore {
	m := &memoryCatalogStore{
		products:   map[uuid.UUID]models.Product{},
		services:   map[uuid.UUID]models.Service{},
		inclusions: map[uuid.UUID][]uuid.UUID{},
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memoryCatalogStore) WithinTransaction(ctx context.Context, fn func(tx CatalogStore) error) error {
	return fn(m)
}

func (m *memoryCatalogStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryCatalogStore) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memoryCatalogStore) FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryCatalogStore) CreateProduct(ctx context.Context, product *models.Product) error {
	m.products[product.ID] = *product
	return nil
}

func (m *memoryCatalogStore) SaveProduct(ctx context.Context, product *models.Product) error {
	m.products[product.ID] = *product
	return nil
}

func (m *memoryCatalogStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	for sid, ids := range m.inclusions {
		var kept []uuid.UUID
		for _, pid := range ids {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		m.inclusions[sid] = kept
	}
	return nil
}

func (m *memoryCatalogStore) loadService(s models.Service) models.Service {
	s.Inclusions = nil
	for i, pid := range m.inclusions[s.ID] {
		s.Inclusions = append(s.Inclusions, models.ServiceProduct{
			ServiceID: s.ID, ProductID: pid, Position: i, Product: m.products[pid],
		})
	}
	return s
}

func (m *memoryCatalogStore) ListServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	for _, s := range m.services {
		out = append(out, m.loadService(s))
	}
	return out, nil
}

func (m *memoryCatalogStore) FindService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	loaded := m.loadService(s)
	return &loaded, nil
}

func (m *memoryCatalogStore) CreateService(ctx context.Context, service *models.Service) error {
	m.services[service.ID] = *service
	return nil
}

func (m *memoryCatalogStore) SaveService(ctx context.Context, service *models.Service) error {
	m.services[service.ID] = *service
	return nil
}

func (m *memoryCatalogStore) ReplaceInclusions(ctx context.Context, serviceID uuid.UUID, productIDs []uuid.UUID) error {
	m.inclusions[serviceID] = append([]uuid.UUID(nil), productIDs...)
	return nil
}

func (m *memoryCatalogStore) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.services[id]; !ok {
		return ErrNotFound
	}
	delete(m.services, id)
	delete(m.inclusions, id)
	return nil
}

func TestCreateServiceKeepsInclusionOrder(t *testing.T) {
	oil := models.Product{ID: uuid.New(), Description: "Oil", Price: models.MustMoney("40")}
	filter := models.Product{ID: uuid.New(), Description: "Filter", Price: models.MustMoney("15")}
	store := newMemoryCatalogStore(oil, filter)
	svc := NewCatalogService(store, logger.Nop())

	ids := []string{filter.ID.String(), uuid.NewString(), oil.ID.String(), filter.ID.String()}
	created, err := svc.CreateService(context.Background(), ServiceInput{
		Description:        strPtr("Logbook service"),
		Price:              models.AmountInput("199"),
		Checklist:          strPtr("Check tyres\nCheck lights"),
		IncludedProductIDs: &ids,
	})
	if err != nil {
		t.Fatal(err)
	}
	got := created.IncludedProducts()
	if len(got) != 2 || got[0].ID != filter.ID || got[1].ID != oil.ID {
		t.Errorf("inclusions = %+v, want filter then oil", got)
	}
}

func TestCreateServiceValidation(t *testing.T) {
	svc := NewCatalogService(newMemoryCatalogStore(), logger.Nop())
	bad := []string{"nope"}
	_, err := svc.CreateService(context.Background(), ServiceInput{
		Description:        strPtr(""),
		Price:              models.AmountInput("-1"),
		IncludedProductIDs: &bad,
	})
	var invalid ValidationErrors
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	fields := map[string]string{}
	for _, fe := range invalid {
		fields[fe.Field] = fe.Message
	}
	if fields["description"] == "" || fields["price"] == "" || fields["includedProductIds[0]"] == "" {
		t.Errorf("errors = %v", invalid)
	}
}

func TestCreateProductRequiresPrice(t *testing.T) {
	svc := NewCatalogService(newMemoryCatalogStore(), logger.Nop())
	_, err := svc.CreateProduct(context.Background(), ProductInput{Description: strPtr("Bulb")})
	var invalid ValidationErrors
	if !errors.As(err, &invalid) || invalid[0].Field != "price" {
		t.Fatalf("err = %v, want a price error", err)
	}
}

func TestUpdateProductIsPartial(t *testing.T) {
	bulb := models.Product{ID: uuid.New(), Description: "Bulb", Price: models.MustMoney("4.5")}
	svc := NewCatalogService(newMemoryCatalogStore(bulb), logger.Nop())

	updated, err := svc.UpdateProduct(context.Background(), bulb.ID, ProductInput{Price: models.AmountInput("5")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Description != "Bulb" || updated.Price.String() != "5.00" {
		t.Errorf("product = %+v", updated)
	}

	_, err = svc.UpdateProduct(context.Background(), uuid.New(), ProductInput{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestExpandLoadsBundledProducts(t *testing.T) {
	oil := models.Product{ID: uuid.New(), Description: "Oil", Price: models.MustMoney("40")}
	store := newMemoryCatalogStore(oil)
	svc := NewCatalogService(store, logger.Nop())
	ids := []string{oil.ID.String()}
	service, err := svc.CreateService(context.Background(), ServiceInput{
		Description:        strPtr("Oil change"),
		Price:              models.AmountInput("80"),
		IncludedProductIDs: &ids,
	})
	if err != nil {
		t.Fatal(err)
	}

	lines, err := svc.Expand(context.Background(), service.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[1].Description != "Oil" || !lines[1].Included {
		t.Errorf("lines = %+v", lines)
	}

	if _, err := svc.Expand(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestDeleteProductUnbundles(t *testing.T) {
	oil := models.Product{ID: uuid.New(), Description: "Oil"}
	store := newMemoryCatalogStore(oil)
	svc := NewCatalogService(store, logger.Nop())
	ids := []string{oil.ID.String()}
	service, err := svc.CreateService(context.Background(), ServiceInput{
		Description: strPtr("Oil change"), Price: models.AmountInput("80"), IncludedProductIDs: &ids,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteProduct(context.Background(), oil.ID); err != nil {
		t.Fatal(err)
	}
	reloaded, err := svc.GetService(context.Background(), service.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Inclusions) != 0 {
		t.Errorf("inclusions = %+v", reloaded.Inclusions)
	}
}
