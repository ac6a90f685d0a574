package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"autoshop-backend/logger"
	"autoshop-backend/models"
	"autoshop-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type mockCatalog struct {
	service  *models.Service
	products []models.Product
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	return m.products, nil
}

func (m *mockCatalog) CreateProduct(ctx context.Context, in services.ProductInput) (*models.Product, error) {
	return &models.Product{ID: uuid.New(), Description: *in.Description, Price: *in.Price.Money()}, nil
}

func (m *mockCatalog) UpdateProduct(ctx context.Context, id uuid.UUID, in services.ProductInput) (*models.Product, error) {
	return nil, services.NotFound("Product", id.String())
}

func (m *mockCatalog) DeleteProduct(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockCatalog) ListServices(ctx context.Context) ([]models.Service, error) {
	if m.service == nil {
		return nil, nil
	}
	return []models.Service{*m.service}, nil
}

func (m *mockCatalog) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	if m.service == nil || m.service.ID != id {
		return nil, services.NotFound("Service", id.String())
	}
	return m.service, nil
}

func (m *mockCatalog) CreateService(ctx context.Context, in services.ServiceInput) (*models.Service, error) {
	return m.service, nil
}

func (m *mockCatalog) UpdateService(ctx context.Context, id uuid.UUID, in services.ServiceInput) (*models.Service, error) {
	return m.service, nil
}

func (m *mockCatalog) DeleteService(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockCatalog) Expand(ctx context.Context, id uuid.UUID) ([]services.LineItemInput, error) {
	service, err := m.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	return services.ExpandService(*service, m.products), nil
}

type mockCustomers struct {
	CustomerManager
	customers []models.Customer
}

func (m *mockCustomers) List(ctx context.Context) ([]models.Customer, error) {
	return m.customers, nil
}

func catalogFixture() *mockCatalog {
	checklist := "Check tyres"
	oil := models.Product{ID: uuid.New(), Description: "Engine oil", Price: models.MustMoney("45")}
	return &mockCatalog{
		service: &models.Service{
			ID:          uuid.New(),
			Description: "Oil service",
			Price:       models.MustMoney("120"),
			Checklist:   &checklist,
			Inclusions:  []models.ServiceProduct{{ProductID: oil.ID, Product: oil}},
		},
		products: []models.Product{oil},
	}
}

func catalogRouter(catalog CatalogManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cc := NewCatalogController(catalog, services.NewFormatter(services.DefaultTaxRate), logger.Nop())
	r := gin.New()
	r.POST("/api/line-items/expand", cc.ExpandLineItems)
	r.POST("/api/line-items/remove", cc.RemoveLineItem)
	r.GET("/api/services", cc.ListServices)
	r.POST("/api/products", cc.CreateProduct)
	r.PATCH("/api/products/:id", cc.UpdateProduct)
	return r
}

func decodeLines(t *testing.T, body []byte) []services.LineItemInput {
	t.Helper()
	var resp struct {
		LineItems []services.LineItemInput `json:"lineItems"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	return resp.LineItems
}

func TestExpandThenRemoveRoundTrip(t *testing.T) {
	catalog := catalogFixture()
	r := catalogRouter(catalog)

	body := `{"serviceId":"` + catalog.service.ID.String() + `","lineItems":[{"id":"11111111-1111-1111-1111-111111111111","description":"Labour","quantity":1,"price":60}]}`
	w := perform(r, http.MethodPost, "/api/line-items/expand", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	lines := decodeLines(t, w.Body.Bytes())
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want labour + service + product + checklist", len(lines))
	}
	if lines[1].ID != catalog.service.ID.String() || lines[2].Description != "Engine oil" || !lines[3].IsChecklist {
		t.Errorf("lines = %+v", lines)
	}
	if lines[2].Price.Money().String() != "0.00" {
		t.Errorf("included price = %v", lines[2].Price.Money())
	}

	removeBody, err := json.Marshal(map[string]interface{}{"id": catalog.service.ID.String(), "lineItems": lines})
	if err != nil {
		t.Fatal(err)
	}
	w = perform(r, http.MethodPost, "/api/line-items/remove", string(removeBody))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	left := decodeLines(t, w.Body.Bytes())
	if len(left) != 1 || left[0].Description != "Labour" {
		t.Errorf("after removing the service: %+v", left)
	}
}

func TestExpandUnknownService(t *testing.T) {
	r := catalogRouter(catalogFixture())

	w := perform(r, http.MethodPost, "/api/line-items/expand", `{"serviceId":"`+uuid.NewString()+`"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}

	w = perform(r, http.MethodPost, "/api/line-items/expand", `{"serviceId":"oops"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("malformed id status = %d", w.Code)
	}
}

func TestRemoveUnknownIDKeepsList(t *testing.T) {
	r := catalogRouter(catalogFixture())
	w := perform(r, http.MethodPost, "/api/line-items/remove", `{"id":"missing","lineItems":[{"id":"a","description":"x"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if lines := decodeLines(t, w.Body.Bytes()); len(lines) != 1 {
		t.Errorf("lines = %+v", lines)
	}
}

func TestServiceListShape(t *testing.T) {
	catalog := catalogFixture()
	r := catalogRouter(catalog)

	w := perform(r, http.MethodGet, "/api/services", "")
	var got []services.ServiceView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Type != "service" || len(got[0].IncludedProductIDs) != 1 {
		t.Errorf("body = %s", w.Body)
	}
}

func TestProductEndpoints(t *testing.T) {
	r := catalogRouter(catalogFixture())

	w := perform(r, http.MethodPost, "/api/products", `{"description":"Bulb","price":"4.955"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	var created services.ProductView
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Price.String() != "4.96" || created.Type != "product" {
		t.Errorf("product = %+v", created)
	}

	w = perform(r, http.MethodPatch, "/api/products/"+uuid.NewString(), `{"price":5}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestLookups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := catalogFixture()
	customers := &mockCustomers{customers: []models.Customer{{ID: uuid.New(), Name: "Jane"}}}
	lc := NewLookupController(customers, catalog, services.NewFormatter(services.DefaultTaxRate), logger.Nop())
	r := gin.New()
	r.GET("/api/lookups", lc.Get)

	w := perform(r, http.MethodGet, "/api/lookups", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		Customers []services.CustomerView `json:"customers"`
		Services  []services.ServiceView  `json:"services"`
		Products  []services.ProductView  `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Customers) != 1 || len(got.Services) != 1 || len(got.Products) != 1 {
		t.Errorf("body = %s", w.Body)
	}
}
