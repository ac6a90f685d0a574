package controllers

import (
	"context"
	"net/http"

	"autoshop-backend/models"
	"autoshop-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogManager is the slice of services.CatalogService the handlers use.
type CatalogManager interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in services.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in services.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CreateService(ctx context.Context, in services.ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, in services.ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	Expand(ctx context.Context, id uuid.UUID) ([]services.LineItemInput, error)
}

type CatalogController struct {
	catalog CatalogManager
	view    services.Formatter
	log     zerolog.Logger
}

func NewCatalogController(catalog CatalogManager, view services.Formatter, log zerolog.Logger) *CatalogController {
	return &CatalogController{
		catalog: catalog,
		view:    view,
		log:     log.With().Str("component", "catalog").Logger(),
	}
}

func (cc *CatalogController) ListProducts(c *gin.Context) {
	products, err := cc.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Products(products))
}

func (cc *CatalogController) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	product, err := cc.catalog.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, cc.view.Product(*product))
}

func (cc *CatalogController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "Product")
	if !ok {
		return
	}
	var input services.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	product, err := cc.catalog.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Product(*product))
}

func (cc *CatalogController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "Product")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CatalogController) ListServices(c *gin.Context) {
	list, err := cc.catalog.ListServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Services(list))
}

func (cc *CatalogController) GetService(c *gin.Context) {
	id, ok := parseID(c, "id", "Service")
	if !ok {
		return
	}
	service, err := cc.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Service(*service))
}

func (cc *CatalogController) CreateService(c *gin.Context) {
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	service, err := cc.catalog.CreateService(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, cc.view.Service(*service))
}

func (cc *CatalogController) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id", "Service")
	if !ok {
		return
	}
	var input services.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	service, err := cc.catalog.UpdateService(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Service(*service))
}

func (cc *CatalogController) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "id", "Service")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteService(c.Request.Context(), id); err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
