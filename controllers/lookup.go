package controllers

import (
	"net/http"

	"autoshop-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LookupController feeds the document form: every customer with vehicles,
// every service and every product in one call.
type LookupController struct {
	customers CustomerManager
	catalog   CatalogManager
	view      services.Formatter
	log       zerolog.Logger
}

func NewLookupController(customers CustomerManager, catalog CatalogManager, view services.Formatter, log zerolog.Logger) *LookupController {
	return &LookupController{
		customers: customers,
		catalog:   catalog,
		view:      view,
		log:       log.With().Str("component", "lookups").Logger(),
	}
}

func (lc *LookupController) Get(c *gin.Context) {
	ctx := c.Request.Context()

	customers, err := lc.customers.List(ctx)
	if err != nil {
		respondServiceError(c, lc.log, err)
		return
	}
	serviceList, err := lc.catalog.ListServices(ctx)
	if err != nil {
		respondServiceError(c, lc.log, err)
		return
	}
	products, err := lc.catalog.ListProducts(ctx)
	if err != nil {
		respondServiceError(c, lc.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": lc.view.Customers(customers),
		"services":  lc.view.Services(serviceList),
		"products":  lc.view.Products(products),
	})
}
