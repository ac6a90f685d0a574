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

type CustomerManager interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Create(ctx context.Context, in services.CustomerInput) (*models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, in services.CustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVehicle(ctx context.Context, customerID uuid.UUID, in services.VehicleInput) (*models.Vehicle, error)
	UpdateVehicle(ctx context.Context, customerID, vehicleID uuid.UUID, in services.VehicleInput) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) error
}

type CustomerController struct {
	customers CustomerManager
	view      services.Formatter
	log       zerolog.Logger
}

func NewCustomerController(customers CustomerManager, view services.Formatter, log zerolog.Logger) *CustomerController {
	return &CustomerController{
		customers: customers,
		view:      view,
		log:       log.With().Str("component", "customers").Logger(),
	}
}

func (cc *CustomerController) List(c *gin.Context) {
	customers, err := cc.customers.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Customers(customers))
}

func (cc *CustomerController) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Customer")
	if !ok {
		return
	}
	customer, err := cc.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Customer(*customer))
}

func (cc *CustomerController) Create(c *gin.Context) {
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := cc.customers.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, cc.view.Customer(*customer))
}

// Update applies a partial update. A vehicles list, when present, replaces
// every vehicle of the customer.
func (cc *CustomerController) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "Customer")
	if !ok {
		return
	}
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := cc.customers.Update(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Customer(*customer))
}

func (cc *CustomerController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Customer")
	if !ok {
		return
	}
	if err := cc.customers.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CustomerController) AddVehicle(c *gin.Context) {
	customerID, ok := parseID(c, "id", "Customer")
	if !ok {
		return
	}
	var input services.VehicleInput
	if !bindJSON(c, &input) {
		return
	}
	vehicle, err := cc.customers.AddVehicle(c.Request.Context(), customerID, input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, cc.view.Vehicle(*vehicle))
}

func (cc *CustomerController) UpdateVehicle(c *gin.Context) {
	customerID, ok := parseID(c, "id", "Customer")
	if !ok {
		return
	}
	vehicleID, ok := parseID(c, "vehicleId", "Vehicle")
	if !ok {
		return
	}
	var input services.VehicleInput
	if !bindJSON(c, &input) {
		return
	}
	vehicle, err := cc.customers.UpdateVehicle(c.Request.Context(), customerID, vehicleID, input)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, cc.view.Vehicle(*vehicle))
}

func (cc *CustomerController) DeleteVehicle(c *gin.Context) {
	customerID, ok := parseID(c, "id", "Customer")
	if !ok {
		return
	}
	vehicleID, ok := parseID(c, "vehicleId", "Vehicle")
	if !ok {
		return
	}
	if err := cc.customers.DeleteVehicle(c.Request.Context(), customerID, vehicleID); err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
