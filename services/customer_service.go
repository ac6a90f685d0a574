package services

import (
	"context"

	"autoshop-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CustomerStore interface {
	WithinTransaction(ctx context.Context, fn func(tx CustomerStore) error) error

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	// FindCustomer loads the customer with its vehicles.
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	SaveCustomer(ctx context.Context, customer *models.Customer) error
	ReplaceVehicles(ctx context.Context, customerID uuid.UUID, vehicles []models.Vehicle) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	// FindVehicle only matches vehicles owned by customerID.
	FindVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	SaveVehicle(ctx context.Context, vehicle *models.Vehicle) error
	DeleteVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) error
}

type VehicleInput struct {
	Rego *string `json:"rego"`
	Odo  *string `json:"odo"`
	Desc *string `json:"desc"`
}

func (in VehicleInput) apply(v *models.Vehicle) {
	if in.Rego != nil {
		v.Rego = in.Rego
	}
	if in.Odo != nil {
		v.Odo = in.Odo
	}
	if in.Desc != nil {
		v.Description = in.Desc
	}
}

type CustomerInput struct {
	Name     *string         `json:"name" validate:"omitnil,notblank"`
	Address  *string         `json:"address"`
	Vehicles *[]VehicleInput `json:"vehicles"`
}

func (in CustomerInput) validate(creating bool) error {
	errs := checkStruct(in)
	if creating && in.Name == nil {
		errs.add("name", "This value should not be blank.")
	}
	return errs.orNil()
}

type CustomerService struct {
	store CustomerStore
	log   zerolog.Logger
}

func NewCustomerService(store CustomerStore, log zerolog.Logger) *CustomerService {
	return &CustomerService{store: store, log: log.With().Str("component", "customers").Logger()}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.store.FindCustomer(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "Customer", id.String())
	}
	return customer, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	customer := &models.Customer{ID: uuid.New(), Name: *in.Name, Address: in.Address}
	if in.Vehicles != nil {
		customer.Vehicles = newVehicles(customer.ID, *in.Vehicles)
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Update changes the given fields. A vehicles list, when present, replaces
// every vehicle the customer had.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, in CustomerInput) (*models.Customer, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	var updated *models.Customer
	err := s.store.WithinTransaction(ctx, func(tx CustomerStore) error {
		customer, err := tx.FindCustomer(ctx, id)
		if err != nil {
			return asNotFound(err, "Customer", id.String())
		}
		if in.Name != nil {
			customer.Name = *in.Name
		}
		if in.Address != nil {
			customer.Address = in.Address
		}
		if err := tx.SaveCustomer(ctx, customer); err != nil {
			return err
		}
		if in.Vehicles != nil {
			vehicles := newVehicles(customer.ID, *in.Vehicles)
			if err := tx.ReplaceVehicles(ctx, customer.ID, vehicles); err != nil {
				return err
			}
			customer.Vehicles = vehicles
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the customer and its vehicles. Documents keep their snapshot
// and lose the link.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return asNotFound(err, "Customer", id.String())
	}
	s.log.Info().Str("id", id.String()).Msg("customer deleted")
	return nil
}

func (s *CustomerService) AddVehicle(ctx context.Context, customerID uuid.UUID, in VehicleInput) (*models.Vehicle, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	vehicle := &models.Vehicle{ID: uuid.New(), CustomerID: customerID}
	in.apply(vehicle)
	if err := s.store.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *CustomerService) UpdateVehicle(ctx context.Context, customerID, vehicleID uuid.UUID, in VehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.findVehicle(ctx, customerID, vehicleID)
	if err != nil {
		return nil, err
	}
	in.apply(vehicle)
	if err := s.store.SaveVehicle(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *CustomerService) DeleteVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) error {
	if _, err := s.findVehicle(ctx, customerID, vehicleID); err != nil {
		return err
	}
	return asNotFound(s.store.DeleteVehicle(ctx, customerID, vehicleID), "Vehicle", vehicleID.String())
}

func (s *CustomerService) findVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	if _, err := s.Get(ctx, customerID); err != nil {
		return nil, err
	}
	vehicle, err := s.store.FindVehicle(ctx, customerID, vehicleID)
	if err != nil {
		return nil, asNotFound(err, "Vehicle", vehicleID.String())
	}
	return vehicle, nil
}

func newVehicles(customerID uuid.UUID, inputs []VehicleInput) []models.Vehicle {
	vehicles := make([]models.Vehicle, 0, len(inputs))
	for _, in := range inputs {
		v := models.Vehicle{ID: uuid.New(), CustomerID: customerID}
		in.apply(&v)
		vehicles = append(vehicles, v)
	}
	return vehicles
}
