package services

import (
	"context"

	"autoshop-backend/models"
	"autoshop-backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogStore persists products, services and the bundling between them.
type CatalogStore interface {
	WithinTransaction(ctx context.Context, fn func(tx CatalogStore) error) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// FindProducts returns the products that exist among ids, in no particular order.
	FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	SaveProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// Services are returned with Inclusions (and their products) loaded in order.
	ListServices(ctx context.Context) ([]models.Service, error)
	FindService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	SaveService(ctx context.Context, service *models.Service) error
	ReplaceInclusions(ctx context.Context, serviceID uuid.UUID, productIDs []uuid.UUID) error
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type ProductInput struct {
	Description *string           `json:"description" validate:"omitnil,notblank"`
	Price       models.MoneyInput `json:"price"`
}

type ServiceInput struct {
	Description        *string           `json:"description" validate:"omitnil,notblank"`
	Price              models.MoneyInput `json:"price"`
	Checklist          *string           `json:"checklist"`
	IncludedProductIDs *[]string         `json:"includedProductIds" validate:"omitnil,dive,uuid"`
}

// validate runs the create rules when creating is set, otherwise the partial
// update rules where absent fields are left alone.
func (in ProductInput) validate(creating bool) error {
	errs := checkStruct(in)
	if creating && in.Description == nil {
		errs.add("description", "This value should not be blank.")
	}
	checkAmount(&errs, "price", in.Price, amountRule{required: creating})
	return errs.orNil()
}

func (in ServiceInput) validate(creating bool) error {
	errs := checkStruct(in)
	if creating && in.Description == nil {
		errs.add("description", "This value should not be blank.")
	}
	checkAmount(&errs, "price", in.Price, amountRule{required: creating})
	return errs.orNil()
}

type CatalogService struct {
	store CatalogStore
	log   zerolog.Logger
}

func NewCatalogService(store CatalogStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, log: log.With().Str("component", "catalog").Logger()}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	product := &models.Product{
		ID:          uuid.New(),
		Description: *in.Description,
		Price:       *in.Price.Money(),
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	product, err := s.store.FindProduct(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "Product", id.String())
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if price := in.Price.Money(); price != nil {
		product.Price = *price
	}
	if err := s.store.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product and unbundles it from every service.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return asNotFound(s.store.DeleteProduct(ctx, id), "Product", id.String())
}

func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.store.ListServices(ctx)
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	service, err := s.store.FindService(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "Service", id.String())
	}
	return service, nil
}

func (s *CatalogService) CreateService(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	service := &models.Service{
		ID:          uuid.New(),
		Description: *in.Description,
		Price:       *in.Price.Money(),
		Checklist:   utils.StringOrNil(in.Checklist),
	}

	var created *models.Service
	err := s.store.WithinTransaction(ctx, func(tx CatalogStore) error {
		if err := tx.CreateService(ctx, service); err != nil {
			return err
		}
		if in.IncludedProductIDs != nil {
			if err := s.syncInclusions(ctx, tx, service.ID, *in.IncludedProductIDs); err != nil {
				return err
			}
		}
		var err error
		created, err = tx.FindService(ctx, service.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	var updated *models.Service
	err := s.store.WithinTransaction(ctx, func(tx CatalogStore) error {
		service, err := tx.FindService(ctx, id)
		if err != nil {
			return asNotFound(err, "Service", id.String())
		}
		if in.Description != nil {
			service.Description = *in.Description
		}
		if price := in.Price.Money(); price != nil {
			service.Price = *price
		}
		if in.Checklist != nil {
			service.Checklist = utils.StringOrNil(in.Checklist)
		}
		if err := tx.SaveService(ctx, service); err != nil {
			return err
		}
		if in.IncludedProductIDs != nil {
			if err := s.syncInclusions(ctx, tx, service.ID, *in.IncludedProductIDs); err != nil {
				return err
			}
		}
		updated, err = tx.FindService(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	return asNotFound(s.store.DeleteService(ctx, id), "Service", id.String())
}

// Expand loads a service and returns the lines it contributes to a document.
func (s *CatalogService) Expand(ctx context.Context, id uuid.UUID) ([]LineItemInput, error) {
	service, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	return ExpandService(*service, service.IncludedProducts()), nil
}

// syncInclusions replaces the bundled products of a service, keeping the
// submitted order. Unknown and repeated ids are skipped.
func (s *CatalogService) syncInclusions(ctx context.Context, tx CatalogStore, serviceID uuid.UUID, rawIDs []string) error {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]bool, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	found, err := tx.FindProducts(ctx, ids)
	if err != nil {
		return err
	}
	exists := make(map[uuid.UUID]bool, len(found))
	for _, p := range found {
		exists[p.ID] = true
	}

	keep := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if exists[id] {
			keep = append(keep, id)
			continue
		}
		s.log.Warn().Str("service", serviceID.String()).Str("product", id.String()).
			Msg("skipping unknown included product")
	}
	return tx.ReplaceInclusions(ctx, serviceID, keep)
}
