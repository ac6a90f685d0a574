package repository

import (
	"context"

	"autoshop-backend/models"
	"autoshop-backend/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepo struct {
	db   *gorm.DB
	inTx bool
}

func NewCustomerRepo(db *gorm.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) WithinTransaction(ctx context.Context, fn func(tx services.CustomerStore) error) error {
	if r.inTx {
		return fn(r)
	}
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&CustomerRepo{db: tx, inTx: true})
	})
}

func findCustomer(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := db.WithContext(ctx).
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *CustomerRepo) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("name ASC").
		Find(&customers).Error
	return customers, err
}

func (r *CustomerRepo) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return findCustomer(ctx, r.db, id)
}

// CreateCustomer inserts the customer together with its vehicles.
func (r *CustomerRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepo) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(customer).Error
}

func (r *CustomerRepo) ReplaceVehicles(ctx context.Context, customerID uuid.UUID, vehicles []models.Vehicle) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("customer_id = ?", customerID).Delete(&models.Vehicle{}).Error; err != nil {
		return err
	}
	if len(vehicles) == 0 {
		return nil
	}
	return db.Create(&vehicles).Error
}

// DeleteCustomer drops the customer and its vehicles and unlinks its documents.
func (r *CustomerRepo) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return r.WithinTransaction(ctx, func(store services.CustomerStore) error {
		tx := store.(*CustomerRepo).db.WithContext(ctx)
		if err := tx.Model(&models.Document{}).Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Vehicle{}).Error; err != nil {
			return err
		}
		return requireAffected(tx.Where("id = ?", id).Delete(&models.Customer{}))
	})
}

func (r *CustomerRepo) FindVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", vehicleID, customerID).
		First(&vehicle).Error
	if err != nil {
		return nil, translate(err)
	}
	return &vehicle, nil
}

func (r *CustomerRepo) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *CustomerRepo) SaveVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *CustomerRepo) DeleteVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", vehicleID, customerID).
		Delete(&models.Vehicle{}))
}
