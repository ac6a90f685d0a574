package repository

import (
	"context"

	"autoshop-backend/models"
	"autoshop-backend/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepo struct {
	db   *gorm.DB
	inTx bool
}

func NewCatalogRepo(db *gorm.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) WithinTransaction(ctx context.Context, fn func(tx services.CatalogStore) error) error {
	if r.inTx {
		return fn(r)
	}
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&CatalogRepo{db: tx, inTx: true})
	})
}

func (r *CatalogRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("description ASC").Find(&products).Error
	return products, err
}

func (r *CatalogRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *CatalogRepo) FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *CatalogRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DeleteProduct also drops it from every service that bundled it.
func (r *CatalogRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.WithinTransaction(ctx, func(store services.CatalogStore) error {
		tx := store.(*CatalogRepo).db.WithContext(ctx)
		if err := tx.Where("product_id = ?", id).Delete(&models.ServiceProduct{}).Error; err != nil {
			return err
		}
		return requireAffected(tx.Where("id = ?", id).Delete(&models.Product{}))
	})
}

func (r *CatalogRepo) withInclusions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Inclusions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Inclusions.Product")
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	var list []models.Service
	err := r.withInclusions(ctx).Order("description ASC").Find(&list).Error
	return list, err
}

func (r *CatalogRepo) FindService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.withInclusions(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &service, nil
}

func (r *CatalogRepo) CreateService(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(service).Error
}

func (r *CatalogRepo) SaveService(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(service).Error
}

// ReplaceInclusions rewrites the bundled product list; positions follow productIDs.
func (r *CatalogRepo) ReplaceInclusions(ctx context.Context, serviceID uuid.UUID, productIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("service_id = ?", serviceID).Delete(&models.ServiceProduct{}).Error; err != nil {
		return err
	}
	if len(productIDs) == 0 {
		return nil
	}
	rows := make([]models.ServiceProduct, 0, len(productIDs))
	for i, id := range productIDs {
		rows = append(rows, models.ServiceProduct{ServiceID: serviceID, ProductID: id, Position: i})
	}
	return db.Omit(clause.Associations).Create(&rows).Error
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id uuid.UUID) error {
	return r.WithinTransaction(ctx, func(store services.CatalogStore) error {
		tx := store.(*CatalogRepo).db.WithContext(ctx)
		if err := tx.Where("service_id = ?", id).Delete(&models.ServiceProduct{}).Error; err != nil {
			return err
		}
		return requireAffected(tx.Where("id = ?", id).Delete(&models.Service{}))
	})
}
