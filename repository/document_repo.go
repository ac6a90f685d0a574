package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoshop-backend/models"
	"autoshop-backend/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// header columns written by UpdateDocument
var documentHeaderColumns = []string{
	"issued_on", "status", "customer_id", "customer_name", "customer_address",
	"vehicle_rego", "vehicle_odo", "vehicle_desc", "updated_at",
}

type DocumentRepo struct {
	db   *gorm.DB
	inTx bool
}

func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) WithinTransaction(ctx context.Context, fn func(tx services.DocumentStore) error) error {
	if r.inTx {
		return fn(r)
	}
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&DocumentRepo{db: tx, inTx: true})
	})
}

func (r *DocumentRepo) CountIssuedBetween(ctx context.Context, kind models.DocumentKind, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("kind = ? AND issued_on >= ? AND issued_on < ?", kind, start, end).
		Count(&count).Error
	return count, err
}

func (r *DocumentRepo) NumberExists(ctx context.Context, kind models.DocumentKind, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("kind = ? AND number = ?", kind, number).
		Count(&count).Error
	return count > 0, err
}

func (r *DocumentRepo) withLineItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("LineItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *DocumentRepo) ListDocuments(ctx context.Context, kind models.DocumentKind) ([]models.Document, error) {
	var docs []models.Document
	err := r.withLineItems(ctx).
		Where("kind = ?", kind).
		Order("issued_on DESC, created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepo) ListDocumentsIssuedBetween(ctx context.Context, start, end time.Time) ([]models.Document, error) {
	var docs []models.Document
	err := r.withLineItems(ctx).
		Where("issued_on >= ? AND issued_on < ?", start, end).
		Order("kind ASC, number ASC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepo) FindDocument(ctx context.Context, kind models.DocumentKind, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.withLineItems(ctx).Where("kind = ? AND id = ?", kind, id).First(&doc).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// CreateDocument inserts the document and its line items.
func (r *DocumentRepo) CreateDocument(ctx context.Context, doc *models.Document) error {
	err := r.db.WithContext(ctx).Create(doc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s %s", services.ErrDuplicateNumber, doc.Kind, doc.Number)
	}
	return err
}

func (r *DocumentRepo) UpdateDocument(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Model(doc).Select(documentHeaderColumns).Updates(doc).Error
}

// ApplyLineItems writes a reconciliation plan: deletes, then updates, then inserts.
func (r *DocumentRepo) ApplyLineItems(ctx context.Context, documentID uuid.UUID, plan services.LineItemPlan) error {
	db := r.db.WithContext(ctx)
	if len(plan.Deletes) > 0 {
		if err := db.Where("document_id = ? AND id IN ?", documentID, plan.Deletes).
			Delete(&models.LineItem{}).Error; err != nil {
			return fmt.Errorf("delete line items: %w", err)
		}
	}
	for i := range plan.Updates {
		item := plan.Updates[i]
		if err := db.Model(&item).Select("*").Omit("id", "document_id").Updates(&item).Error; err != nil {
			return fmt.Errorf("update line item %s: %w", item.ID, err)
		}
	}
	if len(plan.Creates) > 0 {
		creates := make([]models.LineItem, len(plan.Creates))
		copy(creates, plan.Creates)
		for i := range creates {
			creates[i].DocumentID = documentID
		}
		if err := db.Create(&creates).Error; err != nil {
			return fmt.Errorf("insert line items: %w", err)
		}
	}
	return nil
}

// DeleteDocument removes the document and every line item it owns.
func (r *DocumentRepo) DeleteDocument(ctx context.Context, kind models.DocumentKind, id uuid.UUID) error {
	return r.WithinTransaction(ctx, func(store services.DocumentStore) error {
		tx := store.(*DocumentRepo).db.WithContext(ctx)
		if err := tx.Where("document_id IN (?)",
			tx.Model(&models.Document{}).Select("id").Where("kind = ? AND id = ?", kind, id),
		).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		return requireAffected(tx.Where("kind = ? AND id = ?", kind, id).Delete(&models.Document{}))
	})
}

func (r *DocumentRepo) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return findCustomer(ctx, r.db, id)
}

func (r *DocumentRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}
