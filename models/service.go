package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Description string    `gorm:"not null"`
	Price       Money     `gorm:"type:numeric(10,2);not null"`
	Checklist   *string   `gorm:"type:text"` // newline separated

	Inclusions []ServiceProduct `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// IncludedProducts returns the bundled products in inclusion order.
func (s Service) IncludedProducts() []Product {
	products := make([]Product, 0, len(s.Inclusions))
	for _, inc := range s.Inclusions {
		products = append(products, inc.Product)
	}
	return products
}

// ServiceProduct is the join row between a service and a product it bundles.
// Neither side owns the other; deleting either removes only the join row.
type ServiceProduct struct {
	ServiceID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position  int       `gorm:"not null;default:0"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (ServiceProduct) TableName() string {
	return "service_included_products"
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Description string    `gorm:"not null"`
	Price       Money     `gorm:"type:numeric(10,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
