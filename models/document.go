package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentKind separates invoices from quotations. Numbers are unique per kind.
type DocumentKind string

const (
	KindInvoice   DocumentKind = "invoice"
	KindQuotation DocumentKind = "quotation"
)

func (k DocumentKind) Valid() bool {
	return k == KindInvoice || k == KindQuotation
}

// Title is the human label used in messages ("Invoice", "Quotation").
func (k DocumentKind) Title() string {
	switch k {
	case KindInvoice:
		return "Invoice"
	case KindQuotation:
		return "Quotation"
	}
	return string(k)
}

type DocumentStatus string

const (
	StatusDraft  DocumentStatus = "DRAFT"
	StatusIssued DocumentStatus = "ISSUED"
)

// Document is an invoice or a quotation. Customer and vehicle details are
// copied in at creation so later edits to the customer don't rewrite history.
type Document struct {
	ID       uuid.UUID      `gorm:"type:uuid;primary_key"`
	Kind     DocumentKind   `gorm:"type:varchar(20);not null;uniqueIndex:idx_documents_kind_number,priority:1;index:idx_documents_kind_issued_on,priority:1"`
	Number   string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_documents_kind_number,priority:2"`
	IssuedOn time.Time      `gorm:"type:date;not null;index:idx_documents_kind_issued_on,priority:2"`
	Status   DocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`

	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName    string     `gorm:"not null"`
	CustomerAddress *string    `gorm:"type:text"`
	VehicleRego     *string
	VehicleOdo      *string
	VehicleDesc     *string `gorm:"type:text"`

	LineItems []LineItem `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// LineItem is one row of a document. Included and checklist rows occupy a
// position but are never billed.
type LineItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Description string    `gorm:"type:text;not null"`
	Quantity    *Money    `gorm:"type:numeric(10,2)"`
	Price       *Money    `gorm:"type:numeric(10,2)"`
	Included    bool      `gorm:"not null;default:false"`
	IncludedBy  *string   `gorm:"type:varchar(36)"` // id of the service that pulled this line in
	IsChecklist bool      `gorm:"not null;default:false"`
	Position    int       `gorm:"type:smallint;not null"`
}

func (l *LineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// Billable reports whether the line contributes to document totals.
func (l LineItem) Billable() bool {
	return !l.Included && !l.IsChecklist && l.Quantity != nil && l.Price != nil
}

// DateOnly truncates t to its calendar day in t's location and re-expresses it
// as UTC midnight, which is how issue dates are stored.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
