package services

import (
	"context"
	"errors"
	"time"

	"autoshop-backend/models"
	"autoshop-backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultInsertRetries = 3

// DocumentStore persists documents with their line items. WithinTransaction
// hands fn a store bound to a single transaction; a non-nil return rolls it
// back. Lookups of missing rows return ErrNotFound, and a (kind, number)
// unique violation on insert returns ErrDuplicateNumber.
type DocumentStore interface {
	NumberStore
	WithinTransaction(ctx context.Context, fn func(tx DocumentStore) error) error

	ListDocuments(ctx context.Context, kind models.DocumentKind) ([]models.Document, error)
	ListDocumentsIssuedBetween(ctx context.Context, start, end time.Time) ([]models.Document, error)
	FindDocument(ctx context.Context, kind models.DocumentKind, id uuid.UUID) (*models.Document, error)
	CreateDocument(ctx context.Context, doc *models.Document) error
	// UpdateDocument writes header fields only; line items go through ApplyLineItems.
	UpdateDocument(ctx context.Context, doc *models.Document) error
	ApplyLineItems(ctx context.Context, documentID uuid.UUID, plan LineItemPlan) error
	DeleteDocument(ctx context.Context, kind models.DocumentKind, id uuid.UUID) error

	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
}

// DocumentInput is the desired state of an invoice or quotation.
type DocumentInput struct {
	CustomerID      *string         `json:"customerId" validate:"omitempty,uuid"`
	CustomerName    string          `json:"customerName" validate:"notblank"`
	CustomerAddress *string         `json:"customerAddress"`
	VehicleRego     *string         `json:"vehicleRego"`
	VehicleOdo      *string         `json:"vehicleOdo"`
	VehicleDesc     *string         `json:"vehicleDesc"`
	Date            *string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status          *string         `json:"status" validate:"omitempty,oneof=DRAFT ISSUED"`
	LineItems       []LineItemInput `json:"lineItems" validate:"required,min=1"`
}

// Validate checks the document fields and every line item before anything
// is written.
func (in DocumentInput) Validate() error {
	errs := checkStruct(in)
	errs = append(errs, lineItemErrors(in.LineItems)...)
	return errs.orNil()
}

type DocumentOptions struct {
	InsertRetries int
	Location      *time.Location
	Now           func() time.Time
}

// DocumentService owns the invoice and quotation lifecycle: numbering on
// create, line item reconciliation on update, one transaction per call.
type DocumentService struct {
	store         DocumentStore
	numbers       *NumberGenerator
	insertRetries int
	location      *time.Location
	now           func() time.Time
	log           zerolog.Logger
}

func NewDocumentService(store DocumentStore, numbers *NumberGenerator, opts DocumentOptions, log zerolog.Logger) *DocumentService {
	if opts.InsertRetries < 0 {
		opts.InsertRetries = 0
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DocumentService{
		store:         store,
		numbers:       numbers,
		insertRetries: opts.InsertRetries,
		location:      opts.Location,
		now:           opts.Now,
		log:           log.With().Str("component", "documents").Logger(),
	}
}

func (s *DocumentService) List(ctx context.Context, kind models.DocumentKind) ([]models.Document, error) {
	return s.store.ListDocuments(ctx, kind)
}

func (s *DocumentService) Get(ctx context.Context, kind models.DocumentKind, id uuid.UUID) (*models.Document, error) {
	doc, err := s.store.FindDocument(ctx, kind, id)
	if err != nil {
		return nil, asNotFound(err, kind.Title(), id.String())
	}
	return doc, nil
}

// Create numbers and stores a new document. If a concurrent request takes the
// chosen number first the whole transaction is replayed with a fresh number.
func (s *DocumentService) Create(ctx context.Context, kind models.DocumentKind, in DocumentInput) (*models.Document, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	issuedOn, err := s.issueDate(in.Date)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		doc := s.newDocument(kind, in, issuedOn)
		err := s.store.WithinTransaction(ctx, func(tx DocumentStore) error {
			if err := s.attachCustomer(ctx, tx, doc, in); err != nil {
				return err
			}
			number, err := s.numbers.Next(ctx, tx, kind, issuedOn)
			if err != nil {
				return err
			}
			doc.Number = number
			return tx.CreateDocument(ctx, doc)
		})
		if errors.Is(err, ErrDuplicateNumber) && attempt < s.insertRetries {
			s.log.Warn().Str("kind", string(kind)).Str("number", doc.Number).Int("attempt", attempt+1).
				Msg("document number taken concurrently, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.Info().Str("kind", string(kind)).Str("id", doc.ID.String()).Str("number", doc.Number).
			Int("lines", len(doc.LineItems)).Msg("document created")
		return doc, nil
	}
}

// Update overwrites the header snapshot and reconciles the line items. The
// number is never reassigned.
func (s *DocumentService) Update(ctx context.Context, kind models.DocumentKind, id uuid.UUID, in DocumentInput) (*models.Document, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var issuedOn *time.Time
	if in.Date != nil && *in.Date != "" {
		d, err := s.issueDate(in.Date)
		if err != nil {
			return nil, err
		}
		issuedOn = &d
	}

	var result *models.Document
	err := s.store.WithinTransaction(ctx, func(tx DocumentStore) error {
		doc, err := tx.FindDocument(ctx, kind, id)
		if err != nil {
			return asNotFound(err, kind.Title(), id.String())
		}

		applySnapshot(doc, in)
		if issuedOn != nil {
			doc.IssuedOn = *issuedOn
		}
		if in.Status != nil && *in.Status != "" {
			doc.Status = models.DocumentStatus(*in.Status)
		}
		if utils.NonEmpty(in.CustomerID) {
			customer, err := s.findCustomer(ctx, tx, *in.CustomerID)
			if err != nil {
				return err
			}
			doc.CustomerID = &customer.ID
		}

		plan := PlanLineItems(doc.ID, doc.LineItems, in.LineItems)
		if err := tx.UpdateDocument(ctx, doc); err != nil {
			return err
		}
		if err := tx.ApplyLineItems(ctx, doc.ID, plan); err != nil {
			return err
		}
		doc.LineItems = plan.Result

		s.log.Debug().Str("id", doc.ID.String()).Int("updated", len(plan.Updates)).
			Int("created", len(plan.Creates)).Int("deleted", len(plan.Deletes)).Msg("line items reconciled")
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Issue moves a document to ISSUED. Issuing twice is harmless.
func (s *DocumentService) Issue(ctx context.Context, kind models.DocumentKind, id uuid.UUID) (*models.Document, error) {
	var result *models.Document
	err := s.store.WithinTransaction(ctx, func(tx DocumentStore) error {
		doc, err := tx.FindDocument(ctx, kind, id)
		if err != nil {
			return asNotFound(err, kind.Title(), id.String())
		}
		if doc.Status != models.StatusIssued {
			doc.Status = models.StatusIssued
			if err := tx.UpdateDocument(ctx, doc); err != nil {
				return err
			}
		}
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DocumentService) Delete(ctx context.Context, kind models.DocumentKind, id uuid.UUID) error {
	if err := s.store.DeleteDocument(ctx, kind, id); err != nil {
		return asNotFound(err, kind.Title(), id.String())
	}
	s.log.Info().Str("kind", string(kind)).Str("id", id.String()).Msg("document deleted")
	return nil
}

func (s *DocumentService) issueDate(date *string) (time.Time, error) {
	if date == nil || *date == "" {
		return models.DateOnly(s.now().In(s.location)), nil
	}
	t, err := utils.ParseDate(*date, s.location)
	if err != nil {
		return time.Time{}, ValidationErrors{{Field: "date", Message: "This value is not a valid date."}}
	}
	return models.DateOnly(t), nil
}

func (s *DocumentService) newDocument(kind models.DocumentKind, in DocumentInput, issuedOn time.Time) *models.Document {
	doc := &models.Document{
		ID:       uuid.New(),
		Kind:     kind,
		IssuedOn: issuedOn,
		Status:   models.StatusDraft,
	}
	if in.Status != nil && *in.Status != "" {
		doc.Status = models.DocumentStatus(*in.Status)
	}
	applySnapshot(doc, in)
	doc.LineItems = newLineItems(doc.ID, in.LineItems)
	return doc
}

// attachCustomer links the named customer, or files the snapshot as a new
// customer (with a vehicle when one was described) when no id was given.
func (s *DocumentService) attachCustomer(ctx context.Context, tx DocumentStore, doc *models.Document, in DocumentInput) error {
	if utils.NonEmpty(in.CustomerID) {
		customer, err := s.findCustomer(ctx, tx, *in.CustomerID)
		if err != nil {
			return err
		}
		doc.CustomerID = &customer.ID
		return nil
	}

	customer := &models.Customer{
		ID:      uuid.New(),
		Name:    in.CustomerName,
		Address: utils.StringOrNil(in.CustomerAddress),
	}
	if utils.NonEmpty(in.VehicleRego) || utils.NonEmpty(in.VehicleDesc) {
		customer.Vehicles = append(customer.Vehicles, models.Vehicle{
			ID:          uuid.New(),
			CustomerID:  customer.ID,
			Rego:        utils.StringOrNil(in.VehicleRego),
			Odo:         utils.StringOrNil(in.VehicleOdo),
			Description: utils.StringOrNil(in.VehicleDesc),
		})
	}
	if err := tx.CreateCustomer(ctx, customer); err != nil {
		return err
	}
	doc.CustomerID = &customer.ID
	return nil
}

func (s *DocumentService) findCustomer(ctx context.Context, tx DocumentStore, rawID string) (*models.Customer, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, NotFound("Customer", rawID)
	}
	customer, err := tx.FindCustomer(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "Customer", rawID)
	}
	return customer, nil
}

func applySnapshot(doc *models.Document, in DocumentInput) {
	doc.CustomerName = in.CustomerName
	doc.CustomerAddress = in.CustomerAddress
	doc.VehicleRego = in.VehicleRego
	doc.VehicleOdo = in.VehicleOdo
	doc.VehicleDesc = in.VehicleDesc
}
