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

// DocumentManager is the slice of services.DocumentService the handlers use.
type DocumentManager interface {
	List(ctx context.Context, kind models.DocumentKind) ([]models.Document, error)
	Get(ctx context.Context, kind models.DocumentKind, id uuid.UUID) (*models.Document, error)
	Create(ctx context.Context, kind models.DocumentKind, in services.DocumentInput) (*models.Document, error)
	Update(ctx context.Context, kind models.DocumentKind, id uuid.UUID, in services.DocumentInput) (*models.Document, error)
	Issue(ctx context.Context, kind models.DocumentKind, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, kind models.DocumentKind, id uuid.UUID) error
}

// DocumentController serves one document kind; routes mount one per kind.
type DocumentController struct {
	kind models.DocumentKind
	docs DocumentManager
	view services.Formatter
	log  zerolog.Logger
}

func NewDocumentController(kind models.DocumentKind, docs DocumentManager, view services.Formatter, log zerolog.Logger) *DocumentController {
	return &DocumentController{
		kind: kind,
		docs: docs,
		view: view,
		log:  log.With().Str("component", "documents").Str("kind", string(kind)).Logger(),
	}
}

func (dc *DocumentController) List(c *gin.Context) {
	docs, err := dc.docs.List(c.Request.Context(), dc.kind)
	if err != nil {
		respondServiceError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, dc.view.Documents(docs))
}

func (dc *DocumentController) Get(c *gin.Context) {
	id, ok := parseID(c, "id", dc.kind.Title())
	if !ok {
		return
	}
	doc, err := dc.docs.Get(c.Request.Context(), dc.kind, id)
	if err != nil {
		respondServiceError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, dc.view.Document(*doc))
}

// Create numbers and stores a new document.
func (dc *DocumentController) Create(c *gin.Context) {
	var input services.DocumentInput
	if !bindJSON(c, &input) {
		return
	}
	doc, err := dc.docs.Create(c.Request.Context(), dc.kind, input)
	if err != nil {
		respondServiceError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusCreated, dc.view.Document(*doc))
}

// Update replaces the document with the submitted state, reconciling its
// line items against the stored ones.
func (dc *DocumentController) Update(c *gin.Context) {
	id, ok := parseID(c, "id", dc.kind.Title())
	if !ok {
		return
	}
	var input services.DocumentInput
	if !bindJSON(c, &input) {
		return
	}
	doc, err := dc.docs.Update(c.Request.Context(), dc.kind, id, input)
	if err != nil {
		respondServiceError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, dc.view.Document(*doc))
}

func (dc *DocumentController) Issue(c *gin.Context) {
	id, ok := parseID(c, "id", dc.kind.Title())
	if !ok {
		return
	}
	doc, err := dc.docs.Issue(c.Request.Context(), dc.kind, id)
	if err != nil {
		respondServiceError(c, dc.log, err)
		return
	}
	c.JSON(http.StatusOK, dc.view.Document(*doc))
}

func (dc *DocumentController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", dc.kind.Title())
	if !ok {
		return
	}
	if err := dc.docs.Delete(c.Request.Context(), dc.kind, id); err != nil {
		respondServiceError(c, dc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
