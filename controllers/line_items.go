package controllers

import (
	"net/http"

	"autoshop-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExpandInput struct {
	ServiceID string                   `json:"serviceId"`
	LineItems []services.LineItemInput `json:"lineItems"`
}

type RemoveInput struct {
	ID        string                   `json:"id"`
	LineItems []services.LineItemInput `json:"lineItems"`
}

type lineItemsResponse struct {
	LineItems []services.LineItemInput `json:"lineItems"`
}

// ExpandLineItems appends a service, its bundled products and its checklist
// lines to the working list the client sent.
func (cc *CatalogController) ExpandLineItems(c *gin.Context) {
	var input ExpandInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := uuid.Parse(input.ServiceID)
	if err != nil {
		respondServiceError(c, cc.log, services.ValidationErrors{
			{Field: "serviceId", Message: "This is not a valid UUID."},
		})
		return
	}

	expanded, err := cc.catalog.Expand(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, cc.log, err)
		return
	}
	lines := make([]services.LineItemInput, 0, len(input.LineItems)+len(expanded))
	lines = append(lines, input.LineItems...)
	lines = append(lines, expanded...)
	c.JSON(http.StatusOK, lineItemsResponse{LineItems: lines})
}

// RemoveLineItem drops one line from the working list, cascading to the
// lines a top-level line pulled in.
func (cc *CatalogController) RemoveLineItem(c *gin.Context) {
	var input RemoveInput
	if !bindJSON(c, &input) {
		return
	}
	lines := services.RemoveLine(input.LineItems, input.ID)
	if lines == nil {
		lines = []services.LineItemInput{}
	}
	c.JSON(http.StatusOK, lineItemsResponse{LineItems: lines})
}
