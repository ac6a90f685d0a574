package services

import (
	"fmt"
	"strings"

	"autoshop-backend/models"

	"github.com/google/uuid"
)

// LineItemInput is one desired line as submitted by a client. ID is optional;
// when it names an existing line of the document that line is updated.
type LineItemInput struct {
	ID          string            `json:"id,omitempty" validate:"omitempty,uuid"`
	Description string            `json:"description" validate:"notblank"`
	Quantity    models.MoneyInput `json:"quantity"`
	Price       models.MoneyInput `json:"price"`
	Included    bool              `json:"included"`
	IncludedBy  *string           `json:"includedBy"`
	IsChecklist bool              `json:"isChecklist"`
}

// ValidateLineItems checks the whole list and returns every failure at once.
func ValidateLineItems(items []LineItemInput) error {
	return lineItemErrors(items).orNil()
}

func lineItemErrors(items []LineItemInput) ValidationErrors {
	var errs ValidationErrors
	for i, item := range items {
		errs = append(errs, item.fieldErrors(fmt.Sprintf("lineItems[%d]", i))...)
	}
	return errs
}

func (in LineItemInput) fieldErrors(prefix string) ValidationErrors {
	var errs ValidationErrors
	for _, fe := range checkStruct(in) {
		errs.add(prefix+"."+fe.Field, fe.Message)
	}
	checkAmount(&errs, prefix+".quantity", in.Quantity, amountRule{allowNegative: true})
	checkAmount(&errs, prefix+".price", in.Price, amountRule{})
	return errs
}

// hydrate overwrites every client-controlled field of item.
func (in LineItemInput) hydrate(item *models.LineItem, position int) {
	item.Description = in.Description
	item.Quantity = in.Quantity.Money()
	item.Price = in.Price.Money()
	item.Included = in.Included
	item.IncludedBy = nil
	if in.IncludedBy != nil && strings.TrimSpace(*in.IncludedBy) != "" {
		by := strings.TrimSpace(*in.IncludedBy)
		item.IncludedBy = &by
	}
	item.IsChecklist = in.IsChecklist
	item.Position = position
}

// InputFromLineItem converts a stored line back into request form.
func InputFromLineItem(item models.LineItem) LineItemInput {
	return LineItemInput{
		ID:          item.ID.String(),
		Description: item.Description,
		Quantity:    models.InputFromMoney(item.Quantity),
		Price:       models.InputFromMoney(item.Price),
		Included:    item.Included,
		IncludedBy:  item.IncludedBy,
		IsChecklist: item.IsChecklist,
	}
}

// LineItemPlan is the set of writes that converges a document's stored lines
// to a submitted list.
type LineItemPlan struct {
	Updates []models.LineItem
	Creates []models.LineItem
	Deletes []uuid.UUID
	// Result is the final line list in position order.
	Result []models.LineItem
}

func (p LineItemPlan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Creates) == 0 && len(p.Deletes) == 0
}

// PlanLineItems matches incoming lines to existing ones by id. Matched lines
// are updated in place, unmatched ones are created under fresh ids and
// existing lines nobody claimed are deleted. Positions are the incoming
// indexes. An id used twice only matches on its first occurrence.
//
// Lines whose stored state already equals the desired state are left out of
// Updates, so replaying the current list plans nothing.
func PlanLineItems(documentID uuid.UUID, existing []models.LineItem, incoming []LineItemInput) LineItemPlan {
	remaining := make(map[uuid.UUID]models.LineItem, len(existing))
	for _, item := range existing {
		remaining[item.ID] = item
	}

	plan := LineItemPlan{Result: make([]models.LineItem, 0, len(incoming))}
	for position, in := range incoming {
		if id, err := uuid.Parse(in.ID); err == nil {
			if current, ok := remaining[id]; ok {
				delete(remaining, id)
				updated := current
				in.hydrate(&updated, position)
				if !sameLineItem(current, updated) {
					plan.Updates = append(plan.Updates, updated)
				}
				plan.Result = append(plan.Result, updated)
				continue
			}
		}

		created := models.LineItem{ID: uuid.New(), DocumentID: documentID}
		in.hydrate(&created, position)
		plan.Creates = append(plan.Creates, created)
		plan.Result = append(plan.Result, created)
	}

	// keep deletes in stored order for stable SQL and tests
	for _, item := range existing {
		if _, ok := remaining[item.ID]; ok {
			plan.Deletes = append(plan.Deletes, item.ID)
		}
	}
	return plan
}

func sameLineItem(a, b models.LineItem) bool {
	return a.Description == b.Description &&
		models.EqualMoney(a.Quantity, b.Quantity) &&
		models.EqualMoney(a.Price, b.Price) &&
		a.Included == b.Included &&
		equalStringPtr(a.IncludedBy, b.IncludedBy) &&
		a.IsChecklist == b.IsChecklist &&
		a.Position == b.Position
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// newLineItems builds the lines of a freshly created document.
func newLineItems(documentID uuid.UUID, incoming []LineItemInput) []models.LineItem {
	return PlanLineItems(documentID, nil, incoming).Creates
}
