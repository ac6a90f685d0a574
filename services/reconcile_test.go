package services

import (
	"errors"
	"testing"

	"autoshop-backend/models"

	"github.com/google/uuid"
)

func storedLine(docID uuid.UUID, desc, qty, price string, position int) models.LineItem {
	return models.LineItem{
		ID:          uuid.New(),
		DocumentID:  docID,
		Description: desc,
		Quantity:    models.MoneyPtr(qty),
		Price:       models.MoneyPtr(price),
		Position:    position,
	}
}

func TestPlanLineItemsUpdatesCreatesAndDeletes(t *testing.T) {
	docID := uuid.New()
	oil := storedLine(docID, "Oil change", "1", "80", 0)
	filter := storedLine(docID, "Oil filter", "1", "25", 1)
	wipers := storedLine(docID, "Wiper blades", "2", "15", 2)

	incoming := []LineItemInput{
		{ID: filter.ID.String(), Description: "Oil filter", Quantity: models.AmountInput("1"), Price: models.AmountInput("27.50")},
		{Description: "Coolant", Quantity: models.AmountInput("2"), Price: models.AmountInput("12")},
		{ID: oil.ID.String(), Description: "Oil change", Quantity: models.AmountInput("1"), Price: models.AmountInput("80")},
	}

	plan := PlanLineItems(docID, []models.LineItem{oil, filter, wipers}, incoming)

	if len(plan.Deletes) != 1 || plan.Deletes[0] != wipers.ID {
		t.Errorf("deletes = %v, want [%s]", plan.Deletes, wipers.ID)
	}
	if len(plan.Creates) != 1 {
		t.Fatalf("creates = %d, want 1", len(plan.Creates))
	}
	created := plan.Creates[0]
	if created.Description != "Coolant" || created.DocumentID != docID || created.Position != 1 {
		t.Errorf("created = %+v", created)
	}
	if created.ID == uuid.Nil || created.ID == oil.ID || created.ID == filter.ID {
		t.Errorf("created line should get a fresh id, got %s", created.ID)
	}

	// filter changed price and position, oil moved from 0 to 2
	if len(plan.Updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(plan.Updates))
	}
	if plan.Updates[0].ID != filter.ID || plan.Updates[0].Price.String() != "27.50" || plan.Updates[0].Position != 0 {
		t.Errorf("filter update = %+v", plan.Updates[0])
	}
	if plan.Updates[1].ID != oil.ID || plan.Updates[1].Position != 2 {
		t.Errorf("oil update = %+v", plan.Updates[1])
	}

	wantOrder := []string{"Oil filter", "Coolant", "Oil change"}
	for i, item := range plan.Result {
		if item.Description != wantOrder[i] || item.Position != i {
			t.Errorf("result[%d] = %s@%d, want %s@%d", i, item.Description, item.Position, wantOrder[i], i)
		}
	}
}

func TestPlanLineItemsReplayIsEmpty(t *testing.T) {
	docID := uuid.New()
	by := "svc-1"
	existing := []models.LineItem{
		storedLine(docID, "Service", "1", "150", 0),
		{ID: uuid.New(), DocumentID: docID, Description: "Spark plugs", Quantity: models.MoneyPtr("1"), Price: models.MoneyPtr("0"), Included: true, IncludedBy: &by, Position: 1},
		{ID: uuid.New(), DocumentID: docID, Description: "Note", Position: 2},
	}
	incoming := make([]LineItemInput, 0, len(existing))
	for _, item := range existing {
		incoming = append(incoming, InputFromLineItem(item))
	}

	plan := PlanLineItems(docID, existing, incoming)
	if !plan.Empty() {
		t.Errorf("replaying stored lines planned writes: %+v", plan)
	}
	if len(plan.Result) != 3 {
		t.Errorf("result has %d lines, want 3", len(plan.Result))
	}
}

func TestPlanLineItemsUnknownIDIsCreated(t *testing.T) {
	docID := uuid.New()
	stranger := uuid.New()
	plan := PlanLineItems(docID, nil, []LineItemInput{
		{ID: stranger.String(), Description: "Labour", Quantity: models.AmountInput("1.5"), Price: models.AmountInput("90")},
	})
	if len(plan.Creates) != 1 || plan.Creates[0].ID == stranger {
		t.Fatalf("an id that belongs to no line should create a new line, got %+v", plan.Creates)
	}
}

func TestPlanLineItemsDuplicateIDMatchesOnce(t *testing.T) {
	docID := uuid.New()
	line := storedLine(docID, "Tyre", "1", "120", 0)
	plan := PlanLineItems(docID, []models.LineItem{line}, []LineItemInput{
		{ID: line.ID.String(), Description: "Tyre", Quantity: models.AmountInput("1"), Price: models.AmountInput("120")},
		{ID: line.ID.String(), Description: "Tyre", Quantity: models.AmountInput("1"), Price: models.AmountInput("120")},
	})
	if len(plan.Updates) != 0 {
		t.Errorf("updates = %d, want 0", len(plan.Updates))
	}
	if len(plan.Creates) != 1 || plan.Creates[0].Position != 1 {
		t.Errorf("second occurrence should be created at position 1, got %+v", plan.Creates)
	}
}

func TestPlanLineItemsEmptyIncomingDeletesAll(t *testing.T) {
	docID := uuid.New()
	a := storedLine(docID, "A", "1", "1", 0)
	b := storedLine(docID, "B", "1", "1", 1)
	plan := PlanLineItems(docID, []models.LineItem{a, b}, nil)
	if len(plan.Deletes) != 2 || plan.Deletes[0] != a.ID || plan.Deletes[1] != b.ID {
		t.Errorf("deletes = %v", plan.Deletes)
	}
}

func TestHydrateOverwritesOmittedFields(t *testing.T) {
	docID := uuid.New()
	by := "svc"
	line := models.LineItem{
		ID: uuid.New(), DocumentID: docID, Description: "Bulb",
		Quantity: models.MoneyPtr("2"), Price: models.MoneyPtr("5"),
		Included: true, IncludedBy: &by,
	}
	plan := PlanLineItems(docID, []models.LineItem{line}, []LineItemInput{
		{ID: line.ID.String(), Description: "Bulb"},
	})
	if len(plan.Updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(plan.Updates))
	}
	got := plan.Updates[0]
	if got.Quantity != nil || got.Price != nil || got.Included || got.IncludedBy != nil {
		t.Errorf("omitted fields should be cleared, got %+v", got)
	}
}

func TestHydrateTrimsIncludedBy(t *testing.T) {
	blank := "   "
	padded := "  abc "
	plan := PlanLineItems(uuid.New(), nil, []LineItemInput{
		{Description: "a", IncludedBy: &blank},
		{Description: "b", IncludedBy: &padded},
	})
	if plan.Creates[0].IncludedBy != nil {
		t.Errorf("blank includedBy should be stored as null")
	}
	if plan.Creates[1].IncludedBy == nil || *plan.Creates[1].IncludedBy != "abc" {
		t.Errorf("includedBy = %v, want abc", plan.Creates[1].IncludedBy)
	}
}

func TestValidateLineItems(t *testing.T) {
	err := ValidateLineItems([]LineItemInput{
		{Description: "ok", Quantity: models.AmountInput("-1"), Price: models.AmountInput("10")},
		{Description: "  ", Price: models.AmountInput("-5")},
		{ID: "not-a-uuid", Description: "x", Quantity: models.MoneyInput{Invalid: true}, Price: models.AmountInput("100000000")},
	})

	var invalid ValidationErrors
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want ValidationErrors", err)
	}
	want := map[string]string{
		"lineItems[1].description": "This value should not be blank.",
		"lineItems[1].price":       "This value should be either positive or zero.",
		"lineItems[2].id":          "This is not a valid UUID.",
		"lineItems[2].quantity":    "This value should be of type numeric.",
		"lineItems[2].price":       "This value should be less than 100000000.",
	}
	if len(invalid) != len(want) {
		t.Fatalf("got %d errors %v, want %d", len(invalid), invalid, len(want))
	}
	for _, fe := range invalid {
		if want[fe.Field] != fe.Message {
			t.Errorf("%s: %q, want %q", fe.Field, fe.Message, want[fe.Field])
		}
	}
}

func TestValidateLineItemsAcceptsNullAmounts(t *testing.T) {
	if err := ValidateLineItems([]LineItemInput{{Description: "Checklist note"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
