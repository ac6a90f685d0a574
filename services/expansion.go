package services

import (
	"strings"

	"autoshop-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StandardMaintenanceService is the catalog description that gets the
// pre-printed maintenance checklist as its line text.
const StandardMaintenanceService = "Standard Maintenance Service"

var standardMaintenanceDescription = strings.Join([]string{
	"Standard Maintenance Service",
	"✓ Checked and topped up all fluids",
	"✓ Checked lights, indicators and their operation",
	"✓ Checked front and rear brake shoes/pads",
	"✓ Checked steering and suspension systems",
	"✓ Checked windscreen wipers and washers",
	"✓ Checked the air filter",
	"✓ Inspected the vehicle for safety issues",
	"✓ Checked all external engine belts and hoses",
	"✓ Checked tyres and pressures",
}, "\n")

var (
	one  = models.MoneyInput{Value: decimal.NewFromInt(1), Present: true}
	zero = models.MoneyInput{Value: decimal.Zero, Present: true}
)

// ExpandService turns a catalog service into the lines it adds to a document:
// the service itself, one zero-priced line per bundled product and one
// checklist line per non-blank checklist row. The service line reuses the
// service id so RemoveLine can find its dependants.
func ExpandService(service models.Service, products []models.Product) []LineItemInput {
	serviceID := service.ID.String()

	description := service.Description
	if strings.TrimSpace(description) == StandardMaintenanceService {
		description = standardMaintenanceDescription
	}

	lines := []LineItemInput{{
		ID:          serviceID,
		Description: description,
		Quantity:    one,
		Price:       models.MoneyInput{Value: service.Price.Decimal, Present: true},
	}}

	for _, product := range products {
		lines = append(lines, LineItemInput{
			ID:          uuid.NewString(),
			Description: product.Description,
			Quantity:    one,
			Price:       zero,
			Included:    true,
			IncludedBy:  &serviceID,
		})
	}

	for _, row := range ChecklistRows(service.Checklist) {
		lines = append(lines, LineItemInput{
			ID:          uuid.NewString(),
			Description: row,
			Quantity:    one,
			Price:       zero,
			IsChecklist: true,
			IncludedBy:  &serviceID,
		})
	}
	return lines
}

// ChecklistRows splits checklist text into trimmed, non-blank rows.
func ChecklistRows(checklist *string) []string {
	if checklist == nil {
		return nil
	}
	var rows []string
	for _, row := range strings.Split(*checklist, "\n") {
		if row = strings.TrimSpace(row); row != "" {
			rows = append(rows, row)
		}
	}
	return rows
}

// RemoveLine drops the first line with the given id. Removing a top-level line
// (neither included nor checklist) also drops every line it pulled in.
// An unknown id leaves the list as it was.
func RemoveLine(lines []LineItemInput, id string) []LineItemInput {
	if id == "" {
		return lines
	}
	found := -1
	for i, line := range lines {
		if line.ID == id {
			found = i
			break
		}
	}
	if found < 0 {
		return lines
	}
	cascade := !lines[found].Included && !lines[found].IsChecklist

	kept := make([]LineItemInput, 0, len(lines))
	for i, line := range lines {
		if i == found {
			continue
		}
		if cascade && line.IncludedBy != nil && *line.IncludedBy == id {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}
