package services

import (
	"sort"

	"autoshop-backend/models"
	"autoshop-backend/utils"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the GST rate applied on printed documents.
var DefaultTaxRate = decimal.RequireFromString("0.10")

type Totals struct {
	Subtotal models.Money `json:"subtotal"`
	Tax      models.Money `json:"tax"`
	Total    models.Money `json:"total"`
}

// ComputeTotals sums quantity times price over billable lines, each line
// rounded to cents first.
func ComputeTotals(items []models.LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		if !item.Billable() {
			continue
		}
		subtotal = subtotal.Add(item.Quantity.Mul(item.Price.Decimal).Round(models.MoneyScale))
	}
	tax := models.NewMoney(subtotal.Mul(taxRate))
	return Totals{
		Subtotal: models.NewMoney(subtotal),
		Tax:      tax,
		Total:    models.NewMoney(subtotal.Add(tax.Decimal)),
	}
}

// Formatter renders stored records into API shapes.
type Formatter struct {
	TaxRate decimal.Decimal
}

func NewFormatter(taxRate decimal.Decimal) Formatter {
	return Formatter{TaxRate: taxRate}
}

type LineItemView struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Quantity    *models.Money `json:"quantity"`
	Price       *models.Money `json:"price"`
	Included    bool          `json:"included"`
	IncludedBy  *string       `json:"includedBy"`
	IsChecklist bool          `json:"isChecklist"`
	Position    int           `json:"position"`
}

type DocumentView struct {
	ID              string         `json:"id"`
	Kind            string         `json:"kind"`
	Number          string         `json:"number"`
	InvoiceNumber   string         `json:"invoiceNumber,omitempty"`
	QuotationNumber string         `json:"quotationNumber,omitempty"`
	CustomerID      *string        `json:"customerId"`
	Date            string         `json:"date"`
	CustomerName    string         `json:"customerName"`
	CustomerAddress *string        `json:"customerAddress"`
	VehicleRego     *string        `json:"vehicleRego"`
	VehicleOdo      *string        `json:"vehicleOdo"`
	VehicleDesc     *string        `json:"vehicleDesc"`
	Status          string         `json:"status"`
	LineItems       []LineItemView `json:"lineItems"`
	Totals
}

func (f Formatter) Document(doc models.Document) DocumentView {
	items := make([]models.LineItem, len(doc.LineItems))
	copy(items, doc.LineItems)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	view := DocumentView{
		ID:              doc.ID.String(),
		Kind:            string(doc.Kind),
		Number:          doc.Number,
		Date:            doc.IssuedOn.Format(utils.DateLayout),
		CustomerName:    doc.CustomerName,
		CustomerAddress: doc.CustomerAddress,
		VehicleRego:     doc.VehicleRego,
		VehicleOdo:      doc.VehicleOdo,
		VehicleDesc:     doc.VehicleDesc,
		Status:          string(doc.Status),
		LineItems:       make([]LineItemView, 0, len(items)),
		Totals:          ComputeTotals(items, f.TaxRate),
	}
	if doc.Kind == models.KindQuotation {
		view.QuotationNumber = doc.Number
	} else {
		view.InvoiceNumber = doc.Number
	}
	if doc.CustomerID != nil {
		id := doc.CustomerID.String()
		view.CustomerID = &id
	}
	for _, item := range items {
		view.LineItems = append(view.LineItems, LineItemView{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Included:    item.Included,
			IncludedBy:  item.IncludedBy,
			IsChecklist: item.IsChecklist,
			Position:    item.Position,
		})
	}
	return view
}

func (f Formatter) Documents(docs []models.Document) []DocumentView {
	views := make([]DocumentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, f.Document(doc))
	}
	return views
}

type VehicleView struct {
	ID   string  `json:"id"`
	Rego *string `json:"rego"`
	Odo  *string `json:"odo"`
	Desc *string `json:"desc"`
}

type CustomerView struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Address  *string       `json:"address"`
	Vehicles []VehicleView `json:"vehicles"`
}

func (f Formatter) Vehicle(v models.Vehicle) VehicleView {
	return VehicleView{ID: v.ID.String(), Rego: v.Rego, Odo: v.Odo, Desc: v.Description}
}

func (f Formatter) Customer(c models.Customer) CustomerView {
	view := CustomerView{
		ID:       c.ID.String(),
		Name:     c.Name,
		Address:  c.Address,
		Vehicles: make([]VehicleView, 0, len(c.Vehicles)),
	}
	for _, v := range c.Vehicles {
		view.Vehicles = append(view.Vehicles, f.Vehicle(v))
	}
	return view
}

func (f Formatter) Customers(customers []models.Customer) []CustomerView {
	views := make([]CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, f.Customer(c))
	}
	return views
}

type ProductView struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
}

type ServiceView struct {
	ID                 string       `json:"id"`
	Type               string       `json:"type"`
	Description        string       `json:"description"`
	Price              models.Money `json:"price"`
	Checklist          *string      `json:"checklist"`
	IncludedProductIDs []string     `json:"includedProductIds"`
}

func (f Formatter) Product(p models.Product) ProductView {
	return ProductView{ID: p.ID.String(), Type: "product", Description: p.Description, Price: p.Price}
}

func (f Formatter) Products(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, f.Product(p))
	}
	return views
}

func (f Formatter) Service(s models.Service) ServiceView {
	view := ServiceView{
		ID:                 s.ID.String(),
		Type:               "service",
		Description:        s.Description,
		Price:              s.Price,
		Checklist:          s.Checklist,
		IncludedProductIDs: make([]string, 0, len(s.Inclusions)),
	}
	for _, p := range s.IncludedProducts() {
		view.IncludedProductIDs = append(view.IncludedProductIDs, p.ID.String())
	}
	return view
}

func (f Formatter) Services(services []models.Service) []ServiceView {
	views := make([]ServiceView, 0, len(services))
	for _, s := range services {
		views = append(views, f.Service(s))
	}
	return views
}
