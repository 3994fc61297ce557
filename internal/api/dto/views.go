package dto

import (
	"time"

	"github.com/orcafacil/api/internal/domain"
)

// Views are the fixed public projections returned by the API. Credentials and
// soft-delete bookkeeping never appear here.

// AddressView mirrors the domain address shape.
type AddressView struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	ZipCode      string `json:"zip_code"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// AccountView is the public projection of an account.
type AccountView struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	Address     AddressView `json:"address"`
	Status      string      `json:"status"`
	CustomerIDs []string    `json:"customer_ids"`
	InvoiceIDs  []string    `json:"invoice_ids"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AuthResponse carries an issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CustomerView is the public projection of a customer.
type CustomerView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	TaxID     string      `json:"tax_id"`
	Address   AddressView `json:"address"`
	CreatedAt time.Time   `json:"created_at"`
}

// LaborItemView is one labor line of an invoice.
type LaborItemView struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Hours       float64 `json:"hours"`
	Price       float64 `json:"price"`
}

// InvoiceView is the public projection of an invoice.
type InvoiceView struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	Labor        []LaborItemView `json:"labor"`
	MaterialIDs  []string        `json:"material_ids"`
	EquipmentIDs []string        `json:"equipment_ids"`
	Addition     float64         `json:"addition"`
	Discount     float64         `json:"discount"`
	Total        float64         `json:"total"`
	PropertyType string          `json:"property_type"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MaterialView is the public projection of a catalog material.
type MaterialView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Count       int       `json:"count"`
	Icon        string    `json:"icon"`
	Modifier    string    `json:"modifier"`
	CreatedAt   time.Time `json:"created_at"`
}

// EquipmentView is the public projection of a catalog equipment item.
type EquipmentView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Count       int       `json:"count"`
	CreatedAt   time.Time `json:"created_at"`
}

func addressView(a domain.Address) AddressView {
	return AddressView{
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		ZipCode:      a.ZipCode,
		City:         a.City,
		State:        a.State,
	}
}

// NewAccountView projects a domain account.
func NewAccountView(a *domain.Account) AccountView {
	return AccountView{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Phone:       a.Phone,
		Address:     addressView(a.Address),
		Status:      string(a.Status),
		CustomerIDs: a.CustomerIDs,
		InvoiceIDs:  a.InvoiceIDs,
		CreatedAt:   a.CreatedAt,
	}
}

// NewCustomerView projects a domain customer.
func NewCustomerView(c *domain.Customer) CustomerView {
	return CustomerView{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   addressView(c.Address),
		CreatedAt: c.CreatedAt,
	}
}

// NewCustomerViews projects a list of customers.
func NewCustomerViews(customers []domain.Customer) []CustomerView {
	views := make([]CustomerView, 0, len(customers))
	for i := range customers {
		views = append(views, NewCustomerView(&customers[i]))
	}
	return views
}

// NewInvoiceView projects a domain invoice.
func NewInvoiceView(inv *domain.Invoice) InvoiceView {
	labor := make([]LaborItemView, 0, len(inv.Labor))
	for _, item := range inv.Labor {
		labor = append(labor, LaborItemView(item))
	}
	return InvoiceView{
		ID:           inv.ID,
		CustomerID:   inv.CustomerID,
		Date:         inv.Date,
		Description:  inv.Description,
		Labor:        labor,
		MaterialIDs:  inv.MaterialIDs,
		EquipmentIDs: inv.EquipmentIDs,
		Addition:     inv.Addition,
		Discount:     inv.Discount,
		Total:        inv.Total,
		PropertyType: string(inv.PropertyType),
		CreatedAt:    inv.CreatedAt,
	}
}

// NewInvoiceViews projects a list of invoices.
func NewInvoiceViews(invoices []domain.Invoice) []InvoiceView {
	views := make([]InvoiceView, 0, len(invoices))
	for i := range invoices {
		views = append(views, NewInvoiceView(&invoices[i]))
	}
	return views
}

// NewMaterialView projects a domain material.
func NewMaterialView(m *domain.Material) MaterialView {
	return MaterialView{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Count:       m.Count,
		Icon:        m.Icon,
		Modifier:    m.Modifier,
		CreatedAt:   m.CreatedAt,
	}
}

// NewMaterialViews projects a list of materials.
func NewMaterialViews(materials []domain.Material) []MaterialView {
	views := make([]MaterialView, 0, len(materials))
	for i := range materials {
		views = append(views, NewMaterialView(&materials[i]))
	}
	return views
}

// NewEquipmentView projects a domain equipment item.
func NewEquipmentView(e *domain.Equipment) EquipmentView {
	return EquipmentView{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		Count:       e.Count,
		CreatedAt:   e.CreatedAt,
	}
}

// NewEquipmentViews projects a list of equipment.
func NewEquipmentViews(equipment []domain.Equipment) []EquipmentView {
	views := make([]EquipmentView, 0, len(equipment))
	for i := range equipment {
		views = append(views, NewEquipmentView(&equipment[i]))
	}
	return views
}
