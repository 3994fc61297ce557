package domain

import (
	"time"

	"github.com/orcafacil/api/internal/conflict"
)

// PropertyType enumerates the kind of property an invoice refers to.
type PropertyType string

const (
	PropertyApartment  PropertyType = "Apartamento"
	PropertyHouse      PropertyType = "Casa"
	PropertyCommercial PropertyType = "Comercial"
)

// PropertyTypes lists the accepted values in enum order.
var PropertyTypes = []string{
	string(PropertyApartment),
	string(PropertyHouse),
	string(PropertyCommercial),
}

// LaborItem is a line of labor charged on an invoice.
type LaborItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Price       float64 `json:"price"`
}

// Invoice is a billing document owned by one account and addressed to one of
// its customers. The customer reference is immutable after creation.
type Invoice struct {
	ID           string
	CustomerID   string
	Date         time.Time
	Description  string
	Labor        []LaborItem
	MaterialIDs  []string
	EquipmentIDs []string
	Addition     float64
	Discount     float64
	Total        float64
	PropertyType PropertyType
	Touched      conflict.Clock
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// InvoiceFields lists the patchable fields tracked by the invoice's clock.
// The id and customer reference are deliberately absent.
var InvoiceFields = []string{
	"date", "description", "labor", "material_ids", "equipment_ids",
	"addition", "discount", "property_type",
}

// ComputeTotal derives the invoice total from its lines and adjustments.
func (i *Invoice) ComputeTotal() float64 {
	total := i.Addition - i.Discount
	for _, item := range i.Labor {
		total += item.Price
	}
	return total
}
