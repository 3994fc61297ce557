package domain

import (
	"time"

	"github.com/orcafacil/api/internal/conflict"
)

// Material is a catalog line item referenced by invoices. Unlike customers
// and invoices, catalog items are scoped by an owning account id column.
type Material struct {
	ID          string
	AccountID   string
	Name        string
	Description string
	Price       float64
	Count       int
	Icon        string
	Modifier    string
	Touched     conflict.Clock
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// MaterialFields lists the patchable fields tracked by the material's clock.
var MaterialFields = []string{"name", "description", "price", "count", "icon", "modifier"}

// Equipment is a catalog line item with a simpler shape than Material.
type Equipment struct {
	ID          string
	AccountID   string
	Name        string
	Description string
	Price       float64
	Count       int
	Touched     conflict.Clock
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// EquipmentFields lists the patchable fields tracked by the equipment's clock.
var EquipmentFields = []string{"name", "description", "price", "count"}
