package domain

import (
	"time"

	"github.com/orcafacil/api/internal/conflict"
)

// Customer is a billable client owned by exactly one account. Ownership is
// defined by membership in the account's customer id list, not by a column
// on the customer itself.
type Customer struct {
	ID        string
	Name      string
	Address   Address
	TaxID     string
	Touched   conflict.Clock
	CreatedAt time.Time
	DeletedAt *time.Time
}

// CustomerFields lists the patchable fields tracked by the customer's clock.
var CustomerFields = []string{
	"name", "tax_id",
	"street", "number", "complement", "neighborhood", "zip_code", "city", "state",
}
