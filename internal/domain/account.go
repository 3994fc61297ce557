package domain

import (
	"time"

	"github.com/orcafacil/api/internal/conflict"
)

// AccountStatus represents lifecycle states for an account.
//
// INACTIVE accounts have registered but not confirmed their email yet.
// STATIC accounts confirmed the email but have not logged in; the first
// successful login flips them to ACTIVE. DISABLED is an administrative lock
// set out-of-band and is terminal.
type AccountStatus string

const (
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusDisabled AccountStatus = "DISABLED"
	AccountStatusStatic   AccountStatus = "STATIC"
)

// Account is the domain model for a human operator of the application.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Address      Address
	Status       AccountStatus
	CustomerIDs  []string
	InvoiceIDs   []string
	Touched      conflict.Clock
	CreatedAt    time.Time
	DeletedAt    *time.Time
}

// AccountFields lists the patchable fields tracked by the account's clock.
var AccountFields = []string{
	"name", "phone",
	"street", "number", "complement", "neighborhood", "zip_code", "city", "state",
}

// OwnsCustomer reports whether the customer id is in the account's list.
func (a *Account) OwnsCustomer(id string) bool {
	return containsID(a.CustomerIDs, id)
}

// OwnsInvoice reports whether the invoice id is in the account's list.
func (a *Account) OwnsInvoice(id string) bool {
	return containsID(a.InvoiceIDs, id)
}

// RemoveCustomer prunes the customer id from the ownership list.
func (a *Account) RemoveCustomer(id string) {
	a.CustomerIDs = removeID(a.CustomerIDs, id)
}

// RemoveInvoice prunes the invoice id from the ownership list.
func (a *Account) RemoveInvoice(id string) {
	a.InvoiceIDs = removeID(a.InvoiceIDs, id)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
