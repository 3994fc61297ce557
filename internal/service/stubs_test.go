package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/mail"
)

// In-memory repositories backing the service tests.

type memAccountRepo struct {
	accounts map[string]*domain.Account
	failNext error
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok || account.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email && account.DeletedAt == nil {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAccountRepo) HardDelete(_ context.Context, id string) error {
	delete(r.accounts, id)
	return nil
}

type memCustomerRepo struct {
	customers map[string]*domain.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func (r *memCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *memCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	customer, ok := r.customers[id]
	if !ok || customer.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	return customer, nil
}

func (r *memCustomerRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Customer, error) {
	list := []domain.Customer{}
	for _, id := range ids {
		if customer, ok := r.customers[id]; ok && customer.DeletedAt == nil {
			list = append(list, *customer)
		}
	}
	return list, nil
}

func (r *memCustomerRepo) SoftDeleteMany(_ context.Context, ids []string, at time.Time) error {
	for _, id := range ids {
		if customer, ok := r.customers[id]; ok {
			deletedAt := at
			customer.DeletedAt = &deletedAt
		}
	}
	return nil
}

type memInvoiceRepo struct {
	invoices map[string]*domain.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
}

func (r *memInvoiceRepo) Create(_ context.Context, invoice *domain.Invoice) error {
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memInvoiceRepo) Update(_ context.Context, invoice *domain.Invoice) error {
	if _, ok := r.invoices[invoice.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	invoice, ok := r.invoices[id]
	if !ok || invoice.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	return invoice, nil
}

func (r *memInvoiceRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Invoice, error) {
	list := []domain.Invoice{}
	for _, id := range ids {
		if invoice, ok := r.invoices[id]; ok && invoice.DeletedAt == nil {
			list = append(list, *invoice)
		}
	}
	return list, nil
}

func (r *memInvoiceRepo) SoftDeleteMany(_ context.Context, ids []string, at time.Time) error {
	for _, id := range ids {
		if invoice, ok := r.invoices[id]; ok {
			deletedAt := at
			invoice.DeletedAt = &deletedAt
		}
	}
	return nil
}

type memMaterialRepo struct {
	materials map[string]*domain.Material
}

func newMemMaterialRepo() *memMaterialRepo {
	return &memMaterialRepo{materials: make(map[string]*domain.Material)}
}

func (r *memMaterialRepo) Create(_ context.Context, material *domain.Material) error {
	r.materials[material.ID] = material
	return nil
}

func (r *memMaterialRepo) Update(_ context.Context, material *domain.Material) error {
	if _, ok := r.materials[material.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.materials[material.ID] = material
	return nil
}

func (r *memMaterialRepo) GetByID(_ context.Context, id string) (*domain.Material, error) {
	material, ok := r.materials[id]
	if !ok || material.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	return material, nil
}

func (r *memMaterialRepo) ListByAccount(_ context.Context, accountID string) ([]domain.Material, error) {
	list := []domain.Material{}
	for _, material := range r.materials {
		if material.AccountID == accountID && material.DeletedAt == nil {
			list = append(list, *material)
		}
	}
	return list, nil
}

func (r *memMaterialRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Material, error) {
	list := []domain.Material{}
	for _, id := range ids {
		if material, ok := r.materials[id]; ok && material.DeletedAt == nil {
			list = append(list, *material)
		}
	}
	return list, nil
}

type memEquipmentRepo struct {
	equipment map[string]*domain.Equipment
}

func newMemEquipmentRepo() *memEquipmentRepo {
	return &memEquipmentRepo{equipment: make(map[string]*domain.Equipment)}
}

func (r *memEquipmentRepo) Create(_ context.Context, equipment *domain.Equipment) error {
	r.equipment[equipment.ID] = equipment
	return nil
}

func (r *memEquipmentRepo) Update(_ context.Context, equipment *domain.Equipment) error {
	if _, ok := r.equipment[equipment.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.equipment[equipment.ID] = equipment
	return nil
}

func (r *memEquipmentRepo) GetByID(_ context.Context, id string) (*domain.Equipment, error) {
	equipment, ok := r.equipment[id]
	if !ok || equipment.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	return equipment, nil
}

func (r *memEquipmentRepo) ListByAccount(_ context.Context, accountID string) ([]domain.Equipment, error) {
	list := []domain.Equipment{}
	for _, equipment := range r.equipment {
		if equipment.AccountID == accountID && equipment.DeletedAt == nil {
			list = append(list, *equipment)
		}
	}
	return list, nil
}

func (r *memEquipmentRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Equipment, error) {
	list := []domain.Equipment{}
	for _, id := range ids {
		if equipment, ok := r.equipment[id]; ok && equipment.DeletedAt == nil {
			list = append(list, *equipment)
		}
	}
	return list, nil
}

// failingMailer rejects every send.
type failingMailer struct{}

func (failingMailer) Send(context.Context, mail.Message) error { return errMailDown }

var errMailDown = errors.New("smtp connect refused")
