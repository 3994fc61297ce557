package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orcafacil/api/internal/domain"
)

// CustomerRepository defines persistence access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Customer, error)
	SoftDeleteMany(ctx context.Context, ids []string, at time.Time) error
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, name, address, tax_id, touched, created_at, deleted_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (id, name, address, tax_id, touched, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	address, err := json.Marshal(customer.Address)
	if err != nil {
		return fmt.Errorf("encode customer address: %w", err)
	}
	touched, err := json.Marshal(customer.Touched)
	if err != nil {
		return fmt.Errorf("encode customer clock: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		customer.ID,
		customer.Name,
		address,
		customer.TaxID,
		touched,
		customer.CreatedAt,
	)
	return err
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET name=$1, address=$2, tax_id=$3, touched=$4, deleted_at=$5
        WHERE id=$6`

	address, err := json.Marshal(customer.Address)
	if err != nil {
		return fmt.Errorf("encode customer address: %w", err)
	}
	touched, err := json.Marshal(customer.Touched)
	if err != nil {
		return fmt.Errorf("encode customer clock: %w", err)
	}

	cmd, err := r.pool.Exec(ctx, query,
		customer.Name,
		address,
		customer.TaxID,
		touched,
		customer.DeletedAt,
		customer.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id=$1 AND deleted_at IS NULL`, customerColumns)
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

func (r *customerRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Customer, error) {
	if len(ids) == 0 {
		return []domain.Customer{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id = ANY($1) AND deleted_at IS NULL ORDER BY created_at`, customerColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, len(ids))
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *customer)
	}
	return customers, rows.Err()
}

// SoftDeleteMany marks every listed customer deleted in one statement. Used
// by the account-removal cascade.
func (r *customerRepository) SoftDeleteMany(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE customers SET deleted_at=$2 WHERE id = ANY($1) AND deleted_at IS NULL`, ids, at)
	return err
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		customer    domain.Customer
		addressJSON []byte
		touchedJSON []byte
	)
	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&addressJSON,
		&customer.TaxID,
		&touchedJSON,
		&customer.CreatedAt,
		&customer.DeletedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressJSON, &customer.Address); err != nil {
		return nil, fmt.Errorf("decode customer address: %w", err)
	}
	if err := json.Unmarshal(touchedJSON, &customer.Touched); err != nil {
		return nil, fmt.Errorf("decode customer clock: %w", err)
	}
	return &customer, nil
}
