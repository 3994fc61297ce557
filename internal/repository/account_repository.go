package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/domain"
)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	HardDelete(ctx context.Context, id string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, email, password_hash, name, phone, address, status,
        customer_ids, invoice_ids, touched, created_at, deleted_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id, email, password_hash, name, phone, address, status,
                              customer_ids, invoice_ids, touched, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	address, touched, err := marshalAccountDocs(account)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Phone,
		address,
		account.Status,
		account.CustomerIDs,
		account.InvoiceIDs,
		touched,
		account.CreatedAt,
	)
	return err
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts
        SET email=$1, password_hash=$2, name=$3, phone=$4, address=$5, status=$6,
            customer_ids=$7, invoice_ids=$8, touched=$9, deleted_at=$10
        WHERE id=$11`

	address, touched, err := marshalAccountDocs(account)
	if err != nil {
		return err
	}

	cmd, err := r.pool.Exec(ctx, query,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Phone,
		address,
		account.Status,
		account.CustomerIDs,
		account.InvoiceIDs,
		touched,
		account.DeletedAt,
		account.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id=$1 AND deleted_at IS NULL`, accountColumns)
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email=$1 AND deleted_at IS NULL`, accountColumns)
	return r.scanAccount(r.pool.QueryRow(ctx, query, email))
}

// HardDelete physically removes an account row. Only used to roll back a
// registration whose confirmation mail could not be delivered.
func (r *accountRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	return err
}

func (r *accountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account      domain.Account
		addressJSON  []byte
		touchedJSON  []byte
	)
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Name,
		&account.Phone,
		&addressJSON,
		&account.Status,
		&account.CustomerIDs,
		&account.InvoiceIDs,
		&touchedJSON,
		&account.CreatedAt,
		&account.DeletedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addressJSON, &account.Address); err != nil {
		return nil, fmt.Errorf("decode account address: %w", err)
	}
	if err := json.Unmarshal(touchedJSON, &account.Touched); err != nil {
		return nil, fmt.Errorf("decode account clock: %w", err)
	}
	return &account, nil
}

func marshalAccountDocs(account *domain.Account) (address, touched []byte, err error) {
	if address, err = json.Marshal(account.Address); err != nil {
		return nil, nil, fmt.Errorf("encode account address: %w", err)
	}
	if account.Touched == nil {
		account.Touched = conflict.Clock{}
	}
	if touched, err = json.Marshal(account.Touched); err != nil {
		return nil, nil, fmt.Errorf("encode account clock: %w", err)
	}
	return address, touched, nil
}
