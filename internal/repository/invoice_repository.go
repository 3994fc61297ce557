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

// InvoiceRepository defines persistence access for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	Update(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Invoice, error)
	SoftDeleteMany(ctx context.Context, ids []string, at time.Time) error
}

type invoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository returns a Postgres-backed implementation.
func NewInvoiceRepository(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

const invoiceColumns = `id, customer_id, date, description, labor, material_ids, equipment_ids,
        addition, discount, total, property_type, touched, created_at, deleted_at`

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        INSERT INTO invoices (id, customer_id, date, description, labor, material_ids,
                              equipment_ids, addition, discount, total, property_type,
                              touched, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	labor, touched, err := marshalInvoiceDocs(invoice)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		invoice.ID,
		invoice.CustomerID,
		invoice.Date,
		invoice.Description,
		labor,
		invoice.MaterialIDs,
		invoice.EquipmentIDs,
		invoice.Addition,
		invoice.Discount,
		invoice.Total,
		invoice.PropertyType,
		touched,
		invoice.CreatedAt,
	)
	return err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        UPDATE invoices
        SET date=$1, description=$2, labor=$3, material_ids=$4, equipment_ids=$5,
            addition=$6, discount=$7, total=$8, property_type=$9, touched=$10, deleted_at=$11
        WHERE id=$12`

	labor, touched, err := marshalInvoiceDocs(invoice)
	if err != nil {
		return err
	}

	cmd, err := r.pool.Exec(ctx, query,
		invoice.Date,
		invoice.Description,
		labor,
		invoice.MaterialIDs,
		invoice.EquipmentIDs,
		invoice.Addition,
		invoice.Discount,
		invoice.Total,
		invoice.PropertyType,
		touched,
		invoice.DeletedAt,
		invoice.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id=$1 AND deleted_at IS NULL`, invoiceColumns)
	return scanInvoice(r.pool.QueryRow(ctx, query, id))
}

func (r *invoiceRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Invoice, error) {
	if len(ids) == 0 {
		return []domain.Invoice{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = ANY($1) AND deleted_at IS NULL ORDER BY created_at`, invoiceColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, len(ids))
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *invoice)
	}
	return invoices, rows.Err()
}

// SoftDeleteMany marks every listed invoice deleted in one statement. Used
// by the account-removal cascade.
func (r *invoiceRepository) SoftDeleteMany(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE invoices SET deleted_at=$2 WHERE id = ANY($1) AND deleted_at IS NULL`, ids, at)
	return err
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var (
		invoice     domain.Invoice
		laborJSON   []byte
		touchedJSON []byte
	)
	if err := row.Scan(
		&invoice.ID,
		&invoice.CustomerID,
		&invoice.Date,
		&invoice.Description,
		&laborJSON,
		&invoice.MaterialIDs,
		&invoice.EquipmentIDs,
		&invoice.Addition,
		&invoice.Discount,
		&invoice.Total,
		&invoice.PropertyType,
		&touchedJSON,
		&invoice.CreatedAt,
		&invoice.DeletedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(laborJSON, &invoice.Labor); err != nil {
		return nil, fmt.Errorf("decode invoice labor: %w", err)
	}
	if err := json.Unmarshal(touchedJSON, &invoice.Touched); err != nil {
		return nil, fmt.Errorf("decode invoice clock: %w", err)
	}
	return &invoice, nil
}

func marshalInvoiceDocs(invoice *domain.Invoice) (labor, touched []byte, err error) {
	if invoice.Labor == nil {
		invoice.Labor = []domain.LaborItem{}
	}
	if labor, err = json.Marshal(invoice.Labor); err != nil {
		return nil, nil, fmt.Errorf("encode invoice labor: %w", err)
	}
	if touched, err = json.Marshal(invoice.Touched); err != nil {
		return nil, nil, fmt.Errorf("encode invoice clock: %w", err)
	}
	return labor, touched, nil
}
