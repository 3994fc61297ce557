package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orcafacil/api/internal/domain"
)

// EquipmentRepository defines persistence access for catalog equipment.
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *domain.Equipment) error
	Update(ctx context.Context, equipment *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Equipment, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Equipment, error)
}

type equipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository returns a Postgres-backed implementation.
func NewEquipmentRepository(pool *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{pool: pool}
}

const equipmentColumns = `id, account_id, name, description, price, count, touched, created_at, deleted_at`

func (r *equipmentRepository) Create(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        INSERT INTO equipment (id, account_id, name, description, price, count, touched, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	touched, err := json.Marshal(equipment.Touched)
	if err != nil {
		return fmt.Errorf("encode equipment clock: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		equipment.ID,
		equipment.AccountID,
		equipment.Name,
		equipment.Description,
		equipment.Price,
		equipment.Count,
		touched,
		equipment.CreatedAt,
	)
	return err
}

func (r *equipmentRepository) Update(ctx context.Context, equipment *domain.Equipment) error {
	const query = `
        UPDATE equipment
        SET name=$1, description=$2, price=$3, count=$4, touched=$5, deleted_at=$6
        WHERE id=$7`

	touched, err := json.Marshal(equipment.Touched)
	if err != nil {
		return fmt.Errorf("encode equipment clock: %w", err)
	}

	cmd, err := r.pool.Exec(ctx, query,
		equipment.Name,
		equipment.Description,
		equipment.Price,
		equipment.Count,
		touched,
		equipment.DeletedAt,
		equipment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM equipment WHERE id=$1 AND deleted_at IS NULL`, equipmentColumns)
	return scanEquipment(r.pool.QueryRow(ctx, query, id))
}

func (r *equipmentRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM equipment WHERE account_id=$1 AND deleted_at IS NULL ORDER BY created_at`, equipmentColumns)
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Equipment{}
	for rows.Next() {
		equipment, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *equipment)
	}
	return list, rows.Err()
}

func (r *equipmentRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Equipment, error) {
	if len(ids) == 0 {
		return []domain.Equipment{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM equipment WHERE id = ANY($1) AND deleted_at IS NULL ORDER BY created_at`, equipmentColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.Equipment, 0, len(ids))
	for rows.Next() {
		equipment, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *equipment)
	}
	return list, rows.Err()
}

func scanEquipment(row pgx.Row) (*domain.Equipment, error) {
	var (
		equipment   domain.Equipment
		touchedJSON []byte
	)
	if err := row.Scan(
		&equipment.ID,
		&equipment.AccountID,
		&equipment.Name,
		&equipment.Description,
		&equipment.Price,
		&equipment.Count,
		&touchedJSON,
		&equipment.CreatedAt,
		&equipment.DeletedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(touchedJSON, &equipment.Touched); err != nil {
		return nil, fmt.Errorf("decode equipment clock: %w", err)
	}
	return &equipment, nil
}
