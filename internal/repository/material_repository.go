package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orcafacil/api/internal/domain"
)

// MaterialRepository defines persistence access for catalog materials.
type MaterialRepository interface {
	Create(ctx context.Context, material *domain.Material) error
	Update(ctx context.Context, material *domain.Material) error
	GetByID(ctx context.Context, id string) (*domain.Material, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Material, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Material, error)
}

type materialRepository struct {
	pool *pgxpool.Pool
}

// NewMaterialRepository returns a Postgres-backed implementation.
func NewMaterialRepository(pool *pgxpool.Pool) MaterialRepository {
	return &materialRepository{pool: pool}
}

const materialColumns = `id, account_id, name, description, price, count, icon, modifier,
        touched, created_at, deleted_at`

func (r *materialRepository) Create(ctx context.Context, material *domain.Material) error {
	const query = `
        INSERT INTO materials (id, account_id, name, description, price, count, icon,
                               modifier, touched, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	touched, err := json.Marshal(material.Touched)
	if err != nil {
		return fmt.Errorf("encode material clock: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		material.ID,
		material.AccountID,
		material.Name,
		material.Description,
		material.Price,
		material.Count,
		material.Icon,
		material.Modifier,
		touched,
		material.CreatedAt,
	)
	return err
}

func (r *materialRepository) Update(ctx context.Context, material *domain.Material) error {
	const query = `
        UPDATE materials
        SET name=$1, description=$2, price=$3, count=$4, icon=$5, modifier=$6,
            touched=$7, deleted_at=$8
        WHERE id=$9`

	touched, err := json.Marshal(material.Touched)
	if err != nil {
		return fmt.Errorf("encode material clock: %w", err)
	}

	cmd, err := r.pool.Exec(ctx, query,
		material.Name,
		material.Description,
		material.Price,
		material.Count,
		material.Icon,
		material.Modifier,
		touched,
		material.DeletedAt,
		material.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *materialRepository) GetByID(ctx context.Context, id string) (*domain.Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM materials WHERE id=$1 AND deleted_at IS NULL`, materialColumns)
	return scanMaterial(r.pool.QueryRow(ctx, query, id))
}

func (r *materialRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM materials WHERE account_id=$1 AND deleted_at IS NULL ORDER BY created_at`, materialColumns)
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := []domain.Material{}
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *material)
	}
	return materials, rows.Err()
}

func (r *materialRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Material, error) {
	if len(ids) == 0 {
		return []domain.Material{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM materials WHERE id = ANY($1) AND deleted_at IS NULL ORDER BY created_at`, materialColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := make([]domain.Material, 0, len(ids))
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *material)
	}
	return materials, rows.Err()
}

func scanMaterial(row pgx.Row) (*domain.Material, error) {
	var (
		material    domain.Material
		touchedJSON []byte
	)
	if err := row.Scan(
		&material.ID,
		&material.AccountID,
		&material.Name,
		&material.Description,
		&material.Price,
		&material.Count,
		&material.Icon,
		&material.Modifier,
		&touchedJSON,
		&material.CreatedAt,
		&material.DeletedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(touchedJSON, &material.Touched); err != nil {
		return nil, fmt.Errorf("decode material clock: %w", err)
	}
	return &material, nil
}
