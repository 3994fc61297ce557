package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/events"
	"github.com/orcafacil/api/internal/repository"
	apperrors "github.com/orcafacil/api/pkg/util"
)

// CatalogService manages the per-account catalogs of materials and equipment.
// Catalog items carry their owning account id directly, so ownership is a
// column comparison after the lookup rather than a membership list.
type CatalogService struct {
	materials  repository.MaterialRepository
	equipment  repository.EquipmentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(materials repository.MaterialRepository, equipment repository.EquipmentRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService {
	return &CatalogService{materials: materials, equipment: equipment, dispatcher: dispatcher, logger: logger}
}

// MaterialInput describes a material creation.
type MaterialInput struct {
	Name        string
	Description string
	Price       float64
	Count       int
	Icon        string
	Modifier    string
}

// EquipmentInput describes an equipment creation.
type EquipmentInput struct {
	Name        string
	Description string
	Price       float64
	Count       int
}

// BulkPatchItem is one entry of a bulk materials patch.
type BulkPatchItem struct {
	ID    string
	Patch conflict.Patch
	At    time.Time
}

// BulkPatchResult summarizes a bulk materials patch.
type BulkPatchResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// CreateMaterial persists a new material under the account.
func (s *CatalogService) CreateMaterial(ctx context.Context, account *domain.Account, input MaterialInput) (*domain.Material, error) {
	now := time.Now().UTC()
	material := &domain.Material{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Count:       input.Count,
		Icon:        input.Icon,
		Modifier:    input.Modifier,
		Touched:     conflict.NewClock(now, domain.MaterialFields...),
		CreatedAt:   now,
	}
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, apperrors.NewPersistenceFailure("Create", err).In("CatalogService", "CreateMaterial")
	}
	return material, nil
}

// ListMaterials returns the account's live materials.
func (s *CatalogService) ListMaterials(ctx context.Context, account *domain.Account) ([]domain.Material, error) {
	materials, err := s.materials.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("ListByAccount", err).In("CatalogService", "ListMaterials")
	}
	return materials, nil
}

// GetMaterial loads one owned material.
func (s *CatalogService) GetMaterial(ctx context.Context, account *domain.Account, id string) (*domain.Material, error) {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("material").In("CatalogService", "GetMaterial")
		}
		return nil, apperrors.NewPersistenceFailure("GetByID", err).In("CatalogService", "GetMaterial")
	}
	if material.AccountID != account.ID {
		return nil, apperrors.NewForbidden("material does not belong to account").In("CatalogService", "GetMaterial")
	}
	return material, nil
}

// PatchMaterial applies a timestamp-gated partial update. A wholly stale
// patch is a silent no-op.
func (s *CatalogService) PatchMaterial(ctx context.Context, account *domain.Account, id string, patch conflict.Patch, at time.Time) (*domain.Material, error) {
	material, err := s.GetMaterial(ctx, account, id)
	if err != nil {
		return nil, err
	}

	accepted, changed := conflict.Resolve(material.Touched, patch, at)
	if !changed {
		s.publish(ctx, events.EventStalePatchRejected, account.ID,
			events.StalePatchPayload("material", id, at))
		return material, nil
	}

	applyMaterialPatch(material, accepted)
	if err := s.materials.Update(ctx, material); err != nil {
		return nil, apperrors.NewPersistenceFailure("Update", err).In("CatalogService", "PatchMaterial")
	}
	return material, nil
}

// BulkPatchMaterials applies independent timestamp-gated patches to many
// materials in one call. Each item is gated on its own; stale or foreign
// items are skipped, not failed, so a partially stale batch still lands its
// fresh entries.
func (s *CatalogService) BulkPatchMaterials(ctx context.Context, account *domain.Account, items []BulkPatchItem) (BulkPatchResult, error) {
	result := BulkPatchResult{}
	for _, item := range items {
		material, err := s.GetMaterial(ctx, account, item.ID)
		if err != nil {
			result.Skipped++
			continue
		}

		accepted, changed := conflict.Resolve(material.Touched, item.Patch, item.At)
		if !changed {
			s.publish(ctx, events.EventStalePatchRejected, account.ID,
				events.StalePatchPayload("material", item.ID, item.At))
			result.Skipped++
			continue
		}

		applyMaterialPatch(material, accepted)
		if err := s.materials.Update(ctx, material); err != nil {
			s.logger.Error("bulk material update failed",
				zap.String("material_id", item.ID), zap.Error(err))
			result.Skipped++
			continue
		}
		result.Updated++
	}
	return result, nil
}

// DeleteMaterial soft-deletes one owned material.
func (s *CatalogService) DeleteMaterial(ctx context.Context, account *domain.Account, id string) error {
	material, err := s.GetMaterial(ctx, account, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	material.DeletedAt = &now
	if err := s.materials.Update(ctx, material); err != nil {
		return apperrors.NewPersistenceFailure("Update", err).In("CatalogService", "DeleteMaterial")
	}
	return nil
}

// CreateEquipment persists a new equipment item under the account.
func (s *CatalogService) CreateEquipment(ctx context.Context, account *domain.Account, input EquipmentInput) (*domain.Equipment, error) {
	now := time.Now().UTC()
	equipment := &domain.Equipment{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Count:       input.Count,
		Touched:     conflict.NewClock(now, domain.EquipmentFields...),
		CreatedAt:   now,
	}
	if err := s.equipment.Create(ctx, equipment); err != nil {
		return nil, apperrors.NewPersistenceFailure("Create", err).In("CatalogService", "CreateEquipment")
	}
	return equipment, nil
}

// ListEquipment returns the account's live equipment.
func (s *CatalogService) ListEquipment(ctx context.Context, account *domain.Account) ([]domain.Equipment, error) {
	equipment, err := s.equipment.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("ListByAccount", err).In("CatalogService", "ListEquipment")
	}
	return equipment, nil
}

// GetEquipment loads one owned equipment item.
func (s *CatalogService) GetEquipment(ctx context.Context, account *domain.Account, id string) (*domain.Equipment, error) {
	equipment, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment").In("CatalogService", "GetEquipment")
		}
		return nil, apperrors.NewPersistenceFailure("GetByID", err).In("CatalogService", "GetEquipment")
	}
	if equipment.AccountID != account.ID {
		return nil, apperrors.NewForbidden("equipment does not belong to account").In("CatalogService", "GetEquipment")
	}
	return equipment, nil
}

// PatchEquipment applies a timestamp-gated partial update. A wholly stale
// patch is a silent no-op.
func (s *CatalogService) PatchEquipment(ctx context.Context, account *domain.Account, id string, patch conflict.Patch, at time.Time) (*domain.Equipment, error) {
	equipment, err := s.GetEquipment(ctx, account, id)
	if err != nil {
		return nil, err
	}

	accepted, changed := conflict.Resolve(equipment.Touched, patch, at)
	if !changed {
		s.publish(ctx, events.EventStalePatchRejected, account.ID,
			events.StalePatchPayload("equipment", id, at))
		return equipment, nil
	}

	applyEquipmentPatch(equipment, accepted)
	if err := s.equipment.Update(ctx, equipment); err != nil {
		return nil, apperrors.NewPersistenceFailure("Update", err).In("CatalogService", "PatchEquipment")
	}
	return equipment, nil
}

// DeleteEquipment soft-deletes one owned equipment item.
func (s *CatalogService) DeleteEquipment(ctx context.Context, account *domain.Account, id string) error {
	equipment, err := s.GetEquipment(ctx, account, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	equipment.DeletedAt = &now
	if err := s.equipment.Update(ctx, equipment); err != nil {
		return apperrors.NewPersistenceFailure("Update", err).In("CatalogService", "DeleteEquipment")
	}
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, accountID string, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func applyMaterialPatch(material *domain.Material, patch conflict.Patch) {
	for field, value := range patch {
		switch field {
		case "name":
			material.Name = asString(value)
		case "description":
			material.Description = asString(value)
		case "price":
			material.Price = asFloat(value)
		case "count":
			material.Count = asInt(value)
		case "icon":
			material.Icon = asString(value)
		case "modifier":
			material.Modifier = asString(value)
		}
	}
}

func applyEquipmentPatch(equipment *domain.Equipment, patch conflict.Patch) {
	for field, value := range patch {
		switch field {
		case "name":
			equipment.Name = asString(value)
		case "description":
			equipment.Description = asString(value)
		case "price":
			equipment.Price = asFloat(value)
		case "count":
			equipment.Count = asInt(value)
		}
	}
}
