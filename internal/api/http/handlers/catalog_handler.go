package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/orcafacil/api/internal/api/dto"
	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/service"
	"github.com/orcafacil/api/internal/validation"
	apperrors "github.com/orcafacil/api/pkg/util"
)

// CatalogHandler exposes CRUD endpoints for the account's material and
// equipment catalogs.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateMaterial handles POST /materials.
func (h *CatalogHandler) CreateMaterial(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	body := validation.Body(c)
	material, err := h.catalog.CreateMaterial(c.UserContext(), account, service.MaterialInput{
		Name:        bodyString(body, "name"),
		Description: bodyString(body, "description"),
		Price:       bodyFloat(body, "price"),
		Count:       bodyInt(body, "count"),
		Icon:        bodyString(body, "icon"),
		Modifier:    bodyString(body, "modifier"),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMaterialView(material)})
}

// ListMaterials handles GET /materials.
func (h *CatalogHandler) ListMaterials(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	materials, err := h.catalog.ListMaterials(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialViews(materials)})
}

// GetMaterial handles GET /materials/:id.
func (h *CatalogHandler) GetMaterial(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	material, err := h.catalog.GetMaterial(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialView(material)})
}

// PatchMaterial handles PATCH /materials/:id.
func (h *CatalogHandler) PatchMaterial(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	patch, at := patchFromBody(validation.Body(c))
	material, err := h.catalog.PatchMaterial(c.UserContext(), account, c.Params("id"), patch, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialView(material)})
}

// BulkPatchMaterials handles PATCH /materials. Each item carries its own id,
// field patch and updated_at stamp; items gate independently.
func (h *CatalogHandler) BulkPatchMaterials(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	rawItems, _ := validation.Body(c)["items"].([]any)
	items := make([]service.BulkPatchItem, 0, len(rawItems))
	for _, raw := range rawItems {
		entry, ok := raw.(map[string]any)
		if !ok {
			return apperrors.NewValidationFailed(map[string]any{
				"violations": []validation.Violation{{Key: "items", Label: "itens", Violation: validation.ViolationType}},
			}).In("CatalogHandler", "BulkPatchMaterials")
		}

		id, _ := entry["id"].(string)
		stamp, _ := entry[conflict.TimestampField].(string)
		at, err := time.Parse(time.RFC3339, stamp)
		if id == "" || err != nil {
			return apperrors.NewValidationFailed(map[string]any{
				"violations": []validation.Violation{{Key: "items", Label: "itens", Violation: validation.ViolationMalformed}},
			}).In("CatalogHandler", "BulkPatchMaterials")
		}

		patch := make(conflict.Patch, len(entry))
		for key, value := range entry {
			if key == "id" || key == conflict.TimestampField {
				continue
			}
			patch[key] = value
		}
		items = append(items, service.BulkPatchItem{ID: id, Patch: patch, At: at})
	}

	result, err := h.catalog.BulkPatchMaterials(c.UserContext(), account, items)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// DeleteMaterial handles DELETE /materials/:id.
func (h *CatalogHandler) DeleteMaterial(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteMaterial(c.UserContext(), account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateEquipment handles POST /equipment.
func (h *CatalogHandler) CreateEquipment(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	body := validation.Body(c)
	equipment, err := h.catalog.CreateEquipment(c.UserContext(), account, service.EquipmentInput{
		Name:        bodyString(body, "name"),
		Description: bodyString(body, "description"),
		Price:       bodyFloat(body, "price"),
		Count:       bodyInt(body, "count"),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEquipmentView(equipment)})
}

// ListEquipment handles GET /equipment.
func (h *CatalogHandler) ListEquipment(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	equipment, err := h.catalog.ListEquipment(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentViews(equipment)})
}

// GetEquipment handles GET /equipment/:id.
func (h *CatalogHandler) GetEquipment(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	equipment, err := h.catalog.GetEquipment(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentView(equipment)})
}

// PatchEquipment handles PATCH /equipment/:id.
func (h *CatalogHandler) PatchEquipment(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	patch, at := patchFromBody(validation.Body(c))
	equipment, err := h.catalog.PatchEquipment(c.UserContext(), account, c.Params("id"), patch, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentView(equipment)})
}

// DeleteEquipment handles DELETE /equipment/:id.
func (h *CatalogHandler) DeleteEquipment(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteEquipment(c.UserContext(), account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
