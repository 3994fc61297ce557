package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orcafacil/api/internal/api/dto"
	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/service"
	"github.com/orcafacil/api/internal/validation"
	apperrors "github.com/orcafacil/api/pkg/util"
)

// InvoicesHandler exposes CRUD and export endpoints for the account's
// invoices.
type InvoicesHandler struct {
	invoices *service.InvoiceService
}

// NewInvoicesHandler constructs handler.
func NewInvoicesHandler(invoices *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{invoices: invoices}
}

// Create handles POST /invoices.
func (h *InvoicesHandler) Create(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	body := validation.Body(c)
	labor, err := decodeLabor(body["labor"])
	if err != nil {
		return apperrors.NewValidationFailed(map[string]any{
			"violations": []validation.Violation{{Key: "labor", Label: "mão de obra", Violation: validation.ViolationMalformed}},
		}).In("InvoicesHandler", "Create")
	}

	invoice, err := h.invoices.Create(c.UserContext(), account, service.InvoiceInput{
		CustomerID:   bodyString(body, "customer_id"),
		Date:         bodyTime(body, "date"),
		Description:  bodyString(body, "description"),
		Labor:        labor,
		MaterialIDs:  bodyStringSlice(body, "material_ids"),
		EquipmentIDs: bodyStringSlice(body, "equipment_ids"),
		Addition:     bodyFloat(body, "addition"),
		Discount:     bodyFloat(body, "discount"),
		PropertyType: domain.PropertyType(bodyString(body, "property_type")),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewInvoiceView(invoice)})
}

// List handles GET /invoices.
func (h *InvoicesHandler) List(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	invoices, err := h.invoices.List(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvoiceViews(invoices)})
}

// Get handles GET /invoices/:id.
func (h *InvoicesHandler) Get(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	invoice, err := h.invoices.Get(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvoiceView(invoice)})
}

// Patch handles PATCH /invoices/:id.
func (h *InvoicesHandler) Patch(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	patch, at := patchFromBody(validation.Body(c))
	invoice, err := h.invoices.Patch(c.UserContext(), account, c.Params("id"), patch, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvoiceView(invoice)})
}

// Delete handles DELETE /invoices/:id.
func (h *InvoicesHandler) Delete(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.invoices.Delete(c.UserContext(), account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ExportPDF handles GET /invoices/:id/pdf.
func (h *InvoicesHandler) ExportPDF(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	rendered, err := h.invoices.RenderPDF(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orcamento-`+c.Params("id")+`.pdf"`)
	return c.Send(rendered)
}
