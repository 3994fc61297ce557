package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orcafacil/api/internal/api/dto"
	"github.com/orcafacil/api/internal/service"
	"github.com/orcafacil/api/internal/validation"
)

// CustomersHandler exposes CRUD endpoints for the account's customers.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

func customerInputFromBody(body map[string]any) service.CustomerInput {
	return service.CustomerInput{
		Name:    bodyString(body, "name"),
		TaxID:   bodyString(body, "tax_id"),
		Address: addressFromBody(body),
	}
}

// Create handles POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	customer, err := h.customers.Create(c.UserContext(), account, customerInputFromBody(validation.Body(c)))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomerView(customer)})
}

// List handles GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	customers, err := h.customers.List(c.UserContext(), account)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerViews(customers)})
}

// Get handles GET /customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	customer, err := h.customers.Get(c.UserContext(), account, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerView(customer)})
}

// Replace handles PUT /customers/:id.
func (h *CustomersHandler) Replace(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	customer, err := h.customers.Replace(c.UserContext(), account, c.Params("id"),
		customerInputFromBody(validation.Body(c)))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerView(customer)})
}

// Patch handles PATCH /customers/:id.
func (h *CustomersHandler) Patch(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	patch, at := patchFromBody(validation.Body(c))
	customer, err := h.customers.Patch(c.UserContext(), account, c.Params("id"), patch, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerView(customer)})
}

// Delete handles DELETE /customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.customers.Delete(c.UserContext(), account, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
