package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orcafacil/api/internal/api/http/handlers"
	"github.com/orcafacil/api/internal/auth"
	"github.com/orcafacil/api/internal/validation"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Customers      *handlers.CustomersHandler
	Invoices       *handlers.InvoicesHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", validation.Middleware(registerSchema), cfg.Accounts.Register)
	authGroup.Get("/confirm", validation.Middleware(confirmSchema), cfg.Accounts.Confirm)
	authGroup.Post("/login", validation.Middleware(loginSchema), cfg.Accounts.Login)
	authGroup.Post("/recover", validation.Middleware(recoverSchema), cfg.Accounts.Recover)
	authGroup.Post("/reset", validation.Middleware(resetSchema), cfg.Accounts.Reset)

	account := app.Group("/account", cfg.AuthMiddleware.Handle)
	account.Get("", cfg.Accounts.Me)
	account.Patch("", validation.Middleware(accountPatchSchema), cfg.Accounts.Update)
	account.Put("/password", validation.Middleware(changePasswordSchema), cfg.Accounts.ChangePassword)
	account.Delete("", cfg.Accounts.Delete)

	customers := app.Group("/customers", cfg.AuthMiddleware.Handle)
	customers.Post("", validation.Middleware(customerWriteSchema), cfg.Customers.Create)
	customers.Get("", cfg.Customers.List)
	customers.Get("/:id", validation.Middleware(idOnlySchema), cfg.Customers.Get)
	customers.Put("/:id", validation.Middleware(customerReplaceSchema), cfg.Customers.Replace)
	customers.Patch("/:id", validation.Middleware(customerPatchSchema), cfg.Customers.Patch)
	customers.Delete("/:id", validation.Middleware(idOnlySchema), cfg.Customers.Delete)

	invoices := app.Group("/invoices", cfg.AuthMiddleware.Handle)
	invoices.Post("", validation.Middleware(invoiceCreateSchema), cfg.Invoices.Create)
	invoices.Get("", cfg.Invoices.List)
	invoices.Get("/:id", validation.Middleware(idOnlySchema), cfg.Invoices.Get)
	invoices.Patch("/:id", validation.Middleware(invoicePatchSchema), cfg.Invoices.Patch)
	invoices.Delete("/:id", validation.Middleware(idOnlySchema), cfg.Invoices.Delete)
	invoices.Get("/:id/pdf", validation.Middleware(idOnlySchema), cfg.Invoices.ExportPDF)

	materials := app.Group("/materials", cfg.AuthMiddleware.Handle)
	materials.Post("", validation.Middleware(materialCreateSchema), cfg.Catalog.CreateMaterial)
	materials.Get("", cfg.Catalog.ListMaterials)
	materials.Patch("", validation.Middleware(materialBulkPatchSchema), cfg.Catalog.BulkPatchMaterials)
	materials.Get("/:id", validation.Middleware(idOnlySchema), cfg.Catalog.GetMaterial)
	materials.Patch("/:id", validation.Middleware(materialPatchSchema), cfg.Catalog.PatchMaterial)
	materials.Delete("/:id", validation.Middleware(idOnlySchema), cfg.Catalog.DeleteMaterial)

	equipment := app.Group("/equipment", cfg.AuthMiddleware.Handle)
	equipment.Post("", validation.Middleware(equipmentCreateSchema), cfg.Catalog.CreateEquipment)
	equipment.Get("", cfg.Catalog.ListEquipment)
	equipment.Get("/:id", validation.Middleware(idOnlySchema), cfg.Catalog.GetEquipment)
	equipment.Patch("/:id", validation.Middleware(equipmentPatchSchema), cfg.Catalog.PatchEquipment)
	equipment.Delete("/:id", validation.Middleware(idOnlySchema), cfg.Catalog.DeleteEquipment)
}
