package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/events"
	"github.com/orcafacil/api/internal/pdf"
	"github.com/orcafacil/api/internal/repository"
	apperrors "github.com/orcafacil/api/pkg/util"
)

// InvoiceService manages the invoices owned by an account. The invoice id
// and customer reference are immutable after creation; everything else is
// patchable under the timestamp gate.
type InvoiceService struct {
	accounts   repository.AccountRepository
	invoices   repository.InvoiceRepository
	customers  repository.CustomerRepository
	materials  repository.MaterialRepository
	equipment  repository.EquipmentRepository
	renderer   pdf.Renderer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// InvoiceDependencies bundles collaborators for the invoice service.
type InvoiceDependencies struct {
	AccountRepo   repository.AccountRepository
	InvoiceRepo   repository.InvoiceRepository
	CustomerRepo  repository.CustomerRepository
	MaterialRepo  repository.MaterialRepository
	EquipmentRepo repository.EquipmentRepository
	Renderer      pdf.Renderer
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewInvoiceService builds the service.
func NewInvoiceService(deps InvoiceDependencies) *InvoiceService {
	return &InvoiceService{
		accounts:   deps.AccountRepo,
		invoices:   deps.InvoiceRepo,
		customers:  deps.CustomerRepo,
		materials:  deps.MaterialRepo,
		equipment:  deps.EquipmentRepo,
		renderer:   deps.Renderer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// InvoiceInput describes an invoice creation.
type InvoiceInput struct {
	CustomerID   string
	Date         time.Time
	Description  string
	Labor        []domain.LaborItem
	MaterialIDs  []string
	EquipmentIDs []string
	Addition     float64
	Discount     float64
	PropertyType domain.PropertyType
}

// Create persists the invoice and the account's grown reference list as two
// concurrent saves, jointly awaited. The referenced customer must be owned.
func (s *InvoiceService) Create(ctx context.Context, account *domain.Account, input InvoiceInput) (*domain.Invoice, error) {
	if !account.OwnsCustomer(input.CustomerID) {
		return nil, apperrors.NewForbidden("customer does not belong to account").In("InvoiceService", "Create")
	}

	now := time.Now().UTC()
	invoice := &domain.Invoice{
		ID:           uuid.NewString(),
		CustomerID:   input.CustomerID,
		Date:         input.Date,
		Description:  input.Description,
		Labor:        input.Labor,
		MaterialIDs:  input.MaterialIDs,
		EquipmentIDs: input.EquipmentIDs,
		Addition:     input.Addition,
		Discount:     input.Discount,
		PropertyType: input.PropertyType,
		Touched:      conflict.NewClock(now, domain.InvoiceFields...),
		CreatedAt:    now,
	}
	if invoice.MaterialIDs == nil {
		invoice.MaterialIDs = []string{}
	}
	if invoice.EquipmentIDs == nil {
		invoice.EquipmentIDs = []string{}
	}
	invoice.Total = invoice.ComputeTotal()
	account.InvoiceIDs = append(account.InvoiceIDs, invoice.ID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.invoices.Create(gctx, invoice) })
	g.Go(func() error { return s.accounts.Update(gctx, account) })
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewPersistenceFailure("Create", err).In("InvoiceService", "Create")
	}

	s.publish(ctx, events.EventInvoiceCreated, account.ID, map[string]any{"invoice_id": invoice.ID})
	return invoice, nil
}

// List returns the account's live invoices.
func (s *InvoiceService) List(ctx context.Context, account *domain.Account) ([]domain.Invoice, error) {
	invoices, err := s.invoices.ListByIDs(ctx, account.InvoiceIDs)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("ListByIDs", err).In("InvoiceService", "List")
	}
	return invoices, nil
}

// Get loads one owned invoice.
func (s *InvoiceService) Get(ctx context.Context, account *domain.Account, id string) (*domain.Invoice, error) {
	if !account.OwnsInvoice(id) {
		return nil, apperrors.NewForbidden("invoice does not belong to account").In("InvoiceService", "Get")
	}
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("invoice").In("InvoiceService", "Get")
		}
		return nil, apperrors.NewPersistenceFailure("GetByID", err).In("InvoiceService", "Get")
	}
	return invoice, nil
}

// Patch applies a timestamp-gated partial update and recomputes the total.
// A wholly stale patch is a silent no-op.
func (s *InvoiceService) Patch(ctx context.Context, account *domain.Account, id string, patch conflict.Patch, at time.Time) (*domain.Invoice, error) {
	invoice, err := s.Get(ctx, account, id)
	if err != nil {
		return nil, err
	}

	accepted, changed := conflict.Resolve(invoice.Touched, patch, at)
	if !changed {
		s.publish(ctx, events.EventStalePatchRejected, account.ID,
			events.StalePatchPayload("invoice", id, at))
		return invoice, nil
	}

	applyInvoicePatch(invoice, accepted)
	invoice.Total = invoice.ComputeTotal()
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, apperrors.NewPersistenceFailure("Update", err).In("InvoiceService", "Patch")
	}
	return invoice, nil
}

// Delete soft-deletes the invoice and prunes the account's reference list,
// persisting both concurrently.
func (s *InvoiceService) Delete(ctx context.Context, account *domain.Account, id string) error {
	invoice, err := s.Get(ctx, account, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	invoice.DeletedAt = &now
	account.RemoveInvoice(id)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.invoices.Update(gctx, invoice) })
	g.Go(func() error { return s.accounts.Update(gctx, account) })
	if err := g.Wait(); err != nil {
		return apperrors.NewPersistenceFailure("Update", err).In("InvoiceService", "Delete")
	}

	s.publish(ctx, events.EventInvoiceDeleted, account.ID, map[string]any{"invoice_id": id})
	return nil
}

// RenderPDF builds the printable document for an owned invoice.
func (s *InvoiceService) RenderPDF(ctx context.Context, account *domain.Account, id string) ([]byte, error) {
	invoice, err := s.Get(ctx, account, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, invoice.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer").In("InvoiceService", "RenderPDF")
		}
		return nil, apperrors.NewPersistenceFailure("GetByID", err).In("InvoiceService", "RenderPDF")
	}

	materials, err := s.materials.ListByIDs(ctx, invoice.MaterialIDs)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("ListByIDs", err).In("InvoiceService", "RenderPDF")
	}
	equipment, err := s.equipment.ListByIDs(ctx, invoice.EquipmentIDs)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("ListByIDs", err).In("InvoiceService", "RenderPDF")
	}

	html, err := pdf.BuildInvoiceHTML(pdf.InvoiceDocument{
		Account:   account,
		Customer:  customer,
		Invoice:   invoice,
		Materials: materials,
		Equipment: equipment,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err).In("InvoiceService", "RenderPDF")
	}

	rendered, err := s.renderer.Render(ctx, html)
	if err != nil {
		if errors.Is(err, pdf.ErrNotConfigured) {
			return nil, apperrors.NewDomainError("PDF_UNAVAILABLE", "pdf export is not available", 503, nil).
				In("InvoiceService", "RenderPDF")
		}
		return nil, apperrors.NewInternalError(err).In("InvoiceService", "RenderPDF")
	}
	return rendered, nil
}

func (s *InvoiceService) publish(ctx context.Context, eventType events.EventType, accountID string, payload map[string]any) {
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

func applyInvoicePatch(invoice *domain.Invoice, patch conflict.Patch) {
	for field, value := range patch {
		switch field {
		case "date":
			invoice.Date = asTime(value)
		case "description":
			invoice.Description = asString(value)
		case "labor":
			var items []domain.LaborItem
			if err := decodeInto(value, &items); err == nil {
				invoice.Labor = items
			}
		case "material_ids":
			invoice.MaterialIDs = asStringSlice(value)
		case "equipment_ids":
			invoice.EquipmentIDs = asStringSlice(value)
		case "addition":
			invoice.Addition = asFloat(value)
		case "discount":
			invoice.Discount = asFloat(value)
		case "property_type":
			invoice.PropertyType = domain.PropertyType(asString(value))
		}
	}
}
