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
	"github.com/orcafacil/api/internal/repository"
	apperrors "github.com/orcafacil/api/pkg/util"
)

// CustomerService manages the customers owned by an account. Ownership is
// membership in the account's customer id list and is checked before any
// lookup, so a foreign id is rejected with FORBIDDEN whether or not the
// customer exists.
type CustomerService struct {
	accounts   repository.AccountRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCustomerService builds the service.
func NewCustomerService(accounts repository.AccountRepository, customers repository.CustomerRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CustomerService {
	return &CustomerService{accounts: accounts, customers: customers, dispatcher: dispatcher, logger: logger}
}

// CustomerInput describes a customer create or full replace.
type CustomerInput struct {
	Name    string
	TaxID   string
	Address domain.Address
}

// Create persists the customer and the account's grown reference list as two
// concurrent saves, jointly awaited.
func (s *CustomerService) Create(ctx context.Context, account *domain.Account, input CustomerInput) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		TaxID:     input.TaxID,
		Address:   input.Address,
		Touched:   conflict.NewClock(now, domain.CustomerFields...),
		CreatedAt: now,
	}
	account.CustomerIDs = append(account.CustomerIDs, customer.ID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.customers.Create(gctx, customer) })
	g.Go(func() error { return s.accounts.Update(gctx, account) })
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewPersistenceFailure("Create", err).In("CustomerService", "Create")
	}

	s.publish(ctx, events.EventCustomerCreated, account.ID, map[string]any{"customer_id": customer.ID})
	return customer, nil
}

// List returns the account's live customers.
func (s *CustomerService) List(ctx context.Context, account *domain.Account) ([]domain.Customer, error) {
	customers, err := s.customers.ListByIDs(ctx, account.CustomerIDs)
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("ListByIDs", err).In("CustomerService", "List")
	}
	return customers, nil
}

// Get loads one owned customer.
func (s *CustomerService) Get(ctx context.Context, account *domain.Account, id string) (*domain.Customer, error) {
	if !account.OwnsCustomer(id) {
		return nil, apperrors.NewForbidden("customer does not belong to account").In("CustomerService", "Get")
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer").In("CustomerService", "Get")
		}
		return nil, apperrors.NewPersistenceFailure("GetByID", err).In("CustomerService", "Get")
	}
	return customer, nil
}

// Replace overwrites every mutable field and stamps the whole clock with the
// replace instant.
func (s *CustomerService) Replace(ctx context.Context, account *domain.Account, id string, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.Get(ctx, account, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer.Name = input.Name
	customer.TaxID = input.TaxID
	customer.Address = input.Address
	customer.Touched = conflict.NewClock(now, domain.CustomerFields...)

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.NewPersistenceFailure("Update", err).In("CustomerService", "Replace")
	}
	return customer, nil
}

// Patch applies a timestamp-gated partial update. A wholly stale patch is a
// silent no-op.
func (s *CustomerService) Patch(ctx context.Context, account *domain.Account, id string, patch conflict.Patch, at time.Time) (*domain.Customer, error) {
	customer, err := s.Get(ctx, account, id)
	if err != nil {
		return nil, err
	}

	accepted, changed := conflict.Resolve(customer.Touched, patch, at)
	if !changed {
		s.publish(ctx, events.EventStalePatchRejected, account.ID,
			events.StalePatchPayload("customer", id, at))
		return customer, nil
	}

	applyCustomerPatch(customer, accepted)
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.NewPersistenceFailure("Update", err).In("CustomerService", "Patch")
	}
	return customer, nil
}

// Delete soft-deletes the customer and prunes the account's reference list,
// persisting both concurrently.
func (s *CustomerService) Delete(ctx context.Context, account *domain.Account, id string) error {
	customer, err := s.Get(ctx, account, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	customer.DeletedAt = &now
	account.RemoveCustomer(id)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.customers.Update(gctx, customer) })
	g.Go(func() error { return s.accounts.Update(gctx, account) })
	if err := g.Wait(); err != nil {
		return apperrors.NewPersistenceFailure("Update", err).In("CustomerService", "Delete")
	}

	s.publish(ctx, events.EventCustomerDeleted, account.ID, map[string]any{"customer_id": id})
	return nil
}

func (s *CustomerService) publish(ctx context.Context, eventType events.EventType, accountID string, payload map[string]any) {
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

func applyCustomerPatch(customer *domain.Customer, patch conflict.Patch) {
	for field, value := range patch {
		switch field {
		case "name":
			customer.Name = asString(value)
		case "tax_id":
			customer.TaxID = asString(value)
		case "street":
			customer.Address.Street = asString(value)
		case "number":
			customer.Address.Number = asString(value)
		case "complement":
			customer.Address.Complement = asString(value)
		case "neighborhood":
			customer.Address.Neighborhood = asString(value)
		case "zip_code":
			customer.Address.ZipCode = asString(value)
		case "city":
			customer.Address.City = asString(value)
		case "state":
			customer.Address.State = asString(value)
		}
	}
}
