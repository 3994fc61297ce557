package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/orcafacil/api/internal/auth"
	"github.com/orcafacil/api/internal/config"
	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/events"
	"github.com/orcafacil/api/internal/mail"
	"github.com/orcafacil/api/internal/repository"
	apperrors "github.com/orcafacil/api/pkg/util"
)

// AccountService coordinates registration, confirmation, login and account
// self-service flows.
type AccountService struct {
	accounts      repository.AccountRepository
	customers     repository.CustomerRepository
	invoices      repository.InvoiceRepository
	hasher        *auth.Hasher
	authTokens    *auth.TokenService
	confirmTokens *auth.TokenService
	resetTokens   *auth.TokenService
	oneShot       repository.OneShotStore
	mailer        mail.Mailer
	mailCfg       config.MailConfig
	authCfg       config.AuthConfig
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	AccountRepo   repository.AccountRepository
	CustomerRepo  repository.CustomerRepository
	InvoiceRepo   repository.InvoiceRepository
	Hasher        *auth.Hasher
	AuthTokens    *auth.TokenService
	ConfirmTokens *auth.TokenService
	ResetTokens   *auth.TokenService
	OneShot       repository.OneShotStore
	Mailer        mail.Mailer
	MailConfig    config.MailConfig
	AuthConfig    config.AuthConfig
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:      deps.AccountRepo,
		customers:     deps.CustomerRepo,
		invoices:      deps.InvoiceRepo,
		hasher:        deps.Hasher,
		authTokens:    deps.AuthTokens,
		confirmTokens: deps.ConfirmTokens,
		resetTokens:   deps.ResetTokens,
		oneShot:       deps.OneShot,
		mailer:        deps.Mailer,
		mailCfg:       deps.MailConfig,
		authCfg:       deps.AuthConfig,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// RegisterInput describes a new registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Address  domain.Address
}

// Register creates an INACTIVE account and emails a confirmation link. The
// registration fails as a whole when the email cannot be delivered.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered").In("AccountService", "Register")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceFailure("GetByEmail", err).In("AccountService", "Register")
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: s.hasher.Hash(input.Password),
		Name:         input.Name,
		Phone:        input.Phone,
		Address:      input.Address,
		Status:       domain.AccountStatusInactive,
		CustomerIDs:  []string{},
		InvoiceIDs:   []string{},
		Touched:      conflict.NewClock(now, domain.AccountFields...),
		CreatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.NewPersistenceFailure("Create", err).In("AccountService", "Register")
	}

	token, _, err := s.confirmTokens.Generate(account.ID, account.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err).In("AccountService", "Register")
	}

	msg := mail.Message{
		To:      account.Email,
		Subject: "Confirme sua conta no Orça Fácil",
		HTML:    confirmMailHTML(account.Name, s.mailCfg.ConfirmURL+"?token="+url.QueryEscape(token)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// The flow fails as a whole; remove the half-registered account so
		// the user can try again with the same email.
		if delErr := s.accounts.HardDelete(ctx, account.ID); delErr != nil {
			s.logger.Error("failed to roll back unconfirmed account",
				zap.String("account_id", account.ID), zap.Error(delErr))
		}
		return nil, apperrors.NewDeliveryFailure("Send", err).In("AccountService", "Register")
	}

	s.publish(ctx, events.EventAccountRegistered, account.ID, nil)
	return account, nil
}

// Confirm consumes a confirmation token and moves the account to STATIC.
func (s *AccountService) Confirm(ctx context.Context, tokenStr string) (*domain.Account, error) {
	claims, err := s.confirmTokens.Verify(tokenStr)
	if err != nil {
		de := apperrors.NewUnauthorized("invalid confirmation token").In("AccountService", "Confirm")
		de.Err = err
		return nil, de
	}

	first, err := s.oneShot.MarkUsed(ctx, string(auth.SubjectConfirm), claims.ID, s.authCfg.ConfirmTokenTTL())
	if err != nil {
		return nil, apperrors.NewPersistenceFailure("MarkUsed", err).In("AccountService", "Confirm")
	}
	if !first {
		return nil, apperrors.NewUnauthorized("confirmation link already used").In("AccountService", "Confirm")
	}

	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("account not found").In("AccountService", "Confirm")
		}
		return nil, apperrors.NewPersistenceFailure("GetByID", err).In("AccountService", "Confirm")
	}

	if account.Status != domain.AccountStatusInactive {
		return nil, apperrors.NewConflict("account already confirmed").In("AccountService", "Confirm")
	}

	account.Status = domain.AccountStatusStatic
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.NewPersistenceFailure("Update", err).In("AccountService", "Confirm")
	}

	s.publish(ctx, events.EventAccountConfirmed, account.ID, nil)
	return account, nil
}

// Login authenticates by email and password. The first login after
// confirmation flips STATIC to ACTIVE before issuing the session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials").In("AccountService", "Login")
		}
		return nil, "", time.Time{}, apperrors.NewPersistenceFailure("GetByEmail", err).In("AccountService", "Login")
	}

	switch account.Status {
	case domain.AccountStatusInactive, domain.AccountStatusDisabled:
		return nil, "", time.Time{}, apperrors.NewAccountNotActivated().In("AccountService", "Login")
	}

	if !s.hasher.Matches(password, account.PasswordHash) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials").In("AccountService", "Login")
	}

	if account.Status == domain.AccountStatusStatic {
		account.Status = domain.AccountStatusActive
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, "", time.Time{}, apperrors.NewPersistenceFailure("Update", err).In("AccountService", "Login")
		}
	}

	token, expiresAt, err := s.authTokens.Generate(account.ID, account.Email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err).In("AccountService", "Login")
	}
	return account, token, expiresAt, nil
}

// Recover emails a password-reset link to the account holder.
func (s *AccountService) Recover(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account").In("AccountService", "Recover")
		}
		return apperrors.NewPersistenceFailure("GetByEmail", err).In("AccountService", "Recover")
	}

	token, _, err := s.resetTokens.Generate(account.ID, account.Email)
	if err != nil {
		return apperrors.NewInternalError(err).In("AccountService", "Recover")
	}

	msg := mail.Message{
		To:      account.Email,
		Subject: "Recuperação de senha — Orça Fácil",
		HTML:    resetMailHTML(account.Name, s.mailCfg.ResetURL+"?token="+url.QueryEscape(token)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return apperrors.NewDeliveryFailure("Send", err).In("AccountService", "Recover")
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AccountService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	claims, err := s.resetTokens.Verify(tokenStr)
	if err != nil {
		de := apperrors.NewUnauthorized("invalid reset token").In("AccountService", "ResetPassword")
		de.Err = err
		return de
	}

	first, err := s.oneShot.MarkUsed(ctx, string(auth.SubjectReset), claims.ID, s.authCfg.ResetTokenTTL())
	if err != nil {
		return apperrors.NewPersistenceFailure("MarkUsed", err).In("AccountService", "ResetPassword")
	}
	if !first {
		return apperrors.NewUnauthorized("reset link already used").In("AccountService", "ResetPassword")
	}

	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("account not found").In("AccountService", "ResetPassword")
		}
		return apperrors.NewPersistenceFailure("GetByID", err).In("AccountService", "ResetPassword")
	}

	account.PasswordHash = s.hasher.Hash(newPassword)
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.NewPersistenceFailure("Update", err).In("AccountService", "ResetPassword")
	}

	s.publish(ctx, events.EventPasswordReset, account.ID, nil)
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AccountService) ChangePassword(ctx context.Context, account *domain.Account, current, next string) error {
	if !s.hasher.Matches(current, account.PasswordHash) {
		return apperrors.NewUnauthorized("invalid credentials").In("AccountService", "ChangePassword")
	}
	account.PasswordHash = s.hasher.Hash(next)
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.NewPersistenceFailure("Update", err).In("AccountService", "ChangePassword")
	}
	return nil
}

// UpdateProfile applies a timestamp-gated partial update to the account. A
// wholly stale patch is a silent no-op.
func (s *AccountService) UpdateProfile(ctx context.Context, account *domain.Account, patch conflict.Patch, at time.Time) (*domain.Account, error) {
	accepted, changed := conflict.Resolve(account.Touched, patch, at)
	if !changed {
		s.publish(ctx, events.EventStalePatchRejected, account.ID,
			events.StalePatchPayload("account", account.ID, at))
		return account, nil
	}

	applyAccountPatch(account, accepted)
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.NewPersistenceFailure("Update", err).In("AccountService", "UpdateProfile")
	}
	return account, nil
}

// Delete soft-deletes the account and cascades to every owned customer and
// invoice. The two cascades are issued concurrently and jointly awaited.
func (s *AccountService) Delete(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	customerIDs := account.CustomerIDs
	invoiceIDs := account.InvoiceIDs
	g.Go(func() error { return s.customers.SoftDeleteMany(gctx, customerIDs, now) })
	g.Go(func() error { return s.invoices.SoftDeleteMany(gctx, invoiceIDs, now) })
	if err := g.Wait(); err != nil {
		return apperrors.NewPersistenceFailure("SoftDeleteMany", err).In("AccountService", "Delete")
	}

	account.CustomerIDs = []string{}
	account.InvoiceIDs = []string{}
	account.DeletedAt = &now
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.NewPersistenceFailure("Update", err).In("AccountService", "Delete")
	}

	s.publish(ctx, events.EventAccountDeleted, account.ID, nil)
	return nil
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, accountID string, payload map[string]any) {
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

func applyAccountPatch(account *domain.Account, patch conflict.Patch) {
	for field, value := range patch {
		switch field {
		case "name":
			account.Name = asString(value)
		case "phone":
			account.Phone = asString(value)
		case "street":
			account.Address.Street = asString(value)
		case "number":
			account.Address.Number = asString(value)
		case "complement":
			account.Address.Complement = asString(value)
		case "neighborhood":
			account.Address.Neighborhood = asString(value)
		case "zip_code":
			account.Address.ZipCode = asString(value)
		case "city":
			account.Address.City = asString(value)
		case "state":
			account.Address.State = asString(value)
		}
	}
}

func confirmMailHTML(name, link string) string {
	return fmt.Sprintf(
		`<p>Olá %s,</p><p>Confirme sua conta clicando no link abaixo:</p><p><a href=%q>Confirmar conta</a></p>`,
		name, link)
}

func resetMailHTML(name, link string) string {
	return fmt.Sprintf(
		`<p>Olá %s,</p><p>Para redefinir sua senha, acesse o link abaixo:</p><p><a href=%q>Redefinir senha</a></p>`,
		name, link)
}
