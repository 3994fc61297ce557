package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/orcafacil/api/internal/api/dto"
	"github.com/orcafacil/api/internal/service"
	"github.com/orcafacil/api/internal/validation"
)

// HeaderAccessToken is the response header carrying the session token on a
// successful login, mirroring the body payload for clients that only read
// headers.
const HeaderAccessToken = "X-Access-Token"

// AccountsHandler exposes registration, session and account self-service
// endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Register handles POST /auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	body := validation.Body(c)

	account, err := h.accounts.Register(c.UserContext(), service.RegisterInput{
		Email:    bodyString(body, "email"),
		Password: bodyString(body, "password"),
		Name:     bodyString(body, "name"),
		Phone:    bodyString(body, "phone"),
		Address:  addressFromBody(body),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewAccountView(account),
	})
}

// Confirm handles GET /auth/confirm?token=...
func (h *AccountsHandler) Confirm(c *fiber.Ctx) error {
	account, err := h.accounts.Confirm(c.UserContext(), c.Query("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":     account.ID,
			"status": string(account.Status),
		},
	})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	body := validation.Body(c)

	account, token, expiresAt, err := h.accounts.Login(c.UserContext(),
		bodyString(body, "email"), bodyString(body, "password"))
	if err != nil {
		return err
	}

	c.Set(HeaderAccessToken, token)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.NewAccountView(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Recover handles POST /auth/recover.
func (h *AccountsHandler) Recover(c *fiber.Ctx) error {
	body := validation.Body(c)
	if err := h.accounts.Recover(c.UserContext(), bodyString(body, "email")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"sent": true}})
}

// Reset handles POST /auth/reset.
func (h *AccountsHandler) Reset(c *fiber.Ctx) error {
	body := validation.Body(c)
	err := h.accounts.ResetPassword(c.UserContext(),
		bodyString(body, "token"), bodyString(body, "password"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}

// Me handles GET /account.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountView(account)})
}

// Update handles PATCH /account.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	patch, at := patchFromBody(validation.Body(c))
	updated, err := h.accounts.UpdateProfile(c.UserContext(), account, patch, at)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountView(updated)})
}

// ChangePassword handles PUT /account/password.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}

	body := validation.Body(c)
	err = h.accounts.ChangePassword(c.UserContext(), account,
		bodyString(body, "current_password"), bodyString(body, "new_password"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// Delete handles DELETE /account.
func (h *AccountsHandler) Delete(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.UserContext(), account); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
