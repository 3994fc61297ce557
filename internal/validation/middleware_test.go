package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_BodyOnlySchemaIgnoresRouteParams(t *testing.T) {
	t.Parallel()

	schema := Schema{
		Body: []Field{
			{Key: "name", Required: true, Type: TypeString},
		},
	}

	app := fiber.New()
	app.Put("/things/:id", Middleware(schema), func(c *fiber.Ctx) error {
		assert.Equal(t, "abc", c.Params("id"))
		assert.Equal(t, "x", Body(c)["name"])
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPut, "/things/abc?trace=1", strings.NewReader(`{"name":"x"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_DeclaredParamsStayClosed(t *testing.T) {
	t.Parallel()

	schema := Schema{
		Query: []Field{
			{Key: "token", Required: true, Type: TypeString},
		},
	}

	app := fiber.New()
	app.Get("/confirm", Middleware(schema), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/confirm?token=x&extra=1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}
