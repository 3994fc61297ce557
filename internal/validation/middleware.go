package validation

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/orcafacil/api/pkg/util"
)

const validatedBodyKey = "validated_body"

// Middleware returns a handler that checks the request against the schema
// before the route handler runs. All violations across all parts are
// collected into a single VALIDATION_FAILED response. On success the parsed
// body is stored on the context so handlers never re-read raw input.
func Middleware(schema Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var violations []Violation

		body := map[string]any{}
		if len(schema.Body) > 0 {
			raw := c.Body()
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &body); err != nil {
					violations = append(violations, Violation{Key: "body", Label: "body", Violation: ViolationMalformed})
				}
			}
			if len(violations) == 0 {
				violations = append(violations, checkPart(body, schema.Body, false)...)
			}
		}

		if len(schema.Query) > 0 {
			violations = append(violations, checkPart(stringMap(c.Queries()), schema.Query, false)...)
		}
		if len(schema.Params) > 0 {
			violations = append(violations, checkPart(stringMap(c.AllParams()), schema.Params, false)...)
		}
		if len(schema.Headers) > 0 {
			violations = append(violations, checkPart(headerMap(c.GetReqHeaders()), schema.Headers, true)...)
		}

		if len(violations) > 0 {
			return apperrors.NewValidationFailed(map[string]any{"violations": violations}).
				In("validation.Middleware", c.Route().Path)
		}

		c.Locals(validatedBodyKey, body)
		return c.Next()
	}
}

// Body returns the validated request body for handlers downstream of
// Middleware. Never nil.
func Body(c *fiber.Ctx) map[string]any {
	if body, ok := c.Locals(validatedBodyKey).(map[string]any); ok {
		return body
	}
	return map[string]any{}
}

func stringMap(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func headerMap(in map[string][]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
