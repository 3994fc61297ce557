package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/orcafacil/api/internal/auth"
	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/domain"
	apperrors "github.com/orcafacil/api/pkg/util"
)

// principal returns the authenticated account or fails the request. The auth
// gate runs before every protected handler, so a miss here means a wiring bug.
func principal(c *fiber.Ctx) (*domain.Account, error) {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required").In("handlers", "principal")
	}
	return account, nil
}

func bodyString(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

func bodyFloat(body map[string]any, key string) float64 {
	f, _ := body[key].(float64)
	return f
}

func bodyInt(body map[string]any, key string) int {
	f, _ := body[key].(float64)
	return int(f)
}

func bodyTime(body map[string]any, key string) time.Time {
	t, _ := time.Parse(time.RFC3339, bodyString(body, key))
	return t
}

func bodyStringSlice(body map[string]any, key string) []string {
	items, ok := body[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func addressFromBody(body map[string]any) domain.Address {
	return domain.Address{
		Street:       bodyString(body, "street"),
		Number:       bodyString(body, "number"),
		Complement:   bodyString(body, "complement"),
		Neighborhood: bodyString(body, "neighborhood"),
		ZipCode:      bodyString(body, "zip_code"),
		City:         bodyString(body, "city"),
		State:        bodyString(body, "state"),
	}
}

// patchFromBody splits a validated patch body into the field patch and the
// client edit timestamp carried under updated_at.
func patchFromBody(body map[string]any) (conflict.Patch, time.Time) {
	at := bodyTime(body, conflict.TimestampField)
	patch := make(conflict.Patch, len(body))
	for key, value := range body {
		if key == conflict.TimestampField {
			continue
		}
		patch[key] = value
	}
	return patch, at
}

// decodeLabor converts a decoded JSON array into typed labor items.
func decodeLabor(v any) ([]domain.LaborItem, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var items []domain.LaborItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
