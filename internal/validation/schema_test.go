package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPart_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Key: "email", Required: true, Type: TypeEmail},
		{Key: "password", Required: true, Type: TypeString, MinLen: 8},
	}

	violations := checkPart(map[string]any{}, fields, false)

	require.Len(t, violations, 2, "both missing fields must be reported")
	keys := []string{violations[0].Key, violations[1].Key}
	assert.Contains(t, keys, "email")
	assert.Contains(t, keys, "password")
	for _, v := range violations {
		assert.Equal(t, ViolationRequired, v.Violation)
	}
}

func TestCheckPart_TypeAndBoundChecks(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Key: "email", Type: TypeEmail},
		{Key: "password", Type: TypeString, MinLen: 8},
		{Key: "price", Type: TypeNumber, Min: Float(0)},
		{Key: "count", Type: TypeInteger},
	}
	values := map[string]any{
		"email":    "not-an-email",
		"password": "short",
		"price":    -3.5,
		"count":    1.5,
	}

	violations := checkPart(values, fields, false)

	got := map[string]string{}
	for _, v := range violations {
		got[v.Key] = v.Violation
	}
	assert.Equal(t, ViolationType, got["email"])
	assert.Equal(t, ViolationMinLength, got["password"])
	assert.Equal(t, ViolationMin, got["price"])
	assert.Equal(t, ViolationType, got["count"])
}

func TestCheckPart_EnumAndPattern(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Key: "property_type", Type: TypeString, Enum: []string{"Apartamento", "Casa", "Comercial"}},
		{Key: "zip", Type: TypeString, Pattern: MustPattern(`^\d{5}-?\d{3}$`)},
	}

	ok := checkPart(map[string]any{"property_type": "Casa", "zip": "01310-100"}, fields, false)
	assert.Empty(t, ok)

	bad := checkPart(map[string]any{"property_type": "Fazenda", "zip": "abc"}, fields, false)
	require.Len(t, bad, 2)
}

func TestCheckPart_ClosedPartRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	fields := []Field{{Key: "name", Type: TypeString}}

	violations := checkPart(map[string]any{"name": "x", "extra": 1}, fields, false)
	require.Len(t, violations, 1)
	assert.Equal(t, "extra", violations[0].Key)
	assert.Equal(t, ViolationUnknownKey, violations[0].Violation)
}

func TestCheckPart_OpenPartAllowsUnknownKeys(t *testing.T) {
	t.Parallel()

	fields := []Field{{Key: "authorization", Required: true, Type: TypeString}}
	values := map[string]any{
		"authorization": "Bearer x",
		"user-agent":    "curl",
		"x-forwarded":   "1.2.3.4",
	}

	assert.Empty(t, checkPart(values, fields, true))
}

func TestCheckPart_QueryStringsCoerce(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Key: "page", Type: TypeInteger, Min: Float(1)},
		{Key: "active", Type: TypeBool},
	}
	values := map[string]any{"page": "2", "active": "true"}

	assert.Empty(t, checkPart(values, fields, false))

	bad := checkPart(map[string]any{"page": "zero", "active": "sim"}, fields, false)
	require.Len(t, bad, 2)
}
