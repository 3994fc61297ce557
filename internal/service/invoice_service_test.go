package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orcafacil/api/internal/conflict"
	"github.com/orcafacil/api/internal/domain"
	"github.com/orcafacil/api/internal/pdf"
)

type invoiceFixture struct {
	svc       *InvoiceService
	accounts  *memAccountRepo
	invoices  *memInvoiceRepo
	customers *memCustomerRepo
	materials *memMaterialRepo
	equipment *memEquipmentRepo
	account   *domain.Account
	customer  *domain.Customer
}

type stubRenderer struct {
	out []byte
	err error
}

func (r stubRenderer) Render(_ context.Context, html []byte) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.out != nil {
		return r.out, nil
	}
	return html, nil
}

func newInvoiceFixture(t *testing.T, renderer pdf.Renderer) *invoiceFixture {
	t.Helper()

	now := time.Now().UTC()
	accounts := newMemAccountRepo()
	invoices := newMemInvoiceRepo()
	customers := newMemCustomerRepo()
	materials := newMemMaterialRepo()
	equipment := newMemEquipmentRepo()

	account := &domain.Account{
		ID:          "acc-1",
		Email:       "maria@example.com",
		Name:        "Maria Silva",
		Status:      domain.AccountStatusActive,
		CustomerIDs: []string{"cust-1"},
		InvoiceIDs:  []string{},
		CreatedAt:   now,
	}
	customer := &domain.Customer{
		ID:        "cust-1",
		Name:      "Cliente A",
		Address:   domain.Address{Street: "Rua A", Number: "1", City: "São Paulo", State: "SP"},
		CreatedAt: now,
	}
	ctx := context.Background()
	require.NoError(t, accounts.Create(ctx, account))
	require.NoError(t, customers.Create(ctx, customer))

	svc := NewInvoiceService(InvoiceDependencies{
		AccountRepo:   accounts,
		InvoiceRepo:   invoices,
		CustomerRepo:  customers,
		MaterialRepo:  materials,
		EquipmentRepo: equipment,
		Renderer:      renderer,
		Logger:        zap.NewNop(),
	})

	return &invoiceFixture{
		svc: svc, accounts: accounts, invoices: invoices, customers: customers,
		materials: materials, equipment: equipment, account: account, customer: customer,
	}
}

func invoiceInput() InvoiceInput {
	return InvoiceInput{
		CustomerID:  "cust-1",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: "Reforma do banheiro",
		Labor: []domain.LaborItem{
			{Name: "Demolição", Hours: 8, Price: 400},
			{Name: "Assentamento", Hours: 16, Price: 1200},
		},
		Addition:     100,
		Discount:     50,
		PropertyType: domain.PropertyApartment,
	}
}

func TestInvoiceCreate_ComputesTotalAndRegistersOwnership(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{})
	ctx := context.Background()

	invoice, err := fx.svc.Create(ctx, fx.account, invoiceInput())
	require.NoError(t, err)

	// 400 + 1200 + 100 - 50
	assert.Equal(t, 1650.0, invoice.Total)
	assert.True(t, fx.account.OwnsInvoice(invoice.ID))
	assert.NotNil(t, invoice.MaterialIDs)
	assert.NotNil(t, invoice.EquipmentIDs)
}

func TestInvoiceCreate_RequiresOwnedCustomer(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{})

	input := invoiceInput()
	input.CustomerID = "foreign"
	_, err := fx.svc.Create(context.Background(), fx.account, input)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestInvoicePatch_RecomputesTotalAndKeepsCustomer(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{})
	ctx := context.Background()

	invoice, err := fx.svc.Create(ctx, fx.account, invoiceInput())
	require.NoError(t, err)

	fresh := time.Now().UTC().Add(time.Minute)
	patched, err := fx.svc.Patch(ctx, fx.account, invoice.ID, conflict.Patch{
		"discount": 150.0,
		"labor": []any{
			map[string]any{"name": "Pintura", "hours": 4.0, "price": 300.0},
		},
	}, fresh)
	require.NoError(t, err)

	// 300 + 100 - 150
	assert.Equal(t, 250.0, patched.Total)
	assert.Equal(t, "cust-1", patched.CustomerID)
	require.Len(t, patched.Labor, 1)
	assert.Equal(t, "Pintura", patched.Labor[0].Name)
}

func TestInvoicePatch_StaleIsSilentNoOp(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{})
	ctx := context.Background()

	invoice, err := fx.svc.Create(ctx, fx.account, invoiceInput())
	require.NoError(t, err)
	originalTotal := invoice.Total

	stale := time.Now().UTC().Add(-time.Hour)
	unchanged, err := fx.svc.Patch(ctx, fx.account, invoice.ID, conflict.Patch{"discount": 999.0}, stale)
	require.NoError(t, err)
	assert.Equal(t, originalTotal, unchanged.Total)
}

func TestInvoiceGet_ForeignIDForbidden(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{})

	_, err := fx.svc.Get(context.Background(), fx.account, "ghost")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestInvoiceDelete_SoftDeletesAndPrunesList(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{})
	ctx := context.Background()

	invoice, err := fx.svc.Create(ctx, fx.account, invoiceInput())
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, fx.account, invoice.ID))
	assert.False(t, fx.account.OwnsInvoice(invoice.ID))
	assert.NotNil(t, fx.invoices.invoices[invoice.ID].DeletedAt)
}

func TestInvoiceRenderPDF_BuildsDocument(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{})
	ctx := context.Background()

	material := &domain.Material{ID: "mat-1", AccountID: "acc-1", Name: "Porcelanato", Price: 80, Count: 12, CreatedAt: time.Now().UTC()}
	require.NoError(t, fx.materials.Create(ctx, material))

	input := invoiceInput()
	input.MaterialIDs = []string{"mat-1"}
	invoice, err := fx.svc.Create(ctx, fx.account, input)
	require.NoError(t, err)

	rendered, err := fx.svc.RenderPDF(ctx, fx.account, invoice.ID)
	require.NoError(t, err)

	html := string(rendered)
	assert.Contains(t, html, "Maria Silva")
	assert.Contains(t, html, "Cliente A")
	assert.Contains(t, html, "Porcelanato")
	assert.Contains(t, html, "R$ 1650.00")
}

func TestInvoiceRenderPDF_UnavailableWithoutRenderer(t *testing.T) {
	fx := newInvoiceFixture(t, stubRenderer{err: pdf.ErrNotConfigured})
	ctx := context.Background()

	invoice, err := fx.svc.Create(ctx, fx.account, invoiceInput())
	require.NoError(t, err)

	_, err = fx.svc.RenderPDF(ctx, fx.account, invoice.ID)
	assert.Equal(t, "PDF_UNAVAILABLE", domainCode(t, err))
}
