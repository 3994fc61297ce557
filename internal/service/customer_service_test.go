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
)

type customerFixture struct {
	svc       *CustomerService
	accounts  *memAccountRepo
	customers *memCustomerRepo
	account   *domain.Account
}

func newCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()

	accounts := newMemAccountRepo()
	customers := newMemCustomerRepo()
	account := &domain.Account{
		ID:          "acc-1",
		Email:       "maria@example.com",
		Status:      domain.AccountStatusActive,
		CustomerIDs: []string{},
		InvoiceIDs:  []string{},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, accounts.Create(context.Background(), account))

	return &customerFixture{
		svc:       NewCustomerService(accounts, customers, nil, zap.NewNop()),
		accounts:  accounts,
		customers: customers,
		account:   account,
	}
}

func customerInput(name string) CustomerInput {
	return CustomerInput{
		Name:  name,
		TaxID: "123.456.789-09",
		Address: domain.Address{
			Street: "Rua das Flores", Number: "100",
			City: "São Paulo", State: "SP", ZipCode: "01000-000",
		},
	}
}

func TestCustomerCreate_RegistersOwnership(t *testing.T) {
	fx := newCustomerFixture(t)
	ctx := context.Background()

	customer, err := fx.svc.Create(ctx, fx.account, customerInput("Cliente A"))
	require.NoError(t, err)

	assert.True(t, fx.account.OwnsCustomer(customer.ID))
	stored, err := fx.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cliente A", stored.Name)

	list, err := fx.svc.List(ctx, fx.account)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCustomerGet_ForeignIDForbiddenEvenWhenStored(t *testing.T) {
	fx := newCustomerFixture(t)
	ctx := context.Background()

	// A customer exists in storage but is not in this account's list.
	foreign := &domain.Customer{ID: "foreign-1", Name: "Outro", CreatedAt: time.Now().UTC()}
	require.NoError(t, fx.customers.Create(ctx, foreign))

	_, err := fx.svc.Get(ctx, fx.account, "foreign-1")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	// Same answer for an id that exists nowhere: ownership is checked first,
	// so the response never reveals whether the customer exists.
	_, err = fx.svc.Get(ctx, fx.account, "ghost")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestCustomerGet_OwnedButMissingIsNotFound(t *testing.T) {
	fx := newCustomerFixture(t)
	ctx := context.Background()

	fx.account.CustomerIDs = []string{"dangling"}
	_, err := fx.svc.Get(ctx, fx.account, "dangling")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestCustomerPatch_LaterWriteWinsRegardlessOfArrival(t *testing.T) {
	fx := newCustomerFixture(t)
	ctx := context.Background()

	customer, err := fx.svc.Create(ctx, fx.account, customerInput("Cliente A"))
	require.NoError(t, err)

	base := time.Now().UTC()
	tenOClock := base.Add(10 * time.Minute)
	fiveToTen := base.Add(5 * time.Minute)

	// The edit stamped later arrives first.
	updated, err := fx.svc.Patch(ctx, fx.account, customer.ID, conflict.Patch{"name": "Edição das 10h"}, tenOClock)
	require.NoError(t, err)
	assert.Equal(t, "Edição das 10h", updated.Name)

	// The earlier edit arrives afterwards and must not overwrite.
	after, err := fx.svc.Patch(ctx, fx.account, customer.ID, conflict.Patch{"name": "Edição das 9h55"}, fiveToTen)
	require.NoError(t, err)
	assert.Equal(t, "Edição das 10h", after.Name)

	stored, err := fx.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edição das 10h", stored.Name)
}

func TestCustomerPatch_MixedFreshnessAppliesPerField(t *testing.T) {
	fx := newCustomerFixture(t)
	ctx := context.Background()

	customer, err := fx.svc.Create(ctx, fx.account, customerInput("Cliente A"))
	require.NoError(t, err)

	fresh := time.Now().UTC().Add(10 * time.Minute)
	_, err = fx.svc.Patch(ctx, fx.account, customer.ID, conflict.Patch{"name": "Novo Nome"}, fresh)
	require.NoError(t, err)

	// name is stale at fresh-1m, city is fresh relative to its own entry.
	mixed, err := fx.svc.Patch(ctx, fx.account, customer.ID,
		conflict.Patch{"name": "Perdido", "city": "Campinas"}, fresh.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", mixed.Name)
	assert.Equal(t, "Campinas", mixed.Address.City)
}

func TestCustomerReplace_OverwritesAndRestampsClock(t *testing.T) {
	fx := newCustomerFixture(t)
	ctx := context.Background()

	customer, err := fx.svc.Create(ctx, fx.account, customerInput("Cliente A"))
	require.NoError(t, err)
	before := customer.Touched["name"]

	replaced, err := fx.svc.Replace(ctx, fx.account, customer.ID, customerInput("Cliente B"))
	require.NoError(t, err)
	assert.Equal(t, "Cliente B", replaced.Name)
	assert.True(t, replaced.Touched["name"].After(before) || replaced.Touched["name"].Equal(before))
	for _, field := range domain.CustomerFields {
		assert.Equal(t, replaced.Touched["name"], replaced.Touched[field])
	}
}

func TestCustomerDelete_SoftDeletesAndPrunesList(t *testing.T) {
	fx := newCustomerFixture(t)
	ctx := context.Background()

	customer, err := fx.svc.Create(ctx, fx.account, customerInput("Cliente A"))
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, fx.account, customer.ID))

	assert.False(t, fx.account.OwnsCustomer(customer.ID))
	assert.NotNil(t, fx.customers.customers[customer.ID].DeletedAt)

	list, err := fx.svc.List(ctx, fx.account)
	require.NoError(t, err)
	assert.Empty(t, list)
}
