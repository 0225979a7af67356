package service

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/infrastructure/repository"
	"github.com/sangkips/gst-invoice-api/pkg/apperror"
	"github.com/sangkips/gst-invoice-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_CRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(repository.NewClientRepository(db))
	user := createUser(t, db, "owner@example.com")

	client, err := svc.CreateClient(ctx(), user.ID, &ClientInput{
		CompanyName: ptr("Acme Fabricators"),
		GSTNumber:   ptr("27fghij5678k1z2"),
		Email:       ptr("accounts@acme.example"),
	})
	require.NoError(t, err)
	require.NotNil(t, client.StateCode)
	assert.Equal(t, "27", *client.StateCode)
	assert.Equal(t, "Maharashtra", *client.State)
	assert.Equal(t, "FGHIJ5678K", *client.PAN)

	_, err = svc.CreateClient(ctx(), user.ID, &ClientInput{CompanyName: ptr("Duplicate"), GSTNumber: ptr("27FGHIJ5678K1Z2")})
	assert.Equal(t, http.StatusConflict, appCode(err))

	_, err = svc.CreateClient(ctx(), user.ID, &ClientInput{CompanyName: ptr("  ")})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(err))

	updated, err := svc.UpdateClient(ctx(), user.ID, client.ID, &ClientInput{OwnerName: ptr("R. Kulkarni"), Email: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "R. Kulkarni", *updated.OwnerName)
	assert.Nil(t, updated.Email)

	page, err := svc.ListClients(ctx(), user.ID, pagination.DefaultPagination(), "acme")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, svc.DeleteClient(ctx(), user.ID, client.ID))
	_, err = svc.GetClient(ctx(), user.ID, client.ID)
	assert.Equal(t, http.StatusNotFound, appCode(err))
}

func TestClientService_IsolatedPerUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(repository.NewClientRepository(db))
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")

	client, err := svc.CreateClient(ctx(), owner.ID, &ClientInput{CompanyName: ptr("Acme"), GSTNumber: ptr("27FGHIJ5678K1Z2")})
	require.NoError(t, err)

	_, err = svc.GetClient(ctx(), other.ID, client.ID)
	assert.Equal(t, http.StatusNotFound, appCode(err))

	// same GSTIN under another user is allowed
	_, err = svc.CreateClient(ctx(), other.ID, &ClientInput{CompanyName: ptr("Acme"), GSTNumber: ptr("27FGHIJ5678K1Z2")})
	assert.NoError(t, err)
}

func TestClientService_SearchClients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(repository.NewClientRepository(db))
	user := createUser(t, db, "owner@example.com")

	acme, err := svc.CreateClient(ctx(), user.ID, &ClientInput{CompanyName: ptr("Acme Fabricators"), OwnerName: ptr("Ravi")})
	require.NoError(t, err)
	_, err = svc.CreateClient(ctx(), user.ID, &ClientInput{CompanyName: ptr("Bharat Traders"), GSTNumber: ptr("29PQRST1234U1Z9")})
	require.NoError(t, err)

	_, err = svc.SearchClients(ctx(), user.ID, &ClientSearchInput{})
	assert.ErrorIs(t, err, apperror.ErrFilterRequired)

	_, err = svc.SearchClients(ctx(), user.ID, &ClientSearchInput{Name: "acme", OwnerName: "ravi"})
	assert.ErrorIs(t, err, apperror.ErrTooManyFilters)

	_, err = svc.SearchClients(ctx(), user.ID, &ClientSearchInput{ID: "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, appCode(err))

	found, err := svc.SearchClients(ctx(), user.ID, &ClientSearchInput{Name: "FABRIC"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, acme.ID, found[0].ID)

	found, err = svc.SearchClients(ctx(), user.ID, &ClientSearchInput{GSTNumber: "29pqrst1234u1z9"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.SearchClients(ctx(), user.ID, &ClientSearchInput{ID: uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, found)
}
