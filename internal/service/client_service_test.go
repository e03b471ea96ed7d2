package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"
)

func newClientService(t *testing.T) ClientService {
	t.Helper()
	db := newTestDB(t)
	return NewClientService(repository.NewClientRepository(db))
}

func TestClientCRUD(t *testing.T) {
	svc := newClientService(t)

	created, err := svc.CreateClient(context.Background(), CreateClientRequest{
		Nombre:    "ACME SL",
		NIF:       "B11111111",
		Comercial: "Juan Ruiz",
	})
	require.NoError(t, err)

	fetched, err := svc.GetClient(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "ACME SL", fetched.Nombre)

	ciudad := "Sevilla"
	updated, err := svc.UpdateClient(context.Background(), created.ID.String(), UpdateClientRequest{Ciudad: &ciudad})
	require.NoError(t, err)
	assert.Equal(t, "Sevilla", updated.Ciudad)
	assert.Equal(t, "ACME SL", updated.Nombre)

	require.NoError(t, svc.DeleteClient(context.Background(), created.ID.String()))

	_, err = svc.GetClient(context.Background(), created.ID.String())
	assert.True(t, apperr.IsNotFound(err))
}

func TestClientSearchMatchesNombreAndNIF(t *testing.T) {
	svc := newClientService(t)

	_, err := svc.CreateClient(context.Background(), CreateClientRequest{Nombre: "ACME SL", NIF: "B11111111"})
	require.NoError(t, err)
	_, err = svc.CreateClient(context.Background(), CreateClientRequest{Nombre: "Industrias Lopez", NIF: "B22222222"})
	require.NoError(t, err)

	byNombre, total, err := svc.ListClients(context.Background(), "acme", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byNombre, 1)
	assert.Equal(t, "ACME SL", byNombre[0].Nombre)

	byNIF, total, err := svc.ListClients(context.Background(), "B2222", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byNIF, 1)
	assert.Equal(t, "Industrias Lopez", byNIF[0].Nombre)

	all, total, err := svc.ListClients(context.Background(), "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}

func TestClientUpdateRejectsEmptyRequiredFields(t *testing.T) {
	svc := newClientService(t)

	created, err := svc.CreateClient(context.Background(), CreateClientRequest{Nombre: "ACME SL", NIF: "B11111111"})
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateClient(context.Background(), created.ID.String(), UpdateClientRequest{Nombre: &empty})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.UpdateClient(context.Background(), created.ID.String(), UpdateClientRequest{NIF: &empty})
	assert.True(t, apperr.IsValidation(err))
}

func TestClientDeleteMissingIsNotFound(t *testing.T) {
	svc := newClientService(t)

	err := svc.DeleteClient(context.Background(), uuid.New().String())
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateClientEmptyPatchIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewClientService(repository.NewClientRepository(db))

	created, err := svc.CreateClient(context.Background(), CreateClientRequest{
		Nombre: "ACME SL",
		NIF:    "B11111111",
	})
	require.NoError(t, err)

	var before model.Client
	require.NoError(t, db.First(&before, "id = ?", created.ID).Error)

	same, err := svc.UpdateClient(context.Background(), created.ID.String(), UpdateClientRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.Nombre, same.Nombre)

	// The row was not rewritten, so updated_at did not move.
	var after model.Client
	require.NoError(t, db.First(&after, "id = ?", created.ID).Error)
	assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt))
}
