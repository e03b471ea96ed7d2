package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/apperr"
	"backend/internal/model"
)

func TestCreateUserAndLogin(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Nombre:       "Laura Perez",
		Email:        "laura@example.com",
		Password:     "secreto1",
		Departamento: model.DeptComercial,
	})
	require.NoError(t, err)
	assert.Equal(t, "laura@example.com", user.Email)
	assert.True(t, user.Activo)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "laura@example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.Usuario.ID)

	token, err := jwt.Parse(result.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test_secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, model.DeptComercial, claims["departamento"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Nombre:       "Laura Perez",
		Email:        "laura@example.com",
		Password:     "secreto1",
		Departamento: model.DeptComercial,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "laura@example.com", Password: "mal"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nadie@example.com", Password: "secreto1"})
	assert.True(t, apperr.IsValidation(err))
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, _ := newUserService(t)

	inactivo := false
	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Nombre:       "Baja Temporal",
		Email:        "baja@example.com",
		Password:     "secreto1",
		Departamento: model.DeptComercial,
		Activo:       &inactivo,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "baja@example.com", Password: "secreto1"})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newUserService(t)

	req := CreateUserRequest{
		Nombre:       "Laura Perez",
		Email:        "laura@example.com",
		Password:     "secreto1",
		Departamento: model.DeptComercial,
	}
	_, err := svc.CreateUser(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), req)
	assert.True(t, apperr.IsConflict(err))
}

func TestSeedAdminIsProtected(t *testing.T) {
	svc, _ := newUserService(t)

	admin, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Nombre:       "Administrador",
		Email:        model.SeedAdminEmail,
		Password:     "admin123",
		Departamento: model.DeptAdministracion,
	})
	require.NoError(t, err)

	err = svc.DeleteUser(context.Background(), admin.ID)
	assert.True(t, apperr.IsState(err))

	comercial := model.DeptComercial
	_, err = svc.UpdateUser(context.Background(), admin.ID, UpdateUserRequest{Departamento: &comercial})
	assert.True(t, apperr.IsState(err))

	inactivo := false
	_, err = svc.UpdateUser(context.Background(), admin.ID, UpdateUserRequest{Activo: &inactivo})
	assert.True(t, apperr.IsState(err))

	// Renaming is still allowed.
	nombre := "Admin Principal"
	updated, err := svc.UpdateUser(context.Background(), admin.ID, UpdateUserRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, nombre, updated.Nombre)
}

func TestUpdateUserChangesPassword(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Nombre:       "Laura Perez",
		Email:        "laura@example.com",
		Password:     "secreto1",
		Departamento: model.DeptComercial,
	})
	require.NoError(t, err)

	nueva := "secreto2"
	_, err = svc.UpdateUser(context.Background(), user.ID, UpdateUserRequest{Password: &nueva})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "laura@example.com", Password: "secreto1"})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "laura@example.com", Password: "secreto2"})
	assert.NoError(t, err)
}
