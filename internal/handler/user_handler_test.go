package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
)

func setupUserRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	userService := service.NewUserService(repository.NewUserRepository(db), middleware.GetJWTSecret())
	router := gin.New()
	NewUserHandler(userService).RegisterRoutes(router.Group(""))
	return router, db
}

func seedUser(t *testing.T, db *gorm.DB, email, password, departamento string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Nombre:       "Usuario Test",
		Email:        email,
		Password:     string(hash),
		Departamento: departamento,
		Activo:       true,
	}).Error)
}

func doLogin(t *testing.T, router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/usuarios/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	w := doLogin(t, router, email, password)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

func TestLoginEndpoint(t *testing.T) {
	router, db := setupUserRouter(t)
	seedUser(t, db, "admin@admin.com", "admin123", model.DeptAdministracion)

	w := doLogin(t, router, "admin@admin.com", "admin123")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=")

	w = doLogin(t, router, "admin@admin.com", "wrong")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	router, db := setupUserRouter(t)
	seedUser(t, db, "admin@admin.com", "admin123", model.DeptAdministracion)

	req := httptest.NewRequest(http.MethodGet, "/api/usuarios/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := loginToken(t, router, "admin@admin.com", "admin123")
	req = httptest.NewRequest(http.MethodGet, "/api/usuarios/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data service.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "admin@admin.com", envelope.Data.Email)
}

func TestUserManagementRequiresAdministracion(t *testing.T) {
	router, db := setupUserRouter(t)
	seedUser(t, db, "admin@admin.com", "admin123", model.DeptAdministracion)
	seedUser(t, db, "ventas@example.com", "secreto1", model.DeptComercial)

	comercialToken := loginToken(t, router, "ventas@example.com", "secreto1")
	req := httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
	req.Header.Set("Authorization", "Bearer "+comercialToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := loginToken(t, router, "admin@admin.com", "admin123")
	req = httptest.NewRequest(http.MethodGet, "/api/usuarios", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
