package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type CreateUserRequest struct {
	Nombre       string `json:"nombre" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Departamento string `json:"departamento" binding:"required,oneof=comercial administracion"`
	Activo       *bool  `json:"activo"`
}

type UpdateUserRequest struct {
	Nombre       *string `json:"nombre"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Password     *string `json:"password" binding:"omitempty,min=6"`
	Departamento *string `json:"departamento" binding:"omitempty,oneof=comercial administracion"`
	Activo       *bool   `json:"activo"`
}

func (r UpdateUserRequest) isEmpty() bool {
	return r.Nombre == nil && r.Email == nil && r.Password == nil &&
		r.Departamento == nil && r.Activo == nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse returns a user without the password hash.
type UserResponse struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Email        string `json:"email"`
	Departamento string `json:"departamento"`
	Activo       bool   `json:"activo"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type LoginResponse struct {
	Token   string       `json:"token"`
	Usuario UserResponse `json:"usuario"`
}

// --- Interface ---

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	GetUser(ctx context.Context, id string) (UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo      repository.UserRepository
	jwtSecret []byte
}

func NewUserService(repo repository.UserRepository, jwtSecret []byte) UserService {
	return &userService{repo: repo, jwtSecret: jwtSecret}
}

// --- Implementation ---

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return UserResponse{}, apperr.Conflictf("email ya registrado: %s", req.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	user := &model.User{
		Nombre:       req.Nombre,
		Email:        req.Email,
		Password:     string(hashed),
		Departamento: req.Departamento,
		Activo:       activo,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return LoginResponse{}, apperr.Validationf("credenciales invalidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, apperr.Validationf("credenciales invalidas")
	}

	if !user.Activo {
		return LoginResponse{}, apperr.Validationf("usuario inactivo")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          user.ID.String(),
		"email":        user.Email,
		"departamento": user.Departamento,
		"exp":          time.Now().Add(8 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return LoginResponse{Token: tokenString, Usuario: toUserResponse(user)}, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (UserResponse, error) {
	userID, err := parseID(id)
	if err != nil {
		return UserResponse{}, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, wrapNotFound(err, "usuario")
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	// An empty patch leaves the row untouched, updated_at included.
	if req.isEmpty() {
		return s.GetUser(ctx, id)
	}

	userID, err := parseID(id)
	if err != nil {
		return UserResponse{}, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, wrapNotFound(err, "usuario")
	}

	// The seed administrator stays active and in administracion.
	if user.IsSeedAdmin() {
		if req.Departamento != nil && *req.Departamento != model.DeptAdministracion {
			return UserResponse{}, apperr.Statef("el administrador inicial no puede salir de administracion")
		}
		if req.Activo != nil && !*req.Activo {
			return UserResponse{}, apperr.Statef("el administrador inicial no se puede desactivar")
		}
	}

	if req.Nombre != nil {
		if *req.Nombre == "" {
			return UserResponse{}, apperr.Validationf("nombre no puede estar vacio")
		}
		user.Nombre = *req.Nombre
	}
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, *req.Email); err == nil {
			return UserResponse{}, apperr.Conflictf("email ya registrado: %s", *req.Email)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	if req.Departamento != nil {
		user.Departamento = *req.Departamento
	}
	if req.Activo != nil {
		user.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}
	return toUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := parseID(id)
	if err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return wrapNotFound(err, "usuario")
	}
	if user.IsSeedAdmin() {
		return apperr.Statef("el administrador inicial no se puede eliminar")
	}

	if _, err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// --- Helpers ---

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID.String(),
		Nombre:       user.Nombre,
		Email:        user.Email,
		Departamento: user.Departamento,
		Activo:       user.Activo,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
}
