package service

import (
	"context"
	"fmt"

	"backend/internal/apperr"
	"backend/internal/model"
	"backend/internal/repository"
)

// --- DTOs ---

type CreateClientRequest struct {
	Nombre        string `json:"nombre" binding:"required"`
	NIF           string `json:"nif" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	Telefono      string `json:"telefono"`
	Direccion     string `json:"direccion"`
	Ciudad        string `json:"ciudad"`
	CodigoPostal  string `json:"codigoPostal"`
	Contacto      string `json:"contacto"`
	EmailContacto string `json:"emailContacto" binding:"omitempty,email"`
	Comercial     string `json:"comercial"`
}

type UpdateClientRequest struct {
	Nombre        *string `json:"nombre"`
	NIF           *string `json:"nif"`
	Email         *string `json:"email"`
	Telefono      *string `json:"telefono"`
	Direccion     *string `json:"direccion"`
	Ciudad        *string `json:"ciudad"`
	CodigoPostal  *string `json:"codigoPostal"`
	Contacto      *string `json:"contacto"`
	EmailContacto *string `json:"emailContacto"`
	Comercial     *string `json:"comercial"`
}

func (r UpdateClientRequest) isEmpty() bool {
	return r.Nombre == nil && r.NIF == nil && r.Email == nil && r.Telefono == nil &&
		r.Direccion == nil && r.Ciudad == nil && r.CodigoPostal == nil &&
		r.Contacto == nil && r.EmailContacto == nil && r.Comercial == nil
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*model.Client, error)
	GetClient(ctx context.Context, id string) (*model.Client, error)
	ListClients(ctx context.Context, search string, page, limit int) ([]model.Client, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*model.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

// --- Implementation ---

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*model.Client, error) {
	client := &model.Client{
		Nombre:        req.Nombre,
		NIF:           req.NIF,
		Email:         req.Email,
		Telefono:      req.Telefono,
		Direccion:     req.Direccion,
		Ciudad:        req.Ciudad,
		CodigoPostal:  req.CodigoPostal,
		Contacto:      req.Contacto,
		EmailContacto: req.EmailContacto,
		Comercial:     req.Comercial,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*model.Client, error) {
	clientID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return nil, wrapNotFound(err, "cliente")
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, search string, page, limit int) ([]model.Client, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, search, page, limit)
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*model.Client, error) {
	// An empty patch leaves the row untouched, updated_at included.
	if req.isEmpty() {
		return s.GetClient(ctx, id)
	}

	clientID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	client, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return nil, wrapNotFound(err, "cliente")
	}

	if req.Nombre != nil {
		if *req.Nombre == "" {
			return nil, apperr.Validationf("nombre no puede estar vacio")
		}
		client.Nombre = *req.Nombre
	}
	if req.NIF != nil {
		if *req.NIF == "" {
			return nil, apperr.Validationf("nif no puede estar vacio")
		}
		client.NIF = *req.NIF
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Telefono != nil {
		client.Telefono = *req.Telefono
	}
	if req.Direccion != nil {
		client.Direccion = *req.Direccion
	}
	if req.Ciudad != nil {
		client.Ciudad = *req.Ciudad
	}
	if req.CodigoPostal != nil {
		client.CodigoPostal = *req.CodigoPostal
	}
	if req.Contacto != nil {
		client.Contacto = *req.Contacto
	}
	if req.EmailContacto != nil {
		client.EmailContacto = *req.EmailContacto
	}
	if req.Comercial != nil {
		client.Comercial = *req.Comercial
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	clientID, err := parseID(id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("cliente no encontrado")
	}
	return nil
}
