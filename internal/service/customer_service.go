package service

import (
	"context"
	"fmt"

	"garage/internal/model"
	"garage/internal/repository"
	"garage/pkg/apperror"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateCustomerRequest struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
}

type CreateVehicleRequest struct {
	Make         string `json:"make" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Year         int    `json:"year" binding:"omitempty,gte=1900"`
	VIN          string `json:"vin"`
	LicensePlate string `json:"license_plate"`
	Mileage      int    `json:"mileage" binding:"gte=0"`
}

type CustomerResponse struct {
	ID         string  `json:"id"`
	ExternalID *string `json:"external_id,omitempty"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	CreatedAt  string  `json:"created_at"`
}

type VehicleResponse struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	VIN          string `json:"vin"`
	LicensePlate string `json:"license_plate"`
	Mileage      int    `json:"mileage"`
}

// --- Interface ---

// ActorResolver maps an identity-provider subject to a customer id.
type ActorResolver interface {
	ResolveCustomer(ctx context.Context, externalID string) (uuid.UUID, error)
}

type CustomerService interface {
	ActorResolver
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (CustomerResponse, error)
	ListCustomers(ctx context.Context, search string, page, limit int) ([]CustomerResponse, int64, error)
	AddVehicle(ctx context.Context, customerID uuid.UUID, req CreateVehicleRequest) (VehicleResponse, error)
	ListVehicles(ctx context.Context, customerID uuid.UUID) ([]VehicleResponse, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

// --- Implementation ---

func (s *customerService) ResolveCustomer(ctx context.Context, externalID string) (uuid.UUID, error) {
	if externalID == "" {
		return uuid.Nil, apperror.Unauthorized("missing subject")
	}
	customer, err := s.customerRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		if repository.IsNotFound(err) {
			return uuid.Nil, apperror.Unauthorized("no customer is linked to this account")
		}
		return uuid.Nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	return customer.ID, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error) {
	customer := model.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.ExternalID != "" {
		ext := req.ExternalID
		customer.ExternalID = &ext
	}
	if err := s.customerRepo.Create(ctx, &customer); err != nil {
		if repository.IsUniqueViolation(err) {
			return CustomerResponse{}, apperror.Conflict("a customer is already linked to external id " + req.ExternalID)
		}
		return CustomerResponse{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return CustomerResponse{}, notFound(err, "customer")
	}
	return toCustomerResponse(*customer), nil
}

func (s *customerService) ListCustomers(ctx context.Context, search string, page, limit int) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	customers, total, err := s.customerRepo.List(ctx, search, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}
	res := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		res = append(res, toCustomerResponse(c))
	}
	return res, total, nil
}

func (s *customerService) AddVehicle(ctx context.Context, customerID uuid.UUID, req CreateVehicleRequest) (VehicleResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return VehicleResponse{}, notFound(err, "customer")
	}
	vehicle := model.Vehicle{
		CustomerID:   customerID,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		VIN:          req.VIN,
		LicensePlate: req.LicensePlate,
		Mileage:      req.Mileage,
	}
	if err := s.customerRepo.CreateVehicle(ctx, &vehicle); err != nil {
		return VehicleResponse{}, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return toVehicleResponse(vehicle), nil
}

func (s *customerService) ListVehicles(ctx context.Context, customerID uuid.UUID) ([]VehicleResponse, error) {
	vehicles, err := s.customerRepo.ListVehicles(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	res := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		res = append(res, toVehicleResponse(v))
	}
	return res, nil
}

// --- Mapping ---

func toCustomerResponse(c model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID.String(),
		ExternalID: c.ExternalID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		CreatedAt:  formatTime(c.CreatedAt),
	}
}

func toVehicleResponse(v model.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID.String(),
		CustomerID:   v.CustomerID.String(),
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		VIN:          v.VIN,
		LicensePlate: v.LicensePlate,
		Mileage:      v.Mileage,
	}
}
