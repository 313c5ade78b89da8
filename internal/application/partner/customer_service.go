package partner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/trash"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	trashRepo    trash.Repository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, trashRepo trash.Repository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		trashRepo:    trashRepo,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	ref := req.CustomerRef
	if ref == "" {
		generated, err := s.customerRepo.GenerateCustomerRef(ctx)
		if err != nil {
			return nil, err
		}
		ref = generated
	} else {
		if _, err := s.customerRepo.FindByRef(ctx, ref); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this id already exists")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	customer, err := partner.NewCustomer(ref, req.FullName, req.Phone, req.Address, req.GovID, req.PhotoRef)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_ref", customer.CustomerRef),
		zap.String("customer_id", customer.ID.String()))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByRef retrieves a customer by business-facing id
func (s *CustomerService) GetByRef(ctx context.Context, ref string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	customers, total, err := s.customerRepo.FindAll(ctx, partner.CustomerFilter{
		Active:   filter.Active,
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = ToCustomerResponse(c)
	}
	return responses, total, nil
}

// Update changes a customer's editable details
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.FullName, req.Phone, req.Address, req.GovID, req.PhotoRef, time.Now()); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate marks a customer active
func (s *CustomerService) Activate(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate marks a customer inactive
func (s *CustomerService) Deactivate(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *CustomerService) setActive(ctx context.Context, id uuid.UUID, active bool) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if active {
		err = customer.Activate(now)
	} else {
		err = customer.Deactivate(now)
	}
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// MoveToTrash parks the customer in the trash bin and removes the row
func (s *CustomerService) MoveToTrash(ctx context.Context, id uuid.UUID, deletedBy string) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	item, err := trash.NewItem(trash.ItemTypeCustomer, customer.ID, customer.CustomerRef, customer.FullName, customer, deletedBy, time.Now())
	if err != nil {
		return err
	}
	if err := s.trashRepo.Create(ctx, item); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("customer moved to trash",
		zap.String("customer_ref", customer.CustomerRef),
		zap.String("deleted_by", deletedBy))
	return nil
}
