package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
	"github.com/pawnshop/backend/internal/domain/trash"
)

// CollectionSyncer keeps the collections desk read model in step with
// loan changes. Sync failures are logged, never surfaced to the payer.
type CollectionSyncer interface {
	// SyncLoan refreshes the loan's collection record, creating it when
	// missing.
	SyncLoan(ctx context.Context, loan *lending.Loan) error
	DeleteByLoanID(ctx context.Context, loanID uuid.UUID) error
}

// LoanService handles installment loan business operations
type LoanService struct {
	loanRepo     lending.LoanRepository
	customerRepo partner.CustomerRepository
	trashRepo    trash.Repository
	collections  CollectionSyncer
	logger       *zap.Logger
}

// NewLoanService creates a new LoanService
func NewLoanService(
	loanRepo lending.LoanRepository,
	customerRepo partner.CustomerRepository,
	trashRepo trash.Repository,
	collections CollectionSyncer,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		customerRepo: customerRepo,
		trashRepo:    trashRepo,
		collections:  collections,
		logger:       logger,
	}
}

// Create disburses a new loan and opens its collection record
func (s *LoanService) Create(ctx context.Context, req CreateLoanRequest) (*LoanResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	loanNumber, err := s.loanRepo.GenerateLoanNumber(ctx)
	if err != nil {
		return nil, err
	}

	loan, err := lending.NewLoan(
		loanNumber,
		customer.ID,
		customer.CustomerRef,
		customer.FullName,
		customer.Phone,
		valueobject.NewMoneyINR(req.Principal),
		req.RatePercent,
		req.InstallmentCount,
		lending.PaymentFrequency(req.Frequency),
		req.StartDate,
	)
	if err != nil {
		return nil, err
	}
	loan.Notes = req.Notes

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	s.syncCollection(ctx, loan)

	s.logger.Info("loan disbursed",
		zap.String("loan_number", loan.LoanNumber),
		zap.String("customer_ref", loan.CustomerRef),
		zap.String("principal", loan.Principal.String()),
		zap.String("emi", loan.EMI.String()))

	response := ToLoanResponse(loan)
	return &response, nil
}

// GetByID retrieves a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loan.RefreshOverdue(time.Now())
	response := ToLoanResponse(loan)
	return &response, nil
}

// GetByLoanNumber retrieves a loan by its loan number
func (s *LoanService) GetByLoanNumber(ctx context.Context, loanNumber string) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByLoanNumber(ctx, loanNumber)
	if err != nil {
		return nil, err
	}
	loan.RefreshOverdue(time.Now())
	response := ToLoanResponse(loan)
	return &response, nil
}

// List retrieves loans with filtering and pagination
func (s *LoanService) List(ctx context.Context, filter LoanListFilter) ([]LoanResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := lending.LoanFilter{
		CustomerID: filter.CustomerID,
		Search:     filter.Search,
		StartFrom:  filter.StartFrom,
		StartTo:    filter.StartTo,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		OrderBy:    filter.OrderBy,
		OrderDir:   filter.OrderDir,
	}
	if filter.Status != "" {
		status := lending.LoanStatus(filter.Status)
		domainFilter.Status = &status
	}

	loans, total, err := s.loanRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	responses := make([]LoanResponse, len(loans))
	for i, l := range loans {
		l.RefreshOverdue(now)
		responses[i] = ToLoanResponse(l)
	}
	return responses, total, nil
}

// ApplyPayment settles one installment and syncs the collection record
func (s *LoanService) ApplyPayment(ctx context.Context, loanID uuid.UUID, req ApplyPaymentRequest) (*PaymentResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	paymentID, err := s.loanRepo.GeneratePaymentID(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := loan.ApplyPayment(paymentID, req.InstallmentNumber, req.Amount, req.Fine, req.Method, req.Notes, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.SaveWithLock(ctx, loan); err != nil {
		return nil, err
	}
	s.syncCollection(ctx, loan)

	s.logger.Info("payment applied",
		zap.String("loan_number", loan.LoanNumber),
		zap.String("payment_id", payment.PaymentID),
		zap.Int("installment", req.InstallmentNumber),
		zap.String("amount", payment.Total.String()))

	return &PaymentResponse{Payment: *payment, Loan: ToLoanResponse(loan)}, nil
}

// ApplyPartialPayment puts an amount toward the next unpaid
// installment and syncs the collection record
func (s *LoanService) ApplyPartialPayment(ctx context.Context, loanID uuid.UUID, req PartialPaymentRequest) (*PaymentResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	paymentID, err := s.loanRepo.GeneratePaymentID(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := loan.ApplyPartialPayment(paymentID, req.Amount, req.Fine, req.Method, req.Notes, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.SaveWithLock(ctx, loan); err != nil {
		return nil, err
	}
	s.syncCollection(ctx, loan)

	s.logger.Info("partial payment applied",
		zap.String("loan_number", loan.LoanNumber),
		zap.String("payment_id", payment.PaymentID),
		zap.Int("installment", payment.InstallmentNumber),
		zap.String("amount", payment.Total.String()))

	return &PaymentResponse{Payment: *payment, Loan: ToLoanResponse(loan)}, nil
}

// UndoPayment reverts an installment's payment and syncs the record
func (s *LoanService) UndoPayment(ctx context.Context, loanID uuid.UUID, installmentNumber int) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := loan.UndoPayment(installmentNumber, time.Now()); err != nil {
		return nil, err
	}
	if err := s.loanRepo.SaveWithLock(ctx, loan); err != nil {
		return nil, err
	}
	s.syncCollection(ctx, loan)

	s.logger.Info("payment undone",
		zap.String("loan_number", loan.LoanNumber),
		zap.Int("installment", installmentNumber))

	response := ToLoanResponse(loan)
	return &response, nil
}

// UpdateStatus performs an administrative status transition
func (s *LoanService) UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := loan.UpdateStatus(lending.LoanStatus(status), time.Now()); err != nil {
		return nil, err
	}
	if err := s.loanRepo.SaveWithLock(ctx, loan); err != nil {
		return nil, err
	}
	s.syncCollection(ctx, loan)

	response := ToLoanResponse(loan)
	return &response, nil
}

// Stats aggregates the loan book by status
func (s *LoanService) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.loanRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		TotalLoans:       stats.TotalLoans,
		ActiveLoans:      stats.ActiveLoans,
		CompletedLoans:   stats.CompletedLoans,
		ClosedLoans:      stats.ClosedLoans,
		DefaultedLoans:   stats.DefaultedLoans,
		TotalDisbursed:   stats.TotalDisbursed,
		TotalCollected:   stats.TotalCollected,
		TotalOutstanding: stats.TotalOutstanding,
	}, nil
}

// MoveToTrash parks the loan in the trash bin and removes the row
// together with its collection record.
func (s *LoanService) MoveToTrash(ctx context.Context, id uuid.UUID, deletedBy string) error {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	item, err := trash.NewItem(trash.ItemTypeLoan, loan.ID, loan.LoanNumber, loan.CustomerName, loan, deletedBy, time.Now())
	if err != nil {
		return err
	}
	if err := s.trashRepo.Create(ctx, item); err != nil {
		return err
	}
	if err := s.loanRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.collections.DeleteByLoanID(ctx, id); err != nil {
		s.logger.Warn("failed to remove collection record for trashed loan",
			zap.String("loan_number", loan.LoanNumber),
			zap.Error(err))
	}

	s.logger.Info("loan moved to trash",
		zap.String("loan_number", loan.LoanNumber),
		zap.String("deleted_by", deletedBy))
	return nil
}

func (s *LoanService) syncCollection(ctx context.Context, loan *lending.Loan) {
	if err := s.collections.SyncLoan(ctx, loan); err != nil {
		s.logger.Warn("collection sync failed",
			zap.String("loan_number", loan.LoanNumber),
			zap.Error(err))
	}
}
