package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/domain/collection"
	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// Service keeps the collections desk read model in step with the loan
// book. Summary fields follow every loan change; the copied arrays only
// move on explicit resync.
type Service struct {
	collectionRepo collection.Repository
	loanRepo       lending.LoanRepository
	logger         *zap.Logger
}

// NewService creates a new collection Service
func NewService(collectionRepo collection.Repository, loanRepo lending.LoanRepository, logger *zap.Logger) *Service {
	return &Service{
		collectionRepo: collectionRepo,
		loanRepo:       loanRepo,
		logger:         logger,
	}
}

// CreateFromLoan creates the collection record tracking a loan. Calling
// it again for the same loan syncs the existing record instead.
func (s *Service) CreateFromLoan(ctx context.Context, loan *lending.Loan) (*CollectionResponse, error) {
	now := time.Now()

	existing, err := s.collectionRepo.FindByLoanID(ctx, loan.ID)
	if err == nil {
		existing.SyncSummary(loan, now)
		if err := s.collectionRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		response := ToCollectionResponse(existing, false)
		return &response, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	record, err := collection.NewFromLoan(loan, now)
	if err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("collection record created",
		zap.String("loan_number", loan.LoanNumber),
		zap.String("collection_id", record.ID.String()))

	response := ToCollectionResponse(record, false)
	return &response, nil
}

// SyncLoan refreshes the summary fields for a loan's collection record.
// A missing record is created rather than failing the caller.
func (s *Service) SyncLoan(ctx context.Context, loan *lending.Loan) error {
	now := time.Now()

	record, err := s.collectionRepo.FindByLoanID(ctx, loan.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			_, err = s.CreateFromLoan(ctx, loan)
			return err
		}
		return err
	}

	record.SyncSummary(loan, now)
	return s.collectionRepo.Save(ctx, record)
}

// Resync replaces the copied installment and payment arrays from the
// loan and refreshes the summary.
func (s *Service) Resync(ctx context.Context, loanID uuid.UUID) (*CollectionResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	record, err := s.collectionRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.CreateFromLoan(ctx, loan)
		}
		return nil, err
	}

	record.Resync(loan, time.Now())
	if err := s.collectionRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToCollectionResponse(record, true)
	return &response, nil
}

// SyncAll walks every active loan and syncs its collection record.
// Failures are collected per loan; one bad loan never aborts the run.
func (s *Service) SyncAll(ctx context.Context) (*SyncAllResult, error) {
	loans, err := s.loanRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncAllResult{}
	now := time.Now()
	for _, loan := range loans {
		record, err := s.collectionRepo.FindByLoanID(ctx, loan.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			fresh, newErr := collection.NewFromLoan(loan, now)
			if newErr == nil {
				newErr = s.collectionRepo.Create(ctx, fresh)
			}
			if newErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", loan.LoanNumber, newErr))
				continue
			}
			result.Created++
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", loan.LoanNumber, err))
		default:
			record.SyncSummary(loan, now)
			if saveErr := s.collectionRepo.Save(ctx, record); saveErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", loan.LoanNumber, saveErr))
				continue
			}
			result.Synced++
		}
	}

	s.logger.Info("collection sync finished",
		zap.Int("created", result.Created),
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed))
	return result, nil
}

// GetByLoanID retrieves the collection record tracking a loan
func (s *Service) GetByLoanID(ctx context.Context, loanID uuid.UUID) (*CollectionResponse, error) {
	record, err := s.collectionRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	// Priority is recomputed on read so an untouched record still
	// escalates as installments age.
	record.RefreshDerived(time.Now())
	response := ToCollectionResponse(record, true)
	return &response, nil
}

// List retrieves collection records with filtering and pagination
func (s *Service) List(ctx context.Context, filter ListFilter) ([]CollectionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := collection.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if filter.Priority != "" {
		p := collection.Priority(filter.Priority)
		domainFilter.Priority = &p
	}

	records, total, err := s.collectionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	responses := make([]CollectionResponse, len(records))
	for i, r := range records {
		r.RefreshDerived(now)
		responses[i] = ToCollectionResponse(r, false)
	}
	return responses, total, nil
}

// Dashboard summarizes the collections desk workload
func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	records, total, err := s.collectionRepo.FindAll(ctx, collection.Filter{})
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		TotalRecords:     total,
		DueTodayAmount:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		OverdueAmountDue: decimal.Zero,
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, r := range records {
		r.RefreshDerived(now)
		switch r.Priority {
		case collection.PriorityCritical:
			resp.CriticalCount++
		case collection.PriorityHigh:
			resp.HighCount++
		default:
			resp.MediumCount++
		}
		if r.NextDueDate != nil {
			due := r.NextDueDate.In(now.Location())
			if due.Year() == today.Year() && due.YearDay() == today.YearDay() {
				resp.DueTodayCount++
				resp.DueTodayAmount = resp.DueTodayAmount.Add(r.NextDueAmount)
			}
		}
		resp.TotalOutstanding = resp.TotalOutstanding.Add(r.OutstandingAmount)
		if r.OverdueCount > 0 {
			resp.OverdueAmountDue = resp.OverdueAmountDue.Add(r.EMI.Mul(decimal.NewFromInt(int64(r.OverdueCount))))
		}
	}
	return resp, nil
}

// DeleteByLoanID removes the collection record when its loan goes away
func (s *Service) DeleteByLoanID(ctx context.Context, loanID uuid.UUID) error {
	return s.collectionRepo.DeleteByLoanID(ctx, loanID)
}
