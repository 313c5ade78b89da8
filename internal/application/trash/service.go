package trash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/domain/collection"
	"github.com/pawnshop/backend/internal/domain/lending"
	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/trash"
)

// Service handles trash bin operations. Restores reconstruct the
// original aggregate from its stored payload.
type Service struct {
	trashRepo      trash.Repository
	loanRepo       lending.LoanRepository
	voucherRepo    pawn.VoucherRepository
	customerRepo   partner.CustomerRepository
	collectionRepo collection.Repository
	logger         *zap.Logger
}

// NewService creates a new trash Service
func NewService(
	trashRepo trash.Repository,
	loanRepo lending.LoanRepository,
	voucherRepo pawn.VoucherRepository,
	customerRepo partner.CustomerRepository,
	collectionRepo collection.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		trashRepo:      trashRepo,
		loanRepo:       loanRepo,
		voucherRepo:    voucherRepo,
		customerRepo:   customerRepo,
		collectionRepo: collectionRepo,
		logger:         logger,
	}
}

// ItemResponse represents a trash item in API responses
type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ItemType  string    `json:"item_type"`
	SourceID  uuid.UUID `json:"source_id"`
	Reference string    `json:"reference"`
	Label     string    `json:"label"`
	DeletedAt time.Time `json:"deleted_at"`
	DeletedBy string    `json:"deleted_by,omitempty"`
}

// LogResponse represents a trash audit entry in API responses
type LogResponse struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	ItemType    string    `json:"item_type"`
	SourceID    uuid.UUID `json:"source_id"`
	Reference   string    `json:"reference"`
	Details     string    `json:"details,omitempty"`
	PerformedBy string    `json:"performed_by,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
}

// EmptyResponse reports the outcome of emptying the bin
type EmptyResponse struct {
	Deleted int64 `json:"deleted"`
}

func toItemResponse(i *trash.Item) ItemResponse {
	return ItemResponse{
		ID:        i.ID,
		ItemType:  string(i.ItemType),
		SourceID:  i.SourceID,
		Reference: i.Reference,
		Label:     i.Label,
		DeletedAt: i.DeletedAt,
		DeletedBy: i.DeletedBy,
	}
}

// List returns trash items, optionally filtered by type
func (s *Service) List(ctx context.Context, itemType string) ([]ItemResponse, error) {
	var filter *trash.ItemType
	if itemType != "" {
		t := trash.ItemType(itemType)
		if !t.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown trash item type %q", itemType))
		}
		filter = &t
	}

	items, err := s.trashRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = toItemResponse(item)
	}
	return responses, nil
}

// Restore reconstructs the trashed aggregate and removes the item
func (s *Service) Restore(ctx context.Context, id uuid.UUID, performedBy string) (*ItemResponse, error) {
	item, err := s.trashRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch item.ItemType {
	case trash.ItemTypeLoan:
		err = s.restoreLoan(ctx, item)
	case trash.ItemTypeVoucher:
		err = s.restoreVoucher(ctx, item)
	case trash.ItemTypeCustomer:
		err = s.restoreCustomer(ctx, item)
	default:
		err = shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown trash item type %q", item.ItemType))
	}
	if err != nil {
		return nil, err
	}

	if err := s.trashRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.appendLog(ctx, trash.LogActionRestore, item, "restored from trash", performedBy)

	s.logger.Info("trash item restored",
		zap.String("item_type", string(item.ItemType)),
		zap.String("reference", item.Reference))

	response := toItemResponse(item)
	return &response, nil
}

func (s *Service) restoreLoan(ctx context.Context, item *trash.Item) error {
	var loan lending.Loan
	if err := item.Decode(&loan); err != nil {
		return err
	}
	if err := s.loanRepo.Create(ctx, &loan); err != nil {
		return err
	}

	// The collection record went with the loan; rebuild it.
	record, err := collection.NewFromLoan(&loan, time.Now())
	if err == nil {
		err = s.collectionRepo.Create(ctx, record)
	}
	if err != nil {
		s.logger.Warn("failed to rebuild collection record for restored loan",
			zap.String("loan_number", loan.LoanNumber),
			zap.Error(err))
	}
	return nil
}

func (s *Service) restoreVoucher(ctx context.Context, item *trash.Item) error {
	var voucher pawn.Voucher
	if err := item.Decode(&voucher); err != nil {
		return err
	}
	return s.voucherRepo.Create(ctx, &voucher)
}

func (s *Service) restoreCustomer(ctx context.Context, item *trash.Item) error {
	var customer partner.Customer
	if err := item.Decode(&customer); err != nil {
		return err
	}
	return s.customerRepo.Create(ctx, &customer)
}

// DeletePermanently removes a trash item for good
func (s *Service) DeletePermanently(ctx context.Context, id uuid.UUID, performedBy string) error {
	item, err := s.trashRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.trashRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.appendLog(ctx, trash.LogActionDelete, item, "permanently deleted", performedBy)

	s.logger.Info("trash item permanently deleted",
		zap.String("item_type", string(item.ItemType)),
		zap.String("reference", item.Reference))
	return nil
}

// Empty removes every item from the bin
func (s *Service) Empty(ctx context.Context) (*EmptyResponse, error) {
	deleted, err := s.trashRepo.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("trash emptied", zap.Int64("deleted", deleted))
	return &EmptyResponse{Deleted: deleted}, nil
}

// Logs returns recent trash audit entries
func (s *Service) Logs(ctx context.Context, limit int) ([]LogResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.trashRepo.FindLogs(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]LogResponse, len(entries))
	for i, e := range entries {
		responses[i] = LogResponse{
			ID:          e.ID,
			Action:      string(e.Action),
			ItemType:    string(e.ItemType),
			SourceID:    e.SourceID,
			Reference:   e.Reference,
			Details:     e.Details,
			PerformedBy: e.PerformedBy,
			PerformedAt: e.PerformedAt,
		}
	}
	return responses, nil
}

func (s *Service) appendLog(ctx context.Context, action trash.LogAction, item *trash.Item, details, performedBy string) {
	entry := trash.NewLogEntry(action, item.ItemType, item.SourceID, item.Reference, details, performedBy, time.Now())
	if err := s.trashRepo.AppendLog(ctx, entry); err != nil {
		s.logger.Warn("failed to append trash log",
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
