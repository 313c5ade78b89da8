package pawn

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/domain/partner"
	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/trash"
)

// VoucherService handles pledge voucher business operations
type VoucherService struct {
	voucherRepo  pawn.VoucherRepository
	customerRepo partner.CustomerRepository
	trashRepo    trash.Repository
	logger       *zap.Logger
}

// NewVoucherService creates a new VoucherService
func NewVoucherService(
	voucherRepo pawn.VoucherRepository,
	customerRepo partner.CustomerRepository,
	trashRepo trash.Repository,
	logger *zap.Logger,
) *VoucherService {
	return &VoucherService{
		voucherRepo:  voucherRepo,
		customerRepo: customerRepo,
		trashRepo:    trashRepo,
		logger:       logger,
	}
}

// Create writes a new pledge voucher
func (s *VoucherService) Create(ctx context.Context, req CreateVoucherRequest) (*VoucherResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	billNo := req.BillNo
	if billNo == "" {
		generated, err := s.voucherRepo.GenerateBillNo(ctx)
		if err != nil {
			return nil, err
		}
		billNo = generated
	}

	voucher, err := pawn.NewVoucher(
		billNo,
		customer.ID,
		customer.CustomerRef,
		customer.FullName,
		customer.Phone,
		pawn.JewelType(req.JewelType),
		req.GrossWeight,
		req.NetWeight,
		req.FinalLoanAmount,
		req.InterestRate,
		req.DisbursementDate,
		req.DueDate,
		req.JewelryItems,
	)
	if err != nil {
		return nil, err
	}
	voucher.DeductionWeight = req.DeductionWeight
	voucher.ProcessingFees = req.ProcessingFees
	voucher.Notes = req.Notes

	if err := s.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, err
	}

	s.logger.Info("voucher created",
		zap.String("bill_no", voucher.BillNo),
		zap.String("customer_ref", voucher.CustomerRef),
		zap.String("jewel_type", string(voucher.JewelType)),
		zap.String("amount", voucher.FinalLoanAmount.String()))

	response := ToVoucherResponse(voucher)
	return &response, nil
}

// GetByID retrieves a voucher by ID
func (s *VoucherService) GetByID(ctx context.Context, id uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToVoucherResponse(voucher)
	return &response, nil
}

// GetByBillNo retrieves a voucher by its bill number
func (s *VoucherService) GetByBillNo(ctx context.Context, billNo string) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByBillNo(ctx, billNo)
	if err != nil {
		return nil, err
	}
	response := ToVoucherResponse(voucher)
	return &response, nil
}

// List retrieves vouchers with filtering and pagination
func (s *VoucherService) List(ctx context.Context, filter VoucherListFilter) ([]VoucherResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := pawn.VoucherFilter{
		CustomerID: filter.CustomerID,
		Search:     filter.Search,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		OrderBy:    filter.OrderBy,
		OrderDir:   filter.OrderDir,
	}
	if filter.Status != "" {
		status := pawn.VoucherStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.JewelType != "" {
		jewelType := pawn.JewelType(filter.JewelType)
		domainFilter.JewelType = &jewelType
	}

	vouchers, total, err := s.voucherRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		responses[i] = ToVoucherResponse(v)
	}
	return responses, total, nil
}

// PreviewSettlement computes the close figures without closing
func (s *VoucherService) PreviewSettlement(ctx context.Context, id uuid.UUID) (*SettlementResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	settlement := voucher.ComputeSettlement(time.Now())
	response := ToSettlementResponse(&settlement)
	return &response, nil
}

// Close settles a voucher and records the final figures
func (s *VoucherService) Close(ctx context.Context, id uuid.UUID, req CloseVoucherRequest) (*CloseVoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settlement, err := voucher.Close(req.PaymentMethod, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.voucherRepo.SaveWithLock(ctx, voucher); err != nil {
		return nil, err
	}

	s.logger.Info("voucher closed",
		zap.String("bill_no", voucher.BillNo),
		zap.Int("months_paid", settlement.MonthsPaid),
		zap.String("final_amount", settlement.FinalAmount.String()))

	return &CloseVoucherResponse{
		Settlement: ToSettlementResponse(settlement),
		Voucher:    ToVoucherResponse(voucher),
	}, nil
}

// RevertClosure reopens a closed voucher
func (s *VoucherService) RevertClosure(ctx context.Context, id uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := voucher.RevertClosure(time.Now()); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.SaveWithLock(ctx, voucher); err != nil {
		return nil, err
	}

	item := trash.NewLogEntry(trash.LogActionRevertClosure, trash.ItemTypeVoucher, voucher.ID, voucher.BillNo,
		"closure reverted, voucher reopened", "", time.Now())
	if err := s.trashRepo.AppendLog(ctx, item); err != nil {
		s.logger.Warn("failed to record closure revert", zap.String("bill_no", voucher.BillNo), zap.Error(err))
	}

	s.logger.Info("voucher closure reverted", zap.String("bill_no", voucher.BillNo))
	response := ToVoucherResponse(voucher)
	return &response, nil
}

// TransferToAuction moves an unredeemed voucher to auction
func (s *VoucherService) TransferToAuction(ctx context.Context, id uuid.UUID, req AuctionRequest) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := voucher.TransferToAuction(req.Notes, time.Now()); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.SaveWithLock(ctx, voucher); err != nil {
		return nil, err
	}

	s.logger.Info("voucher transferred to auction", zap.String("bill_no", voucher.BillNo))
	response := ToVoucherResponse(voucher)
	return &response, nil
}

// RevertAuction returns an auctioned voucher to active status
func (s *VoucherService) RevertAuction(ctx context.Context, id uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := voucher.RevertAuction(time.Now()); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.SaveWithLock(ctx, voucher); err != nil {
		return nil, err
	}

	s.logger.Info("voucher auction reverted", zap.String("bill_no", voucher.BillNo))
	response := ToVoucherResponse(voucher)
	return &response, nil
}

// RecordInterestPayment appends an interest remittance to the voucher
func (s *VoucherService) RecordInterestPayment(ctx context.Context, id uuid.UUID, req InterestPaymentRequest) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := voucher.RecordInterestPayment(req.Amount, req.Months, time.Now()); err != nil {
		return nil, err
	}
	if err := s.voucherRepo.SaveWithLock(ctx, voucher); err != nil {
		return nil, err
	}

	s.logger.Info("interest payment recorded",
		zap.String("bill_no", voucher.BillNo),
		zap.String("amount", req.Amount.String()),
		zap.Int("months", req.Months))

	response := ToVoucherResponse(voucher)
	return &response, nil
}

// MoveToTrash parks the voucher in the trash bin and removes the row
func (s *VoucherService) MoveToTrash(ctx context.Context, id uuid.UUID, deletedBy string) error {
	voucher, err := s.voucherRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	item, err := trash.NewItem(trash.ItemTypeVoucher, voucher.ID, voucher.BillNo, voucher.CustomerName, voucher, deletedBy, time.Now())
	if err != nil {
		return err
	}
	if err := s.trashRepo.Create(ctx, item); err != nil {
		return err
	}
	if err := s.voucherRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("voucher moved to trash",
		zap.String("bill_no", voucher.BillNo),
		zap.String("deleted_by", deletedBy))
	return nil
}
