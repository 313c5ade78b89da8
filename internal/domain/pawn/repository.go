package pawn

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VoucherFilter captures list/search criteria for vouchers
type VoucherFilter struct {
	Status     *VoucherStatus
	JewelType  *JewelType
	CustomerID *uuid.UUID
	Search     string // matches bill number, customer name, ref or phone
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// VoucherRepository is the persistence port for pledge vouchers
type VoucherRepository interface {
	Create(ctx context.Context, voucher *Voucher) error
	Save(ctx context.Context, voucher *Voucher) error
	SaveWithLock(ctx context.Context, voucher *Voucher) error
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)
	FindByBillNo(ctx context.Context, billNo string) (*Voucher, error)
	FindAll(ctx context.Context, filter VoucherFilter) ([]*Voucher, int64, error)
	FindByStatus(ctx context.Context, status VoucherStatus) ([]*Voucher, error)
	FindEverything(ctx context.Context) ([]*Voucher, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateBillNo(ctx context.Context) (string, error)
}
