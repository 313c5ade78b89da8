package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/domain/pawn"
	"github.com/pawnshop/backend/internal/domain/report"
	"github.com/pawnshop/backend/internal/infrastructure/cache"
)

const (
	ledgerCacheKeyFormat = "report:ledger:%s"
	stockCacheKey        = "report:stock"
)

// Service rebuilds and serves the ledger and stock summary snapshots.
// Both reports are recomputed from the full voucher book; a rebuild
// replaces the previous snapshot wholesale.
type Service struct {
	voucherRepo pawn.VoucherRepository
	ledgerRepo  report.LedgerRepository
	stockRepo   report.StockSummaryRepository
	cache       *cache.ReportCache // nil disables caching
	logger      *zap.Logger
}

// NewService creates a new report Service
func NewService(
	voucherRepo pawn.VoucherRepository,
	ledgerRepo report.LedgerRepository,
	stockRepo report.StockSummaryRepository,
	reportCache *cache.ReportCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		voucherRepo: voucherRepo,
		ledgerRepo:  ledgerRepo,
		stockRepo:   stockRepo,
		cache:       reportCache,
		logger:      logger,
	}
}

// RebuildLedger recomputes the ledger snapshot for the given day.
// Existing entries for that day are removed first.
func (s *Service) RebuildLedger(ctx context.Context, queryDate time.Time) (*RebuildLedgerResponse, error) {
	vouchers, err := s.voucherRepo.FindEverything(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]report.LedgerEntry, len(vouchers))
	for i, v := range vouchers {
		entries[i] = report.BuildLedgerEntry(v, queryDate, now)
	}

	if err := s.ledgerRepo.DeleteByQueryDate(ctx, queryDate); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.BulkInsert(ctx, entries); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ledgerCacheKey(queryDate))

	s.logger.Info("ledger rebuilt",
		zap.Time("query_date", queryDate),
		zap.Int("entries", len(entries)))

	return &RebuildLedgerResponse{QueryDate: queryDate, Entries: len(entries)}, nil
}

// GetLedger returns the stored ledger snapshot for the given day,
// grouped by normalized status.
func (s *Service) GetLedger(ctx context.Context, queryDate time.Time) (*LedgerResponse, error) {
	key := ledgerCacheKey(queryDate)
	if s.cache != nil {
		var cached LedgerResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("ledger cache read failed", zap.Error(err))
		}
	}

	entries, err := s.ledgerRepo.FindByQueryDate(ctx, queryDate)
	if err != nil {
		return nil, err
	}
	view := report.CategorizeLedger(entries)
	response := &LedgerResponse{
		QueryDate: queryDate,
		All:       view.All,
		Active:    view.Active,
		Overdue:   view.Overdue,
		Closed:    view.Closed,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, response); err != nil {
			s.logger.Warn("ledger cache write failed", zap.Error(err))
		}
	}
	return response, nil
}

// RebuildStockSummary recomputes the materialized stock view from the
// full voucher book, replacing the previous row.
func (s *Service) RebuildStockSummary(ctx context.Context) (*RebuildStockResponse, error) {
	vouchers, err := s.voucherRepo.FindEverything(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loans := make(report.StockLoans, len(vouchers))
	for i, v := range vouchers {
		loans[i] = report.BuildStockLoan(v, now)
	}

	summary := report.NewStockSummary(loans, now)
	if err := s.stockRepo.Replace(ctx, summary); err != nil {
		return nil, err
	}
	s.invalidate(ctx, stockCacheKey)

	s.logger.Info("stock summary rebuilt",
		zap.Int("total_loans", summary.TotalLoans),
		zap.Int("overdue_loans", summary.OverdueLoans))

	return &RebuildStockResponse{
		TotalLoans:   summary.TotalLoans,
		ActiveLoans:  summary.ActiveLoans,
		OverdueLoans: summary.OverdueLoans,
		ClosedLoans:  summary.ClosedLoans,
		TotalAmount:  summary.TotalAmount,
		OverdueRate:  summary.OverdueRate,
		LastSyncedAt: summary.LastSyncedAt,
	}, nil
}

// GetStockSummary returns the stored stock view filtered in memory,
// with aggregates computed over the filtered set.
func (s *Service) GetStockSummary(ctx context.Context, filter StockListFilter) (*StockSummaryResponse, error) {
	summary, err := s.getStockSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	filtered := report.ApplyStockFilter(summary.Loans, report.StockFilter{
		Search:    filter.Search,
		Date:      filter.Date,
		Status:    filter.Status,
		JewelType: filter.JewelType,
	})

	return &StockSummaryResponse{
		Loans:            filtered,
		Stats:            report.StatsFor(filtered),
		JewelTypeSummary: report.JewelTypeSummaryFor(filtered),
		LastSyncedAt:     summary.LastSyncedAt,
	}, nil
}

func (s *Service) getStockSnapshot(ctx context.Context) (*report.StockSummary, error) {
	if s.cache != nil {
		var cached report.StockSummary
		if err := s.cache.Get(ctx, stockCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("stock cache read failed", zap.Error(err))
		}
	}

	summary, err := s.stockRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stockCacheKey, summary); err != nil {
			s.logger.Warn("stock cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}

func ledgerCacheKey(queryDate time.Time) string {
	return fmt.Sprintf(ledgerCacheKeyFormat, queryDate.Format("2006-01-02"))
}
