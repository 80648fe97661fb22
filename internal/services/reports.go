package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/models"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
)

// ReportService aggregates persisted transactions. It only reads.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ReportService {
	return &ReportService{db: db, repomanager: m, log: log}
}

// Summarize sums amounts per type over the filtered period. Groups are
// ordered by type name; types with no transactions are omitted.
func (s *ReportService) Summarize(ctx context.Context, userID int64, f models.Filter) (*models.Report, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}

	totals, err := s.repomanager.Transactions(s.db).SumByType(ctx, userID, f)
	if err != nil {
		return nil, common.Persistence("summarize transactions", err)
	}

	s.log.Debug(ctx, "report computed", "user_id", userID, "month", f.Month, "year", f.Year, "groups", len(totals))
	return &models.Report{Filter: f, Totals: totals}, nil
}

// ByCategory sums amounts per (type, category) over the filtered period.
func (s *ReportService) ByCategory(ctx context.Context, userID int64, f models.Filter) ([]models.CategoryTotal, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}

	totals, err := s.repomanager.Transactions(s.db).SumByCategory(ctx, userID, f)
	if err != nil {
		return nil, common.Persistence("summarize transactions by category", err)
	}
	return totals, nil
}

// validateFilter rejects a month without a year and out-of-range values.
func validateFilter(f models.Filter) error {
	switch {
	case f.Month != 0 && f.Year == 0:
		return fmt.Errorf("%w: month requires a year", common.ErrInvalidFilter)
	case f.Month < 0 || f.Month > 12:
		return fmt.Errorf("%w: month must be between 1 and 12", common.ErrInvalidFilter)
	case f.Year < 0:
		return fmt.Errorf("%w: year must be positive", common.ErrInvalidFilter)
	}
	return nil
}
