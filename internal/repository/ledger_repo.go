package repository

import (
	"context"
	"fmt"
	"time"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountTotalRow is one trial balance line as aggregated by the database.
type AccountTotalRow struct {
	AccountCode string          `gorm:"column:account_code"`
	TotalDebit  decimal.Decimal `gorm:"column:total_debit"`
	TotalCredit decimal.Decimal `gorm:"column:total_credit"`
}

type LedgerListFilter struct {
	SchoolID    uuid.UUID
	AccountCode string
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

type LedgerRepository interface {
	// CreateEntries persists all lines of one event in a single batch; the
	// service has already checked they balance.
	CreateEntries(ctx context.Context, entries []*model.AccountingEntry) error
	ListByReference(ctx context.Context, schoolID uuid.UUID, refType string, refID uuid.UUID) ([]model.AccountingEntry, error)
	List(ctx context.Context, filter LedgerListFilter) ([]model.AccountingEntry, int64, error)
	// AccountTotals folds debit/credit sums per account for a school and date
	// range; the reporting aggregator builds every statement from these rows.
	AccountTotals(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]AccountTotalRow, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateEntries(ctx context.Context, entries []*model.AccountingEntry) error {
	return GetDB(ctx, r.db).Create(entries).Error
}

func (r *ledgerRepository) ListByReference(ctx context.Context, schoolID uuid.UUID, refType string, refID uuid.UUID) ([]model.AccountingEntry, error) {
	var entries []model.AccountingEntry
	if err := GetDB(ctx, r.db).
		Where("school_id = ? AND reference_type = ? AND reference_id = ?", schoolID, refType, refID).
		Order("created_at, account_code").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ledgerRepository) List(ctx context.Context, filter LedgerListFilter) ([]model.AccountingEntry, int64, error) {
	var entries []model.AccountingEntry
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		q = q.Where("school_id = ?", filter.SchoolID)
		if filter.AccountCode != "" {
			q = q.Where("account_code = ?", filter.AccountCode)
		}
		if filter.From != nil {
			q = q.Where("entry_date >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("entry_date <= ?", *filter.To)
		}
		return q
	}

	if err := apply(db.Model(&model.AccountingEntry{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := apply(db).Order("entry_date desc, entry_no desc").
		Offset(offset).Limit(filter.Limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *ledgerRepository) AccountTotals(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]AccountTotalRow, error) {
	query := `
		SELECT
			e.account_code,
			COALESCE(SUM(e.debit_amount), 0)  AS total_debit,
			COALESCE(SUM(e.credit_amount), 0) AS total_credit
		FROM accounting_entries e
		WHERE e.school_id = $1
		  AND e.entry_date >= $2
		  AND e.entry_date <= $3
		GROUP BY e.account_code
		ORDER BY e.account_code
	`

	var rows []AccountTotalRow
	if err := GetDB(ctx, r.db).Raw(query, schoolID, from, to).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate account totals: %w", err)
	}

	return rows, nil
}
