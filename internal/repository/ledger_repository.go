package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
)

// LedgerFilter selects one owner's entries. Zero-valued Direction and
// Currency match everything.
type LedgerFilter struct {
	UserID    uint
	Direction model.Direction
	Currency  model.Currency
	Offset    int
	Limit     int
}

// LedgerRepository defines ledger persistence and aggregation. Every method
// is scoped to a single owner.
type LedgerRepository interface {
	Create(ctx context.Context, entry *model.LedgerEntry) error
	FindByID(ctx context.Context, userID, id uint) (*model.LedgerEntry, error)
	Update(ctx context.Context, entry *model.LedgerEntry) error
	Delete(ctx context.Context, userID, id uint) error
	List(ctx context.Context, filter LedgerFilter) ([]model.LedgerEntry, int64, error)
	Balance(ctx context.Context, userID uint) ([]model.CurrencyBalance, error)
	// Statistics aggregates entries created at or after since. A zero since
	// covers all time.
	Statistics(ctx context.Context, userID uint, since time.Time) ([]model.LedgerStat, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *model.LedgerEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	return translate("create ledger entry", err, "", "ledger entry already exists")
}

func (r *ledgerRepository) FindByID(ctx context.Context, userID, id uint) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if err != nil {
		return nil, translate("find ledger entry", err, "ledger entry not found", "")
	}
	return &entry, nil
}

func (r *ledgerRepository) Update(ctx context.Context, entry *model.LedgerEntry) error {
	err := r.db.WithContext(ctx).Model(entry).
		Where("user_id = ?", entry.UserID).
		Select("counterparty", "direction", "amount", "currency", "source", "updated_at").
		Updates(entry).Error
	return translate("update ledger entry", err, "ledger entry not found", "")
}

func (r *ledgerRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.LedgerEntry{}, id)
	if res.Error != nil {
		return apperrors.Store("delete ledger entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("ledger entry not found")
	}
	return nil
}

func (r *ledgerRepository) List(ctx context.Context, filter LedgerFilter) ([]model.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).Where("user_id = ?", filter.UserID)
	if filter.Direction != "" {
		q = q.Where("direction = ?", filter.Direction)
	}
	if filter.Currency != "" {
		q = q.Where("currency = ?", filter.Currency)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store("count ledger entries", err)
	}

	entries := []model.LedgerEntry{}
	page := q.Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		page = page.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := page.Find(&entries).Error; err != nil {
		return nil, 0, apperrors.Store("list ledger entries", err)
	}
	return entries, total, nil
}

type balanceRow struct {
	Currency model.Currency
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

func (r *ledgerRepository) Balance(ctx context.Context, userID uint) ([]model.CurrencyBalance, error) {
	var rows []balanceRow
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select(
			"currency, "+
				"COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS income, "+
				"COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS expense",
			model.DirectionCredit, model.DirectionDebit,
		).
		Where("user_id = ?", userID).
		Group("currency").
		Order("currency").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Store("ledger balance", err)
	}

	balances := make([]model.CurrencyBalance, 0, len(rows))
	for _, row := range rows {
		income := row.Income.Round(2)
		expense := row.Expense.Round(2)
		balances = append(balances, model.CurrencyBalance{
			Currency: row.Currency,
			Income:   income,
			Expense:  expense,
			Balance:  income.Sub(expense),
		})
	}
	return balances, nil
}

type statRow struct {
	Currency    model.Currency
	Direction   model.Direction
	Count       int64
	TotalAmount decimal.Decimal
}

func (r *ledgerRepository) Statistics(ctx context.Context, userID uint, since time.Time) ([]model.LedgerStat, error) {
	q := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Select("currency, direction, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("user_id = ?", userID)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since.UTC())
	}

	var rows []statRow
	if err := q.Group("currency, direction").Order("currency, direction").Scan(&rows).Error; err != nil {
		return nil, apperrors.Store("ledger statistics", err)
	}

	stats := make([]model.LedgerStat, 0, len(rows))
	for _, row := range rows {
		total := row.TotalAmount.Round(2)
		avg := decimal.Zero
		if row.Count > 0 {
			avg = total.Div(decimal.NewFromInt(row.Count)).Round(2)
		}
		stats = append(stats, model.LedgerStat{
			Currency:      row.Currency,
			Direction:     row.Direction,
			Count:         row.Count,
			TotalAmount:   total,
			AverageAmount: avg,
		})
	}
	return stats, nil
}
