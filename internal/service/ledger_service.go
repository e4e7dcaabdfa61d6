package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/repository"
)

const (
	// DefaultPageSize is used by the HTTP layer when no limit is given.
	DefaultPageSize = 20
	// MaxPageSize caps a single ledger page.
	MaxPageSize = 100
	// maxOffset bounds (page-1)*pageSize so it never overflows int.
	maxOffset = math.MaxInt32
)

// Period is a statistics window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

var periodDays = map[Period]int{
	PeriodWeek:  7,
	PeriodMonth: 30,
	PeriodYear:  365,
}

// ParsePeriod maps a query value to a Period. Empty means month.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PeriodMonth, nil
	}
	if _, ok := periodDays[p]; ok || p == PeriodAll {
		return p, nil
	}
	return "", apperrors.Validation("period", "must be one of week, month, year, all")
}

// LedgerInput carries the writable fields of a ledger entry.
type LedgerInput struct {
	Counterparty string
	Direction    string
	Amount       string
	Currency     string
	Source       string
}

// LedgerQuery selects a page of the caller's entries. Empty Direction and
// Currency match everything.
type LedgerQuery struct {
	Page      int
	PageSize  int
	Direction string
	Currency  string
}

// LedgerService handles the caller's own ledger. No operation ever reads or
// writes another user's entries.
type LedgerService interface {
	Create(ctx context.Context, caller auth.Principal, input LedgerInput) (*model.LedgerEntry, error)
	Get(ctx context.Context, caller auth.Principal, id uint) (*model.LedgerEntry, error)
	Update(ctx context.Context, caller auth.Principal, id uint, input LedgerInput) (*model.LedgerEntry, error)
	Delete(ctx context.Context, caller auth.Principal, id uint) error
	ListPaged(ctx context.Context, caller auth.Principal, query LedgerQuery) (*model.LedgerPage, error)
	Balance(ctx context.Context, caller auth.Principal) ([]model.CurrencyBalance, error)
	Statistics(ctx context.Context, caller auth.Principal, period string) ([]model.LedgerStat, error)
}

type ledgerService struct {
	repo repository.LedgerRepository
	now  func() time.Time
}

// NewLedgerService creates a new ledger service. now defaults to time.Now.
func NewLedgerService(repo repository.LedgerRepository, now func() time.Time) LedgerService {
	if now == nil {
		now = time.Now
	}
	return &ledgerService{repo: repo, now: now}
}

func (s *ledgerService) Create(ctx context.Context, caller auth.Principal, input LedgerInput) (*model.LedgerEntry, error) {
	entry := &model.LedgerEntry{UserID: caller.UserID}
	if err := applyLedgerInput(entry, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) Get(ctx context.Context, caller auth.Principal, id uint) (*model.LedgerEntry, error) {
	return s.repo.FindByID(ctx, caller.UserID, id)
}

func (s *ledgerService) Update(ctx context.Context, caller auth.Principal, id uint, input LedgerInput) (*model.LedgerEntry, error) {
	entry, err := s.repo.FindByID(ctx, caller.UserID, id)
	if err != nil {
		return nil, err
	}
	if err := applyLedgerInput(entry, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) Delete(ctx context.Context, caller auth.Principal, id uint) error {
	return s.repo.Delete(ctx, caller.UserID, id)
}

// ListPaged clamps page and pageSize to at least 1 and pageSize to
// MaxPageSize. Pages past maxOffset are clamped to the last addressable page.
func (s *ledgerService) ListPaged(ctx context.Context, caller auth.Principal, query LedgerQuery) (*model.LedgerPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if lastPage := maxOffset/pageSize + 1; page > lastPage {
		page = lastPage
	}

	filter := repository.LedgerFilter{
		UserID: caller.UserID,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	verr := &apperrors.ValidationError{}
	if query.Direction != "" {
		d, ok := model.ParseDirection(query.Direction)
		if !ok {
			verr.Add("type", "must be credit or debit")
		}
		filter.Direction = d
	}
	if query.Currency != "" {
		c, ok := model.ParseCurrency(query.Currency)
		if !ok {
			verr.Add("currency", "must be RUB, USD or EUR")
		}
		filter.Currency = c
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &model.LedgerPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

func (s *ledgerService) Balance(ctx context.Context, caller auth.Principal) ([]model.CurrencyBalance, error) {
	return s.repo.Balance(ctx, caller.UserID)
}

// Statistics aggregates entries created within the period window, bound inclusive.
func (s *ledgerService) Statistics(ctx context.Context, caller auth.Principal, period string) ([]model.LedgerStat, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	var since time.Time
	if days, ok := periodDays[p]; ok {
		since = s.now().UTC().AddDate(0, 0, -days)
	}
	return s.repo.Statistics(ctx, caller.UserID, since)
}

// moneyLimit is the first value a decimal(15,2) column cannot hold.
var moneyLimit = decimal.New(1, 13)

func applyLedgerInput(entry *model.LedgerEntry, in LedgerInput) error {
	verr := &apperrors.ValidationError{}

	counterparty := strings.TrimSpace(in.Counterparty)
	if counterparty == "" {
		verr.Add("counterparty", "is required")
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		verr.Add("source", "is required")
	}

	direction, ok := model.ParseDirection(in.Direction)
	if !ok {
		verr.Add("direction", "must be credit or debit")
	}
	currency, ok := model.ParseCurrency(in.Currency)
	if !ok {
		verr.Add("currency", "must be RUB, USD or EUR")
	}

	var amount decimal.Decimal
	if strings.TrimSpace(in.Amount) == "" {
		verr.Add("amount", "is required")
	} else if parsed, err := decimal.NewFromString(strings.TrimSpace(in.Amount)); err != nil {
		verr.Add("amount", "must be a number")
	} else if amount = parsed.Round(2); !amount.IsPositive() {
		verr.Add("amount", "must be greater than zero")
	} else if amount.GreaterThanOrEqual(moneyLimit) {
		verr.Add("amount", "must be less than "+moneyLimit.String())
	}

	if err := verr.Err(); err != nil {
		return err
	}

	entry.Counterparty = counterparty
	entry.Direction = direction
	entry.Amount = amount
	entry.Currency = currency
	entry.Source = source
	return nil
}
