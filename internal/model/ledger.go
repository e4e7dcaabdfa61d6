package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a ledger entry is income or expense.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Currency is one of the supported ledger currencies.
type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// ParseDirection accepts credit/debit and the legacy +/- notation.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "+":
		return DirectionCredit, true
	case "debit", "-":
		return DirectionDebit, true
	}
	return "", false
}

// ParseCurrency accepts ISO codes and the legacy labels (рубли, $, евро).
func ParseCurrency(s string) (Currency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rub", "рубли", "₽":
		return CurrencyRUB, true
	case "usd", "$":
		return CurrencyUSD, true
	case "eur", "евро", "€":
		return CurrencyEUR, true
	}
	return "", false
}

// LedgerEntry is a single financial operation owned by one user.
type LedgerEntry struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	UserID       uint            `json:"user_id" gorm:"not null;index"`
	Counterparty string          `json:"counterparty" gorm:"size:100;not null"`
	Direction    Direction       `json:"direction" gorm:"type:varchar(10);not null;index"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	Currency     Currency        `json:"currency" gorm:"type:varchar(10);not null;index"`
	Source       string          `json:"source" gorm:"type:text;not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CurrencyBalance is the per-currency running total for one owner.
type CurrencyBalance struct {
	Currency Currency        `json:"currency"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Balance  decimal.Decimal `json:"balance"`
}

// LedgerStat aggregates entries of one currency and direction.
type LedgerStat struct {
	Currency      Currency        `json:"currency"`
	Direction     Direction       `json:"direction"`
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

// LedgerPage is one page of ledger entries plus pagination metadata.
type LedgerPage struct {
	Items      []LedgerEntry `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}
