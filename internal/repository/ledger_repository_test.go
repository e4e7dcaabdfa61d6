package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/testutil"
)

func addEntry(t *testing.T, repo LedgerRepository, userID uint, dir model.Direction, amount string, cur model.Currency, createdAt time.Time) *model.LedgerEntry {
	t.Helper()
	entry := &model.LedgerEntry{
		UserID:       userID,
		Counterparty: "Sidorovich",
		Direction:    dir,
		Amount:       decimal.RequireFromString(amount),
		Currency:     cur,
		Source:       "artifact sale",
		CreatedAt:    createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	return entry
}

func TestLedgerRepository_Balance(t *testing.T) {
	gormDB := testutil.OpenInMemoryDB(t)
	owner := testutil.CreateUser(t, gormDB, "strelok", model.RoleLoner)
	other := testutil.CreateUser(t, gormDB, "degtyarev", model.RoleDuty)
	repo := NewLedgerRepository(gormDB)
	now := time.Now().UTC().Truncate(time.Second)

	addEntry(t, repo, owner.ID, model.DirectionCredit, "100", model.CurrencyRUB, now)
	addEntry(t, repo, owner.ID, model.DirectionDebit, "30", model.CurrencyRUB, now)
	addEntry(t, repo, owner.ID, model.DirectionCredit, "5", model.CurrencyUSD, now)
	addEntry(t, repo, other.ID, model.DirectionCredit, "999", model.CurrencyEUR, now)

	balances, err := repo.Balance(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, model.CurrencyRUB, balances[0].Currency)
	assert.True(t, decimal.NewFromInt(100).Equal(balances[0].Income))
	assert.True(t, decimal.NewFromInt(30).Equal(balances[0].Expense))
	assert.True(t, decimal.NewFromInt(70).Equal(balances[0].Balance))

	assert.Equal(t, model.CurrencyUSD, balances[1].Currency)
	assert.True(t, decimal.NewFromInt(5).Equal(balances[1].Income))
	assert.True(t, decimal.Zero.Equal(balances[1].Expense))
	assert.True(t, decimal.NewFromInt(5).Equal(balances[1].Balance))
}

func TestLedgerRepository_BalanceEmpty(t *testing.T) {
	gormDB := testutil.OpenInMemoryDB(t)
	owner := testutil.CreateUser(t, gormDB, "newbie", model.RoleNeutral)

	balances, err := NewLedgerRepository(gormDB).Balance(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestLedgerRepository_Statistics(t *testing.T) {
	gormDB := testutil.OpenInMemoryDB(t)
	owner := testutil.CreateUser(t, gormDB, "strelok", model.RoleLoner)
	repo := NewLedgerRepository(gormDB)
	now := time.Now().UTC().Truncate(time.Second)

	addEntry(t, repo, owner.ID, model.DirectionCredit, "100", model.CurrencyRUB, now.Add(-time.Hour))
	addEntry(t, repo, owner.ID, model.DirectionCredit, "50", model.CurrencyRUB, now.Add(-2*time.Hour))
	addEntry(t, repo, owner.ID, model.DirectionDebit, "10", model.CurrencyRUB, now.Add(-3*time.Hour))
	addEntry(t, repo, owner.ID, model.DirectionCredit, "1000", model.CurrencyRUB, now.AddDate(0, 0, -40))

	stats, err := repo.Statistics(context.Background(), owner.ID, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, model.DirectionCredit, stats[0].Direction)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.True(t, decimal.NewFromInt(150).Equal(stats[0].TotalAmount))
	assert.True(t, decimal.NewFromInt(75).Equal(stats[0].AverageAmount))

	assert.Equal(t, model.DirectionDebit, stats[1].Direction)
	assert.Equal(t, int64(1), stats[1].Count)

	all, err := repo.Statistics(context.Background(), owner.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(3), all[0].Count)
	assert.True(t, decimal.NewFromInt(1150).Equal(all[0].TotalAmount))
}

func TestLedgerRepository_StatisticsBoundaryIsInclusive(t *testing.T) {
	gormDB := testutil.OpenInMemoryDB(t)
	owner := testutil.CreateUser(t, gormDB, "strelok", model.RoleLoner)
	repo := NewLedgerRepository(gormDB)
	cutoff := time.Now().UTC().Truncate(time.Second).AddDate(0, 0, -7)

	addEntry(t, repo, owner.ID, model.DirectionCredit, "10", model.CurrencyUSD, cutoff)
	addEntry(t, repo, owner.ID, model.DirectionCredit, "20", model.CurrencyUSD, cutoff.Add(-time.Second))

	stats, err := repo.Statistics(context.Background(), owner.ID, cutoff)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].Count)
	assert.True(t, decimal.NewFromInt(10).Equal(stats[0].TotalAmount))
}

func TestLedgerRepository_ListFiltersAndPages(t *testing.T) {
	gormDB := testutil.OpenInMemoryDB(t)
	owner := testutil.CreateUser(t, gormDB, "strelok", model.RoleLoner)
	other := testutil.CreateUser(t, gormDB, "degtyarev", model.RoleDuty)
	repo := NewLedgerRepository(gormDB)
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		addEntry(t, repo, owner.ID, model.DirectionCredit, "1", model.CurrencyRUB, base.Add(time.Duration(i)*time.Minute))
	}
	addEntry(t, repo, owner.ID, model.DirectionDebit, "2", model.CurrencyUSD, base)
	addEntry(t, repo, other.ID, model.DirectionCredit, "3", model.CurrencyRUB, base)

	entries, total, err := repo.List(context.Background(), LedgerFilter{UserID: owner.ID, Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))

	entries, total, err = repo.List(context.Background(), LedgerFilter{UserID: owner.ID, Currency: model.CurrencyRUB, Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, entries, 1)

	entries, total, err = repo.List(context.Background(), LedgerFilter{UserID: owner.ID, Direction: model.DirectionDebit})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, model.CurrencyUSD, entries[0].Currency)

	for _, e := range entries {
		assert.Equal(t, owner.ID, e.UserID)
	}
}

func TestLedgerRepository_OwnerScoping(t *testing.T) {
	gormDB := testutil.OpenInMemoryDB(t)
	owner := testutil.CreateUser(t, gormDB, "strelok", model.RoleLoner)
	other := testutil.CreateUser(t, gormDB, "degtyarev", model.RoleDuty)
	repo := NewLedgerRepository(gormDB)
	entry := addEntry(t, repo, owner.ID, model.DirectionCredit, "10", model.CurrencyRUB, time.Now().UTC())
	ctx := context.Background()

	_, err := repo.FindByID(ctx, other.ID, entry.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = repo.Delete(ctx, other.ID, entry.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	found, err := repo.FindByID(ctx, owner.ID, entry.ID)
	require.NoError(t, err)

	found.Amount = decimal.RequireFromString("12.50")
	found.Direction = model.DirectionDebit
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.FindByID(ctx, owner.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DirectionDebit, reloaded.Direction)
	assert.True(t, decimal.RequireFromString("12.5").Equal(reloaded.Amount))

	require.NoError(t, repo.Delete(ctx, owner.ID, entry.ID))
	_, err = repo.FindByID(ctx, owner.ID, entry.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
