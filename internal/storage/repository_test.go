package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"expensebot/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInsertAndGetTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID:   1,
		Category: "Books",
		Amount:   core.Money{Cents: 5000},
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "Books", got.Category)
	assert.Equal(t, int64(5000), got.Amount.Cents)
	assert.True(t, got.Personal())
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
}

func TestGetTransactionNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetTransaction(context.Background(), 12345)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateAmountChangesOnlyAmount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID:   7,
		Category: "Food",
		Amount:   core.Money{Cents: 2000},
		WalletID: 10001,
	})
	require.NoError(t, err)
	before, err := repo.GetTransaction(ctx, id)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateAmount(ctx, id, core.Money{Cents: 4000}))

	after, err := repo.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), after.Amount.Cents)
	assert.Equal(t, before.UserID, after.UserID)
	assert.Equal(t, before.Category, after.Category)
	assert.Equal(t, before.WalletID, after.WalletID)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestUpdateAmountNotFound(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.UpdateAmount(context.Background(), 999, core.Money{Cents: 100})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{UserID: 1, Category: "x", Amount: core.Money{Cents: 100}})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTransaction(ctx, id))
	_, err = repo.GetTransaction(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Deleting a nonexistent id reports NotFound and leaves the store alone.
	assert.ErrorIs(t, repo.DeleteTransaction(ctx, id), core.ErrNotFound)
}

func TestQueryTransactionsScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.InsertTransaction(ctx, core.Transaction{UserID: 1, Category: "a", Amount: core.Money{Cents: 100}})
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, core.Transaction{UserID: 1, Category: "b", Amount: core.Money{Cents: 200}, WalletID: 10001})
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, core.Transaction{UserID: 2, Category: "c", Amount: core.Money{Cents: 300}, WalletID: 10001})
	require.NoError(t, err)

	personal, err := repo.QueryTransactions(ctx, core.PersonalScope(1), QueryOpts{})
	require.NoError(t, err)
	require.Len(t, personal, 1)
	assert.Equal(t, "a", personal[0].Category)

	shared, err := repo.QueryTransactions(ctx, core.WalletScope(10001), QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, shared, 2)
}

func TestQueryTransactionsSumAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cents := []int64{100, 250, 400}
	for i, c := range cents {
		_, err := repo.InsertTransaction(ctx, core.Transaction{
			UserID:    5,
			Category:  "Food",
			Amount:    core.Money{Cents: c},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			WalletID:  10002,
		})
		require.NoError(t, err)
	}

	got, err := repo.QueryTransactions(ctx, core.WalletScope(10002), QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	var sum int64
	for _, tx := range got {
		sum += tx.Amount.Cents
	}
	assert.Equal(t, int64(750), sum)

	// Newest first.
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
	assert.True(t, got[1].CreatedAt.After(got[2].CreatedAt))
}

func TestQueryTransactionsTimeRangeAndCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID: 1, Category: "Books", Amount: core.Money{Cents: 100}, CreatedAt: day.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, core.Transaction{
		UserID: 1, Category: "Books", Amount: core.Money{Cents: 200}, CreatedAt: day.Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.InsertTransaction(ctx, core.Transaction{
		UserID: 1, Category: "Food", Amount: core.Money{Cents: 300}, CreatedAt: day.Add(3 * time.Hour),
	})
	require.NoError(t, err)

	got, err := repo.QueryTransactions(ctx, core.PersonalScope(1), QueryOpts{
		Since:    day,
		Until:    day.Add(24 * time.Hour),
		Category: "Books",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(100), got[0].Amount.Cents)
}

func TestWalletLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	exists, err := repo.WalletExists(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateWallet(ctx, core.Wallet{ID: 12345, Name: "Wallet 12345", OwnerID: 1}))

	exists, err = repo.WalletExists(ctx, 12345)
	require.NoError(t, err)
	assert.True(t, exists)

	w, err := repo.GetWallet(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, "Wallet 12345", w.Name)
	assert.Equal(t, int64(1), w.OwnerID)

	_, err = repo.GetWallet(ctx, 54321)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMembershipIsAdditiveAndUnique(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateWallet(ctx, core.Wallet{ID: 11111, Name: "Wallet 11111", OwnerID: 1}))

	ok, err := repo.IsMember(ctx, 11111, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.AddMember(ctx, 11111, 2))
	require.NoError(t, repo.AddMember(ctx, 11111, 2)) // idempotent

	ok, err = repo.IsMember(ctx, 11111, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}
