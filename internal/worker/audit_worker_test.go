package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"expensebot/internal/amqp"
	"expensebot/internal/core"
	"expensebot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T) (*AuditWorker, *storage.SQLiteRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	path := filepath.Join(dir, "audit.log")
	return NewAuditWorker(repo, path), repo, path
}

func readRecords(t *testing.T, path string) []auditRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []auditRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r auditRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestHandleCreatedEventReadsStoredRow(t *testing.T) {
	w, repo, path := newTestWorker(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID:   7,
		Category: "Books",
		Amount:   core.Money{Cents: 5000},
	})
	require.NoError(t, err)

	// The event deliberately carries stale data; the worker must audit the
	// stored row, not the message.
	ev := amqp.NewTransactionEvent(amqp.EventCreated, id, 7, 0, "stale", 1)
	require.NoError(t, w.HandleEvent(ctx, ev))

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, amqp.EventCreated, records[0].Kind)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "Books", records[0].Category)
	assert.Equal(t, int64(5000), records[0].AmountCents)
	assert.False(t, records[0].AuditedAt.IsZero())
}

func TestHandleDeletedEventUsesMessageData(t *testing.T) {
	w, _, path := newTestWorker(t)
	ctx := context.Background()

	ev := amqp.NewTransactionEvent(amqp.EventDeleted, 42, 7, 12345, "Food", 2000)
	require.NoError(t, w.HandleEvent(ctx, ev))

	records := readRecords(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, amqp.EventDeleted, records[0].Kind)
	assert.Equal(t, "Food", records[0].Category)
	assert.Equal(t, int64(2000), records[0].AmountCents)
	assert.Equal(t, int64(12345), records[0].WalletID)
}

func TestHandleEventMissingRow(t *testing.T) {
	w, _, _ := newTestWorker(t)

	ev := amqp.NewTransactionEvent(amqp.EventUpdated, 999, 7, 0, "Books", 100)
	err := w.HandleEvent(context.Background(), ev)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAppendAccumulates(t *testing.T) {
	w, repo, path := newTestWorker(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		UserID:   1,
		Category: "Books",
		Amount:   core.Money{Cents: 100},
	})
	require.NoError(t, err)

	require.NoError(t, w.HandleEvent(ctx, amqp.NewTransactionEvent(amqp.EventCreated, id, 1, 0, "Books", 100)))
	require.NoError(t, w.HandleEvent(ctx, amqp.NewTransactionEvent(amqp.EventDeleted, id, 1, 0, "Books", 100)))

	records := readRecords(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, amqp.EventCreated, records[0].Kind)
	assert.Equal(t, amqp.EventDeleted, records[1].Kind)
}
