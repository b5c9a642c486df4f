// Package worker consumes transaction events and appends them to a durable
// audit trail on disk.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"expensebot/internal/amqp"
	"expensebot/internal/storage"
)

// auditRecord is one line of the audit trail. For created and updated events
// the stored row is re-read so the trail reflects what the ledger actually
// holds; deleted events are written from the message alone since the row is
// already gone.
type auditRecord struct {
	Kind        amqp.EventKind `json:"kind"`
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	WalletID    int64          `json:"wallet_id,omitempty"`
	Category    string         `json:"category"`
	AmountCents int64          `json:"amount_cents"`
	Timestamp   time.Time      `json:"timestamp"`
	AuditedAt   time.Time      `json:"audited_at"`
}

// AuditWorker handles transaction events by appending JSON lines to the
// audit log file.
type AuditWorker struct {
	storage *storage.SQLiteRepository
	path    string

	mu sync.Mutex
}

func NewAuditWorker(storage *storage.SQLiteRepository, path string) *AuditWorker {
	return &AuditWorker{
		storage: storage,
		path:    path,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *AuditWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"kind", ev.Kind,
		"tx_id", ev.ID)

	record := auditRecord{
		Kind:        ev.Kind,
		ID:          ev.ID,
		UserID:      ev.UserID,
		WalletID:    ev.WalletID,
		Category:    ev.Category,
		AmountCents: ev.AmountCents,
		Timestamp:   ev.Timestamp,
		AuditedAt:   time.Now().UTC(),
	}

	if ev.Kind != amqp.EventDeleted {
		tx, err := w.storage.GetTransaction(ctx, ev.ID)
		if err != nil {
			return fmt.Errorf("get transaction from storage: %w", err)
		}
		record.Category = tx.Category
		record.AmountCents = tx.Amount.Cents
		record.WalletID = tx.WalletID
	}

	if err := w.append(record); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}

	return nil
}

func (w *AuditWorker) append(record auditRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}
