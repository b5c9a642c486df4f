// Package export encodes a scope's transactions as a CSV attachment.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"expensebot/internal/core"
)

const (
	// FileName is the attachment name handed to the transport.
	FileName = "expenses.csv"

	timestampLayout = "2006-01-02 15:04"
)

var header = []string{"ID", "Category", "Amount", "Timestamp"}

// CSV renders transactions into the export format: a header row followed by
// one row per transaction, amounts in decimal, timestamps minute-precise.
func CSV(txs []core.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			strconv.FormatInt(tx.ID, 10),
			tx.Category,
			tx.Amount.String(),
			tx.CreatedAt.UTC().Format(timestampLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
