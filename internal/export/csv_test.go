package export

import (
	"strings"
	"testing"
	"time"

	"expensebot/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	txs := []core.Transaction{
		{
			ID:        1,
			UserID:    7,
			Category:  "Books",
			Amount:    core.Money{Cents: 5000},
			CreatedAt: time.Date(2026, 3, 15, 9, 30, 12, 0, time.UTC),
		},
		{
			ID:        2,
			UserID:    7,
			Category:  "Street food",
			Amount:    core.Money{Cents: 1250},
			CreatedAt: time.Date(2026, 3, 16, 18, 5, 0, 0, time.UTC),
		},
	}

	data, err := CSV(txs)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Category,Amount,Timestamp", lines[0])
	assert.Equal(t, "1,Books,50,2026-03-15 09:30", lines[1])
	assert.Equal(t, "2,Street food,12.50,2026-03-16 18:05", lines[2])
}

func TestCSVEmpty(t *testing.T) {
	data, err := CSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "ID,Category,Amount,Timestamp\n", string(data))
}
