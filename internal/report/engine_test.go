package report

import (
	"strings"
	"testing"
	"time"

	"expensebot/internal/core"
	"expensebot/internal/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(category string, cents int64) core.Transaction {
	return core.Transaction{UserID: 1, Category: category, Amount: core.Money{Cents: cents}}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, 3, 15, 17, 42, 3, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), PeriodDaily.Start(now))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), PeriodMonthly.Start(now))
}

func TestBuildAggregatesByCategory(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("Books", 5000),
		tx("Food", 2000),
		tx("Books", 3000),
	}

	s := Build(txs, PeriodDaily, now, i18n.English)
	require.False(t, s.Empty)
	assert.Contains(t, s.Text, "Daily Report for 2026-03-15")
	assert.Contains(t, s.Text, "Books: 80₪")
	assert.Contains(t, s.Text, "Food: 20₪")
	assert.Contains(t, s.Text, "*Total:* 100₪")

	// One drill-down control per distinct category, largest total first.
	require.Len(t, s.Controls, 2)
	assert.Equal(t, "cat_Books", s.Controls[0][0].Action)
	assert.Equal(t, "cat_Food", s.Controls[1][0].Action)
}

func TestBuildDeterministicTieOrder(t *testing.T) {
	now := time.Now().UTC()
	txs := []core.Transaction{tx("b", 100), tx("a", 100), tx("c", 100)}

	s := Build(txs, PeriodMonthly, now, i18n.English)
	require.Len(t, s.Controls, 3)
	assert.Equal(t, "cat_a", s.Controls[0][0].Action)
	assert.Equal(t, "cat_b", s.Controls[1][0].Action)
	assert.Equal(t, "cat_c", s.Controls[2][0].Action)
}

func TestBuildMonthlyTitle(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	s := Build([]core.Transaction{tx("x", 100)}, PeriodMonthly, now, i18n.English)
	assert.Contains(t, s.Text, "Monthly Report for 2026-03")
}

func TestBuildEmpty(t *testing.T) {
	s := Build(nil, PeriodDaily, time.Now().UTC(), i18n.English)
	assert.True(t, s.Empty)
	assert.Empty(t, s.Controls)
	assert.True(t, strings.Contains(s.Text, "No expenses"))
}
