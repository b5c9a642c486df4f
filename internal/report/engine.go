// Package report aggregates a scope's transactions by category for a fixed
// period and renders the summary with per-category drill-down controls.
package report

import (
	"sort"
	"strings"
	"time"

	"expensebot/internal/core"
	"expensebot/internal/i18n"
	"expensebot/internal/reply"
)

// PrefixCategory prefixes the drill-down action token for one category.
const PrefixCategory = "cat_"

// Period selects the reporting window, always anchored at UTC "now".
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
)

// Start returns the inclusive window start for the period: UTC midnight of
// today, or the first of the current UTC month.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	if p == PeriodMonthly {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Summary is a rendered report: text plus one drill-down control per
// category. Empty reports have no controls.
type Summary struct {
	Text     string
	Controls [][]reply.Control
	Empty    bool
}

type categoryTotal struct {
	category string
	total    core.Money
}

// Build aggregates transactions by category and renders the summary for the
// period. Categories are ordered by total descending, ties by name, so the
// output is deterministic.
func Build(txs []core.Transaction, period Period, now time.Time, loc i18n.Locale) Summary {
	start := period.Start(now)

	titleID := i18n.MsgDailyReportTitle
	dateArg := start.Format("2006-01-02")
	if period == PeriodMonthly {
		titleID = i18n.MsgMonthlyReportTitle
		dateArg = start.Format("2006-01")
	}

	if len(txs) == 0 {
		return Summary{Text: i18n.T(loc, i18n.MsgNoExpensesPeriod), Empty: true}
	}

	byCategory := make(map[string]int64)
	var grand int64
	for _, tx := range txs {
		byCategory[tx.Category] += tx.Amount.Cents
		grand += tx.Amount.Cents
	}

	totals := make([]categoryTotal, 0, len(byCategory))
	for category, cents := range byCategory {
		totals = append(totals, categoryTotal{category: category, total: core.Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].total.Cents != totals[j].total.Cents {
			return totals[i].total.Cents > totals[j].total.Cents
		}
		return totals[i].category < totals[j].category
	})

	var b strings.Builder
	b.WriteString(i18n.T(loc, titleID, dateArg))
	b.WriteString("\n\n")
	b.WriteString(i18n.T(loc, i18n.MsgCategoriesHeader))
	b.WriteByte('\n')
	for _, ct := range totals {
		b.WriteString(i18n.T(loc, i18n.MsgCategoryLine, ct.category, ct.total.String()))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(i18n.T(loc, i18n.MsgTotalLine, core.Money{Cents: grand}.String()))

	controls := make([][]reply.Control, 0, len(totals))
	for _, ct := range totals {
		controls = append(controls, []reply.Control{{Label: ct.category, Action: PrefixCategory + ct.category}})
	}

	return Summary{Text: b.String(), Controls: controls}
}
