// Package archive implements the paginated, filterable view over a scope's
// full transaction history: list mode with optional day/month filters, and a
// monthly-grouped mode whose rows drill back down into the list.
package archive

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"expensebot/internal/core"
	"expensebot/internal/i18n"
	"expensebot/internal/reply"
	"expensebot/internal/session"
)

// Action tokens owned by the archive. The page embedded in prev/next tokens
// is the page the control was rendered for, so navigation computes the target
// from the token instead of the session and cannot drift on racing taps.
const (
	ActionViewMonthly = "archive_view_monthly"
	ActionViewList    = "archive_view_list"
	ActionClearFilter = "archive_clear_filter"
	ActionFilterDate  = "archive_filter_date"
	PrefixPrev        = "archive_prev_"
	PrefixNext        = "archive_next_"
	PrefixMonth       = "month_"
)

const monthKeyLayout = "2006-01"

// DefaultPageSize is the number of rows (or month buckets) per page.
const DefaultPageSize = 5

// Page is a fully rendered archive view: the text, the exact control grid to
// offer, and the page index that was actually rendered after clamping.
type Page struct {
	Text     string
	Controls [][]reply.Control
	Page     int
	Total    int // total pages; 0 when the scope is empty
}

// Snapshot fingerprints the page for re-render suppression.
func (p Page) Snapshot() session.Snapshot {
	var b strings.Builder
	for _, row := range p.Controls {
		for _, c := range row {
			b.WriteString(c.Label)
			b.WriteByte('|')
			b.WriteString(c.Action)
			b.WriteByte(';')
		}
		b.WriteByte('\n')
	}
	return session.Snapshot{Text: p.Text, Controls: b.String()}
}

// Engine renders archive pages. It is stateless; all view state comes from
// the session's ArchiveState.
type Engine struct {
	pageSize int
}

func NewEngine(pageSize int) *Engine {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Engine{pageSize: pageSize}
}

// Build renders the archive page for the given transactions and view state.
// The input is the scope's full history; the engine derives any date
// restriction itself so monthly grouping never needs a second query.
func (e *Engine) Build(txs []core.Transaction, st session.ArchiveState, loc i18n.Locale) Page {
	sortNewestFirst(txs)
	if st.View == session.ViewMonthly {
		return e.buildMonthly(txs, st, loc)
	}
	return e.buildList(txs, st, loc)
}

func (e *Engine) buildList(txs []core.Transaction, st session.ArchiveState, loc i18n.Locale) Page {
	txs = applyFilter(txs, st)

	total := totalPages(len(txs), e.pageSize)
	page := clampPage(st.Page, total)
	start := page * e.pageSize
	end := min(start+e.pageSize, len(txs))

	var b strings.Builder
	b.WriteString(i18n.T(loc, i18n.MsgArchiveTitle))
	b.WriteByte('\n')
	if st.FilterMonth != "" {
		b.WriteString(i18n.T(loc, i18n.MsgFilteringLine, st.FilterMonth))
		b.WriteString("\n\n")
	} else if !st.FilterDay.IsZero() {
		b.WriteString(i18n.T(loc, i18n.MsgFilteringLine, st.FilterDay.Format("2006-01-02")))
		b.WriteString("\n\n")
	} else {
		b.WriteByte('\n')
	}
	for _, tx := range txs[start:end] {
		b.WriteString(i18n.T(loc, i18n.MsgArchiveRow,
			tx.CreatedAt.Format("2006-01-02 15:04"), tx.Category, tx.Amount.String()))
		b.WriteByte('\n')
	}

	var controls [][]reply.Control
	if row := paginationRow(page, total, loc); row != nil {
		controls = append(controls, row)
	}
	controls = append(controls,
		[]reply.Control{{Label: i18n.T(loc, i18n.MsgBtnGroupMonthly), Action: ActionViewMonthly}},
		[]reply.Control{{Label: i18n.T(loc, i18n.MsgBtnFilterDate), Action: ActionFilterDate}},
	)
	if filterActive(st) {
		controls = append(controls, []reply.Control{{Label: i18n.T(loc, i18n.MsgBtnClearFilter), Action: ActionClearFilter}})
	}

	return Page{Text: b.String(), Controls: controls, Page: page, Total: total}
}

func (e *Engine) buildMonthly(txs []core.Transaction, st session.ArchiveState, loc i18n.Locale) Page {
	// Monthly mode and filters are mutually exclusive presentations; any
	// filter still present in the state is ignored for grouping.
	type bucket struct {
		total core.Money
		count int
	}
	buckets := make(map[string]*bucket)
	for _, tx := range txs {
		key := tx.CreatedAt.UTC().Format(monthKeyLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total.Cents += tx.Amount.Cents
		b.count++
	}

	months := make([]string, 0, len(buckets))
	for key := range buckets {
		months = append(months, key)
	}
	// Lexical descending on YYYY-MM equals chronological descending.
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	total := totalPages(len(months), e.pageSize)
	page := clampPage(st.Page, total)
	start := page * e.pageSize
	end := min(start+e.pageSize, len(months))
	visible := months[start:end]

	var b strings.Builder
	b.WriteString(i18n.T(loc, i18n.MsgMonthlyTitle))
	b.WriteString("\n\n")
	for _, month := range visible {
		bk := buckets[month]
		b.WriteString(i18n.T(loc, i18n.MsgMonthRow, month, bk.count, bk.total.String()))
		b.WriteByte('\n')
	}

	var controls [][]reply.Control
	for _, month := range visible {
		controls = append(controls, []reply.Control{{Label: "📅 " + month, Action: PrefixMonth + month}})
	}
	if row := paginationRow(page, total, loc); row != nil {
		controls = append(controls, row)
	}
	controls = append(controls, []reply.Control{{Label: i18n.T(loc, i18n.MsgBtnListView), Action: ActionViewList}})
	if filterActive(st) {
		controls = append(controls, []reply.Control{{Label: i18n.T(loc, i18n.MsgBtnClearFilter), Action: ActionClearFilter}})
	}

	return Page{Text: b.String(), Controls: controls, Page: page, Total: total}
}

// MonthKey formats a timestamp as an archive month key ("YYYY-MM").
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthKeyLayout)
}

// ValidMonthKey reports whether s is a well-formed month key.
func ValidMonthKey(s string) bool {
	_, err := time.Parse(monthKeyLayout, s)
	return err == nil
}

// PrevToken and NextToken build pagination tokens carrying the rendered page.
func PrevToken(page int) string { return PrefixPrev + strconv.Itoa(page) }
func NextToken(page int) string { return PrefixNext + strconv.Itoa(page) }

// ParsePageToken extracts the embedded page from a prev/next token.
func ParsePageToken(token, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(token, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func paginationRow(page, total int, loc i18n.Locale) []reply.Control {
	var row []reply.Control
	if page > 0 {
		row = append(row, reply.Control{Label: i18n.T(loc, i18n.MsgBtnPrev), Action: PrevToken(page)})
	}
	if page < total-1 {
		row = append(row, reply.Control{Label: i18n.T(loc, i18n.MsgBtnNext), Action: NextToken(page)})
	}
	return row
}

func applyFilter(txs []core.Transaction, st session.ArchiveState) []core.Transaction {
	switch {
	case !st.FilterDay.IsZero():
		start := st.FilterDay.UTC().Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, 1)
		return filterRange(txs, start, end)
	case st.FilterMonth != "":
		start, err := time.ParseInLocation(monthKeyLayout, st.FilterMonth, time.UTC)
		if err != nil {
			return txs
		}
		return filterRange(txs, start, start.AddDate(0, 1, 0))
	default:
		return txs
	}
}

func filterRange(txs []core.Transaction, start, end time.Time) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		ts := tx.CreatedAt.UTC()
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, tx)
		}
	}
	return out
}

// sortNewestFirst re-sorts defensively; the store already orders this way
// but the engine must not assume it when sources are combined.
func sortNewestFirst(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}

func totalPages(count, pageSize int) int {
	return (count + pageSize - 1) / pageSize
}

// clampPage clamps into [0, total-1], treating an empty result as a single
// empty page 0.
func clampPage(page, total int) int {
	if total == 0 {
		return 0
	}
	if page < 0 {
		return 0
	}
	if page > total-1 {
		return total - 1
	}
	return page
}

func filterActive(st session.ArchiveState) bool {
	return !st.FilterDay.IsZero() || st.FilterMonth != ""
}
