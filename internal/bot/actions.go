package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"expensebot/internal/amqp"
	"expensebot/internal/archive"
	"expensebot/internal/core"
	"expensebot/internal/i18n"
	"expensebot/internal/log"
	"expensebot/internal/reply"
	"expensebot/internal/report"
	"expensebot/internal/session"
	"expensebot/internal/storage"
)

// Action tokens owned by the router itself; archive and report tokens are
// defined by their packages.
const (
	ActionSharedCreate = "shared_create"
	ActionSharedJoin   = "shared_join"
	PrefixEdit         = "edit_"
	PrefixDelete       = "delete_"
)

func (r *Router) handleAction(ctx context.Context, userID int64, action string, loc i18n.Locale) []reply.Reply {
	switch {
	case strings.HasPrefix(action, report.PrefixCategory):
		return r.categoryBreakdown(ctx, userID, strings.TrimPrefix(action, report.PrefixCategory), loc)

	case strings.HasPrefix(action, PrefixEdit):
		return r.startEdit(ctx, userID, action, loc)

	case strings.HasPrefix(action, PrefixDelete):
		return r.deleteExpense(ctx, userID, action, loc)

	case action == ActionSharedCreate:
		return r.createWallet(ctx, userID, loc)

	case action == ActionSharedJoin:
		r.sessions.Update(userID, func(c *session.Context) {
			c.StartFlow(session.Flow{Kind: session.FlowJoinWallet})
		})
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgJoinPrompt))}

	case action == archive.ActionViewMonthly:
		r.sessions.Update(userID, func(c *session.Context) {
			c.SetView(session.ViewMonthly)
		})
		return r.renderArchive(ctx, userID, loc, true)

	case action == archive.ActionViewList:
		r.sessions.Update(userID, func(c *session.Context) {
			c.SetView(session.ViewList)
		})
		return r.renderArchive(ctx, userID, loc, true)

	case action == archive.ActionClearFilter:
		r.sessions.Update(userID, func(c *session.Context) {
			c.ClearFilters()
		})
		return r.renderArchive(ctx, userID, loc, true)

	case action == archive.ActionFilterDate:
		r.sessions.Update(userID, func(c *session.Context) {
			c.StartFlow(session.Flow{Kind: session.FlowFilterDate})
		})
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgDatePrompt))}

	case strings.HasPrefix(action, archive.PrefixMonth):
		return r.drillMonth(ctx, userID, strings.TrimPrefix(action, archive.PrefixMonth), loc)

	case strings.HasPrefix(action, archive.PrefixPrev):
		if page, ok := archive.ParsePageToken(action, archive.PrefixPrev); ok {
			return r.navigate(ctx, userID, page-1, loc)
		}

	case strings.HasPrefix(action, archive.PrefixNext):
		if page, ok := archive.ParsePageToken(action, archive.PrefixNext); ok {
			return r.navigate(ctx, userID, page+1, loc)
		}
	}

	r.logger.WarnContext(ctx, "Unknown action token",
		log.FieldUserID, userID,
		log.FieldAction, action)
	return nil
}

// categoryBreakdown lists every transaction of one category in the current
// scope, each row with its edit and delete controls.
func (r *Router) categoryBreakdown(ctx context.Context, userID int64, category string, loc i18n.Locale) []reply.Reply {
	scope := r.wallets.Resolve(userID)
	txs, err := r.storage.QueryTransactions(ctx, scope, storage.QueryOpts{Category: category})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query category breakdown",
			log.FieldUserID, userID,
			log.FieldCategory, category,
			log.FieldError, err)
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgNoExpensesCategory, category))}
	}
	if len(txs) == 0 {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgNoExpensesCategory, category))}
	}

	var b strings.Builder
	b.WriteString(i18n.T(loc, i18n.MsgBreakdownTitle, category))
	b.WriteByte('\n')
	controls := make([][]reply.Control, 0, len(txs))
	for _, tx := range txs {
		b.WriteString(i18n.T(loc, i18n.MsgBreakdownLine,
			tx.CreatedAt.Format("2006-01-02 15:04"), tx.Amount.String()))
		b.WriteByte('\n')
		controls = append(controls, []reply.Control{
			{Label: i18n.T(loc, i18n.MsgBtnEdit, tx.Amount.String()), Action: PrefixEdit + formatID(tx.ID)},
			{Label: i18n.T(loc, i18n.MsgBtnDelete), Action: PrefixDelete + formatID(tx.ID)},
		})
	}

	return []reply.Reply{reply.Markdown(b.String(), controls)}
}

func (r *Router) startEdit(ctx context.Context, userID int64, action string, loc i18n.Locale) []reply.Reply {
	id, ok := parseIDSuffix(action, PrefixEdit)
	if !ok {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseNotFound))}
	}

	tx, err := r.storage.GetTransaction(ctx, id)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to load transaction for edit",
				log.FieldTxID, id,
				log.FieldError, err)
		}
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseNotFound))}
	}

	r.sessions.Update(userID, func(c *session.Context) {
		c.StartFlow(session.Flow{Kind: session.FlowEditAmount, TransactionID: id})
	})
	return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgEditPrompt, tx.Category, tx.Amount.String()))}
}

func (r *Router) deleteExpense(ctx context.Context, userID int64, action string, loc i18n.Locale) []reply.Reply {
	id, ok := parseIDSuffix(action, PrefixDelete)
	if !ok {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseNotFound))}
	}

	// Read first so the confirmation can echo what was deleted.
	tx, err := r.storage.GetTransaction(ctx, id)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to load transaction for delete",
				log.FieldTxID, id,
				log.FieldError, err)
		}
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseNotFound))}
	}

	if err := r.storage.DeleteTransaction(ctx, id); err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to delete transaction",
				log.FieldTxID, id,
				log.FieldError, err)
		}
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseNotFound))}
	}

	r.publish(ctx, amqp.NewTransactionEvent(amqp.EventDeleted, id, tx.UserID, tx.WalletID, tx.Category, tx.Amount.Cents))

	return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseDeleted, tx.Category, tx.Amount.String()))}
}

func (r *Router) createWallet(ctx context.Context, userID int64, loc i18n.Locale) []reply.Reply {
	w, err := r.wallets.Create(ctx, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create wallet",
			log.FieldUserID, userID,
			log.FieldError, err)
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgWalletNotFound))}
	}
	return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgWalletCreated, w.Name, w.ID))}
}

// drillMonth sets the month filter, forces list view, and re-renders.
// Drilling into a month is navigation, not a read-only display.
func (r *Router) drillMonth(ctx context.Context, userID int64, month string, loc i18n.Locale) []reply.Reply {
	if !archive.ValidMonthKey(month) {
		r.logger.WarnContext(ctx, "Invalid month key in action token",
			log.FieldUserID, userID,
			log.FieldAction, month)
		return nil
	}
	r.sessions.Update(userID, func(c *session.Context) {
		c.Archive.View = session.ViewList
		c.SetFilterMonth(month)
	})
	return r.renderArchive(ctx, userID, loc, true)
}

// navigate moves to the target page computed from the token-embedded page.
// Clamping against the real page count happens at render time.
func (r *Router) navigate(ctx context.Context, userID int64, target int, loc i18n.Locale) []reply.Reply {
	r.sessions.Update(userID, func(c *session.Context) {
		c.SetPage(target)
	})
	return r.renderArchive(ctx, userID, loc, true)
}

// renderArchive builds the archive page for the user's current view state.
// Edited renders are suppressed when the page is identical to the last one
// sent; fresh sends (the /archive command) always go out.
func (r *Router) renderArchive(ctx context.Context, userID int64, loc i18n.Locale, edit bool) []reply.Reply {
	scope := r.wallets.Resolve(userID)
	txs, err := r.storage.QueryTransactions(ctx, scope, storage.QueryOpts{})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query transactions for archive",
			log.FieldUserID, userID,
			log.FieldError, err)
		return nil
	}

	page := r.archive.Build(txs, r.sessions.Get(userID).Archive, loc)
	snapshot := page.Snapshot()

	suppressed := false
	r.sessions.Update(userID, func(c *session.Context) {
		c.SetPage(page.Page)
		if edit && c.LastArchive == snapshot {
			suppressed = true
			return
		}
		c.LastArchive = snapshot
	})
	if suppressed {
		r.logger.DebugContext(ctx, "Suppressed identical archive re-render",
			log.FieldUserID, userID,
			log.FieldPage, page.Page)
		return nil
	}

	out := reply.Markdown(page.Text, page.Controls)
	out.Edit = edit
	return []reply.Reply{out}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
