package bot

import (
	"context"
	"errors"
	"strconv"
	"time"

	"expensebot/internal/amqp"
	"expensebot/internal/core"
	"expensebot/internal/i18n"
	"expensebot/internal/log"
	"expensebot/internal/reply"
	"expensebot/internal/session"
	"expensebot/internal/wallet"
)

// handleFlow consumes the next text message for the user's in-progress
// guided flow. Invalid input re-prompts and keeps the flow alive in every
// flow; only NotFound terminates it.
func (r *Router) handleFlow(ctx context.Context, userID int64, flow session.Flow, text string, loc i18n.Locale) []reply.Reply {
	switch flow.Kind {
	case session.FlowEditAmount:
		return r.flowEditAmount(ctx, userID, flow.TransactionID, text, loc)
	case session.FlowJoinWallet:
		return r.flowJoinWallet(ctx, userID, text, loc)
	case session.FlowFilterDate:
		return r.flowFilterDate(ctx, userID, text, loc)
	default:
		r.sessions.Update(userID, func(c *session.Context) { c.EndFlow() })
		return nil
	}
}

func (r *Router) flowEditAmount(ctx context.Context, userID, txID int64, text string, loc i18n.Locale) []reply.Reply {
	amount, err := core.ParseAmount(text)
	if err != nil {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgInvalidAmountReply))}
	}

	tx, err := r.storage.GetTransaction(ctx, txID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to load transaction in edit flow",
				log.FieldTxID, txID,
				log.FieldError, err)
		}
		r.sessions.Update(userID, func(c *session.Context) { c.EndFlow() })
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseNotFound))}
	}

	if err := r.storage.UpdateAmount(ctx, txID, amount); err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to update transaction amount",
				log.FieldTxID, txID,
				log.FieldError, err)
		}
		r.sessions.Update(userID, func(c *session.Context) { c.EndFlow() })
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseNotFound))}
	}

	r.sessions.Update(userID, func(c *session.Context) { c.EndFlow() })
	r.publish(ctx, amqp.NewTransactionEvent(amqp.EventUpdated, txID, tx.UserID, tx.WalletID, tx.Category, amount.Cents))

	return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExpenseUpdated, tx.Category, amount.String()))}
}

func (r *Router) flowJoinWallet(ctx context.Context, userID int64, text string, loc i18n.Locale) []reply.Reply {
	walletID, err := strconv.ParseInt(text, 10, 64)
	if err != nil || walletID <= 0 {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgInvalidWalletID))}
	}

	w, result, err := r.wallets.Join(ctx, userID, walletID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to join wallet",
				log.FieldUserID, userID,
				log.FieldWalletID, walletID,
				log.FieldError, err)
		}
		r.sessions.Update(userID, func(c *session.Context) { c.EndFlow() })
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgWalletNotFound))}
	}

	r.sessions.Update(userID, func(c *session.Context) { c.EndFlow() })
	if result == wallet.AlreadyMember {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgAlreadyMember))}
	}
	return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgWalletJoined, w.Name, w.ID))}
}

func (r *Router) flowFilterDate(ctx context.Context, userID int64, text string, loc i18n.Locale) []reply.Reply {
	day, err := time.ParseInLocation("2006-01-02", text, time.UTC)
	if err != nil {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgInvalidDate))}
	}

	r.sessions.Update(userID, func(c *session.Context) {
		c.EndFlow()
		c.Archive.View = session.ViewList
		c.SetFilterDay(day)
	})

	replies := []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgDateSet, text))}
	return append(replies, r.renderArchive(ctx, userID, loc, false)...)
}
