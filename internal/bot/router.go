// Package bot routes inbound chat events to the expense-tracking intents:
// recording, reports, the archive, guided flows, wallet actions, and export.
package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"expensebot/internal/amqp"
	"expensebot/internal/archive"
	"expensebot/internal/core"
	"expensebot/internal/export"
	"expensebot/internal/i18n"
	"expensebot/internal/log"
	"expensebot/internal/reply"
	"expensebot/internal/report"
	"expensebot/internal/session"
	"expensebot/internal/storage"
	"expensebot/internal/wallet"
)

// Event is one inbound envelope from the messaging transport. Exactly one of
// Text and Action is expected to be set: Text for typed messages, Action for
// button presses carrying an opaque token.
type Event struct {
	UserID     int64
	LocaleHint string
	Text       string
	Action     string
}

// Publisher emits transaction events for the audit pipeline. Publishing is
// best-effort; the router never fails a user action over it.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// Router classifies inbound events and dispatches them with the acting
// user's session state and resolved scope.
type Router struct {
	storage   *storage.SQLiteRepository
	sessions  *session.Store
	wallets   *wallet.Coordinator
	archive   *archive.Engine
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

func NewRouter(repo *storage.SQLiteRepository, sessions *session.Store, wallets *wallet.Coordinator, engine *archive.Engine, publisher Publisher, logger *log.Logger) *Router {
	return &Router{
		storage:   repo,
		sessions:  sessions,
		wallets:   wallets,
		archive:   engine,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentRouter),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Fixed phrases recognized in both locales, compared case-insensitively.
var (
	dailyPhrases   = []string{"דוח יומי", "daily report", "daily"}
	monthlyPhrases = []string{"דוח חודשי", "monthly report", "monthly"}
	sharedPhrases  = []string{"שיתוף", "shared"}
)

func matchesPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if text == p {
			return true
		}
	}
	return false
}

// Handle processes one inbound event and returns the replies to send.
// Precedence: action token, then an in-progress guided flow, then fixed
// phrases and slash commands, then record-expense as the free-text fallback.
func (r *Router) Handle(ctx context.Context, ev Event) []reply.Reply {
	loc := i18n.Detect(ev.LocaleHint)

	if ev.Action != "" {
		r.logger.InfoContext(ctx, "Handling action",
			log.FieldUserID, ev.UserID,
			log.FieldAction, ev.Action)
		return r.handleAction(ctx, ev.UserID, ev.Action, loc)
	}

	text := strings.TrimSpace(ev.Text)

	if flow := r.sessions.Get(ev.UserID).Flow; flow.Kind != session.FlowNone {
		return r.handleFlow(ctx, ev.UserID, flow, text, loc)
	}

	lower := strings.ToLower(text)
	switch {
	case matchesPhrase(lower, dailyPhrases):
		return r.buildReport(ctx, ev.UserID, report.PeriodDaily, loc)
	case matchesPhrase(lower, monthlyPhrases):
		return r.buildReport(ctx, ev.UserID, report.PeriodMonthly, loc)
	case matchesPhrase(lower, sharedPhrases):
		return r.sharedMenu(loc)
	}

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(ctx, ev.UserID, text, loc)
	}

	return r.recordExpense(ctx, ev.UserID, text, loc)
}

func (r *Router) handleCommand(ctx context.Context, userID int64, text string, loc i18n.Locale) []reply.Reply {
	command := strings.Fields(text)[0]
	r.logger.InfoContext(ctx, "Handling command",
		log.FieldUserID, userID,
		log.FieldIntent, command)

	switch command {
	case "/start":
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgHelp))}
	case "/export":
		return r.exportCSV(ctx, userID, loc)
	case "/archive":
		return r.renderArchive(ctx, userID, loc, false)
	case "/leave":
		if r.wallets.LeaveScope(userID) {
			return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgWalletLeft))}
		}
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgNoWalletToLeave))}
	default:
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgHelp))}
	}
}

// recordExpense is the free-text fallback: parse, persist in the current
// scope, publish an audit event, confirm.
func (r *Router) recordExpense(ctx context.Context, userID int64, text string, loc i18n.Locale) []reply.Reply {
	category, amount, err := core.ParseExpense(text)
	if err != nil {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgBadFormat))}
	}

	scope := r.wallets.Resolve(userID)
	tx := core.Transaction{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		WalletID: scope.WalletID,
	}
	id, err := r.storage.InsertTransaction(ctx, tx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert transaction",
			log.FieldUserID, userID,
			log.FieldError, err)
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgBadFormat))}
	}

	r.publish(ctx, amqp.NewTransactionEvent(amqp.EventCreated, id, userID, scope.WalletID, category, amount.Cents))

	if scope.Shared() {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgRecordedWallet, scope.WalletID, category, amount.String()))}
	}
	return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgRecorded, category, amount.String()))}
}

func (r *Router) buildReport(ctx context.Context, userID int64, period report.Period, loc i18n.Locale) []reply.Reply {
	scope := r.wallets.Resolve(userID)
	now := r.now()
	txs, err := r.storage.QueryTransactions(ctx, scope, storage.QueryOpts{Since: period.Start(now)})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query transactions for report",
			log.FieldUserID, userID,
			log.FieldError, err)
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgNoExpensesPeriod))}
	}

	summary := report.Build(txs, period, now, loc)
	if summary.Empty {
		return []reply.Reply{reply.Text(summary.Text)}
	}
	return []reply.Reply{reply.Markdown(summary.Text, summary.Controls)}
}

func (r *Router) sharedMenu(loc i18n.Locale) []reply.Reply {
	controls := [][]reply.Control{
		{{Label: i18n.T(loc, i18n.MsgBtnCreateWallet), Action: ActionSharedCreate}},
		{{Label: i18n.T(loc, i18n.MsgBtnJoinWallet), Action: ActionSharedJoin}},
	}
	return []reply.Reply{{Text: i18n.T(loc, i18n.MsgSharedMenu), Controls: controls}}
}

func (r *Router) exportCSV(ctx context.Context, userID int64, loc i18n.Locale) []reply.Reply {
	scope := r.wallets.Resolve(userID)
	txs, err := r.storage.QueryTransactions(ctx, scope, storage.QueryOpts{})
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query transactions for export",
			log.FieldUserID, userID,
			log.FieldError, err)
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExportEmpty))}
	}
	if len(txs) == 0 {
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExportEmpty))}
	}

	data, err := export.CSV(txs)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to render CSV export",
			log.FieldUserID, userID,
			log.FieldError, err)
		return []reply.Reply{reply.Text(i18n.T(loc, i18n.MsgExportEmpty))}
	}

	return []reply.Reply{{File: &reply.File{
		Name:    export.FileName,
		Data:    data,
		Caption: i18n.T(loc, i18n.MsgExportCaption),
	}}}
}

// publish emits an audit event if a publisher is configured. Failures are
// logged and swallowed.
func (r *Router) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish transaction event",
			log.FieldTxID, ev.ID,
			log.FieldError, err)
	}
}

func parseIDSuffix(token, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(token, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
