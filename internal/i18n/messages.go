// Package i18n holds the user-facing string table, keyed by message id and
// locale. Rendering logic never embeds literal reply text.
package i18n

import (
	"fmt"
	"strings"
)

type Locale string

const (
	English Locale = "en"
	Hebrew  Locale = "he"
)

// Detect maps a transport locale hint to a supported locale. Hebrew is
// selected for any "he*" hint, everything else falls back to English.
func Detect(hint string) Locale {
	if strings.HasPrefix(hint, "he") {
		return Hebrew
	}
	return English
}

type MessageID string

const (
	MsgHelp            MessageID = "help"
	MsgBadFormat       MessageID = "bad_format"
	MsgRecorded        MessageID = "recorded"
	MsgRecordedWallet  MessageID = "recorded_wallet"
	MsgSharedMenu      MessageID = "shared_menu"
	MsgBtnCreateWallet MessageID = "btn_create_wallet"
	MsgBtnJoinWallet   MessageID = "btn_join_wallet"

	MsgDailyReportTitle   MessageID = "daily_report_title"
	MsgMonthlyReportTitle MessageID = "monthly_report_title"
	MsgCategoriesHeader   MessageID = "categories_header"
	MsgCategoryLine       MessageID = "category_line"
	MsgTotalLine          MessageID = "total_line"
	MsgNoExpensesPeriod   MessageID = "no_expenses_period"

	MsgBreakdownTitle      MessageID = "breakdown_title"
	MsgBreakdownLine       MessageID = "breakdown_line"
	MsgNoExpensesCategory  MessageID = "no_expenses_category"
	MsgBtnEdit             MessageID = "btn_edit"
	MsgBtnDelete           MessageID = "btn_delete"
	MsgEditPrompt          MessageID = "edit_prompt"
	MsgExpenseUpdated      MessageID = "expense_updated"
	MsgExpenseDeleted      MessageID = "expense_deleted"
	MsgExpenseNotFound     MessageID = "expense_not_found"
	MsgInvalidAmountReply  MessageID = "invalid_amount_reply"

	MsgExportEmpty   MessageID = "export_empty"
	MsgExportCaption MessageID = "export_caption"

	MsgArchiveTitle    MessageID = "archive_title"
	MsgMonthlyTitle    MessageID = "monthly_title"
	MsgFilteringLine   MessageID = "filtering_line"
	MsgArchiveRow      MessageID = "archive_row"
	MsgMonthRow        MessageID = "month_row"
	MsgBtnPrev         MessageID = "btn_prev"
	MsgBtnNext         MessageID = "btn_next"
	MsgBtnGroupMonthly MessageID = "btn_group_monthly"
	MsgBtnListView     MessageID = "btn_list_view"
	MsgBtnClearFilter  MessageID = "btn_clear_filter"
	MsgBtnFilterDate   MessageID = "btn_filter_date"
	MsgDatePrompt      MessageID = "date_prompt"
	MsgDateSet         MessageID = "date_set"
	MsgInvalidDate     MessageID = "invalid_date"

	MsgWalletCreated    MessageID = "wallet_created"
	MsgJoinPrompt       MessageID = "join_prompt"
	MsgInvalidWalletID  MessageID = "invalid_wallet_id"
	MsgWalletNotFound   MessageID = "wallet_not_found"
	MsgAlreadyMember    MessageID = "already_member"
	MsgWalletJoined     MessageID = "wallet_joined"
	MsgWalletLeft       MessageID = "wallet_left"
	MsgNoWalletToLeave  MessageID = "no_wallet_to_leave"
)

// T renders a message for a locale, applying Sprintf arguments. Missing
// translations fall back to English; unknown ids render as the raw id so a
// gap is visible instead of silent.
func T(loc Locale, id MessageID, args ...any) string {
	byLocale, ok := table[id]
	if !ok {
		return string(id)
	}
	format, ok := byLocale[loc]
	if !ok {
		format = byLocale[English]
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

var table = map[MessageID]map[Locale]string{
	MsgHelp: {
		English: "Welcome! Send an expense like: Books-50 or Books 50\n\n" +
			"Commands:\n" +
			"'daily report' - today's report\n" +
			"'monthly report' - this month's report\n" +
			"'shared' - shared wallet options\n" +
			"/export - export to CSV\n" +
			"/archive - browse all transactions\n" +
			"/leave - leave the current wallet",
		Hebrew: "ברוכים הבאים! שלחו הוצאה כמו: ספרים-50 או ספרים 50\n\n" +
			"פקודות:\n" +
			"כתבו 'דוח יומי' - דוח יומי\n" +
			"כתבו 'דוח חודשי' - דוח חודשי\n" +
			"כתבו 'שיתוף' - אפשרויות ארנק משותף\n" +
			"/export - ייצוא ל-CSV\n" +
			"/archive - צפייה בכל העסקאות\n" +
			"/leave - יציאה מארנק נוכחי",
	},
	MsgBadFormat: {
		English: "Wrong format. Use: Category-Amount or Category Amount (e.g., Books 50)",
		Hebrew:  "פורמט שגוי. השתמשו: קטגוריה-סכום או קטגוריה סכום (למשל, ספרים 50)",
	},
	MsgRecorded: {
		English: "Recorded: %s - %s₪",
		Hebrew:  "נרשם: %s - %s₪",
	},
	MsgRecordedWallet: {
		English: "Recorded in wallet %d: %s - %s₪",
		Hebrew:  "נרשם בארנק %d: %s - %s₪",
	},
	MsgSharedMenu: {
		English: "Choose an option for shared wallet:",
		Hebrew:  "בחרו אפשרות לארנק משותף:",
	},
	MsgBtnCreateWallet: {
		English: "Create Wallet",
		Hebrew:  "יצירת ארנק",
	},
	MsgBtnJoinWallet: {
		English: "Join Wallet",
		Hebrew:  "הצטרפות לארנק",
	},

	MsgDailyReportTitle: {
		English: "📅 Daily Report for %s",
		Hebrew:  "📅 דוח יומי עבור %s",
	},
	MsgMonthlyReportTitle: {
		English: "📅 Monthly Report for %s",
		Hebrew:  "📅 דוח חודשי עבור %s",
	},
	MsgCategoriesHeader: {
		English: "📂 Categories:",
		Hebrew:  "📂 קטגוריות:",
	},
	MsgCategoryLine: {
		English: "🔹 %s: %s₪",
		Hebrew:  "🔹 %s: %s₪",
	},
	MsgTotalLine: {
		English: "💰 *Total:* %s₪",
		Hebrew:  "💰 *סה\"כ:* %s₪",
	},
	MsgNoExpensesPeriod: {
		English: "No expenses found for this period.",
		Hebrew:  "לא נמצאו הוצאות לתקופה זו.",
	},

	MsgBreakdownTitle: {
		English: "📂 *%s Breakdown:*\n----------------",
		Hebrew:  "📂 *פירוט %s:*\n----------------",
	},
	MsgBreakdownLine: {
		English: "🕒 %s - %s₪",
		Hebrew:  "🕒 %s - %s₪",
	},
	MsgNoExpensesCategory: {
		English: "No expenses found for %s.",
		Hebrew:  "לא נמצאו הוצאות עבור %s.",
	},
	MsgBtnEdit: {
		English: "✏ Edit %s₪",
		Hebrew:  "✏ עריכת %s₪",
	},
	MsgBtnDelete: {
		English: "❌ Delete",
		Hebrew:  "❌ מחיקה",
	},
	MsgEditPrompt: {
		English: "✏ Edit amount for: %s - %s₪",
		Hebrew:  "✏ עריכת סכום עבור: %s - %s₪",
	},
	MsgExpenseUpdated: {
		English: "✅ Updated expense: %s - %s₪",
		Hebrew:  "✅ ההוצאה עודכנה: %s - %s₪",
	},
	MsgExpenseDeleted: {
		English: "🗑 Deleted expense: %s - %s₪",
		Hebrew:  "🗑 ההוצאה נמחקה: %s - %s₪",
	},
	MsgExpenseNotFound: {
		English: "❌ Expense not found.",
		Hebrew:  "❌ ההוצאה לא נמצאה.",
	},
	MsgInvalidAmountReply: {
		English: "❌ Invalid amount. Please send a number.",
		Hebrew:  "❌ סכום לא תקין. אנא שלחו מספר.",
	},

	MsgExportEmpty: {
		English: "No expenses to export.",
		Hebrew:  "אין הוצאות לייצוא.",
	},
	MsgExportCaption: {
		English: "Here is your CSV file.",
		Hebrew:  "הנה קובץ ה-CSV שלכם.",
	},

	MsgArchiveTitle: {
		English: "🗃 *Transaction Archive*",
		Hebrew:  "🗃 *ארכיון עסקאות*",
	},
	MsgMonthlyTitle: {
		English: "🗓 *Monthly Summary*",
		Hebrew:  "🗓 *סיכום חודשי*",
	},
	MsgFilteringLine: {
		English: "📅 Filtering: %s",
		Hebrew:  "📅 סינון: %s",
	},
	MsgArchiveRow: {
		English: "%s - %s: %s₪",
		Hebrew:  "%s - %s: %s₪",
	},
	MsgMonthRow: {
		English: "📅 %s - %d expenses, Total: %s₪",
		Hebrew:  "📅 %s - %d הוצאות, סה\"כ: %s₪",
	},
	MsgBtnPrev: {
		English: "⬅️ Previous",
		Hebrew:  "⬅️ הקודם",
	},
	MsgBtnNext: {
		English: "Next ➡️",
		Hebrew:  "הבא ➡️",
	},
	MsgBtnGroupMonthly: {
		English: "🗓 Group by Month",
		Hebrew:  "🗓 קיבוץ לפי חודש",
	},
	MsgBtnListView: {
		English: "📜 Switch to List View",
		Hebrew:  "📜 מעבר לתצוגת רשימה",
	},
	MsgBtnClearFilter: {
		English: "🔄 Clear Filter",
		Hebrew:  "🔄 ניקוי סינון",
	},
	MsgBtnFilterDate: {
		English: "📆 Filter by Date",
		Hebrew:  "📆 סינון לפי תאריך",
	},
	MsgDatePrompt: {
		English: "Please enter a date (YYYY-MM-DD):",
		Hebrew:  "אנא הזינו תאריך (YYYY-MM-DD):",
	},
	MsgDateSet: {
		English: "Filter set for %s",
		Hebrew:  "הסינון הוגדר עבור %s",
	},
	MsgInvalidDate: {
		English: "Invalid date. Use YYYY-MM-DD format.",
		Hebrew:  "תאריך לא תקין. השתמשו בפורמט YYYY-MM-DD.",
	},

	MsgWalletCreated: {
		English: "✅ Created wallet '%s' with ID %d. It is now set as your current wallet.",
		Hebrew:  "✅ נוצר ארנק '%s' עם מזהה %d. הוא הוגדר כארנק הנוכחי שלכם.",
	},
	MsgJoinPrompt: {
		English: "Please enter the Wallet ID to join:",
		Hebrew:  "אנא הזינו מזהה ארנק להצטרפות:",
	},
	MsgInvalidWalletID: {
		English: "❌ Invalid Wallet ID. Please enter a number.",
		Hebrew:  "❌ מזהה ארנק לא תקין. אנא הזינו מספר.",
	},
	MsgWalletNotFound: {
		English: "❌ Wallet not found. Please check the ID and try again.",
		Hebrew:  "❌ הארנק לא נמצא. אנא בדקו את המזהה ונסו שוב.",
	},
	MsgAlreadyMember: {
		English: "ℹ️ You are already a member of this wallet.",
		Hebrew:  "ℹ️ אתם כבר חברים בארנק זה.",
	},
	MsgWalletJoined: {
		English: "✅ Joined wallet '%s' (ID %d).",
		Hebrew:  "✅ הצטרפתם לארנק '%s' (מזהה %d).",
	},
	MsgWalletLeft: {
		English: "Left the current wallet context.",
		Hebrew:  "יצאתם מהארנק הנוכחי.",
	},
	MsgNoWalletToLeave: {
		English: "No wallet context to leave.",
		Hebrew:  "אין ארנק נוכחי לצאת ממנו.",
	},
}
