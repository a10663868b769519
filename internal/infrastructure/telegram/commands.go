package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	switch msg.Command() {
	case "start", "help":
		b.reply(userID, b.helpText(ctx, userID))
	case "rate":
		b.cmdRate(ctx, userID)
	case "deposit":
		b.cmdDeposit(ctx, userID)
	case "withdraw":
		b.cmdWithdraw(ctx, userID)
	case "exchange":
		b.cmdApplication(ctx, userID, domain.TypeExchange)
	case "support":
		b.cmdApplication(ctx, userID, domain.TypeSupport)
	case "other":
		b.cmdApplication(ctx, userID, domain.TypeOther)
	case "my":
		b.cmdMyApplications(ctx, userID)
	case "pending":
		b.cmdPending(ctx, userID)
	case "process":
		b.cmdProcessNext(ctx, userID)
	case "reply":
		b.cmdReply(ctx, userID, msg.CommandArguments())
	case "delete":
		b.cmdDelete(ctx, userID, msg.CommandArguments())
	case "stats":
		b.cmdStats(ctx, userID)
	case "setrate":
		b.cmdSetRate(ctx, userID, msg.CommandArguments())
	case "setmargins":
		b.cmdSetMargins(ctx, userID, msg.CommandArguments())
	case "grant":
		b.cmdGrant(ctx, userID, msg.CommandArguments())
	case "revoke":
		b.cmdRevoke(ctx, userID, msg.CommandArguments())
	case "cancel":
		if err := b.workflow.AbortFlow(ctx, userID); err != nil {
			b.replyErr(userID, err)
			return
		}
		b.reply(userID, "Current operation cancelled.")
	default:
		b.reply(userID, "Unknown command. Use /help to see the available commands.")
	}
}

func (b *Bot) helpText(ctx context.Context, userID int64) string {
	var sb strings.Builder
	sb.WriteString("💱 Exchange desk commands:\n")
	sb.WriteString("/rate - current exchange rates\n")
	sb.WriteString("/deposit - submit a deposit\n")
	sb.WriteString("/withdraw - request a withdrawal\n")
	sb.WriteString("/exchange - currency exchange request\n")
	sb.WriteString("/support - contact support\n")
	sb.WriteString("/my - my applications\n")
	sb.WriteString("/cancel - abort the current operation\n")

	perms := b.roles.Permissions(ctx, userID)
	if perms.ViewApplications {
		sb.WriteString("\n🛠 Staff:\n")
		sb.WriteString("/pending - pending applications\n")
		sb.WriteString("/reply <id> - reply to an application\n")
	}
	if perms.CheckReceipts {
		sb.WriteString("Send a PDF receipt to check its authenticity.\n")
	}
	if perms.ViewAllData {
		sb.WriteString("\n👑 Administration:\n")
		sb.WriteString("/process - review the oldest pending deposit\n")
		sb.WriteString("/stats - deposit ledger statistics\n")
		sb.WriteString("/setrate <rub> - set the base rate\n")
		sb.WriteString("/setmargins <deposit%> <withdrawal%> - set margins\n")
		sb.WriteString("/delete <id> - delete an application\n")
		sb.WriteString("/grant <user_id> <admin|super_admin> - assign a role\n")
		sb.WriteString("/revoke <user_id> - revoke staff rights\n")
	}
	return sb.String()
}

func (b *Bot) cmdRate(_ context.Context, userID int64) {
	r := b.rates.Rates()
	b.reply(userID, fmt.Sprintf(
		"📊 Current rates\n\nDeposit: %.2f RUB/USDT\nWithdrawal: %.2f RUB/USDT\nUpdated: %s",
		r.DepositRate(), r.WithdrawalRate(), r.LastUpdated.Format("02.01.2006 15:04"),
	))
}

func (b *Bot) cmdDeposit(ctx context.Context, userID int64) {
	prompt, err := b.workflow.StartDeposit(ctx, userID)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf(
		"💰 Deposit at %.2f RUB/USDT\n\nSend USDT (TRC20) to:\n%s\n\nThen send one message with three lines:\n1. Transaction hash (64 characters)\n2. Amount in USDT\n3. Your team label",
		prompt.DepositRate, prompt.OfficialWallet,
	))
}

func (b *Bot) cmdWithdraw(ctx context.Context, userID int64) {
	prompt, err := b.workflow.StartWithdraw(ctx, userID)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf(
		"💸 Withdrawal at %.2f RUB/USDT\n\nSend the amount in USDT you want to withdraw.",
		prompt.WithdrawalRate,
	))
}

func (b *Bot) cmdApplication(ctx context.Context, userID int64, t domain.ApplicationType) {
	if err := b.workflow.StartApplication(ctx, userID, t); err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf("📝 %s\n\nDescribe your request in one message.", t.TypeLabel()))
}

func (b *Bot) cmdMyApplications(ctx context.Context, userID int64) {
	apps, err := b.workflow.ListUserApplications(ctx, userID)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	if len(apps) == 0 {
		b.reply(userID, "You have no applications yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Your applications:\n\n")
	for _, a := range apps {
		sb.WriteString(fmt.Sprintf("%s #%s %s\n%s\n\n", a.Status.StatusIcon(), a.ShortID(), a.Status.StatusLabel(), a.Title))
	}
	b.reply(userID, sb.String())
}

func (b *Bot) cmdPending(ctx context.Context, userID int64) {
	apps, err := b.workflow.ListPendingApplications(ctx, userID)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	if len(apps) == 0 {
		b.reply(userID, "No pending applications.")
		return
	}

	b.reply(userID, fmt.Sprintf("⏳ Pending applications (%d). Deposits are reviewed through /process.", len(apps)))
	for _, a := range apps {
		text := fmt.Sprintf("#%s %s from user %d\n%s", a.ShortID(), a.Type.TypeLabel(), a.UserID, a.Title)
		if a.Type == domain.TypeDeposit {
			b.reply(userID, text)
			continue
		}
		markup := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Approve", callbackAppApprove+a.ID),
				tgbotapi.NewInlineKeyboardButtonData("❌ Reject", callbackAppReject+a.ID),
			),
		)
		b.replyMarkup(userID, text, markup)
	}
}

// cmdProcessNext shows the oldest pending deposit with its review keyboard.
func (b *Bot) cmdProcessNext(ctx context.Context, userID int64) {
	app, count, err := b.notifier.ShowNext(ctx, userID)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	if app == nil {
		b.reply(userID, "The deposit queue is empty.")
		return
	}

	text := fmt.Sprintf(
		"📥 Deposit %d of %d\n\n#%s from user %d\nAmount: %v USDT\nRate: %.2f RUB/USDT\nTotal: %.2f RUB\nTeam: %s\nHash: %s\nSubmitted: %s",
		1, count, app.ShortID(), app.UserID, app.Amount, app.ExchangeRate, app.AmountRub, app.TeamName, app.TxHash,
		app.CreatedAt.Format("02.01.2006 15:04"),
	)
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Verify", callbackProcess+app.ID),
		),
	)
	b.replyMarkup(userID, text, markup)
}

func (b *Bot) cmdReply(ctx context.Context, userID int64, args string) {
	appID := firstWord(args)
	if appID == "" {
		b.reply(userID, "Usage: /reply <application_id>")
		return
	}
	app, err := b.workflow.StartReply(ctx, userID, appID)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf("Replying to #%s (%s). Send your response in one message.", app.ShortID(), app.Title))
}

func (b *Bot) cmdDelete(ctx context.Context, userID int64, args string) {
	appID := firstWord(args)
	if appID == "" {
		b.reply(userID, "Usage: /delete <application_id>")
		return
	}
	if err := b.workflow.DeleteApplication(ctx, userID, appID); err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, "🗑 Application deleted.")
}

func (b *Bot) cmdStats(ctx context.Context, userID int64) {
	if err := b.roles.Require(ctx, userID, func(p domain.PermissionSet) bool { return p.ViewAllData }, "view_stats"); err != nil {
		b.replyErr(userID, err)
		return
	}
	stats, err := b.deposits.Stats(ctx)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf(
		"📈 Deposit ledger\n\nTotal: %d\nPending: %d\nApproved: %d\nRejected: %d\n\nApproved volume: %.2f USDT / %.2f RUB",
		stats.Total, stats.Pending, stats.Approved, stats.Rejected, stats.TotalUsdtApproved, stats.TotalRubApproved,
	))
}

func (b *Bot) cmdSetRate(ctx context.Context, userID int64, args string) {
	if err := b.roles.Require(ctx, userID, func(p domain.PermissionSet) bool { return p.ViewAllData }, "set_rate"); err != nil {
		b.replyErr(userID, err)
		return
	}
	rate, err := strconv.ParseFloat(firstWord(args), 64)
	if err != nil || rate <= 0 {
		b.reply(userID, "Usage: /setrate <rub_per_usdt>")
		return
	}
	b.rates.SetBaseRate(rate)
	r := b.rates.Rates()
	b.reply(userID, fmt.Sprintf("Base rate set to %.2f RUB/USDT.\nDeposit: %.2f, withdrawal: %.2f.", rate, r.DepositRate(), r.WithdrawalRate()))
}

func (b *Bot) cmdSetMargins(ctx context.Context, userID int64, args string) {
	if err := b.roles.Require(ctx, userID, func(p domain.PermissionSet) bool { return p.ViewAllData }, "set_margins"); err != nil {
		b.replyErr(userID, err)
		return
	}
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(userID, "Usage: /setmargins <deposit_percent> <withdrawal_percent>")
		return
	}
	dep, err1 := strconv.ParseFloat(fields[0], 64)
	wd, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		b.reply(userID, "Usage: /setmargins <deposit_percent> <withdrawal_percent>")
		return
	}
	b.rates.SetDepositMargin(dep)
	b.rates.SetWithdrawalMargin(wd)
	r := b.rates.Rates()
	b.reply(userID, fmt.Sprintf("Margins updated.\nDeposit: %.2f RUB/USDT, withdrawal: %.2f RUB/USDT.", r.DepositRate(), r.WithdrawalRate()))
}

func (b *Bot) cmdGrant(ctx context.Context, userID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(userID, "Usage: /grant <user_id> <admin|super_admin>")
		return
	}
	targetID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		b.reply(userID, "Usage: /grant <user_id> <admin|super_admin>")
		return
	}
	role := domain.Role(fields[1])
	if !role.Valid() {
		b.reply(userID, "Unknown role. Use admin or super_admin.")
		return
	}

	prev, err := b.workflow.AssignRole(ctx, userID, targetID, role)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf("User %d: %s → %s.", targetID, prev.RoleLabel(), role.RoleLabel()))
}

func (b *Bot) cmdRevoke(ctx context.Context, userID int64, args string) {
	targetID, err := strconv.ParseInt(firstWord(args), 10, 64)
	if err != nil {
		b.reply(userID, "Usage: /revoke <user_id>")
		return
	}
	if err := b.workflow.RevokeRole(ctx, userID, targetID); err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf("User %d is now a regular user.", targetID))
}
