package telegram

import (
	"context"
	"fmt"
)

func (b *Bot) finishDeposit(ctx context.Context, userID int64, text string) {
	app, err := b.workflow.SubmitDepositData(ctx, userID, text)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf(
		"✅ Deposit application #%s submitted\n\nAmount: %v USDT\nRate: %.2f RUB/USDT\nTotal: %.2f RUB\nTeam: %s\n\nYou will be notified once it is reviewed.",
		app.ShortID(), app.Amount, app.ExchangeRate, app.AmountRub, app.TeamName,
	))
}

func (b *Bot) captureWithdrawAmount(ctx context.Context, userID int64, text string) {
	amount, err := b.workflow.SubmitWithdrawAmount(ctx, userID, text)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf("Withdrawing %v USDT. Now send the destination TRC20 wallet address.", amount))
}

func (b *Bot) finishWithdraw(ctx context.Context, userID int64, text string) {
	app, err := b.workflow.SubmitWithdrawWallet(ctx, userID, text)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf(
		"✅ Withdrawal application #%s submitted\n\nAmount: %v USDT\nRate: %.2f RUB/USDT\nTotal: %.2f RUB\nWallet: %s",
		app.ShortID(), app.Amount, app.ExchangeRate, app.AmountRub, app.WalletAddress,
	))
}

func (b *Bot) finishApplication(ctx context.Context, userID int64, text string) {
	app, err := b.workflow.SubmitApplicationDetails(ctx, userID, text)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf("✅ Application #%s (%s) submitted. You will be notified once it is reviewed.", app.ShortID(), app.Type.TypeLabel()))
}

func (b *Bot) finishReply(ctx context.Context, userID int64, text string) {
	app, err := b.workflow.SubmitReply(ctx, userID, text)
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	b.reply(userID, fmt.Sprintf("Reply to #%s delivered.", app.ShortID()))
}
