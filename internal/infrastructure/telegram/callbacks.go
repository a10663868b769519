package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

const (
	callbackProcess    = "process_deposit_"
	callbackApprove    = "approve_deposit_"
	callbackReject     = "reject_deposit_"
	callbackAppApprove = "approve_app_"
	callbackAppReject  = "reject_app_"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge immediately so the client stops its spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("callback ack failed")
	}

	userID := cb.From.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, callbackProcess):
		b.processDeposit(ctx, userID, strings.TrimPrefix(data, callbackProcess))
	case strings.HasPrefix(data, callbackApprove):
		b.resolveDeposit(ctx, userID, strings.TrimPrefix(data, callbackApprove), true)
	case strings.HasPrefix(data, callbackReject):
		b.resolveDeposit(ctx, userID, strings.TrimPrefix(data, callbackReject), false)
	case strings.HasPrefix(data, callbackAppApprove):
		b.resolveApplication(ctx, userID, strings.TrimPrefix(data, callbackAppApprove), true)
	case strings.HasPrefix(data, callbackAppReject):
		b.resolveApplication(ctx, userID, strings.TrimPrefix(data, callbackAppReject), false)
	default:
		b.logger.Warn().Str("data", data).Msg("unknown callback")
	}
}

// processDeposit runs the verification gates and, when they all pass, offers
// the approve/reject keyboard.
func (b *Bot) processDeposit(ctx context.Context, userID int64, appID string) {
	report, err := b.workflow.ProcessDeposit(ctx, userID, appID)
	if err != nil {
		b.replyErr(userID, err)
		return
	}

	if report.GatewayErr != "" {
		b.reply(userID, fmt.Sprintf(
			"⚠️ Verification could not complete: %s.\n\nThe deposit stays in the queue; try again later.",
			report.GatewayErr,
		))
		return
	}

	text := renderChecks(report)
	if !report.Ready {
		b.reply(userID, text+"\n\nThe deposit stays pending. Fix the issue or reject it manually after review.")
		return
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", callbackApprove+appID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", callbackReject+appID),
		),
	)
	b.replyMarkup(userID, text+"\n\nAll checks passed. Credit the deposit?", markup)
}

func (b *Bot) resolveDeposit(ctx context.Context, userID int64, appID string, approve bool) {
	var err error
	if approve {
		_, err = b.workflow.ApproveDeposit(ctx, userID, appID)
	} else {
		_, err = b.workflow.RejectDeposit(ctx, userID, appID)
	}
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	if approve {
		b.reply(userID, "✅ Deposit credited. The user has been notified.")
	} else {
		b.reply(userID, "❌ Deposit rejected. The user has been notified.")
	}
}

// resolveApplication handles the approve/reject buttons on non-deposit
// applications listed by /pending. Deposits go through the verification
// keyboard instead.
func (b *Bot) resolveApplication(ctx context.Context, userID int64, appID string, approve bool) {
	app, err := b.workflow.ResolveApplication(ctx, userID, appID, approve, "")
	if err != nil {
		b.replyErr(userID, err)
		return
	}
	if approve {
		b.reply(userID, fmt.Sprintf("✅ Application #%s approved. The user has been notified.", app.ShortID()))
	} else {
		b.reply(userID, fmt.Sprintf("❌ Application #%s rejected. The user has been notified.", app.ShortID()))
	}
}

func renderChecks(report *ports.ProcessReport) string {
	mark := func(ok bool) string {
		if ok {
			return "✅"
		}
		return "❌"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 Verification of #%s\n\n", report.Application.ShortID()))
	sb.WriteString(fmt.Sprintf("%s Destination is the official wallet\n", mark(report.Checks.WalletOK)))
	sb.WriteString(fmt.Sprintf("%s Token is USDT\n", mark(report.Checks.TokenOK)))
	sb.WriteString(fmt.Sprintf("%s Transaction confirmed\n", mark(report.Checks.ConfirmedOK)))
	if report.Tx != nil {
		sb.WriteString(fmt.Sprintf("\nOn-chain amount: %v %s\nFrom: %s", report.Tx.Amount, report.Tx.Token, report.Tx.From))
	}
	return sb.String()
}
