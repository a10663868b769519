package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

// handleDocument runs the receipt-authenticity check on an uploaded PDF.
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	if err := b.roles.Require(ctx, userID, func(p domain.PermissionSet) bool { return p.CheckReceipts }, "check_receipt"); err != nil {
		b.replyErr(userID, err)
		return
	}

	doc := msg.Document
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf") {
		b.reply(userID, "Only PDF receipts can be checked.")
		return
	}

	fileURL, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		b.logger.Warn().Err(err).Str("file_id", doc.FileID).Msg("file url lookup failed")
		b.reply(userID, "Could not download the document, please try again.")
		return
	}

	b.reply(userID, "🔍 Checking the receipt, this can take up to a minute...")

	verdict, err := b.receipts.CheckReceipt(ctx, fileURL)
	if err != nil {
		b.logger.Warn().Err(err).Int64("user_id", userID).Msg("receipt check failed")
		b.reply(userID, "The receipt check service is unavailable, please try again later.")
		return
	}
	if verdict == nil {
		b.reply(userID, "ℹ️ This document type is not supported by the check; no verdict.")
		return
	}
	b.reply(userID, renderVerdict(verdict))
}

func renderVerdict(v *ports.ReceiptVerdict) string {
	var sb strings.Builder
	if v.StructPassed && v.IsOriginal {
		sb.WriteString("✅ The receipt structure matches a bank original.\n")
	} else {
		sb.WriteString("❌ The receipt does not match a bank original.\n")
	}
	switch v.Color {
	case "green":
		sb.WriteString("Risk tier: 🟢 low\n")
	case "yellow":
		sb.WriteString("Risk tier: 🟡 elevated\n")
	case "red":
		sb.WriteString("Risk tier: 🔴 high\n")
	case "black":
		sb.WriteString("Risk tier: ⚫ fraudulent source\n")
	}
	if len(v.Fields) > 0 {
		sb.WriteString("\nExtracted fields:\n")
		for k, val := range v.Fields {
			sb.WriteString(fmt.Sprintf("%s: %s\n", k, val))
		}
	}
	return sb.String()
}
