package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
	"github.com/otcdesk/exchange-bot/internal/core/service"
)

const updateTimeout = 60

// Bot is the chat transport: it routes incoming updates to the workflow
// engine and renders its results. All business rules live behind the
// workflow; the bot only parses, routes and formats.
type Bot struct {
	api      *tgbotapi.BotAPI
	workflow ports.Workflow
	sessions ports.SessionStore
	roles    *service.RoleService
	rates    *service.RateService
	notifier ports.Notifier
	receipts ports.ReceiptChecker
	deposits ports.DepositRepository
	logger   zerolog.Logger
}

func NewBot(
	api *tgbotapi.BotAPI,
	workflow ports.Workflow,
	sessions ports.SessionStore,
	roles *service.RoleService,
	rates *service.RateService,
	notifier ports.Notifier,
	receipts ports.ReceiptChecker,
	deposits ports.DepositRepository,
	logger zerolog.Logger,
) *Bot {
	return &Bot{
		api:      api,
		workflow: workflow,
		sessions: sessions,
		roles:    roles,
		rates:    rates,
		notifier: notifier,
		receipts: receipts,
		deposits: deposits,
		logger:   logger,
	}
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil:
		return
	case update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message.Document != nil:
		b.handleDocument(ctx, update.Message)
	case update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

// handleText routes a plain message by the sender's active capture flow.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	sess, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("session lookup failed")
		b.reply(userID, "Something went wrong, please try again.")
		return
	}

	switch sess.Flow {
	case domain.FlowDepositData:
		b.finishDeposit(ctx, userID, msg.Text)
	case domain.FlowWithdrawAmount:
		b.captureWithdrawAmount(ctx, userID, msg.Text)
	case domain.FlowWithdrawWallet:
		b.finishWithdraw(ctx, userID, msg.Text)
	case domain.FlowApplicationDetails:
		b.finishApplication(ctx, userID, msg.Text)
	case domain.FlowAdminReply:
		b.finishReply(ctx, userID, msg.Text)
	default:
		b.reply(userID, "Use /help to see the available commands.")
	}
}

// reply sends a plain text message, logging delivery failures.
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (b *Bot) replyMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

// replyErr translates workflow errors into user-facing text.
func (b *Bot) replyErr(chatID int64, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, domain.ErrForbidden):
		b.reply(chatID, "🚫 You do not have permission for this action.")
	case errors.Is(err, domain.ErrSelfAction):
		b.reply(chatID, "🚫 You cannot perform this action on your own account.")
	case errors.Is(err, domain.ErrDuplicateDeposit):
		b.reply(chatID, "❌ A deposit with this transaction hash has already been submitted. Each hash can be used once.")
	case errors.Is(err, domain.ErrNoActiveFlow):
		b.reply(chatID, "There is nothing to submit right now. Use /help to see the available commands.")
	case errors.Is(err, domain.ErrApplicationNotFound):
		b.reply(chatID, "❌ Application not found.")
	case errors.Is(err, domain.ErrInvalidTransition):
		b.reply(chatID, "⚠️ This application has already been handled.")
	default:
		if ve, ok := domain.AsValidation(err); ok {
			b.reply(chatID, "⚠️ "+validationText(ve)+"\n\nPlease send the data again or use /cancel.")
			return
		}
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("unhandled workflow error")
		b.reply(chatID, "Something went wrong, please try again.")
	}
}

func validationText(ve *domain.ValidationError) string {
	switch ve.Field {
	case "lines":
		return "Wrong message format: " + ve.Reason + "."
	case "hash":
		return "Invalid transaction hash: " + ve.Reason + "."
	case "amount":
		return "Invalid amount: " + ve.Reason + "."
	case "team":
		return "Invalid team label: " + ve.Reason + "."
	case "wallet":
		return "Invalid wallet address: " + ve.Reason + "."
	default:
		return "Invalid " + ve.Field + ": " + ve.Reason + "."
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
