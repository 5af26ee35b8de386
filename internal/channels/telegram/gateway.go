// Package telegram delivers sweep notifications through the Telegram Bot API.
package telegram

import (
	"context"
	"time"

	"github.com/mymmrac/telego"

	"github.com/aatumaykin/inlinegames/internal/cleanup"
	"github.com/aatumaykin/inlinegames/internal/logger"
	"github.com/aatumaykin/inlinegames/internal/retry"
)

// Gateway edits inline game messages and talks to the admin chat that
// started the sweep.
type Gateway struct {
	bot     BotInterface
	chatID  int64
	timeout time.Duration
	retry   retry.Config
	logger  *logger.Logger
}

var _ cleanup.Gateway = (*Gateway)(nil)

// NewGateway creates a gateway. chatID 0 disables the admin chat; timeout 0
// leaves calls bounded by the caller's context only.
func NewGateway(bot BotInterface, chatID int64, timeout time.Duration, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		bot:     bot,
		chatID:  chatID,
		timeout: timeout,
		retry:   retry.Config{MaxAttempts: 3, InitialBackoff: time.Second, MaxBackoff: 5 * time.Second},
		logger:  log,
	}
}

func (g *Gateway) sendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// SignalActivity shows "typing" in the admin chat. Failures are logged only.
func (g *Gateway) SignalActivity(ctx context.Context) {
	if g.chatID == 0 {
		return
	}

	sendCtx, cancel := g.sendContext(ctx)
	defer cancel()

	err := g.bot.SendChatAction(sendCtx, &telego.SendChatActionParams{
		ChatID: telego.ChatID{ID: g.chatID},
		Action: telego.ChatActionTyping,
	})
	if err != nil {
		g.logger.WarnCtx(ctx, "failed to send typing indicator",
			append(DescribeError(err).LogFields(), logger.Field{Key: "chat_id", Value: g.chatID})...)
		return
	}

	g.logger.DebugCtx(ctx, "typing indicator sent", logger.Field{Key: "chat_id", Value: g.chatID})
}

// ClearSession replaces the inline message identified by sessionID with
// notice. Rejections are returned in the result with Telegram's description.
func (g *Gateway) ClearSession(ctx context.Context, sessionID string, notice cleanup.Notice) cleanup.NotifyResult {
	sendCtx, cancel := g.sendContext(ctx)
	defer cancel()

	_, err := g.bot.EditMessageText(sendCtx, &telego.EditMessageTextParams{
		InlineMessageID:    sessionID,
		Text:               notice.Text,
		ParseMode:          telego.ModeHTML,
		LinkPreviewOptions: &telego.LinkPreviewOptions{IsDisabled: true},
		ReplyMarkup:        buildInlineKeyboard(notice.Controls),
	})
	if err != nil {
		details := DescribeError(err)
		g.logger.DebugCtx(ctx, "edit rejected",
			append(details.LogFields(), logger.Field{Key: "session_id", Value: sessionID})...)
		return cleanup.NotifyResult{OK: false, Description: details.Description}
	}

	return cleanup.NotifyResult{OK: true}
}

// Report sends plain text to the admin chat, retrying rate limits and
// server errors. Without a chat it does nothing.
func (g *Gateway) Report(ctx context.Context, text string) error {
	if g.chatID == 0 {
		return nil
	}

	err := retry.Do(ctx, g.retry, classify, func(ctx context.Context) error {
		sendCtx, cancel := g.sendContext(ctx)
		defer cancel()

		_, err := g.bot.SendMessage(sendCtx, &telego.SendMessageParams{
			ChatID: telego.ChatID{ID: g.chatID},
			Text:   text,
		})
		return err
	})
	if err != nil {
		g.logger.ErrorCtx(ctx, "failed to send report", err,
			append(DescribeError(err).LogFields(), logger.Field{Key: "chat_id", Value: g.chatID})...)
		return err
	}

	return nil
}

func classify(err error) (bool, time.Duration) {
	details := DescribeError(err)
	return details.IsRetryable(), time.Duration(details.RetryAfterSec) * time.Second
}

// buildInlineKeyboard puts every control on its own row.
func buildInlineKeyboard(controls []cleanup.Control) *telego.InlineKeyboardMarkup {
	if len(controls) == 0 {
		return nil
	}

	markup := &telego.InlineKeyboardMarkup{
		InlineKeyboard: make([][]telego.InlineKeyboardButton, len(controls)),
	}
	for i, control := range controls {
		markup.InlineKeyboard[i] = []telego.InlineKeyboardButton{{
			Text:         control.Label,
			CallbackData: control.Data,
		}}
	}

	return markup
}
