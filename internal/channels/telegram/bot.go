package telegram

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
)

// BotInterface is the slice of the Bot API the sweep gateway calls: a
// typing action and text reports for the admin chat, plus inline message
// edits. *telego.Bot satisfies it through NewBotAdapter.
type BotInterface interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error
	// EditMessageText returns a nil message when InlineMessageID is set.
	EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error)
}

type telegoAdapter struct {
	bot *telego.Bot
}

// NewBotAdapter narrows bot to BotInterface.
func NewBotAdapter(bot *telego.Bot) BotInterface {
	return &telegoAdapter{bot: bot}
}

// NewBot builds a telego client for token. No request is made until the
// gateway sends something.
func NewBot(token string) (BotInterface, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return NewBotAdapter(bot), nil
}

func (a *telegoAdapter) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	return a.bot.SendMessage(ctx, params)
}

func (a *telegoAdapter) SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error {
	return a.bot.SendChatAction(ctx, params)
}

func (a *telegoAdapter) EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error) {
	return a.bot.EditMessageText(ctx, params)
}
