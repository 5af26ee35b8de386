package telegram

import (
	"context"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/mock"
)

// MockBot stands in for the Bot API in gateway and CLI tests.
type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	return message(args.Get(0)), args.Error(1)
}

func (m *MockBot) SendChatAction(ctx context.Context, params *telego.SendChatActionParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBot) EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	return message(args.Get(0)), args.Error(1)
}

func message(v any) *telego.Message {
	msg, _ := v.(*telego.Message)
	return msg
}

// NewMockBotSuccess accepts every report, typing action and inline edit.
// Expectations are optional, so tests assert only on the calls they care about.
func NewMockBotSuccess() *MockBot {
	m := new(MockBot)
	m.On("SendMessage", mock.Anything, mock.Anything).Return(&telego.Message{MessageID: 1}, nil).Maybe()
	m.On("SendChatAction", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("EditMessageText", mock.Anything, mock.Anything).Return((*telego.Message)(nil), nil).Maybe()
	return m
}

// NewMockBotError fails every call with err, e.g. a *telegoapi.Error
// carrying an error code and retry_after.
func NewMockBotError(err error) *MockBot {
	m := new(MockBot)
	m.On("SendMessage", mock.Anything, mock.Anything).Return((*telego.Message)(nil), err).Maybe()
	m.On("SendChatAction", mock.Anything, mock.Anything).Return(err).Maybe()
	m.On("EditMessageText", mock.Anything, mock.Anything).Return((*telego.Message)(nil), err).Maybe()
	return m
}
