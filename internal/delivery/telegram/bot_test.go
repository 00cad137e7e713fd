package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingSender struct{}

func (failingSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, errors.New("bot was blocked by the user")
}

func TestNotifier_SendsHTML(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewNotifier(sender, zap.NewNop())

	require.NoError(t, notifier.Notify(context.Background(), 42, "<b>bitcoin</b> crossed"))

	msg := sender.last(t)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Equal(t, "<b>bitcoin</b> crossed", msg.Text)
}

func TestNotifier_Errors(t *testing.T) {
	err := NewNotifier(failingSender{}, zap.NewNop()).Notify(context.Background(), 1, "x")
	assert.EqualError(t, err, "bot was blocked by the user")

	sender := &recordingSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewNotifier(sender, zap.NewNop()).Notify(ctx, 1, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}
