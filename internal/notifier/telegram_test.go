package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBot struct {
	mu       sync.Mutex
	updates  chan tgbotapi.Update
	sent     []tgbotapi.MessageConfig
	failures int
}

func (m *mockBot) GetUpdatesChan(tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error) {
	return m.updates, nil
}

func (m *mockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return tgbotapi.Message{}, errors.New("telegram unavailable")
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (m *mockBot) messages() []tgbotapi.MessageConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), m.sent...)
}

func newTestNotifier(bot *mockBot) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: 42, pollTimeout: 1}
}

func TestSendWithRetry_RecoversAfterFailures(t *testing.T) {
	retryBase = time.Millisecond
	bot := &mockBot{failures: 2}
	n := newTestNotifier(bot)

	require.NoError(t, n.SendWithRetry(context.Background(), "hello", 3))
	sent := bot.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(42), sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, sent[0].ParseMode)
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	retryBase = time.Millisecond
	bot := &mockBot{failures: 5}
	n := newTestNotifier(bot)

	err := n.SendWithRetry(context.Background(), "hello", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 retries exhausted")
}

func TestStartPolling_RepliesToConfiguredChat(t *testing.T) {
	bot := &mockBot{updates: make(chan tgbotapi.Update)}
	n := newTestNotifier(bot)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			return "echo " + cmd
		})
	}()

	bot.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "/signals", Chat: &tgbotapi.Chat{ID: 42}}}
	bot.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "/signals", Chat: &tgbotapi.Chat{ID: 7}}}
	bot.updates <- tgbotapi.Update{}
	cancel()
	require.NoError(t, <-done)

	sent := bot.messages()
	require.Len(t, sent, 1, "messages from other chats are ignored")
	assert.Equal(t, "echo /signals", sent[0].Text)
}

func TestSend_TruncatesLongMessages(t *testing.T) {
	bot := &mockBot{}
	n := newTestNotifier(bot)

	long := make([]byte, maxMessageLen+100)
	for i := range long {
		long[i] = 'a'
	}
	require.NoError(t, n.Send(string(long)))
	assert.Len(t, bot.messages()[0].Text, maxMessageLen)
}
