package service

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"enel-smeta/metrics"
	"enel-smeta/models"
)

type sentMessage struct {
	chatID int64
	kind   string
	text   string
	name   string
}

type fakeTelegram struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]error
	updates chan tgbotapi.Update
	stop    sync.Once
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{failFor: map[int64]error{}, updates: make(chan tgbotapi.Update)}
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var m sentMessage
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		m = sentMessage{chatID: v.ChatID, kind: "message", text: v.Text}
	case tgbotapi.DocumentConfig:
		m = sentMessage{chatID: v.ChatID, kind: "document", text: v.Caption, name: v.File.(tgbotapi.FileBytes).Name}
	case tgbotapi.PhotoConfig:
		m = sentMessage{chatID: v.ChatID, kind: "photo"}
	}
	if err := f.failFor[m.chatID]; err != nil {
		return tgbotapi.Message{}, err
	}
	f.sent = append(f.sent, m)
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeTelegram) StopReceivingUpdates() {
	f.stop.Do(func() { close(f.updates) })
}

func (f *fakeTelegram) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type memorySubscribers struct {
	mu    sync.Mutex
	ids   map[int64]struct{}
	saves int
}

func (m *memorySubscribers) Load(context.Context) (map[int64]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]struct{}, len(m.ids))
	for id := range m.ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *memorySubscribers) Save(_ context.Context, ids map[int64]struct{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = ids
	m.saves++
	return nil
}

func command(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func newTestNotifier(t *testing.T, ids ...int64) (*Notifier, *fakeTelegram, *memorySubscribers) {
	t.Helper()
	store := &memorySubscribers{ids: map[int64]struct{}{}}
	for _, id := range ids {
		store.ids[id] = struct{}{}
	}
	tg := newFakeTelegram()
	n := NewNotifier(tg, store, metrics.New(nil), zerolog.Nop())
	n.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, n.Init(context.Background()))
	return n, tg, store
}

func TestNotifierCommands(t *testing.T) {
	n, tg, store := newTestNotifier(t)
	ctx := context.Background()

	n.HandleUpdate(ctx, command(10, "/start"))
	n.HandleUpdate(ctx, command(10, "/start"))
	n.HandleUpdate(ctx, command(10, "/status"))
	n.HandleUpdate(ctx, command(10, "/stop"))
	n.HandleUpdate(ctx, command(10, "/status"))
	n.HandleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 10}, Text: "hello"}})

	texts := []string{}
	for _, m := range tg.messages() {
		texts = append(texts, m.text)
	}
	assert.Equal(t, []string{replyActivated, replyEnabled, replyDisabled, replyDisabled}, texts)
	assert.Empty(t, n.Subscribers())
	assert.Equal(t, 2, store.saves)
}

func TestNotifierFanOut(t *testing.T) {
	n, tg, _ := newTestNotifier(t, 1, 2)

	n.Notify(context.Background(), Notification{
		Client: models.ClientInfo{Browser: models.BrowserInfo{Browser: "Chrome", Version: "120.0"}, Timestamp: "01.06.2025, 12:00:00"},
		Form:   models.FormValues{"value1": 12, "value2": "8", "value3": 0.2},
		PDF:    []byte("%PDF-1.4"),
	})

	sent := tg.messages()
	require.Len(t, sent, 4)
	assert.Equal(t, int64(1), sent[0].chatID)
	assert.Equal(t, "message", sent[0].kind)
	assert.Equal(t, "🔔 *Новая активность на сайте*\n\n"+
		"📊 *Данные формы*\nДлина: 12\nШирина: 8\nТолщина: 0.2\n\n"+
		"👤 *Пользователь*\nБраузер: Chrome 120.0\nВремя: 01.06.2025, 12:00:00", sent[0].text)
	assert.Equal(t, "document", sent[1].kind)
	assert.Equal(t, "Расчёт_2025-06-01.pdf", sent[1].name)
	assert.Equal(t, documentCaption, sent[1].text)
	assert.Equal(t, int64(2), sent[2].chatID)
}

func TestNotifierRemovesBlockedChats(t *testing.T) {
	n, tg, store := newTestNotifier(t, 1, 2, 3)
	tg.failFor[2] = &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}
	tg.failFor[3] = &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}

	n.Notify(context.Background(), Notification{Client: models.ClientInfo{Timestamp: "t"}})

	assert.Equal(t, []int64{1, 3}, n.Subscribers())
	assert.Equal(t, map[int64]struct{}{1: {}, 3: {}}, store.ids)
	assert.Len(t, tg.messages(), 1)
}

func TestNotifierNoSubscribersSendsNothing(t *testing.T) {
	n, tg, _ := newTestNotifier(t)
	n.Notify(context.Background(), Notification{})
	assert.Empty(t, tg.messages())
}

func TestFormatNotificationWithoutForm(t *testing.T) {
	text := FormatNotification(Notification{Client: models.ClientInfo{
		Browser:   models.BrowserInfo{Browser: "Safari"},
		Timestamp: "01.06.2025, 12:00:00",
	}})
	assert.Equal(t, "🔔 *Новая активность на сайте*\n\n👤 *Пользователь*\nБраузер: Safari\nВремя: 01.06.2025, 12:00:00", text)

	text = FormatNotification(Notification{Form: models.FormValues{"value1": "5_5"}})
	assert.Contains(t, text, "Длина: 5\\_5\n")
	assert.Contains(t, text, "Ширина: —\n")
}

// the google api client starts an opencensus worker at init
var ignoreOpenCensus = goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start")

func TestNotifierRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensus)

	n, tg, _ := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()

	tg.updates <- command(5, "/start")
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []int64{5}, n.Subscribers())
}

// gatedSubscribers blocks the first Save until release is closed
type gatedSubscribers struct {
	memorySubscribers
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSubscribers) Save(ctx context.Context, ids map[int64]struct{}) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.memorySubscribers.Save(ctx, ids)
}

func TestNotifierConcurrentSavesKeepLatestSet(t *testing.T) {
	store := &gatedSubscribers{
		memorySubscribers: memorySubscribers{ids: map[int64]struct{}{1: {}, 2: {}}},
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
	tg := newFakeTelegram()
	tg.failFor[2] = &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}
	n := NewNotifier(tg, store, nil, zerolog.Nop())
	require.NoError(t, n.Init(context.Background()))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		n.Notify(context.Background(), Notification{})
	}()
	<-store.entered

	go func() {
		defer wg.Done()
		n.HandleUpdate(context.Background(), command(3, "/start"))
	}()
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]int64{1, 3}, n.Subscribers())
	}, 2*time.Second, 5*time.Millisecond)

	close(store.release)
	wg.Wait()

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{1: {}, 3: {}}, stored)
}
