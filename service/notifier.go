package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"enel-smeta/metrics"
	"enel-smeta/models"
	"enel-smeta/repository"
	"enel-smeta/utils"
)

// Bot replies
const (
	replyActivated = "Бот активирован!"
	replyDisabled  = "Уведомления отключены"
	replyEnabled   = "Уведомления включены"

	documentCaption = "Подробный расчёт"
)

// fields shown in the form block, in order
var notificationFormFields = []string{"value1", "value2", "value3"}

// TelegramClient is the subset of the bot API the notifier uses
type TelegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// NewTelegramClient connects to the bot API with token
func NewTelegramClient(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, ErrNotifierDisabled
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return bot, nil
}

// Notification describes one site activity event sent to every subscriber
type Notification struct {
	Client models.ClientInfo
	// Form is nil when the event carries no calculator input
	Form models.FormValues
	// PDF and Preview are attached when present
	PDF     []byte
	Preview []byte
}

// Notifier manages chat subscriptions and fans out activity notifications
type Notifier struct {
	client  TelegramClient
	repo    repository.SubscriberRepositoryInterface
	metrics *metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time

	mu          sync.RWMutex
	subscribers map[int64]struct{}

	// saveMu orders snapshot and Save so a stale set never overwrites a newer one
	saveMu sync.Mutex
}

// NewNotifier creates a new Notifier, call Init before use
func NewNotifier(client TelegramClient, repo repository.SubscriberRepositoryInterface, rec *metrics.Recorder, log zerolog.Logger) *Notifier {
	return &Notifier{
		client:      client,
		repo:        repo,
		metrics:     rec,
		log:         log,
		now:         time.Now,
		subscribers: make(map[int64]struct{}),
	}
}

// Init loads the stored subscribers
func (n *Notifier) Init(ctx context.Context) error {
	ids, err := n.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load subscribers: %w", err)
	}

	n.mu.Lock()
	n.subscribers = ids
	if n.subscribers == nil {
		n.subscribers = make(map[int64]struct{})
	}
	n.mu.Unlock()

	n.log.Info().Ints64("chat_ids", n.Subscribers()).Msg("👥 Active Telegram subscribers")
	return nil
}

// Subscribers returns the subscribed chat ids in ascending order
func (n *Notifier) Subscribers() []int64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ids := make([]int64, 0, len(n.subscribers))
	for id := range n.subscribers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Run long-polls bot updates and handles commands until ctx is cancelled
func (n *Notifier) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := n.client.GetUpdatesChan(cfg)

	n.log.Info().Msg("🤖 Telegram bot polling started")
	for {
		select {
		case <-ctx.Done():
			n.client.StopReceivingUpdates()
			n.log.Info().Msg("🤖 Telegram bot polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			n.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes /start, /stop and /status, other messages are ignored
func (n *Notifier) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if n.subscribe(ctx, chatID) {
			n.reply(chatID, replyActivated)
		}
	case "stop":
		n.unsubscribe(ctx, chatID)
		n.reply(chatID, replyDisabled)
	case "status":
		if n.isSubscribed(chatID) {
			n.reply(chatID, replyEnabled)
		} else {
			n.reply(chatID, replyDisabled)
		}
	}
}

// Notify sends the event to every subscriber. Chats that blocked the bot are unsubscribed,
// other delivery failures are logged and skipped.
func (n *Notifier) Notify(ctx context.Context, event Notification) {
	recipients := n.Subscribers()
	if len(recipients) == 0 {
		return
	}

	text := FormatNotification(event)
	now := n.now()

	var blocked []int64
	for _, chatID := range recipients {
		if ctx.Err() != nil {
			break
		}
		err := n.deliver(chatID, text, event, now)
		switch {
		case err == nil:
			n.metrics.IncNotification(metrics.ResultSent)
		case isForbidden(err):
			n.metrics.IncNotification(metrics.ResultBlocked)
			n.log.Warn().Int64("chat_id", chatID).Msg("🚫 Chat blocked the bot, unsubscribing")
			blocked = append(blocked, chatID)
		default:
			n.metrics.IncNotification(metrics.ResultFailed)
			n.log.Error().Err(err).Int64("chat_id", chatID).Msg("❌ Telegram delivery failed")
		}
	}

	if len(blocked) > 0 {
		n.mu.Lock()
		for _, id := range blocked {
			delete(n.subscribers, id)
		}
		n.mu.Unlock()
		n.persist(context.WithoutCancel(ctx))
	}
}

func (n *Notifier) deliver(chatID int64, text string, event Notification, now time.Time) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.client.Send(msg); err != nil {
		return err
	}

	if len(event.Preview) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "preview.jpg", Bytes: event.Preview})
		if _, err := n.client.Send(photo); err != nil {
			return err
		}
	}

	if len(event.PDF) > 0 {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: utils.NotificationFileName(now), Bytes: event.PDF})
		doc.Caption = documentCaption
		if _, err := n.client.Send(doc); err != nil {
			return err
		}
	}
	return nil
}

// FormatNotification builds the Markdown message text for an event
func FormatNotification(event Notification) string {
	var b strings.Builder
	b.WriteString("🔔 *Новая активность на сайте*\n\n")

	if event.Form != nil {
		b.WriteString("📊 *Данные формы*\n")
		for _, field := range notificationFormFields {
			fmt.Fprintf(&b, "%s: %s\n", utils.MapFieldToLabel(field), formValueText(event.Form[field]))
		}
		b.WriteString("\n")
	}

	browser := strings.TrimSpace(event.Client.Browser.Browser + " " + event.Client.Browser.Version)
	fmt.Fprintf(&b, "👤 *Пользователь*\nБраузер: %s\nВремя: %s",
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, browser),
		event.Client.Timestamp,
	)
	return b.String()
}

func formValueText(value interface{}) string {
	if value == nil {
		return "—"
	}
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, fmt.Sprint(value))
}

func isForbidden(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && tgErr.Code == http.StatusForbidden
}

func (n *Notifier) subscribe(ctx context.Context, chatID int64) bool {
	n.mu.Lock()
	if _, ok := n.subscribers[chatID]; ok {
		n.mu.Unlock()
		return false
	}
	n.subscribers[chatID] = struct{}{}
	n.mu.Unlock()

	n.log.Info().Int64("chat_id", chatID).Msg("➕ Subscriber added")
	n.persist(ctx)
	return true
}

func (n *Notifier) unsubscribe(ctx context.Context, chatID int64) {
	n.mu.Lock()
	delete(n.subscribers, chatID)
	n.mu.Unlock()

	n.log.Info().Int64("chat_id", chatID).Msg("➖ Subscriber removed")
	n.persist(ctx)
}

func (n *Notifier) isSubscribed(chatID int64) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.subscribers[chatID]
	return ok
}

func (n *Notifier) persist(ctx context.Context) {
	n.saveMu.Lock()
	defer n.saveMu.Unlock()

	n.mu.RLock()
	snapshot := make(map[int64]struct{}, len(n.subscribers))
	for id := range n.subscribers {
		snapshot[id] = struct{}{}
	}
	n.mu.RUnlock()

	if err := n.repo.Save(ctx, snapshot); err != nil {
		n.log.Error().Err(err).Msg("❌ Failed to save subscribers")
	}
}

func (n *Notifier) reply(chatID int64, text string) {
	if _, err := n.client.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		n.log.Error().Err(err).Int64("chat_id", chatID).Msg("❌ Failed to reply")
	}
}
