// Package telegram connects the registration engine to the Telegram Bot
// API: long-polling dispatch, reply keyboards, admin commands.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/prizedraw/backend/internal/flow"
	"github.com/prizedraw/backend/internal/models"
	"github.com/prizedraw/backend/internal/participants"
	"github.com/prizedraw/backend/internal/reports"
	"github.com/prizedraw/backend/internal/validate"
)

const (
	btnRestart      = "🔄 Начать заново"
	btnShareContact = "📱 Поделиться номером"

	updateTimeoutSec = 30
	datesListLimit   = 30
)

const msgHelp = "Я бот для участия в розыгрыше призов.\n\n" +
	"/start — начать регистрацию\n" +
	"/cancel — отменить регистрацию\n" +
	"/help — эта справка\n\n" +
	"Участвовать можно один раз в день."

const msgAdminOnly = "Эта команда доступна только администратору."

// Registry is the participant store as the admin commands read it.
type Registry interface {
	ListByDate(ctx context.Context, day time.Time) ([]models.ParticipantEntry, error)
	ListDates(ctx context.Context, limit int) ([]time.Time, error)
	Stats(ctx context.Context) (participants.Stats, error)
}

// Bot dispatches Telegram updates to the registration engine and serves
// the admin commands. It also implements alerts.Sender for the alert
// worker.
type Bot struct {
	api         *tgbotapi.BotAPI
	engine      *flow.Engine
	registry    Registry
	adminChatID int64
	logger      *zap.Logger
}

// New authenticates against the Bot API and returns a ready bot.
func New(token string, engine *flow.Engine, registry Registry, adminChatID int64, logger *zap.Logger) (*Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("bot api auth: %w", err)
	}
	logger.Info("bot authorized", zap.String("username", api.Self.UserName))
	return &Bot{
		api:         api,
		engine:      engine,
		registry:    registry,
		adminChatID: adminChatID,
		logger:      logger,
	}, nil
}

// Run long-polls for updates until ctx is cancelled. A startup note goes
// to the admin chat so restarts are visible.
func (b *Bot) Run(ctx context.Context) {
	if err := b.SendToAdmin(ctx, "🤖 Бот запущен и готов к работе."); err != nil {
		b.logger.Warn("startup notification failed", zap.Error(err))
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updateTimeoutSec
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

// SendToAdmin delivers one message to the admin chat.
// The bot API client has no context support; ctx satisfies alerts.Sender.
func (b *Bot) SendToAdmin(_ context.Context, text string) error {
	for _, part := range reports.Chunk(text, reports.MessageLimit) {
		if _, err := b.api.Send(tgbotapi.NewMessage(b.adminChatID, part)); err != nil {
			return fmt.Errorf("send to admin: %w", err)
		}
	}
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	user := flow.User{
		ID:          msg.From.ID,
		DisplayName: strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName),
		Handle:      msg.From.UserName,
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg, user)
	case msg.Contact != nil:
		// Only the sender's own contact counts as a phone submission.
		if msg.Contact.UserID != 0 && msg.Contact.UserID != msg.From.ID {
			b.send(msg.Chat.ID, flow.Reply{Text: "Пожалуйста, поделитесь своим собственным номером.", Keyboard: flow.KeyboardContact})
			return
		}
		b.send(msg.Chat.ID, b.engine.Contact(ctx, user, msg.Contact.PhoneNumber))
	case msg.Text == btnRestart:
		b.send(msg.Chat.ID, b.engine.Start(ctx, user))
	case msg.Text != "":
		b.send(msg.Chat.ID, b.engine.Text(ctx, user, msg.Text))
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user flow.User) {
	switch msg.Command() {
	case "start":
		b.send(msg.Chat.ID, b.engine.Start(ctx, user))
	case "cancel":
		b.send(msg.Chat.ID, b.engine.Cancel(ctx, user))
	case "help":
		b.send(msg.Chat.ID, flow.Reply{Text: msgHelp, Keyboard: flow.KeyboardStart})
	case "list":
		if !b.isAdmin(msg) {
			b.send(msg.Chat.ID, flow.Reply{Text: msgAdminOnly})
			return
		}
		b.handleList(ctx, msg)
	case "status":
		if !b.isAdmin(msg) {
			b.send(msg.Chat.ID, flow.Reply{Text: msgAdminOnly})
			return
		}
		b.handleStatus(ctx, msg)
	default:
		b.send(msg.Chat.ID, flow.Reply{Text: msgHelp, Keyboard: flow.KeyboardStart})
	}
}

// handleList answers /list DD.MM.YYYY with that day's participants, and
// bare /list with the days that have entries.
func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		dates, err := b.registry.ListDates(ctx, datesListLimit)
		if err != nil {
			b.logger.Error("list dates failed", zap.Error(err))
			b.send(msg.Chat.ID, flow.Reply{Text: "⚠️ Не удалось получить список дат."})
			return
		}
		b.sendLong(msg.Chat.ID, reports.DatesList(dates))
		return
	}

	day, err := validate.DrawDate(arg)
	if err != nil {
		b.send(msg.Chat.ID, flow.Reply{Text: "❌ Неверный формат даты. Используйте ДД.ММ.ГГГГ, например: /list 15.03.2025"})
		return
	}
	entries, err := b.registry.ListByDate(ctx, day)
	if err != nil {
		b.logger.Error("list participants failed", zap.Error(err), zap.String("date", arg))
		b.send(msg.Chat.ID, flow.Reply{Text: "⚠️ Не удалось получить список участников."})
		return
	}
	b.sendLong(msg.Chat.ID, reports.ParticipantList(day, entries))
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) {
	stats, err := b.registry.Stats(ctx)
	if err != nil {
		b.logger.Error("stats failed", zap.Error(err))
		b.send(msg.Chat.ID, flow.Reply{Text: "⚠️ Не удалось получить статистику."})
		return
	}
	b.sendLong(msg.Chat.ID, reports.StatsReport(stats))
}

func (b *Bot) isAdmin(msg *tgbotapi.Message) bool {
	return msg.Chat.ID == b.adminChatID || msg.From.ID == b.adminChatID
}

// send delivers one engine reply. Delivery failures are logged and
// swallowed; the conversation state has already advanced.
func (b *Bot) send(chatID int64, reply flow.Reply) {
	if reply.Text == "" {
		return
	}
	out := tgbotapi.NewMessage(chatID, reply.Text)
	out.ReplyMarkup = markupFor(reply.Keyboard)
	if _, err := b.api.Send(out); err != nil {
		b.logger.Warn("send reply failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendLong splits a report over the message size limit into parts.
func (b *Bot) sendLong(chatID int64, text string) {
	for _, part := range reports.Chunk(text, reports.MessageLimit) {
		out := tgbotapi.NewMessage(chatID, part)
		if _, err := b.api.Send(out); err != nil {
			b.logger.Warn("send report failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	}
}

func markupFor(k flow.Keyboard) interface{} {
	switch k {
	case flow.KeyboardStart:
		kb := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnRestart)),
		)
		kb.ResizeKeyboard = true
		return kb
	case flow.KeyboardContact:
		kb := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(btnShareContact)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnRestart)),
		)
		kb.ResizeKeyboard = true
		return kb
	default:
		return tgbotapi.NewRemoveKeyboard(false)
	}
}
