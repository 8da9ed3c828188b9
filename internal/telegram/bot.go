// Package telegram binds the conversation engine to the Telegram Bot API
// via long polling. Each update is handled in its own goroutine by telebot;
// per-user ordering is enforced inside the engine.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"finbot/internal/engine"
	"finbot/internal/log"
)

const (
	btnAddIncome  = "Добавить доход"
	btnAddExpense = "Добавить расход"
	btnShowStats  = "Показать статистику"

	msgGreeting = "Привет! Я твой финансовый помощник.\n" +
		"Ты можешь добавлять доходы, расходы и смотреть статистику по категориям."
	msgSaveFailed = "Не удалось сохранить данные, попробуйте ещё раз."
)

type Config struct {
	Token       string
	PollTimeout time.Duration
}

type Bot struct {
	bot    *tele.Bot
	engine *engine.Engine
	logger *log.Logger
	mainKB *tele.ReplyMarkup
}

func New(cfg Config, eng *engine.Engine, logger *log.Logger) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := &Bot{
		bot:    tb,
		engine: eng,
		logger: logger,
		mainKB: keyboard(btnAddIncome, btnAddExpense, btnShowStats),
	}
	b.route()
	return b, nil
}

func (b *Bot) route() {
	b.bot.Handle("/start", b.onStart)
	b.bot.Handle(btnAddIncome, b.flowStarter(engine.FlowAddIncome))
	b.bot.Handle(btnAddExpense, b.flowStarter(engine.FlowAddExpense))
	b.bot.Handle(btnShowStats, b.flowStarter(engine.FlowStats))
	b.bot.Handle(tele.OnText, b.onText)
}

// Run starts long polling and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.logger.Info("Telegram bot polling started", "bot", b.bot.Me.Username)
	b.bot.Start()
	return ctx.Err()
}

func (b *Bot) onStart(c tele.Context) error {
	userID := senderID(c)
	summary, err := b.engine.BalanceSummary(context.Background(), userID)
	if err != nil {
		b.logger.Error("Balance summary failed", "user_id", userID, "error", err)
		return c.Send(msgGreeting, b.mainKB)
	}

	balanceLine := fmt.Sprintf("Ваш текущий баланс: %.2f ₸\n\n", summary.Balance)
	if summary.Balance < 0 {
		balanceLine = fmt.Sprintf("Вы в долгу: %.2f ₸\n\n", summary.Balance)
	}
	return c.Send(balanceLine+msgGreeting, b.mainKB)
}

func (b *Bot) flowStarter(flow engine.Flow) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := senderID(c)
		reply, err := b.engine.StartFlow(context.Background(), userID, flow)
		if err != nil {
			b.logger.Error("Flow start failed", "user_id", userID, "error", err)
			return c.Send(msgSaveFailed, b.mainKB)
		}
		return b.send(c, reply)
	}
}

func (b *Bot) onText(c tele.Context) error {
	userID := senderID(c)
	reply, err := b.engine.HandleInput(context.Background(), userID, c.Text())
	if errors.Is(err, engine.ErrNoActiveFlow) {
		// Free text outside any flow is not ours to answer.
		return nil
	}
	if err != nil {
		// Persistence failure: the flow state is intact, tell the user to
		// retry the same input.
		b.logger.Error("Input handling failed", "user_id", userID, "error", err)
		return c.Send(msgSaveFailed)
	}
	return b.send(c, reply)
}

func (b *Bot) send(c tele.Context, reply engine.Reply) error {
	switch {
	case len(reply.Menu) > 0:
		return c.Send(reply.Text, keyboard(reply.Menu...))
	case reply.MainMenu:
		return c.Send(reply.Text, b.mainKB)
	default:
		return c.Send(reply.Text)
	}
}

func senderID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

// keyboard builds a reply keyboard with one button per row.
func keyboard(labels ...string) *tele.ReplyMarkup {
	kb := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, kb.Row(kb.Text(label)))
	}
	kb.Reply(rows...)
	return kb
}
