package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gfarida/financetracker/pkg/tracker"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vmkteam/embedlog"
)

type Bot struct {
	api     *bot.Bot
	logger  embedlog.Logger
	tracker *tracker.Manager
}

type Config struct {
	Token string
	Debug bool
}

// New creates a new Telegram bot instance
func New(cfg Config, manager *tracker.Manager, logger embedlog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is required")
	}

	b := &Bot{
		logger:  logger,
		tracker: manager,
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(b.handleCommand),
	}

	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}

	api, err := bot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	b.api = api

	b.registerHandlers()

	return b, nil
}

// Start starts the bot with long polling
func (b *Bot) Start(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}

	b.logger.Print(ctx, "telegram bot started", "username", me.Username, "id", me.ID)
	b.api.Start(ctx)

	return nil
}

// Stop gracefully stops the bot
func (b *Bot) Stop(ctx context.Context) {
	b.logger.Print(ctx, "stopping telegram bot")
}

// registerHandlers registers handlers for commands without arguments. All
// other commands carry arguments, so they go through the default handler
// which dispatches on the first token.
func (b *Bot) registerHandlers() {
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.handleStart)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, b.handleHelp)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/show", bot.MatchTypeExact, b.handleShow)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/show_budgets", bot.MatchTypeExact, b.handleShowBudgets)
}

// handleCommand routes commands by their first token. It also catches
// commands that bypass the exact-match registrations, such as
// "/start@botname" in group chats.
func (b *Bot) handleCommand(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	command, args := splitCommand(update.Message.Text)

	if handler := b.route(command); handler != nil {
		handler(ctx, botAPI, update, args)
		return
	}

	b.logger.Print(ctx, "unknown command", "text", update.Message.Text, "chat_id", update.Message.Chat.ID)
	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Unknown command. Use /help for the list of available commands.",
	})
}

// route returns the handler for a command token, nil for unknown commands.
func (b *Bot) route(command string) func(context.Context, *bot.Bot, *models.Update, string) {
	switch command {
	case "/start":
		return func(ctx context.Context, botAPI *bot.Bot, update *models.Update, _ string) {
			b.handleStart(ctx, botAPI, update)
		}
	case "/help":
		return func(ctx context.Context, botAPI *bot.Bot, update *models.Update, _ string) {
			b.handleHelp(ctx, botAPI, update)
		}
	case "/add":
		return b.handleAdd
	case "/delete":
		return b.handleDelete
	case "/set_budget":
		return b.handleSetBudget
	case "/delete_budget":
		return b.handleDeleteBudget
	case "/analysis":
		return b.handleAnalysis
	case "/show":
		return func(ctx context.Context, botAPI *bot.Bot, update *models.Update, _ string) {
			b.handleShow(ctx, botAPI, update)
		}
	case "/show_budgets":
		return func(ctx context.Context, botAPI *bot.Bot, update *models.Update, _ string) {
			b.handleShowBudgets(ctx, botAPI, update)
		}
	default:
		return nil
	}
}

// splitCommand separates the command token from its argument tail and
// strips an optional @botname suffix.
func splitCommand(text string) (string, string) {
	command, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return command, strings.TrimSpace(args)
}
