package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gfarida/financetracker/pkg/tracker"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleStart handles /start - registers the user and shows the command list
func (b *Bot) handleStart(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("start").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	name := from.FirstName
	if name == "" {
		name = from.Username
	}

	res, err := b.tracker.Register(ctx, chatID, name)
	if err != nil {
		errorsTotal.WithLabelValues("registration").Inc()
		b.logger.Error(ctx, "failed to register user", "err", err, "chat_id", chatID)
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Registration failed. Please try again later.",
		})
		return
	}

	greeting := fmt.Sprintf("Welcome back, %s!", res.User.Name)
	if res.Created {
		greeting = fmt.Sprintf("Hello, %s! You are registered now.", res.User.Name)
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   greeting + "\n\n" + helpText,
	})
}

// handleHelp handles /help
func (b *Bot) handleHelp(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("help").Inc()
	if update.Message == nil {
		return
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
}

// handleAdd handles /add <amount> <description>
func (b *Bot) handleAdd(ctx context.Context, botAPI *bot.Bot, update *models.Update, args string) {
	commandsProcessed.WithLabelValues("add").Inc()
	chatID := update.Message.Chat.ID

	const usage = "Usage: /add <amount> <description>"

	amountText, description, _ := strings.Cut(args, " ")
	if amountText == "" {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
		return
	}

	started := time.Now()
	report, err := b.tracker.AddExpense(ctx, chatID, amountText, description)
	addExpenseDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		b.sendError(ctx, botAPI, chatID, err, usage, "add_expense")
		return
	}

	expensesRecorded.Inc()

	text := fmt.Sprintf("Recorded %s in %s (id=%d).\nSpent in category: %s / %s.",
		tracker.FormatAmount(report.Expense.Amount),
		report.Category,
		report.Expense.ID,
		tracker.FormatAmount(report.Spent),
		report.Cap,
	)
	if report.OverBudget() {
		text += fmt.Sprintf("\n⚠️ You are over budget in %s!", report.Category)
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// handleShow handles /show
func (b *Bot) handleShow(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("show").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	expenses, err := b.tracker.ListExpenses(ctx, chatID)
	if err != nil {
		b.sendError(ctx, botAPI, chatID, err, "", "list_expenses")
		return
	}

	if len(expenses) == 0 {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "You have no expenses yet."})
		return
	}

	lines := make([]string, 0, len(expenses)+1)
	lines = append(lines, "Your expenses:")
	for _, e := range expenses {
		lines = append(lines, expenseLine(e))
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: strings.Join(lines, "\n")})
}

// handleDelete handles /delete <expense_id>
func (b *Bot) handleDelete(ctx context.Context, botAPI *bot.Bot, update *models.Update, args string) {
	commandsProcessed.WithLabelValues("delete").Inc()
	chatID := update.Message.Chat.ID

	const usage = "Usage: /delete <expense_id>"

	id, err := strconv.Atoi(args)
	if err != nil {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
		return
	}

	if err := b.tracker.DeleteExpense(ctx, chatID, id); err != nil {
		b.sendError(ctx, botAPI, chatID, err, usage, "delete_expense")
		return
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("Expense %d deleted.", id),
	})
}

// handleSetBudget handles /set_budget <category> <amount>
func (b *Bot) handleSetBudget(ctx context.Context, botAPI *bot.Bot, update *models.Update, args string) {
	commandsProcessed.WithLabelValues("set_budget").Inc()
	chatID := update.Message.Chat.ID

	const usage = "Usage: /set_budget <category> <amount>"

	fields := strings.Fields(args)
	if len(fields) < 2 {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
		return
	}

	category := strings.Join(fields[:len(fields)-1], " ")
	amountText := fields[len(fields)-1]

	status, err := b.tracker.SetBudget(ctx, chatID, category, amountText)
	if err != nil {
		b.sendError(ctx, botAPI, chatID, err, usage, "set_budget")
		return
	}

	budgetsSet.Inc()

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("Budget for %s set to %s.\n%s", status.Category, status.Cap, budgetLine(*status)),
	})
}

// handleDeleteBudget handles /delete_budget <category>
func (b *Bot) handleDeleteBudget(ctx context.Context, botAPI *bot.Bot, update *models.Update, args string) {
	commandsProcessed.WithLabelValues("delete_budget").Inc()
	chatID := update.Message.Chat.ID

	const usage = "Usage: /delete_budget <category>"

	if strings.TrimSpace(args) == "" {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
		return
	}

	if err := b.tracker.DeleteBudget(ctx, chatID, args); err != nil {
		b.sendError(ctx, botAPI, chatID, err, usage, "delete_budget")
		return
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("Budget for %s removed.", strings.TrimSpace(args)),
	})
}

// handleShowBudgets handles /show_budgets
func (b *Bot) handleShowBudgets(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("show_budgets").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	overview, err := b.tracker.BudgetOverview(ctx, chatID)
	if err != nil {
		b.sendError(ctx, botAPI, chatID, err, "", "show_budgets")
		return
	}

	if len(overview) == 0 {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "You have no budgets yet."})
		return
	}

	lines := make([]string, 0, len(overview)+1)
	lines = append(lines, "Your budgets:")
	for _, s := range overview {
		lines = append(lines, budgetLine(s))
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: strings.Join(lines, "\n")})
}

// handleAnalysis handles /analysis <start> <end>
func (b *Bot) handleAnalysis(ctx context.Context, botAPI *bot.Bot, update *models.Update, args string) {
	commandsProcessed.WithLabelValues("analysis").Inc()
	chatID := update.Message.Chat.ID

	const usage = "Usage: /analysis <start> <end>, timestamps as YYYY-MM-DD HH:MM:SS"

	from, to, err := parseRange(args)
	if err != nil {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
		return
	}

	analysis, err := b.tracker.Analyze(ctx, chatID, from, to)
	if err != nil {
		b.sendError(ctx, botAPI, chatID, err, usage, "analysis")
		return
	}

	if analysis.Empty() {
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "No expenses in this period."})
		return
	}

	text := analysisText(analysis)

	png, err := tracker.RenderPieChart(analysis)
	if err != nil {
		errorsTotal.WithLabelValues("render_chart").Inc()
		b.logger.Error(ctx, "failed to render chart", "err", err, "chat_id", chatID)
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
		return
	}

	_, err = botAPI.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "analysis.png",
			Data:     bytes.NewReader(png),
		},
		Caption: text,
	})
	if err != nil {
		errorsTotal.WithLabelValues("send_message").Inc()
		b.logger.Error(ctx, "failed to send chart", "err", err, "chat_id", chatID)
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	}
}

// sendError maps a command failure to a user-facing reply. Usage and
// not-found errors get a specific message, everything else degrades to a
// generic failure and is logged with the given error type.
func (b *Bot) sendError(ctx context.Context, botAPI *bot.Bot, chatID int64, err error, usage, errType string) {
	var text string

	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		text = err.Error()
		if usage != "" {
			text = usage
		}
	case errors.Is(err, tracker.ErrNotRegistered):
		text = "You are not registered yet. Send /start to register."
	case errors.Is(err, tracker.ErrExpenseNotFound):
		text = "Expense not found."
	case errors.Is(err, tracker.ErrBudgetNotFound):
		text = "Budget not found."
	default:
		errorsTotal.WithLabelValues(errType).Inc()
		b.logger.Error(ctx, "command failed", "err", err, "chat_id", chatID, "type", errType)
		text = "Something went wrong. Please try again later."
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}
