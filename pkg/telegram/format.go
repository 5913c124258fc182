package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/gfarida/financetracker/pkg/db"
	"github.com/gfarida/financetracker/pkg/tracker"
)

const timestampLayout = "2006-01-02 15:04:05"

const helpText = `Available commands:
/start - register and show this help
/add <amount> <description> - record an expense
/show - list all expenses
/delete <expense_id> - delete an expense
/set_budget <category> <amount> - set a budget cap
/delete_budget <category> - remove a budget cap
/show_budgets - list budgets with spending
/analysis <start> <end> - spending breakdown for a period, timestamps as YYYY-MM-DD HH:MM:SS
/help - show this help`

// parseRange parses "/analysis" arguments: two timestamps of four
// space-separated tokens in total.
func parseRange(args string) (time.Time, time.Time, error) {
	fields := strings.Fields(args)
	if len(fields) != 4 {
		return time.Time{}, time.Time{}, fmt.Errorf("expected two timestamps, got %d tokens", len(fields))
	}

	from, err := time.ParseInLocation(timestampLayout, fields[0]+" "+fields[1], time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad start timestamp: %w", err)
	}

	to, err := time.ParseInLocation(timestampLayout, fields[2]+" "+fields[3], time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad end timestamp: %w", err)
	}

	return from, to, nil
}

func expenseLine(e db.Expense) string {
	return fmt.Sprintf("%s | %s | %s | id=%d",
		e.SpentAt.Format(timestampLayout),
		tracker.FormatAmount(e.Amount),
		e.Category,
		e.ID,
	)
}

func budgetLine(s tracker.BudgetStatus) string {
	return fmt.Sprintf("%s: %s (%s / %s)",
		s.Category,
		tracker.FormatPercent(s.Percent()),
		tracker.FormatAmount(s.Spent),
		s.Cap,
	)
}

func analysisText(a *tracker.Analysis) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Expenses from %s to %s\n",
		a.From.Format(timestampLayout),
		a.To.Format(timestampLayout),
	)
	fmt.Fprintf(&sb, "Total: %s\n", tracker.FormatAmount(a.Total))

	for _, ct := range a.Categories {
		fmt.Fprintf(&sb, "%s: %s (%s)\n",
			ct.Category,
			tracker.FormatAmount(ct.Amount),
			tracker.FormatPercent(a.Share(ct.Amount)),
		)
	}

	return strings.TrimRight(sb.String(), "\n")
}
