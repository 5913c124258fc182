package tracker

import (
	"sort"
	"time"

	"github.com/gfarida/financetracker/pkg/db"
)

// CategoryTotal is aggregated spending in one category over a period.
type CategoryTotal struct {
	Category string
	Amount   int64
}

// Analysis is the per-category breakdown of spending over [From, To].
// Categories are ordered by amount, largest first, ties by name.
type Analysis struct {
	From       time.Time
	To         time.Time
	Total      int64
	Categories []CategoryTotal
}

func newAnalysis(from, to time.Time, expenses []db.Expense) *Analysis {
	totals := map[string]int64{}
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}

	a := &Analysis{
		From:       from,
		To:         to,
		Categories: make([]CategoryTotal, 0, len(totals)),
	}

	for category, amount := range totals {
		a.Categories = append(a.Categories, CategoryTotal{Category: category, Amount: amount})
		a.Total += amount
	}

	sort.Slice(a.Categories, func(i, j int) bool {
		if a.Categories[i].Amount != a.Categories[j].Amount {
			return a.Categories[i].Amount > a.Categories[j].Amount
		}
		return a.Categories[i].Category < a.Categories[j].Category
	})

	return a
}

// Empty reports whether the period contains no expenses.
func (a *Analysis) Empty() bool {
	return len(a.Categories) == 0
}

// Share reports the amount as a percentage of the period total.
func (a *Analysis) Share(amount int64) float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(amount) / float64(a.Total) * 100
}
