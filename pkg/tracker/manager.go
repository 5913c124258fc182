package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gfarida/financetracker/pkg/db"
	"github.com/gfarida/financetracker/pkg/services"

	"github.com/vmkteam/embedlog"
)

// Manager implements the bot commands on top of Storage. Every mutating
// command runs in a single transaction, so a failure midway leaves the
// ledger untouched.
type Manager struct {
	store      db.Storage
	classifier services.Classifier
	log        embedlog.Logger
	now        func() time.Time
}

func NewManager(store db.Storage, classifier services.Classifier, log embedlog.Logger) *Manager {
	return &Manager{
		store:      store,
		classifier: classifier,
		log:        log,
		now:        time.Now,
	}
}

// RegisterResult reports whether Register created a new user or found an
// existing one.
type RegisterResult struct {
	User    *db.User
	Created bool
}

// ExpenseReport is the outcome of recording one expense: the stored row,
// total spending in its category and the budget state after the insert.
type ExpenseReport struct {
	Expense  *db.Expense
	Category string
	Spent    int64
	Cap      Cap
}

// OverBudget reports whether category spending now exceeds its cap.
func (r *ExpenseReport) OverBudget() bool {
	return r.Cap.Exceeded(r.Spent)
}

// BudgetStatus is one row of the budget overview.
type BudgetStatus struct {
	Category string
	Cap      Cap
	Spent    int64
}

// Percent reports spending as a share of the cap.
func (b BudgetStatus) Percent() float64 {
	return b.Cap.Percent(b.Spent)
}

// Register creates a user for the chat or returns the existing one.
// Registration is idempotent.
func (s *Manager) Register(ctx context.Context, chatID int64, name string) (*RegisterResult, error) {
	res := &RegisterResult{}

	err := s.store.InTransaction(ctx, func(tx db.Storage) error {
		user, err := tx.UserByChatID(ctx, chatID)
		if err != nil {
			return fmt.Errorf("failed to search user: %w", err)
		}

		if user != nil {
			res.User = user
			return nil
		}

		user, err = tx.CreateUser(ctx, &db.User{
			ChatID: chatID,
			Name:   name,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		res.User, res.Created = user, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Created {
		s.log.Print(ctx, "new user registered", "user_id", res.User.ID, "chat_id", chatID, "name", name)
	}

	return res, nil
}

// AddExpense validates the amount, classifies the description into a
// category and records the expense. A budget row for the category is
// created on first use, unbounded until the user caps it. The insert, the
// budget upsert and the spending sum share one transaction.
func (s *Manager) AddExpense(ctx context.Context, chatID int64, amountText, description string) (*ExpenseReport, error) {
	amount, err := ParseAmount(amountText)
	if err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	user, err := s.requireUser(ctx, chatID)
	if err != nil {
		return nil, err
	}

	category, err := s.classifier.Classify(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("failed to classify expense: %w", err)
	}

	report := &ExpenseReport{Category: category}

	err = s.store.InTransaction(ctx, func(tx db.Storage) error {
		expense, err := tx.CreateExpense(ctx, &db.Expense{
			UserID:   user.ID,
			Category: category,
			Amount:   amount,
			SpentAt:  s.now(),
		})
		if err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		report.Expense = expense

		budget, err := tx.BudgetByCategory(ctx, user.ID, category)
		if err != nil {
			return fmt.Errorf("failed to search budget: %w", err)
		}

		if budget == nil {
			budget, err = tx.CreateBudget(ctx, &db.Budget{
				UserID:   user.ID,
				Category: category,
			})
			if err != nil {
				return fmt.Errorf("failed to create budget: %w", err)
			}
		}
		report.Cap = capFromColumn(budget.Cap)

		spent, err := tx.SumExpenses(ctx, user.ID, category)
		if err != nil {
			return fmt.Errorf("failed to sum expenses: %w", err)
		}
		report.Spent = spent

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Print(ctx, "expense recorded",
		"expense_id", report.Expense.ID,
		"user_id", user.ID,
		"amount", amount,
		"category", category,
	)

	return report, nil
}

// ListExpenses returns all expenses of the chat's user, oldest first.
func (s *Manager) ListExpenses(ctx context.Context, chatID int64) ([]db.Expense, error) {
	user, err := s.requireUser(ctx, chatID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ExpensesByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes one expense by id. Expenses of other users are
// invisible here and report ErrExpenseNotFound.
func (s *Manager) DeleteExpense(ctx context.Context, chatID int64, expenseID int) error {
	user, err := s.requireUser(ctx, chatID)
	if err != nil {
		return err
	}

	err = s.store.InTransaction(ctx, func(tx db.Storage) error {
		expense, err := tx.ExpenseByID(ctx, expenseID, user.ID)
		if err != nil {
			return fmt.Errorf("failed to search expense: %w", err)
		}
		if expense == nil {
			return ErrExpenseNotFound
		}

		deleted, err := tx.DeleteExpense(ctx, expense.ID)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if !deleted {
			return ErrExpenseNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.Print(ctx, "expense deleted", "expense_id", expenseID, "user_id", user.ID)

	return nil
}

// SetBudget sets or replaces the cap for a category. The category label is
// free text, so caps can be prepared for categories with no expenses yet.
func (s *Manager) SetBudget(ctx context.Context, chatID int64, category, amountText string) (*BudgetStatus, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	amount, err := ParseAmount(amountText)
	if err != nil {
		return nil, err
	}

	user, err := s.requireUser(ctx, chatID)
	if err != nil {
		return nil, err
	}

	status := &BudgetStatus{Category: category, Cap: CappedAt(amount)}

	err = s.store.InTransaction(ctx, func(tx db.Storage) error {
		budget, err := tx.BudgetByCategory(ctx, user.ID, category)
		if err != nil {
			return fmt.Errorf("failed to search budget: %w", err)
		}

		if budget == nil {
			_, err = tx.CreateBudget(ctx, &db.Budget{
				UserID:   user.ID,
				Category: category,
				Cap:      status.Cap.column(),
			})
			if err != nil {
				return fmt.Errorf("failed to create budget: %w", err)
			}
		} else {
			budget.Cap = status.Cap.column()
			if _, err = tx.UpdateBudget(ctx, budget); err != nil {
				return fmt.Errorf("failed to update budget: %w", err)
			}
		}

		spent, err := tx.SumExpenses(ctx, user.ID, category)
		if err != nil {
			return fmt.Errorf("failed to sum expenses: %w", err)
		}
		status.Spent = spent

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Print(ctx, "budget set", "user_id", user.ID, "category", category, "cap", amount)

	return status, nil
}

// DeleteBudget removes the budget row for a category together with its cap.
func (s *Manager) DeleteBudget(ctx context.Context, chatID int64, category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	user, err := s.requireUser(ctx, chatID)
	if err != nil {
		return err
	}

	err = s.store.InTransaction(ctx, func(tx db.Storage) error {
		budget, err := tx.BudgetByCategory(ctx, user.ID, category)
		if err != nil {
			return fmt.Errorf("failed to search budget: %w", err)
		}
		if budget == nil {
			return ErrBudgetNotFound
		}

		deleted, err := tx.DeleteBudget(ctx, budget.ID)
		if err != nil {
			return fmt.Errorf("failed to delete budget: %w", err)
		}
		if !deleted {
			return ErrBudgetNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.Print(ctx, "budget deleted", "user_id", user.ID, "category", category)

	return nil
}

// BudgetOverview returns all budgets of the chat's user with current
// spending, ordered by category. The sums are read in one transaction so
// the overview is a consistent snapshot.
func (s *Manager) BudgetOverview(ctx context.Context, chatID int64) ([]BudgetStatus, error) {
	user, err := s.requireUser(ctx, chatID)
	if err != nil {
		return nil, err
	}

	var statuses []BudgetStatus

	err = s.store.InTransaction(ctx, func(tx db.Storage) error {
		budgets, err := tx.BudgetsByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to get budgets: %w", err)
		}

		statuses = make([]BudgetStatus, 0, len(budgets))
		for _, budget := range budgets {
			spent, err := tx.SumExpenses(ctx, user.ID, budget.Category)
			if err != nil {
				return fmt.Errorf("failed to sum expenses: %w", err)
			}

			statuses = append(statuses, BudgetStatus{
				Category: budget.Category,
				Cap:      capFromColumn(budget.Cap),
				Spent:    spent,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return statuses, nil
}

// Analyze aggregates expenses with spentAt inside [from, to] per category.
func (s *Manager) Analyze(ctx context.Context, chatID int64, from, to time.Time) (*Analysis, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: start of the period is after its end", ErrInvalidInput)
	}

	user, err := s.requireUser(ctx, chatID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ExpensesByRange(ctx, user.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	return newAnalysis(from, to, expenses), nil
}

func (s *Manager) requireUser(ctx context.Context, chatID int64) (*db.User, error) {
	user, err := s.store.UserByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotRegistered
	}

	return user, nil
}
