package tracker

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/gfarida/financetracker/pkg/db"

	"github.com/vmkteam/embedlog"
)

// memStore is an in-memory Storage used to test manager logic without a
// database. InTransaction runs the callback against the same store.
type memStore struct {
	users    []db.User
	expenses []db.Expense
	budgets  []db.Budget
	seq      int
}

func (s *memStore) nextID() int {
	s.seq++
	return s.seq
}

func (s *memStore) UserByChatID(_ context.Context, chatID int64) (*db.User, error) {
	for i := range s.users {
		if s.users[i].ChatID == chatID {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateUser(_ context.Context, user *db.User) (*db.User, error) {
	user.ID = s.nextID()
	user.CreatedAt = time.Now()
	s.users = append(s.users, *user)
	return user, nil
}

func (s *memStore) ExpensesByUser(_ context.Context, userID int) ([]db.Expense, error) {
	var out []db.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) ExpensesByRange(_ context.Context, userID int, from, to time.Time) ([]db.Expense, error) {
	var out []db.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && !e.SpentAt.Before(from) && !e.SpentAt.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) ExpenseByID(_ context.Context, id, userID int) (*db.Expense, error) {
	for i := range s.expenses {
		if s.expenses[i].ID == id && s.expenses[i].UserID == userID {
			e := s.expenses[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateExpense(_ context.Context, expense *db.Expense) (*db.Expense, error) {
	expense.ID = s.nextID()
	s.expenses = append(s.expenses, *expense)
	return expense, nil
}

func (s *memStore) DeleteExpense(_ context.Context, id int) (bool, error) {
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) SumExpenses(_ context.Context, userID int, category string) (int64, error) {
	var total int64
	for _, e := range s.expenses {
		if e.UserID == userID && e.Category == category {
			total += e.Amount
		}
	}
	return total, nil
}

func (s *memStore) BudgetByCategory(_ context.Context, userID int, category string) (*db.Budget, error) {
	for i := range s.budgets {
		if s.budgets[i].UserID == userID && s.budgets[i].Category == category {
			b := s.budgets[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (s *memStore) BudgetsByUser(_ context.Context, userID int) ([]db.Budget, error) {
	var out []db.Budget
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *memStore) CreateBudget(_ context.Context, budget *db.Budget) (*db.Budget, error) {
	budget.ID = s.nextID()
	s.budgets = append(s.budgets, *budget)
	return budget, nil
}

func (s *memStore) UpdateBudget(_ context.Context, budget *db.Budget) (bool, error) {
	for i := range s.budgets {
		if s.budgets[i].ID == budget.ID {
			s.budgets[i] = *budget
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DeleteBudget(_ context.Context, id int) (bool, error) {
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) InTransaction(_ context.Context, fn func(db.Storage) error) error {
	return fn(s)
}

type stubClassifier struct {
	category string
	err      error
}

func (c stubClassifier) Classify(context.Context, string) (string, error) {
	return c.category, c.err
}

func newTestManager(store db.Storage, classifier stubClassifier) *Manager {
	return NewManager(store, classifier, embedlog.NewLogger(false, false))
}

func TestRegisterIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Other"})

	first, err := m.Register(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !first.Created || first.User.ID == 0 {
		t.Fatalf("expected new user, got %+v", first)
	}

	second, err := m.Register(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("repeated register failed: %v", err)
	}
	if second.Created {
		t.Fatal("repeated register must not create a new user")
	}
	if second.User.ID != first.User.ID {
		t.Fatalf("expected same user %d, got %d", first.User.ID, second.User.ID)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected one user row, got %d", len(store.users))
	}
}

func TestCommandsRequireRegistration(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(&memStore{}, stubClassifier{category: "Dining"})

	var errs []error

	_, err := m.AddExpense(ctx, 42, "10", "lunch")
	errs = append(errs, err)
	_, err = m.ListExpenses(ctx, 42)
	errs = append(errs, err)
	errs = append(errs, m.DeleteExpense(ctx, 42, 1))
	_, err = m.SetBudget(ctx, 42, "Dining", "100")
	errs = append(errs, err)
	errs = append(errs, m.DeleteBudget(ctx, 42, "Dining"))
	_, err = m.BudgetOverview(ctx, 42)
	errs = append(errs, err)
	_, err = m.Analyze(ctx, 42, time.Now().Add(-time.Hour), time.Now())
	errs = append(errs, err)

	for i, err := range errs {
		if !errors.Is(err, ErrNotRegistered) {
			t.Fatalf("command %d expected ErrNotRegistered, got %v", i, err)
		}
	}
}

func TestAddExpenseCreatesUnboundedBudget(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	report, err := m.AddExpense(ctx, 42, "12.50", "lunch at cafe")
	if err != nil {
		t.Fatalf("add expense failed: %v", err)
	}

	if report.Expense.Amount != 1250 {
		t.Fatalf("expected 1250 cents, got %d", report.Expense.Amount)
	}
	if report.Category != "Dining" {
		t.Fatalf("expected Dining, got %s", report.Category)
	}
	if !report.Cap.Unbounded {
		t.Fatal("first expense in a category must leave the budget unbounded")
	}
	if report.OverBudget() {
		t.Fatal("unbounded budget can not be over")
	}
	if len(store.budgets) != 1 || store.budgets[0].Cap != nil {
		t.Fatalf("expected one unbounded budget row, got %+v", store.budgets)
	}
}

func TestAddExpenseClassifierFailure(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{err: errors.New("model unavailable")})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := m.AddExpense(ctx, 42, "10", "lunch"); err == nil {
		t.Fatal("expected classifier error")
	}
	if len(store.expenses) != 0 || len(store.budgets) != 0 {
		t.Fatal("failed classification must not record anything")
	}
}

func TestAddExpenseValidation(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	cases := []struct{ amount, description string }{
		{"0", "lunch"},
		{"-5", "lunch"},
		{"1.234", "lunch"},
		{"abc", "lunch"},
		{"10", ""},
		{"10", "   "},
	}
	for _, tc := range cases {
		_, err := m.AddExpense(ctx, 42, tc.amount, tc.description)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("amount %q description %q expected ErrInvalidInput, got %v", tc.amount, tc.description, err)
		}
	}
	if len(store.expenses) != 0 {
		t.Fatal("invalid input must not record anything")
	}
}

func TestAddExpenseOverBudget(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := m.SetBudget(ctx, 42, "Dining", "10"); err != nil {
		t.Fatalf("set budget failed: %v", err)
	}

	report, err := m.AddExpense(ctx, 42, "6", "lunch")
	if err != nil {
		t.Fatalf("add expense failed: %v", err)
	}
	if report.OverBudget() {
		t.Fatal("6 of 10 is not over budget")
	}

	report, err = m.AddExpense(ctx, 42, "6", "dinner")
	if err != nil {
		t.Fatalf("add expense failed: %v", err)
	}
	if !report.OverBudget() {
		t.Fatal("12 of 10 is over budget")
	}
	if report.Spent != 1200 {
		t.Fatalf("expected 1200 cents spent, got %d", report.Spent)
	}
}

func TestBudgetOverviewScenario(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := m.SetBudget(ctx, 42, "Dining", "500"); err != nil {
		t.Fatalf("set budget failed: %v", err)
	}
	if _, err := m.AddExpense(ctx, 42, "100", "sushi"); err != nil {
		t.Fatalf("add expense failed: %v", err)
	}

	overview, err := m.BudgetOverview(ctx, 42)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if len(overview) != 1 {
		t.Fatalf("expected one budget, got %d", len(overview))
	}

	row := overview[0]
	line := FormatPercent(row.Percent()) + " (" + FormatAmount(row.Spent) + " / " + row.Cap.String() + ")"
	if line != "20.00% (100.0 / 500.0)" {
		t.Fatalf("unexpected budget line %q", line)
	}
}

func TestSetBudgetReplacesCap(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := m.SetBudget(ctx, 42, "Dining", "100"); err != nil {
		t.Fatalf("set budget failed: %v", err)
	}
	if _, err := m.SetBudget(ctx, 42, "Dining", "250.50"); err != nil {
		t.Fatalf("replace budget failed: %v", err)
	}

	if len(store.budgets) != 1 {
		t.Fatalf("expected one budget row, got %d", len(store.budgets))
	}
	if store.budgets[0].Cap == nil || *store.budgets[0].Cap != 25050 {
		t.Fatalf("expected cap 25050, got %v", store.budgets[0].Cap)
	}

	if _, err := m.SetBudget(ctx, 42, "Dining", "0"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero cap expected ErrInvalidInput, got %v", err)
	}
	if _, err := m.SetBudget(ctx, 42, "", "100"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty category expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := m.Register(ctx, 43, "bob"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	report, err := m.AddExpense(ctx, 42, "10", "lunch")
	if err != nil {
		t.Fatalf("add expense failed: %v", err)
	}

	// someone else's expense stays invisible
	if err := m.DeleteExpense(ctx, 43, report.Expense.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}
	if err := m.DeleteExpense(ctx, 42, 9999); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}

	if err := m.DeleteExpense(ctx, 42, report.Expense.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.expenses) != 0 {
		t.Fatal("expense must be removed")
	}

	// deleting an expense keeps the category budget
	if len(store.budgets) != 1 {
		t.Fatal("budget row must survive expense deletion")
	}
}

func TestDeleteBudget(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := m.DeleteBudget(ctx, 42, "Dining"); !errors.Is(err, ErrBudgetNotFound) {
		t.Fatalf("expected ErrBudgetNotFound, got %v", err)
	}

	if _, err := m.SetBudget(ctx, 42, "Dining", "100"); err != nil {
		t.Fatalf("set budget failed: %v", err)
	}
	if err := m.DeleteBudget(ctx, 42, "Dining"); err != nil {
		t.Fatalf("delete budget failed: %v", err)
	}

	overview, err := m.BudgetOverview(ctx, 42)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if len(overview) != 0 {
		t.Fatalf("expected no budgets, got %d", len(overview))
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	m := newTestManager(store, stubClassifier{category: "Dining"})

	if _, err := m.Register(ctx, 42, "alice"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	user, err := store.UserByChatID(ctx, 42)
	if err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}

	seed := []db.Expense{
		{UserID: user.ID, Category: "Groceries", Amount: 5000, SpentAt: from},                       // at lower bound
		{UserID: user.ID, Category: "Dining", Amount: 3000, SpentAt: from.AddDate(0, 0, 10)},
		{UserID: user.ID, Category: "Dining", Amount: 1000, SpentAt: to},                            // at upper bound
		{UserID: user.ID, Category: "Entertainment", Amount: 9000, SpentAt: to.Add(time.Second)},    // outside
		{UserID: user.ID, Category: "Entertainment", Amount: 9000, SpentAt: from.Add(-time.Second)}, // outside
	}
	for i := range seed {
		if _, err := store.CreateExpense(ctx, &seed[i]); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	a, err := m.Analyze(ctx, 42, from, to)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if a.Total != 9000 {
		t.Fatalf("expected total 9000, got %d", a.Total)
	}
	want := []CategoryTotal{
		{"Groceries", 5000},
		{"Dining", 4000},
	}
	if len(a.Categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(a.Categories))
	}
	for i, w := range want {
		if a.Categories[i] != w {
			t.Fatalf("position %d expected %+v, got %+v", i, w, a.Categories[i])
		}
	}

	if _, err := m.Analyze(ctx, 42, to, from); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("inverted range expected ErrInvalidInput, got %v", err)
	}
}
