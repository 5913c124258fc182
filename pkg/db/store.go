package db

import (
	"context"
	"time"

	"github.com/go-pg/pg/v10"
)

// Storage is the persistence boundary used by the tracker manager. All
// methods read or mutate one user's ledger; InTransaction scopes a group of
// calls to a single transaction which commits or rolls back as a whole.
type Storage interface {
	UserByChatID(ctx context.Context, chatID int64) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)

	ExpensesByUser(ctx context.Context, userID int) ([]Expense, error)
	ExpensesByRange(ctx context.Context, userID int, from, to time.Time) ([]Expense, error)
	ExpenseByID(ctx context.Context, id, userID int) (*Expense, error)
	CreateExpense(ctx context.Context, expense *Expense) (*Expense, error)
	DeleteExpense(ctx context.Context, id int) (bool, error)
	SumExpenses(ctx context.Context, userID int, category string) (int64, error)

	BudgetByCategory(ctx context.Context, userID int, category string) (*Budget, error)
	BudgetsByUser(ctx context.Context, userID int) ([]Budget, error)
	CreateBudget(ctx context.Context, budget *Budget) (*Budget, error)
	UpdateBudget(ctx context.Context, budget *Budget) (bool, error)
	DeleteBudget(ctx context.Context, id int) (bool, error)

	InTransaction(ctx context.Context, fn func(Storage) error) error
}

// Store implements Storage on top of CommonRepo.
type Store struct {
	db DB
	cr CommonRepo
}

func NewStore(dbc DB) *Store {
	return &Store{
		db: dbc,
		cr: NewCommonRepo(dbc),
	}
}

// InTransaction runs fn against a Store bound to a single transaction.
func (s *Store) InTransaction(ctx context.Context, fn func(Storage) error) error {
	return s.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return fn(&Store{db: s.db, cr: s.cr.WithTransaction(tx)})
	})
}

func (s *Store) UserByChatID(ctx context.Context, chatID int64) (*User, error) {
	return s.cr.OneUser(ctx, &UserSearch{ChatID: &chatID})
}

func (s *Store) CreateUser(ctx context.Context, user *User) (*User, error) {
	return s.cr.AddUser(ctx, user)
}

func (s *Store) ExpensesByUser(ctx context.Context, userID int) ([]Expense, error) {
	return s.cr.ExpensesByFilters(ctx, &ExpenseSearch{UserID: &userID}, PagerDefault)
}

func (s *Store) ExpensesByRange(ctx context.Context, userID int, from, to time.Time) ([]Expense, error) {
	return s.cr.ExpensesByFilters(ctx, &ExpenseSearch{
		UserID:      &userID,
		SpentAtFrom: &from,
		SpentAtTo:   &to,
	}, PagerDefault)
}

func (s *Store) ExpenseByID(ctx context.Context, id, userID int) (*Expense, error) {
	return s.cr.OneExpense(ctx, &ExpenseSearch{ID: &id, UserID: &userID})
}

func (s *Store) CreateExpense(ctx context.Context, expense *Expense) (*Expense, error) {
	return s.cr.AddExpense(ctx, expense)
}

func (s *Store) DeleteExpense(ctx context.Context, id int) (bool, error) {
	return s.cr.DeleteExpense(ctx, id)
}

func (s *Store) SumExpenses(ctx context.Context, userID int, category string) (int64, error) {
	return s.cr.SumExpenses(ctx, userID, category)
}

func (s *Store) BudgetByCategory(ctx context.Context, userID int, category string) (*Budget, error) {
	return s.cr.OneBudget(ctx, &BudgetSearch{UserID: &userID, Category: &category})
}

func (s *Store) BudgetsByUser(ctx context.Context, userID int) ([]Budget, error) {
	return s.cr.BudgetsByFilters(ctx, &BudgetSearch{UserID: &userID}, PagerDefault)
}

func (s *Store) CreateBudget(ctx context.Context, budget *Budget) (*Budget, error) {
	return s.cr.AddBudget(ctx, budget)
}

func (s *Store) UpdateBudget(ctx context.Context, budget *Budget) (bool, error) {
	return s.cr.UpdateBudget(ctx, budget)
}

func (s *Store) DeleteBudget(ctx context.Context, id int) (bool, error) {
	return s.cr.DeleteBudget(ctx, id)
}
