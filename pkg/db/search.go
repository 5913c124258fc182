package db

import (
	"time"

	"github.com/go-pg/pg/v10/orm"
)

// searchApplier narrows a query with per-table filter conditions.
type searchApplier interface {
	Apply(query *orm.Query) *orm.Query
}

// UserSearch is a filter for users.
type UserSearch struct {
	ID     *int
	ChatID *int64
}

func (s *UserSearch) Apply(query *orm.Query) *orm.Query {
	if s == nil {
		return query
	}
	if s.ID != nil {
		query = query.Where(`?TableAlias."userId" = ?`, *s.ID)
	}
	if s.ChatID != nil {
		query = query.Where(`?TableAlias."chatId" = ?`, *s.ChatID)
	}
	return query
}

// ExpenseSearch is a filter for expenses. SpentAtFrom/SpentAtTo bound the
// spend timestamp inclusively on both ends.
type ExpenseSearch struct {
	ID          *int
	UserID      *int
	Category    *string
	SpentAtFrom *time.Time
	SpentAtTo   *time.Time
}

func (s *ExpenseSearch) Apply(query *orm.Query) *orm.Query {
	if s == nil {
		return query
	}
	if s.ID != nil {
		query = query.Where(`?TableAlias."expenseId" = ?`, *s.ID)
	}
	if s.UserID != nil {
		query = query.Where(`?TableAlias."userId" = ?`, *s.UserID)
	}
	if s.Category != nil {
		query = query.Where(`?TableAlias."category" = ?`, *s.Category)
	}
	if s.SpentAtFrom != nil {
		query = query.Where(`?TableAlias."spentAt" >= ?`, *s.SpentAtFrom)
	}
	if s.SpentAtTo != nil {
		query = query.Where(`?TableAlias."spentAt" <= ?`, *s.SpentAtTo)
	}
	return query
}

// BudgetSearch is a filter for budgets.
type BudgetSearch struct {
	ID       *int
	UserID   *int
	Category *string
}

func (s *BudgetSearch) Apply(query *orm.Query) *orm.Query {
	if s == nil {
		return query
	}
	if s.ID != nil {
		query = query.Where(`?TableAlias."budgetId" = ?`, *s.ID)
	}
	if s.UserID != nil {
		query = query.Where(`?TableAlias."userId" = ?`, *s.UserID)
	}
	if s.Category != nil {
		query = query.Where(`?TableAlias."category" = ?`, *s.Category)
	}
	return query
}
