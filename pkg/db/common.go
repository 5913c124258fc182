package db

import (
	"context"
	"errors"
	"io"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

type CommonRepo struct {
	db   orm.DB
	sort map[string][]SortField
	join map[string][]string
}

// NewCommonRepo returns new repository
func NewCommonRepo(db orm.DB) CommonRepo {
	return CommonRepo{
		db: db,
		sort: map[string][]SortField{
			Tables.User.Name: {{Column: Columns.User.CreatedAt, Direction: SortAsc}},
			Tables.Expense.Name: {
				{Column: Columns.Expense.SpentAt, Direction: SortAsc},
				{Column: Columns.Expense.ID, Direction: SortAsc},
			},
			Tables.Budget.Name: {{Column: Columns.Budget.Category, Direction: SortAsc}},
		},
		join: map[string][]string{
			Tables.Expense.Name: {Columns.Expense.User},
			Tables.Budget.Name:  {Columns.Budget.User},
		},
	}
}

// WithTransaction is a function that wraps CommonRepo with pg.Tx transaction.
func (cr CommonRepo) WithTransaction(tx *pg.Tx) CommonRepo {
	cr.db = tx
	return cr
}

/*** User ***/

// UserByID is a function that returns User by ID(s) or nil.
func (cr CommonRepo) UserByID(ctx context.Context, id int, ops ...OpFunc) (*User, error) {
	return cr.OneUser(ctx, &UserSearch{ID: &id}, ops...)
}

// OneUser is a function that returns one User by filters. It could return pg.ErrMultiRows.
func (cr CommonRepo) OneUser(ctx context.Context, search *UserSearch, ops ...OpFunc) (*User, error) {
	obj := &User{}
	err := buildQuery(ctx, cr.db, obj, search, PagerTwo, ops...).Select()

	if errors.Is(err, pg.ErrMultiRows) {
		return nil, err
	} else if errors.Is(err, pg.ErrNoRows) || errors.Is(err, io.EOF) {
		return nil, nil
	}

	return obj, err
}

// UsersByFilters returns User list.
func (cr CommonRepo) UsersByFilters(ctx context.Context, search *UserSearch, pager Pager, ops ...OpFunc) (users []User, err error) {
	if len(ops) == 0 {
		ops = append(ops, cr.DefaultUserSort())
	}
	err = buildQuery(ctx, cr.db, &users, search, pager, ops...).Select()
	return
}

// CountUsers returns count
func (cr CommonRepo) CountUsers(ctx context.Context, search *UserSearch, ops ...OpFunc) (int, error) {
	return buildQuery(ctx, cr.db, &User{}, search, PagerOne, ops...).Count()
}

// AddUser adds User to DB.
func (cr CommonRepo) AddUser(ctx context.Context, user *User, ops ...OpFunc) (*User, error) {
	q := cr.db.ModelContext(ctx, user)
	if len(ops) == 0 {
		q = q.ExcludeColumn(Columns.User.CreatedAt)
	}
	applyOps(q, ops...)
	_, err := q.Returning("*").Insert()

	return user, err
}

// DefaultUserSort returns default sort.
func (cr CommonRepo) DefaultUserSort() OpFunc {
	return WithSort(cr.sort[Tables.User.Name]...)
}

/*** Expense ***/

// FullExpense loads the expense owner relation.
func (cr CommonRepo) FullExpense() OpFunc {
	return WithRelations(cr.join[Tables.Expense.Name]...)
}

// DefaultExpenseSort returns default sort: oldest spend first.
func (cr CommonRepo) DefaultExpenseSort() OpFunc {
	return WithSort(cr.sort[Tables.Expense.Name]...)
}

// ExpenseByID is a function that returns Expense by ID(s) or nil.
func (cr CommonRepo) ExpenseByID(ctx context.Context, id int, ops ...OpFunc) (*Expense, error) {
	return cr.OneExpense(ctx, &ExpenseSearch{ID: &id}, ops...)
}

// OneExpense is a function that returns one Expense by filters. It could return pg.ErrMultiRows.
func (cr CommonRepo) OneExpense(ctx context.Context, search *ExpenseSearch, ops ...OpFunc) (*Expense, error) {
	obj := &Expense{}
	err := buildQuery(ctx, cr.db, obj, search, PagerTwo, ops...).Select()

	if errors.Is(err, pg.ErrMultiRows) {
		return nil, err
	} else if errors.Is(err, pg.ErrNoRows) || errors.Is(err, io.EOF) {
		return nil, nil
	}

	return obj, err
}

// ExpensesByFilters returns Expense list.
func (cr CommonRepo) ExpensesByFilters(ctx context.Context, search *ExpenseSearch, pager Pager, ops ...OpFunc) (expenses []Expense, err error) {
	if len(ops) == 0 {
		ops = append(ops, cr.DefaultExpenseSort())
	}
	err = buildQuery(ctx, cr.db, &expenses, search, pager, ops...).Select()
	return
}

// CountExpenses returns count
func (cr CommonRepo) CountExpenses(ctx context.Context, search *ExpenseSearch, ops ...OpFunc) (int, error) {
	return buildQuery(ctx, cr.db, &Expense{}, search, PagerOne, ops...).Count()
}

// AddExpense adds Expense to DB.
func (cr CommonRepo) AddExpense(ctx context.Context, expense *Expense, ops ...OpFunc) (*Expense, error) {
	q := cr.db.ModelContext(ctx, expense)
	applyOps(q, ops...)
	_, err := q.Returning("*").Insert()

	return expense, err
}

// DeleteExpense removes the row physically.
func (cr CommonRepo) DeleteExpense(ctx context.Context, id int) (deleted bool, err error) {
	res, err := cr.db.ModelContext(ctx, &Expense{ID: id}).WherePK().Delete()
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

// SumExpenses returns the cumulative spend in cents for a user's category.
func (cr CommonRepo) SumExpenses(ctx context.Context, userID int, category string) (int64, error) {
	var total int64
	err := cr.db.ModelContext(ctx, (*Expense)(nil)).
		ColumnExpr(`COALESCE(SUM(?TableAlias."amount"), 0)`).
		Where(`?TableAlias."userId" = ?`, userID).
		Where(`?TableAlias."category" = ?`, category).
		Select(&total)

	return total, err
}

/*** Budget ***/

// FullBudget loads the budget owner relation.
func (cr CommonRepo) FullBudget() OpFunc {
	return WithRelations(cr.join[Tables.Budget.Name]...)
}

// DefaultBudgetSort returns default sort: category ascending.
func (cr CommonRepo) DefaultBudgetSort() OpFunc {
	return WithSort(cr.sort[Tables.Budget.Name]...)
}

// BudgetByID is a function that returns Budget by ID(s) or nil.
func (cr CommonRepo) BudgetByID(ctx context.Context, id int, ops ...OpFunc) (*Budget, error) {
	return cr.OneBudget(ctx, &BudgetSearch{ID: &id}, ops...)
}

// OneBudget is a function that returns one Budget by filters. It could return pg.ErrMultiRows.
func (cr CommonRepo) OneBudget(ctx context.Context, search *BudgetSearch, ops ...OpFunc) (*Budget, error) {
	obj := &Budget{}
	err := buildQuery(ctx, cr.db, obj, search, PagerTwo, ops...).Select()

	if errors.Is(err, pg.ErrMultiRows) {
		return nil, err
	} else if errors.Is(err, pg.ErrNoRows) || errors.Is(err, io.EOF) {
		return nil, nil
	}

	return obj, err
}

// BudgetsByFilters returns Budget list.
func (cr CommonRepo) BudgetsByFilters(ctx context.Context, search *BudgetSearch, pager Pager, ops ...OpFunc) (budgets []Budget, err error) {
	if len(ops) == 0 {
		ops = append(ops, cr.DefaultBudgetSort())
	}
	err = buildQuery(ctx, cr.db, &budgets, search, pager, ops...).Select()
	return
}

// AddBudget adds Budget to DB.
func (cr CommonRepo) AddBudget(ctx context.Context, budget *Budget, ops ...OpFunc) (*Budget, error) {
	q := cr.db.ModelContext(ctx, budget)
	applyOps(q, ops...)
	_, err := q.Returning("*").Insert()

	return budget, err
}

// UpdateBudget updates Budget in DB.
func (cr CommonRepo) UpdateBudget(ctx context.Context, budget *Budget, ops ...OpFunc) (bool, error) {
	q := cr.db.ModelContext(ctx, budget).WherePK()
	applyOps(q, ops...)
	res, err := q.Update()
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, err
}

// DeleteBudget removes the row physically.
func (cr CommonRepo) DeleteBudget(ctx context.Context, id int) (deleted bool, err error) {
	res, err := cr.db.ModelContext(ctx, &Budget{ID: id}).WherePK().Delete()
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}
