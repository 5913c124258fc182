package db

import "time"

// Columns contains column names for every table.
var Columns = struct {
	User struct {
		ID, ChatID, Name, CreatedAt string
	}
	Expense struct {
		ID, UserID, Category, Amount, SpentAt string

		User string
	}
	Budget struct {
		ID, UserID, Category, Cap string

		User string
	}
}{
	User: struct {
		ID, ChatID, Name, CreatedAt string
	}{
		ID:        "userId",
		ChatID:    "chatId",
		Name:      "name",
		CreatedAt: "createdAt",
	},
	Expense: struct {
		ID, UserID, Category, Amount, SpentAt string

		User string
	}{
		ID:       "expenseId",
		UserID:   "userId",
		Category: "category",
		Amount:   "amount",
		SpentAt:  "spentAt",

		User: "User",
	},
	Budget: struct {
		ID, UserID, Category, Cap string

		User string
	}{
		ID:       "budgetId",
		UserID:   "userId",
		Category: "category",
		Cap:      "cap",

		User: "User",
	},
}

// Tables contains table names and aliases.
var Tables = struct {
	User struct {
		Name, Alias string
	}
	Expense struct {
		Name, Alias string
	}
	Budget struct {
		Name, Alias string
	}
}{
	User: struct {
		Name, Alias string
	}{
		Name:  "users",
		Alias: "t",
	},
	Expense: struct {
		Name, Alias string
	}{
		Name:  "expenses",
		Alias: "t",
	},
	Budget: struct {
		Name, Alias string
	}{
		Name:  "budgets",
		Alias: "t",
	},
}

// User is a registered bot user keyed by the Telegram chat id.
type User struct {
	tableName struct{} `pg:"users,alias:t,discard_unknown_columns"`

	ID        int       `pg:"userId,pk"`
	ChatID    int64     `pg:"chatId,use_zero"`
	Name      string    `pg:"name,use_zero"`
	CreatedAt time.Time `pg:"createdAt"`
}

// Expense is a single recorded spend. Amount is stored in cents.
type Expense struct {
	tableName struct{} `pg:"expenses,alias:t,discard_unknown_columns"`

	ID       int       `pg:"expenseId,pk"`
	UserID   int       `pg:"userId,use_zero"`
	Category string    `pg:"category,use_zero"`
	Amount   int64     `pg:"amount,use_zero"`
	SpentAt  time.Time `pg:"spentAt,use_zero"`

	User *User `pg:"fk:userId,rel:has-one"`
}

// Budget is a per-category spending cap in cents. A NULL cap means the
// budget is unbounded.
type Budget struct {
	tableName struct{} `pg:"budgets,alias:t,discard_unknown_columns"`

	ID       int    `pg:"budgetId,pk"`
	UserID   int    `pg:"userId,use_zero"`
	Category string `pg:"category,use_zero"`
	Cap      *int64 `pg:"cap"`

	User *User `pg:"fk:userId,rel:has-one"`
}
