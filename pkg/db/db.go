package db

import (
	"github.com/go-pg/pg/v10"
)

// DB wraps the go-pg connection pool.
type DB struct {
	*pg.DB
}

// New creates a DB over an established go-pg connection.
func New(db *pg.DB) DB {
	return DB{DB: db}
}
