package db

import (
	"context"
	"fmt"

	"github.com/go-pg/pg/v10/orm"
)

// OpFunc is a function that mutates a query before execution.
type OpFunc func(query *orm.Query)

// SortDirection is an ORDER BY direction.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortField is a single ORDER BY clause.
type SortField struct {
	Column    string
	Direction SortDirection
}

// Pager limits query results.
type Pager struct {
	Page     int
	PageSize int
}

var (
	// PagerDefault does not limit the result set.
	PagerDefault = Pager{}
	// PagerOne limits the result set to a single row.
	PagerOne = Pager{PageSize: 1}
	// PagerTwo is used by One* helpers to detect multiple matches.
	PagerTwo = Pager{PageSize: 2}
)

func (p Pager) Apply(query *orm.Query) *orm.Query {
	if p.PageSize > 0 {
		query = query.Limit(p.PageSize)
		if p.Page > 1 {
			query = query.Offset((p.Page - 1) * p.PageSize)
		}
	}
	return query
}

// WithSort returns an OpFunc that adds ORDER BY clauses.
func WithSort(fields ...SortField) OpFunc {
	return func(query *orm.Query) {
		for _, f := range fields {
			query.OrderExpr(fmt.Sprintf(`?TableAlias.%q %s`, f.Column, f.Direction))
		}
	}
}

// WithRelations returns an OpFunc that joins the named relations.
func WithRelations(relations ...string) OpFunc {
	return func(query *orm.Query) {
		for _, rel := range relations {
			query.Relation(rel)
		}
	}
}

func applyOps(query *orm.Query, ops ...OpFunc) {
	for _, op := range ops {
		op(query)
	}
}

// buildQuery assembles a model query from search conditions, pager and ops.
func buildQuery(ctx context.Context, db orm.DB, model interface{}, search searchApplier, pager Pager, ops ...OpFunc) *orm.Query {
	query := db.ModelContext(ctx, model)
	if search != nil {
		query = search.Apply(query)
	}
	query = pager.Apply(query)
	applyOps(query, ops...)

	return query
}
