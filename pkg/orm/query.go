// Package orm is a small chainable layer over gorm that records query
// latency and offers pagination and read-through caching.
package orm

import (
	"context"
	"time"

	"github.com/shashiranjanraj/liftstore/pkg/cache"
	"github.com/shashiranjanraj/liftstore/pkg/database"
	"github.com/shashiranjanraj/liftstore/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Query struct {
	db *gorm.DB
}

// DB starts a query on the process-wide connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Use starts a query on an explicit handle, typically a transaction.
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(query, args...)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Select(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Select(query, args...)}
}

func (q *Query) Omit(columns ...string) *Query {
	return &Query{db: q.db.Omit(columns...)}
}

func (q *Query) Clauses(conds ...clause.Expression) *Query {
	return &Query{db: q.db.Clauses(conds...)}
}

// Gorm exposes the underlying handle for clauses the wrapper does not cover.
func (q *Query) Gorm() *gorm.DB {
	return q.db
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

func (q *Query) Count(total *int64) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Count(total).Error
}

func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

// CreateInBatches inserts a slice size rows per statement, keeping each
// INSERT under the drivers' bind-variable limits.
func (q *Query) CreateInBatches(v interface{}, size int) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.CreateInBatches(v, size).Error
}

// CreateOrIgnore inserts v unless a row with the same values in the given
// unique columns already exists. Associations are not written. created is
// false when the insert was skipped.
func (q *Query) CreateOrIgnore(v interface{}, columns ...string) (created bool, err error) {
	defer metrics.ObserveDBQuery("insert", time.Now())
	cols := make([]clause.Column, len(columns))
	for i, c := range columns {
		cols[i] = clause.Column{Name: c}
	}
	res := q.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).
		Create(v)
	return res.RowsAffected > 0, res.Error
}

func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Updates applies a column map and returns the number of rows touched.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

func (q *Query) Delete(v interface{}, conds ...interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(v, conds...)
	return res.RowsAffected, res.Error
}

// Transaction runs fn inside a database transaction.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// Cache reads dest from Redis or falls back to Find and stores the result.
func (q *Query) Cache(ctx context.Context, key string, ttl time.Duration, dest interface{}) error {
	return cache.Remember(ctx, key, ttl, dest, func() error {
		return q.Get(dest)
	})
}
