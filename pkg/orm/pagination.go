package orm

import (
	"strconv"
	"time"

	"github.com/shashiranjanraj/liftstore/pkg/metrics"
)

type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// PageParams parses page/limit query values, clamping to sane bounds.
func PageParams(page, limit string) (int, int) {
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		p = 1
	}
	l, err := strconv.Atoi(limit)
	if err != nil || l < 1 {
		l = DefaultLimit
	}
	if l > MaxLimit {
		l = MaxLimit
	}
	return p, l
}

// Paginate counts the filtered rows then loads one page into dest.
// The query must already carry a Model so Count knows the table.
func (q *Query) Paginate(page, limit int, dest interface{}) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	var total int64
	if err := q.Count(&total); err != nil {
		return Pagination{}, err
	}

	start := time.Now()
	err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	metrics.ObserveDBQuery("select", start)
	if err != nil {
		return Pagination{}, err
	}

	last := int((total + int64(limit) - 1) / int64(limit))
	if last < 1 {
		last = 1
	}
	return Pagination{Page: page, Limit: limit, Total: total, LastPage: last}, nil
}
