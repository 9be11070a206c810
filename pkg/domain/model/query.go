package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// MonthLayout is the YYYY-MM form accepted for the target month.
const MonthLayout = "2006-01"

const monthSuffixLayout = "200601"

// SearchQuery is the month + keyword pair submitted to the catalog search box.
type SearchQuery struct {
	Month   string `json:"month"` // YYYY-MM
	Keyword string `json:"keyword"`
}

// NewSearchQuery validates month and builds the query.
func NewSearchQuery(month, keyword string) (*SearchQuery, error) {
	q := &SearchQuery{
		Month:   month,
		Keyword: keyword,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// CurrentMonth formats now as YYYY-MM.
func CurrentMonth(now time.Time) string {
	return now.Format(MonthLayout)
}

// Validate checks that Month is a YYYY-MM month.
func (q *SearchQuery) Validate() error {
	if _, err := time.Parse(MonthLayout, q.Month); err != nil {
		return goerr.Wrap(err, "month must be in YYYY-MM format", goerr.V("month", q.Month))
	}
	return nil
}

// Text is the exact string typed into the search box: "<month> <keyword>".
func (q *SearchQuery) Text() string {
	return q.Month + " " + q.Keyword
}

// MonthSuffix is the month stamped into the output file name (YYYYMM). It is
// empty when Month is not valid.
func (q *SearchQuery) MonthSuffix() string {
	t, err := time.Parse(MonthLayout, q.Month)
	if err != nil {
		return ""
	}
	return t.Format(monthSuffixLayout)
}
