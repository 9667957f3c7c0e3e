// internal/gateway/rest.go
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Query is a request builder for the row API. Filters become PostgREST
// query parameters (col=eq.value, col=gte.value); the zero builder reads
// every row the caller's token may see.
//
//	var stats models.Stats
//	err := client.From("user_stats").
//		Auth(token).
//		Select("*").
//		Eq("user_id", userID).
//		Single().
//		Get(ctx, &stats)
type Query struct {
	c      *Client
	table  string
	token  string
	params url.Values
	single bool
}

// From starts a query against a table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Auth sets the access token rows are read or written as. Row-level
// security on the backend scopes results to this user.
func (q *Query) Auth(token string) *Query {
	q.token = token
	return q
}

// Select sets the column projection, including embedded joins such as
// "*, courses(course_name, language, level)".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, "eq."+encodeValue(value))
	return q
}

// Gte adds a greater-than-or-equal filter.
func (q *Query) Gte(column string, value any) *Query {
	q.params.Add(column, "gte."+encodeValue(value))
	return q
}

// Order sorts results by a column.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

// Limit caps the number of rows returned.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single requests exactly one row. The read decodes into a struct
// instead of a slice, and a miss is a CodeNoRows APIError.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Get executes the read and decodes the result into dst: a slice for
// list reads, a struct when Single was set.
func (q *Query) Get(ctx context.Context, dst any) error {
	headers := map[string]string{}
	if q.single {
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	return q.c.do(ctx, "GET", q.url(), q.token, headers, nil, dst)
}

// Insert writes new rows. rows may be a struct or a slice of structs.
// A duplicate key surfaces as a CodeUniqueViolation APIError.
func (q *Query) Insert(ctx context.Context, rows any) error {
	headers := map[string]string{"Prefer": "return=minimal"}
	return q.c.do(ctx, "POST", q.url(), q.token, headers, rows, nil)
}

// Upsert writes rows, merging into the existing row when the onConflict
// column(s) already hold the same value.
func (q *Query) Upsert(ctx context.Context, onConflict string, rows any) error {
	q.params.Set("on_conflict", onConflict)
	headers := map[string]string{"Prefer": "resolution=merge-duplicates,return=minimal"}
	return q.c.do(ctx, "POST", q.url(), q.token, headers, rows, nil)
}

func (q *Query) url() string {
	u := q.c.baseURL + "/rest/v1/" + q.table
	if enc := q.params.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// encodeValue renders a filter operand the way the row API expects.
// Times go out as UTC RFC3339 so date comparisons are unambiguous.
func encodeValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(v)
	}
}
