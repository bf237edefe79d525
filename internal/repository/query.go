package repository

import (
	"fmt"
	"strings"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

// listQuery assembles filtered, searched, sorted and paged SELECTs.
// Conditions use %s where the positional placeholder goes.
type listQuery struct {
	from         string
	where        []string
	args         []interface{}
	sortColumns  map[string][]string
	defaultOrder string
	page         models.PaginationRequest
}

func newListQuery(from string, page models.PaginationRequest) *listQuery {
	return &listQuery{
		from: from,
		page: page.Normalize(),
	}
}

func (q *listQuery) placeholder(arg interface{}) string {
	q.args = append(q.args, arg)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *listQuery) Where(cond string, arg interface{}) *listQuery {
	q.where = append(q.where, fmt.Sprintf(cond, q.placeholder(arg)))
	return q
}

func (q *listQuery) WhereRaw(cond string) *listQuery {
	q.where = append(q.where, cond)
	return q
}

// Search matches the request's search term case-insensitively against columns.
func (q *listQuery) Search(columns ...string) *listQuery {
	term := strings.TrimSpace(q.page.Search)
	if term == "" || len(columns) == 0 {
		return q
	}

	ph := q.placeholder("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", col, ph)
	}
	q.where = append(q.where, "("+strings.Join(parts, " OR ")+")")
	return q
}

// Sort whitelists sort keys; unknown or empty keys fall back to defaultOrder.
func (q *listQuery) Sort(columns map[string][]string, defaultOrder string) *listQuery {
	q.sortColumns = columns
	q.defaultOrder = defaultOrder
	return q
}

func (q *listQuery) orderBy() string {
	cols, ok := q.sortColumns[strings.ToLower(strings.TrimSpace(q.page.SortBy))]
	if !ok {
		return q.defaultOrder
	}

	dir := "ASC"
	if q.page.SortDescending {
		dir = "DESC"
	}

	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + " " + dir
	}
	return strings.Join(parts, ", ")
}

func (q *listQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

func (q *listQuery) CountSQL() (string, []interface{}) {
	return "SELECT COUNT(*) FROM " + q.from + q.whereClause(), append([]interface{}(nil), q.args...)
}

func (q *listQuery) SelectSQL(columns string) (string, []interface{}) {
	args := append([]interface{}(nil), q.args...)
	args = append(args, q.page.PageSize, q.page.Offset())

	query := fmt.Sprintf("SELECT %s FROM %s%s", columns, q.from, q.whereClause())
	if order := q.orderBy(); order != "" {
		query += " ORDER BY " + order
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return query, args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
