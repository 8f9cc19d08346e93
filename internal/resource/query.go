package resource

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"notielf/internal/domain"
)

const defaultPageSize = 20

// Query carries the mutable state hooks operate on before a statement is
// built: the equality where-map plus ordering and pagination.
type Query struct {
	Where    map[string]any
	OrderBy  string
	Desc     bool
	Limit    int
	Offset   int
}

// NewQuery returns an empty query ready for hook mutation.
func NewQuery() *Query {
	return &Query{Where: make(map[string]any)}
}

// ApplyListOptions derives ordering and pagination from request query
// parameters. The order column must be one of the resource's select fields;
// any other identifier is refused, so user input can never name an
// identifier. Direction is ASC unless the parameter is exactly DESC.
func (q *Query) ApplyListOptions(res *Resource, values url.Values) error {
	page := intParam(values, "page", 1)
	pageSize := intParam(values, "pageSize", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize

	if order := values.Get("order"); order != "" {
		if !res.selectable[order] {
			return &domain.ValidationError{Message: fmt.Sprintf("cannot order by %q", order)}
		}
		q.OrderBy = order
		q.Desc = strings.ToUpper(values.Get("orderDirection")) == "DESC"
	}

	return nil
}

func intParam(values url.Values, key string, def int) int {
	raw := values.Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// BuildSelect produces a parameterized SELECT for the resource. Every where
// entry and the optional row id become positional bound parameters; the only
// identifiers in the statement come from the server-side config.
func BuildSelect(res *Resource, q *Query, id int64) (string, []any, error) {
	if len(res.Select.Fields) == 0 {
		return "", nil, &domain.ConfigError{Message: fmt.Sprintf("select operation not allowed on %s", res.name)}
	}

	var sb strings.Builder
	var args []any

	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE 1=1", strings.Join(res.Select.Fields, ", "), res.table)

	for _, key := range sortedKeys(q.Where) {
		args = append(args, q.Where[key])
		fmt.Fprintf(&sb, " AND %s = $%d", key, len(args))
	}

	if id != 0 {
		args = append(args, id)
		fmt.Fprintf(&sb, " AND %s = $%d", res.Key, len(args))
	}

	if q.OrderBy != "" {
		direction := "ASC"
		if q.Desc {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", q.OrderBy, direction)
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", q.Limit, q.Offset)
	}

	return sb.String(), args, nil
}

// BuildInsert produces a parameterized INSERT for the already-whitelisted
// payload, returning the created row's select fields.
func BuildInsert(res *Resource, payload map[string]any) (string, []any, error) {
	if len(payload) == 0 {
		return "", nil, &domain.ValidationError{Message: "no fields to insert"}
	}

	cols := sortedKeys(payload)
	args := make([]any, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	for i, col := range cols {
		args = append(args, payload[col])
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		res.table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		returningClause(res),
	)

	return query, args, nil
}

// BuildUpdate produces a parameterized UPDATE by id, additionally
// constrained by the hook-injected where-map so scoping applies to
// mutations exactly as it does to reads.
func BuildUpdate(res *Resource, payload map[string]any, q *Query, id int64) (string, []any, error) {
	if len(payload) == 0 {
		return "", nil, &domain.ValidationError{Message: "no updatable fields in payload"}
	}

	var sb strings.Builder
	var args []any

	fmt.Fprintf(&sb, "UPDATE %s SET", res.table)
	for i, col := range sortedKeys(payload) {
		if i > 0 {
			sb.WriteString(",")
		}
		args = append(args, payload[col])
		fmt.Fprintf(&sb, " %s = $%d", col, len(args))
	}

	args = append(args, id)
	fmt.Fprintf(&sb, " WHERE %s = $%d", res.Key, len(args))

	for _, key := range sortedKeys(q.Where) {
		args = append(args, q.Where[key])
		fmt.Fprintf(&sb, " AND %s = $%d", key, len(args))
	}

	fmt.Fprintf(&sb, " RETURNING %s", returningClause(res))

	return sb.String(), args, nil
}

// BuildDelete produces a parameterized DELETE by id, constrained by the
// hook-injected where-map.
func BuildDelete(res *Resource, q *Query, id int64) (string, []any, error) {
	if !res.Delete {
		return "", nil, &domain.ConfigError{Message: fmt.Sprintf("delete operation not allowed on %s", res.name)}
	}

	var sb strings.Builder
	var args []any

	args = append(args, id)
	fmt.Fprintf(&sb, "DELETE FROM %s WHERE %s = $1", res.table, res.Key)

	for _, key := range sortedKeys(q.Where) {
		args = append(args, q.Where[key])
		fmt.Fprintf(&sb, " AND %s = $%d", key, len(args))
	}

	return sb.String(), args, nil
}

// returningClause lists the resource's readable fields, falling back to the
// whole row for resources without a select surface.
func returningClause(res *Resource) string {
	if len(res.Select.Fields) > 0 {
		return strings.Join(res.Select.Fields, ", ")
	}
	return "*"
}

// sortedKeys keeps generated SQL deterministic for a given input.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
