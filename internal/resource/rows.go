package resource

import (
	"github.com/jackc/pgx/v5"
)

// CollectRows materializes a pgx result set into generic row maps keyed by
// column name. The dispatcher works over arbitrary configured resources, so
// rows are decoded dynamically rather than scanned into structs.
func CollectRows(rows pgx.Rows) ([]map[string]any, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := make([]map[string]any, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
