// Package dbutil holds scanning helpers shared by the sql dialects.
package dbutil

import "database/sql"

// NullToEmpty returns "" for a NULL column
func NullToEmpty(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
