package results

import "database/sql"

// StoreDB exposes the store's handle to external tests.
func StoreDB(s *SQLiteStore) *sql.DB {
	return s.db
}
