package db

import "gorm.io/gorm"

// LockClause returns the row-lock suffix for raw SELECT statements.
// SQLite has no SELECT ... FOR UPDATE; its writers are serialized at the
// connection level, so the clause is dropped there.
func LockClause(tx *gorm.DB) string {
	if tx == nil || tx.Dialector == nil {
		return ""
	}
	if tx.Dialector.Name() == "sqlite" {
		return ""
	}
	return " FOR UPDATE"
}
