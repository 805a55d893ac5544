package persistence

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withRowLock adds a FOR UPDATE clause on dialects that support row locks.
// SQLite rejects FOR UPDATE and serializes writers on the database lock.
func withRowLock(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
