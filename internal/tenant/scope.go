// Package tenant scopes queries to one company. Every company-owned table
// carries a company_id column.
package tenant

import "gorm.io/gorm"

// Scope restricts the query's main table to companyID.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// ScopeTable qualifies the column, for queries that join several
// company-owned tables.
func ScopeTable(table, companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".company_id = ?", companyID)
	}
}

// Optional is Scope, except an empty companyID leaves the query unscoped.
// Only maintenance jobs that sweep every company should use it.
func Optional(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if companyID == "" {
			return db
		}
		return db.Where("company_id = ?", companyID)
	}
}
