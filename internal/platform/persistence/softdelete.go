package persistence

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	includeDeletedKey    = "taskhive:include_deleted"
	softDeleteFilterName = "taskhive:soft_delete_filter"
)

// RegisterSoftDeleteFilter installs a query callback that excludes
// logically deleted rows from every query whose model carries an IsDeleted
// field. Administrative reads opt out via IncludeDeleted.
func RegisterSoftDeleteFilter(db *gorm.DB) error {
	return db.Callback().Query().Before("gorm:query").Register(softDeleteFilterName, filterSoftDeleted)
}

// IncludeDeleted disables the soft-delete filter for this statement only.
// This is the bypass path for restore and purge flows.
func IncludeDeleted(db *gorm.DB) *gorm.DB {
	return db.Set(includeDeletedKey, true)
}

func filterSoftDeleted(db *gorm.DB) {
	stmt := db.Statement
	if stmt == nil || stmt.Schema == nil || stmt.Unscoped {
		return
	}
	if _, ok := db.Get(includeDeletedKey); ok {
		return
	}
	field := stmt.Schema.LookUpField("IsDeleted")
	if field == nil || field.DBName == "" {
		return
	}
	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
			Value:  false,
		},
	}})
}
