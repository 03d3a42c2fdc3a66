package models

// ModelsToAutoMigrate returns the models in migration order.
func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&DocumentType{}, // Referenced by documents, must come first
		&Document{},
		&DocumentVersion{},
		&DocumentGroup{},
	}
}

// MigrationStatements returns raw schema statements for constraints model
// tags cannot express. The (owner_id, title) uniqueness rule is scoped to
// non-deleted rows, so it needs a partial unique index; it backstops the
// in-transaction check in CreateDocumentWithFile against concurrent
// creates that lock different DocumentType rows.
func MigrationStatements() []string {
	return []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_owner_title_live
			ON documents (owner_id, title) WHERE deleted_at IS NULL`,
	}
}
