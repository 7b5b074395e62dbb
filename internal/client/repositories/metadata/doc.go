// Package metadata provides the client-side key/value store backing the
// session token.
//
// A SQLite implementation (SQLiteRepository) persists rows in the "metadata"
// table created by the embedded migrations (see internal/client/migrations)
// and works over a dbx.DBTX (*sql.DB or *sql.Tx).
//
//	repo := metadata.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, common.TokenStorageKey, token)
//	tok, _ := repo.Get(ctx, common.TokenStorageKey) // "" when absent
package metadata
