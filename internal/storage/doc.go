// Package storage keeps downloaded bang databases in SQLite so the launcher
// can build its catalog without touching the network.
//
// # Database Schema
//
// Tables:
//   - sources: one row per named database (URL, content hash, fetch time)
//   - bangs: the records of each source, in document order
//   - schema_version: applied migrations
//
// Migrations are versioned with semantic versions and applied on open.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	src := &storage.Source{Name: "duckduckgo", URL: url, FetchedAt: time.Now()}
//	if err := store.ImportSource(ctx, src, bangs); err != nil {
//	    return err
//	}
//
//	bangs, err := store.ListBangs(ctx, "duckduckgo")
//
// # Transactions
//
// ImportSource wraps UpsertSource and ReplaceBangs in one transaction. The
// same methods are available on Tx for callers that need more control:
//
//	tx, err := store.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	if err := tx.UpsertSource(ctx, src); err != nil {
//	    return err
//	}
//	if _, err := tx.ReplaceBangs(ctx, src.ID, bangs); err != nil {
//	    return err
//	}
//	return tx.Commit()
//
// # Build Modes
//
// The default build uses modernc.org/sqlite and needs no C toolchain.
// Building with the sqlite_vec tag switches to github.com/mattn/go-sqlite3.
package storage
