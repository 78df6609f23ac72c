package database

import "context"

// Migrate applies the minimal schema. Statements are split per dialect
// because of the timestamp and float column types.
func (d *DB) Migrate(ctx context.Context) error {
	var stmts []string
	if d.IsPostgres() {
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS books (
				identifier TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				pages INTEGER NOT NULL,
				ingested_at TIMESTAMPTZ NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS special_items (
				identifier TEXT PRIMARY KEY,
				description TEXT NOT NULL,
				weight_kg DOUBLE PRECISION NOT NULL,
				dimensions TEXT NOT NULL DEFAULT '',
				ingested_at TIMESTAMPTZ NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS readers (
				identifier TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				address TEXT NOT NULL DEFAULT '',
				zone TEXT NOT NULL,
				status TEXT NOT NULL,
				registered_at TIMESTAMPTZ NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS librarians (
				identifier TEXT PRIMARY KEY,
				employee_number TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				registered_at TIMESTAMPTZ NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS loans (
				identifier TEXT PRIMARY KEY,
				reader_id TEXT NOT NULL REFERENCES readers(identifier),
				librarian_id TEXT NOT NULL REFERENCES librarians(identifier),
				material_id TEXT NOT NULL,
				material_kind TEXT NOT NULL,
				request_date TIMESTAMPTZ NOT NULL,
				return_date TIMESTAMPTZ NULL,
				status TEXT NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_loans_status ON loans(status);`,
			`CREATE INDEX IF NOT EXISTS idx_loans_material ON loans(material_id);`,
			`CREATE INDEX IF NOT EXISTS idx_books_ingested ON books(ingested_at);`,
			`CREATE INDEX IF NOT EXISTS idx_items_ingested ON special_items(ingested_at);`,
		}
	} else {
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS books (
				identifier TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				pages INTEGER NOT NULL,
				ingested_at TIMESTAMP NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS special_items (
				identifier TEXT PRIMARY KEY,
				description TEXT NOT NULL,
				weight_kg REAL NOT NULL,
				dimensions TEXT NOT NULL DEFAULT '',
				ingested_at TIMESTAMP NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS readers (
				identifier TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				address TEXT NOT NULL DEFAULT '',
				zone TEXT NOT NULL,
				status TEXT NOT NULL,
				registered_at TIMESTAMP NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS librarians (
				identifier TEXT PRIMARY KEY,
				employee_number TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				registered_at TIMESTAMP NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS loans (
				identifier TEXT PRIMARY KEY,
				reader_id TEXT NOT NULL,
				librarian_id TEXT NOT NULL,
				material_id TEXT NOT NULL,
				material_kind TEXT NOT NULL,
				request_date TIMESTAMP NOT NULL,
				return_date TIMESTAMP NULL,
				status TEXT NOT NULL,
				FOREIGN KEY(reader_id) REFERENCES readers(identifier),
				FOREIGN KEY(librarian_id) REFERENCES librarians(identifier)
			);`,
			`CREATE INDEX IF NOT EXISTS idx_loans_status ON loans(status);`,
			`CREATE INDEX IF NOT EXISTS idx_loans_material ON loans(material_id);`,
			`CREATE INDEX IF NOT EXISTS idx_books_ingested ON books(ingested_at);`,
			`CREATE INDEX IF NOT EXISTS idx_items_ingested ON special_items(ingested_at);`,
		}
	}

	for _, s := range stmts {
		if _, err := d.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
