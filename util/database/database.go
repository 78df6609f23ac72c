package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DB bundles the sqlx handle with the goqu dialect matching its driver, so
// repositories build SQL once and run it against postgres or sqlite alike.
type DB struct {
	*sqlx.DB
	Builder goqu.DialectWrapper
	driver  string
}

// New opens a postgres connection through the pgx stdlib driver.
func New(ctx context.Context, dsn string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, Builder: goqu.Dialect("postgres"), driver: "pgx"}, nil
}

// NewSQLite opens an embedded sqlite database. Tests use ":memory:".
func NewSQLite(ctx context.Context, dsn string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, Builder: goqu.Dialect("sqlite3"), driver: "sqlite3"}, nil
}

func (d *DB) IsPostgres() bool { return d.driver == "pgx" }

// MaxIdentifierNumber returns the highest numeric suffix among identifiers of
// the form <prefix><digits> in a table, 0 when none exist. SUBSTR and CAST
// behave the same on postgres and sqlite for this shape.
func (d *DB) MaxIdentifierNumber(ctx context.Context, table, prefix string) (int, error) {
	q, args, err := d.Builder.From(table).
		Select(goqu.L("COALESCE(MAX(CAST(SUBSTR(identifier, ?) AS INTEGER)), 0)", len(prefix)+1)).
		Where(goqu.C("identifier").Like(prefix + "%")).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int
	if err := d.GetContext(ctx, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}
