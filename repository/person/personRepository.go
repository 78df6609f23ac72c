// repository/person/repo.go
package person

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
)

type Repo interface {
	// Readers
	InsertReader(ctx context.Context, tx *sqlx.Tx, r model.Reader) error
	ReaderByID(ctx context.Context, id string) (*model.Reader, error)
	ListReaders(ctx context.Context) ([]model.Reader, error)
	UpdateReader(ctx context.Context, tx *sqlx.Tx, r model.Reader) (int64, error)
	DeleteReader(ctx context.Context, tx *sqlx.Tx, id string) (int64, error)
	MaxReaderNumber(ctx context.Context) (int, error)

	// Librarians
	InsertLibrarian(ctx context.Context, tx *sqlx.Tx, l model.Librarian) error
	LibrarianByID(ctx context.Context, id string) (*model.Librarian, error)
	LibrarianByEmail(ctx context.Context, email string) (*model.Librarian, error)
	ListLibrarians(ctx context.Context) ([]model.Librarian, error)
	MaxLibrarianNumber(ctx context.Context) (int, error)
	MaxEmployeeNumber(ctx context.Context) (int, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

// Readers

func (r *repo) InsertReader(ctx context.Context, tx *sqlx.Tx, rd model.Reader) error {
	q, args, err := r.db.Builder.Insert("readers").Rows(goqu.Record{
		"identifier":    rd.Identifier,
		"name":          rd.Name,
		"email":         rd.Email,
		"address":       rd.Address,
		"zone":          string(rd.Zone),
		"status":        string(rd.Status),
		"registered_at": rd.RegisteredAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

func (r *repo) ReaderByID(ctx context.Context, id string) (*model.Reader, error) {
	q, args, err := r.db.Builder.From("readers").
		Where(goqu.C("identifier").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var rd model.Reader
	if err := r.db.GetContext(ctx, &rd, q, args...); err != nil {
		return nil, err
	}
	return &rd, nil
}

func (r *repo) ListReaders(ctx context.Context) ([]model.Reader, error) {
	q, args, err := r.db.Builder.From("readers").
		Order(goqu.C("registered_at").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.Reader{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) UpdateReader(ctx context.Context, tx *sqlx.Tx, rd model.Reader) (int64, error) {
	q, args, err := r.db.Builder.Update("readers").Set(goqu.Record{
		"name":    rd.Name,
		"email":   rd.Email,
		"address": rd.Address,
		"zone":    string(rd.Zone),
		"status":  string(rd.Status),
	}).Where(goqu.C("identifier").Eq(rd.Identifier)).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) DeleteReader(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	q, args, err := r.db.Builder.Delete("readers").
		Where(goqu.C("identifier").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) MaxReaderNumber(ctx context.Context) (int, error) {
	return r.db.MaxIdentifierNumber(ctx, "readers", "L")
}

// Librarians

func (r *repo) InsertLibrarian(ctx context.Context, tx *sqlx.Tx, l model.Librarian) error {
	q, args, err := r.db.Builder.Insert("librarians").Rows(goqu.Record{
		"identifier":      l.Identifier,
		"employee_number": l.EmployeeNumber,
		"name":            l.Name,
		"email":           l.Email,
		"password_hash":   l.PasswordHash,
		"registered_at":   l.RegisteredAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

func (r *repo) LibrarianByID(ctx context.Context, id string) (*model.Librarian, error) {
	q, args, err := r.db.Builder.From("librarians").
		Where(goqu.C("identifier").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var l model.Librarian
	if err := r.db.GetContext(ctx, &l, q, args...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repo) LibrarianByEmail(ctx context.Context, email string) (*model.Librarian, error) {
	q, args, err := r.db.Builder.From("librarians").
		Where(goqu.L("lower(email)").Eq(goqu.L("lower(?)", email))).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var l model.Librarian
	if err := r.db.GetContext(ctx, &l, q, args...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repo) ListLibrarians(ctx context.Context) ([]model.Librarian, error) {
	q, args, err := r.db.Builder.From("librarians").
		Order(goqu.C("registered_at").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.Librarian{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) MaxLibrarianNumber(ctx context.Context) (int, error) {
	return r.db.MaxIdentifierNumber(ctx, "librarians", "B")
}

func (r *repo) MaxEmployeeNumber(ctx context.Context) (int, error) {
	q, args, err := r.db.Builder.From("librarians").
		Select(goqu.L("COALESCE(MAX(CAST(SUBSTR(employee_number, 2) AS INTEGER)), 0)")).
		Where(goqu.C("employee_number").Like("E%")).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}
