// repository/material/repo.go
package material

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
)

type Repo interface {
	// Books
	InsertBook(ctx context.Context, tx *sqlx.Tx, b model.Book) error
	BookByID(ctx context.Context, id string) (*model.Book, error)
	BookByTitle(ctx context.Context, title string) (*model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListBooksByPages(ctx context.Context, min, max int) ([]model.Book, error)
	UpdateBook(ctx context.Context, tx *sqlx.Tx, b model.Book) (int64, error)
	CountBooksMatching(ctx context.Context, title string, pages int, from, to time.Time) (int64, error)
	MaxBookNumber(ctx context.Context) (int, error)

	// Special items
	InsertItem(ctx context.Context, tx *sqlx.Tx, it model.SpecialItem) error
	ItemByID(ctx context.Context, id string) (*model.SpecialItem, error)
	ItemByDescription(ctx context.Context, description string) (*model.SpecialItem, error)
	ListItems(ctx context.Context) ([]model.SpecialItem, error)
	ListItemsByWeight(ctx context.Context, min, max float64) ([]model.SpecialItem, error)
	UpdateItem(ctx context.Context, tx *sqlx.Tx, it model.SpecialItem) (int64, error)
	CountItemsMatching(ctx context.Context, description string, weightKg float64, dimensions string, from, to time.Time) (int64, error)
	MaxItemNumber(ctx context.Context) (int, error)

	// FindRef resolves an identifier against both variants in one read and
	// returns it tagged with its kind. sql.ErrNoRows when neither matches.
	FindRef(ctx context.Context, id string) (*model.MaterialRef, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

// Books

func (r *repo) InsertBook(ctx context.Context, tx *sqlx.Tx, b model.Book) error {
	q, args, err := r.db.Builder.Insert("books").Rows(goqu.Record{
		"identifier":  b.Identifier,
		"title":       b.Title,
		"pages":       b.Pages,
		"ingested_at": b.IngestedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

func (r *repo) BookByID(ctx context.Context, id string) (*model.Book, error) {
	q, args, err := r.db.Builder.From("books").
		Where(goqu.C("identifier").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var b model.Book
	if err := r.db.GetContext(ctx, &b, q, args...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) BookByTitle(ctx context.Context, title string) (*model.Book, error) {
	q, args, err := r.db.Builder.From("books").
		Where(goqu.C("title").Eq(title)).
		Order(goqu.C("ingested_at").Desc()).
		Limit(1).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var b model.Book
	if err := r.db.GetContext(ctx, &b, q, args...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) ListBooks(ctx context.Context) ([]model.Book, error) {
	q, args, err := r.db.Builder.From("books").
		Order(goqu.C("ingested_at").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.Book{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) ListBooksByPages(ctx context.Context, min, max int) ([]model.Book, error) {
	// An inverted range simply matches nothing.
	q, args, err := r.db.Builder.From("books").
		Where(goqu.C("pages").Gte(min), goqu.C("pages").Lte(max)).
		Order(goqu.C("ingested_at").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.Book{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) UpdateBook(ctx context.Context, tx *sqlx.Tx, b model.Book) (int64, error) {
	q, args, err := r.db.Builder.Update("books").Set(goqu.Record{
		"title": b.Title,
		"pages": b.Pages,
	}).Where(goqu.C("identifier").Eq(b.Identifier)).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) CountBooksMatching(ctx context.Context, title string, pages int, from, to time.Time) (int64, error) {
	q, args, err := r.db.Builder.From("books").
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C("title").Eq(title),
			goqu.C("pages").Eq(pages),
			goqu.C("ingested_at").Gte(from),
			goqu.C("ingested_at").Lte(to),
		).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repo) MaxBookNumber(ctx context.Context) (int, error) {
	return r.db.MaxIdentifierNumber(ctx, "books", "LI")
}

// Special items

func (r *repo) InsertItem(ctx context.Context, tx *sqlx.Tx, it model.SpecialItem) error {
	q, args, err := r.db.Builder.Insert("special_items").Rows(goqu.Record{
		"identifier":  it.Identifier,
		"description": it.Description,
		"weight_kg":   it.WeightKg,
		"dimensions":  it.Dimensions,
		"ingested_at": it.IngestedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

func (r *repo) ItemByID(ctx context.Context, id string) (*model.SpecialItem, error) {
	q, args, err := r.db.Builder.From("special_items").
		Where(goqu.C("identifier").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var it model.SpecialItem
	if err := r.db.GetContext(ctx, &it, q, args...); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) ItemByDescription(ctx context.Context, description string) (*model.SpecialItem, error) {
	q, args, err := r.db.Builder.From("special_items").
		Where(goqu.C("description").Eq(description)).
		Order(goqu.C("ingested_at").Desc()).
		Limit(1).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var it model.SpecialItem
	if err := r.db.GetContext(ctx, &it, q, args...); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) ListItems(ctx context.Context) ([]model.SpecialItem, error) {
	q, args, err := r.db.Builder.From("special_items").
		Order(goqu.C("ingested_at").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.SpecialItem{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) ListItemsByWeight(ctx context.Context, min, max float64) ([]model.SpecialItem, error) {
	q, args, err := r.db.Builder.From("special_items").
		Where(goqu.C("weight_kg").Gte(min), goqu.C("weight_kg").Lte(max)).
		Order(goqu.C("ingested_at").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.SpecialItem{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) UpdateItem(ctx context.Context, tx *sqlx.Tx, it model.SpecialItem) (int64, error) {
	q, args, err := r.db.Builder.Update("special_items").Set(goqu.Record{
		"description": it.Description,
		"weight_kg":   it.WeightKg,
		"dimensions":  it.Dimensions,
	}).Where(goqu.C("identifier").Eq(it.Identifier)).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) CountItemsMatching(ctx context.Context, description string, weightKg float64, dimensions string, from, to time.Time) (int64, error) {
	q, args, err := r.db.Builder.From("special_items").
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C("description").Eq(description),
			goqu.C("weight_kg").Eq(weightKg),
			goqu.C("dimensions").Eq(dimensions),
			goqu.C("ingested_at").Gte(from),
			goqu.C("ingested_at").Lte(to),
		).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repo) MaxItemNumber(ctx context.Context) (int, error) {
	return r.db.MaxIdentifierNumber(ctx, "special_items", "OB")
}

func (r *repo) FindRef(ctx context.Context, id string) (*model.MaterialRef, error) {
	books := r.db.Builder.From("books").
		Select(
			goqu.C("identifier"),
			goqu.V(string(model.KindBook)).As("kind"),
			goqu.C("title").As("name"),
		).
		Where(goqu.C("identifier").Eq(id))
	items := r.db.Builder.From("special_items").
		Select(
			goqu.C("identifier"),
			goqu.V(string(model.KindSpecialItem)).As("kind"),
			goqu.C("description").As("name"),
		).
		Where(goqu.C("identifier").Eq(id))

	q, args, err := books.Union(items).Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var ref model.MaterialRef
	if err := r.db.GetContext(ctx, &ref, q, args...); err != nil {
		return nil, err
	}
	return &ref, nil
}
