// repository/loan/repo.go
package loan

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
)

// Filter is the conjunctive criteria set for loan report queries. Nil fields
// are unconstrained.
type Filter struct {
	Zone        *model.Zone
	Status      *model.LoanStatus
	From        *time.Time
	To          *time.Time
	ReaderID    *string
	LibrarianID *string
	MaterialID  *string
}

// ZoneStatusCount is one grouped row of the zone statistics query.
type ZoneStatusCount struct {
	Zone   model.Zone       `db:"zone"`
	Status model.LoanStatus `db:"status"`
	Total  int              `db:"total"`
}

// PendingLoanRow backs the pending-material drill-down before formatting.
type PendingLoanRow struct {
	ReaderName    string    `db:"reader_name"`
	LibrarianName string    `db:"librarian_name"`
	RequestDate   time.Time `db:"request_date"`
}

type Repo interface {
	Insert(ctx context.Context, tx *sqlx.Tx, l model.Loan) error
	Update(ctx context.Context, tx *sqlx.Tx, l model.Loan) (int64, error)
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.LoanStatus) (int64, error)
	SetReturned(ctx context.Context, tx *sqlx.Tx, id string, returnDate time.Time) (int64, error)
	ByID(ctx context.Context, id string) (*model.Loan, error)
	RecordByID(ctx context.Context, id string) (*model.LoanRecord, error)
	List(ctx context.Context, f Filter) ([]model.LoanRecord, error)
	CountByZoneAndStatus(ctx context.Context) ([]ZoneStatusCount, error)
	PendingCounts(ctx context.Context, minCount int) ([]model.PendingMaterial, error)
	CountPendingForMaterial(ctx context.Context, materialID string) (int, error)
	PendingForMaterial(ctx context.Context, materialID string) ([]PendingLoanRow, error)
	MaxLoanNumber(ctx context.Context) (int, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, tx *sqlx.Tx, l model.Loan) error {
	q, args, err := r.db.Builder.Insert("loans").Rows(goqu.Record{
		"identifier":    l.Identifier,
		"reader_id":     l.ReaderID,
		"librarian_id":  l.LibrarianID,
		"material_id":   l.MaterialID,
		"material_kind": string(l.MaterialKind),
		"request_date":  l.RequestDate,
		"return_date":   l.ReturnDate,
		"status":        string(l.Status),
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

// Update overwrites every mutable field, the administrative correction path.
func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, l model.Loan) (int64, error) {
	q, args, err := r.db.Builder.Update("loans").Set(goqu.Record{
		"reader_id":     l.ReaderID,
		"librarian_id":  l.LibrarianID,
		"material_id":   l.MaterialID,
		"material_kind": string(l.MaterialKind),
		"request_date":  l.RequestDate,
		"return_date":   l.ReturnDate,
		"status":        string(l.Status),
	}).Where(goqu.C("identifier").Eq(l.Identifier)).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.LoanStatus) (int64, error) {
	q, args, err := r.db.Builder.Update("loans").Set(goqu.Record{
		"status": string(status),
	}).Where(goqu.C("identifier").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) SetReturned(ctx context.Context, tx *sqlx.Tx, id string, returnDate time.Time) (int64, error) {
	q, args, err := r.db.Builder.Update("loans").Set(goqu.Record{
		"status":      string(model.LoanReturned),
		"return_date": returnDate,
	}).Where(goqu.C("identifier").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Loan, error) {
	q, args, err := r.db.Builder.From("loans").
		Where(goqu.C("identifier").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var l model.Loan
	if err := r.db.GetContext(ctx, &l, q, args...); err != nil {
		return nil, err
	}
	return &l, nil
}

// recordDataset joins reader, librarian and both material variants in one
// pass so reporting callers never get a half-resolved loan.
func (r *repo) recordDataset() *goqu.SelectDataset {
	return r.db.Builder.From(goqu.T("loans").As("l")).
		Join(goqu.T("readers").As("r"),
			goqu.On(goqu.I("r.identifier").Eq(goqu.I("l.reader_id")))).
		Join(goqu.T("librarians").As("b"),
			goqu.On(goqu.I("b.identifier").Eq(goqu.I("l.librarian_id")))).
		LeftJoin(goqu.T("books").As("li"), goqu.On(
			goqu.I("li.identifier").Eq(goqu.I("l.material_id")),
			goqu.I("l.material_kind").Eq(string(model.KindBook)),
		)).
		LeftJoin(goqu.T("special_items").As("ob"), goqu.On(
			goqu.I("ob.identifier").Eq(goqu.I("l.material_id")),
			goqu.I("l.material_kind").Eq(string(model.KindSpecialItem)),
		)).
		Select(
			goqu.I("l.identifier"),
			goqu.I("l.reader_id"),
			goqu.I("r.name").As("reader_name"),
			goqu.I("r.zone").As("zone"),
			goqu.I("l.librarian_id"),
			goqu.I("b.name").As("librarian_name"),
			goqu.I("l.material_id"),
			goqu.I("l.material_kind"),
			goqu.COALESCE(goqu.I("li.title"), goqu.I("ob.description"), goqu.V("")).As("material_name"),
			goqu.I("l.request_date"),
			goqu.I("l.return_date"),
			goqu.I("l.status"),
		)
}

func (r *repo) RecordByID(ctx context.Context, id string) (*model.LoanRecord, error) {
	q, args, err := r.recordDataset().
		Where(goqu.I("l.identifier").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var rec model.LoanRecord
	if err := r.db.GetContext(ctx, &rec, q, args...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) List(ctx context.Context, f Filter) ([]model.LoanRecord, error) {
	ds := r.recordDataset()
	if f.Zone != nil {
		ds = ds.Where(goqu.I("r.zone").Eq(string(*f.Zone)))
	}
	if f.Status != nil {
		ds = ds.Where(goqu.I("l.status").Eq(string(*f.Status)))
	}
	if f.From != nil {
		ds = ds.Where(goqu.I("l.request_date").Gte(*f.From))
	}
	if f.To != nil {
		ds = ds.Where(goqu.I("l.request_date").Lte(*f.To))
	}
	if f.ReaderID != nil {
		ds = ds.Where(goqu.I("l.reader_id").Eq(*f.ReaderID))
	}
	if f.LibrarianID != nil {
		ds = ds.Where(goqu.I("l.librarian_id").Eq(*f.LibrarianID))
	}
	if f.MaterialID != nil {
		ds = ds.Where(goqu.I("l.material_id").Eq(*f.MaterialID))
	}
	ds = ds.Order(goqu.I("r.zone").Asc(), goqu.I("l.request_date").Desc())

	q, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.LoanRecord{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) CountByZoneAndStatus(ctx context.Context) ([]ZoneStatusCount, error) {
	q, args, err := r.db.Builder.From(goqu.T("loans").As("l")).
		Join(goqu.T("readers").As("r"),
			goqu.On(goqu.I("r.identifier").Eq(goqu.I("l.reader_id")))).
		Select(
			goqu.I("r.zone").As("zone"),
			goqu.I("l.status").As("status"),
			goqu.COUNT(goqu.Star()).As("total"),
		).
		GroupBy(goqu.I("r.zone"), goqu.I("l.status")).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []ZoneStatusCount{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingCounts tallies pending loans per material, keeping materials whose
// count is at least minCount, highest count first.
func (r *repo) PendingCounts(ctx context.Context, minCount int) ([]model.PendingMaterial, error) {
	q, args, err := r.db.Builder.From(goqu.T("loans").As("l")).
		LeftJoin(goqu.T("books").As("li"), goqu.On(
			goqu.I("li.identifier").Eq(goqu.I("l.material_id")),
			goqu.I("l.material_kind").Eq(string(model.KindBook)),
		)).
		LeftJoin(goqu.T("special_items").As("ob"), goqu.On(
			goqu.I("ob.identifier").Eq(goqu.I("l.material_id")),
			goqu.I("l.material_kind").Eq(string(model.KindSpecialItem)),
		)).
		Select(
			goqu.I("l.material_id"),
			goqu.I("l.material_kind"),
			goqu.COALESCE(goqu.I("li.title"), goqu.I("ob.description"), goqu.V("")).As("material_name"),
			goqu.COUNT(goqu.Star()).As("pending_count"),
		).
		Where(goqu.I("l.status").Eq(string(model.LoanPending))).
		GroupBy(
			goqu.I("l.material_id"),
			goqu.I("l.material_kind"),
			goqu.I("li.title"),
			goqu.I("ob.description"),
		).
		Having(goqu.COUNT(goqu.Star()).Gte(minCount)).
		Order(goqu.I("pending_count").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []model.PendingMaterial{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) CountPendingForMaterial(ctx context.Context, materialID string) (int, error) {
	q, args, err := r.db.Builder.From("loans").
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C("material_id").Eq(materialID),
			goqu.C("status").Eq(string(model.LoanPending)),
		).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repo) PendingForMaterial(ctx context.Context, materialID string) ([]PendingLoanRow, error) {
	q, args, err := r.db.Builder.From(goqu.T("loans").As("l")).
		Join(goqu.T("readers").As("r"),
			goqu.On(goqu.I("r.identifier").Eq(goqu.I("l.reader_id")))).
		Join(goqu.T("librarians").As("b"),
			goqu.On(goqu.I("b.identifier").Eq(goqu.I("l.librarian_id")))).
		Select(
			goqu.I("r.name").As("reader_name"),
			goqu.I("b.name").As("librarian_name"),
			goqu.I("l.request_date"),
		).
		Where(
			goqu.I("l.material_id").Eq(materialID),
			goqu.I("l.status").Eq(string(model.LoanPending)),
		).
		Order(goqu.I("l.request_date").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	out := []PendingLoanRow{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) MaxLoanNumber(ctx context.Context) (int, error) {
	return r.db.MaxIdentifierNumber(ctx, "loans", "P")
}
