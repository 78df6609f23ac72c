package loan

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	matrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/material"
	personrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/person"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
)

type fixture struct {
	db    *database.DB
	loans Repo
}

// newFixture seeds two readers in different zones, one librarian, a book and
// a special item.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	pr := personrepo.New(db)
	mr := matrepo.New(db)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, pr.InsertReader(ctx, tx, model.Reader{
		Identifier: "L1", Name: "Ana Garcia", Email: "ana@example.com",
		Zone: model.ZoneCentral, Status: model.ReaderActive, RegisteredAt: at,
	}))
	require.NoError(t, pr.InsertReader(ctx, tx, model.Reader{
		Identifier: "L2", Name: "Carlos Diaz", Email: "carlos@example.com",
		Zone: model.ZoneSur, Status: model.ReaderActive, RegisteredAt: at,
	}))
	require.NoError(t, pr.InsertLibrarian(ctx, tx, model.Librarian{
		Identifier: "B1", EmployeeNumber: "E1", Name: "Benito Lopez",
		Email: "benito@example.com", RegisteredAt: at,
	}))
	require.NoError(t, mr.InsertBook(ctx, tx, model.Book{
		Identifier: "LI1", Title: "1984", Pages: 328, IngestedAt: at,
	}))
	require.NoError(t, mr.InsertItem(ctx, tx, model.SpecialItem{
		Identifier: "OB1", Description: "world globe", WeightKg: 2.5, IngestedAt: at,
	}))
	require.NoError(t, tx.Commit())

	return &fixture{db: db, loans: New(db)}
}

func (f *fixture) insert(t *testing.T, l model.Loan) {
	t.Helper()
	ctx := context.Background()
	tx, err := f.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, f.loans.Insert(ctx, tx, l))
	require.NoError(t, tx.Commit())
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordByIDJoinsBothMaterialVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.insert(t, model.Loan{
		Identifier: "P1", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook,
		RequestDate: day(5), Status: model.LoanPending,
	})
	f.insert(t, model.Loan{
		Identifier: "P2", ReaderID: "L2", LibrarianID: "B1",
		MaterialID: "OB1", MaterialKind: model.KindSpecialItem,
		RequestDate: day(6), Status: model.LoanInProgress,
	})

	rec, err := f.loans.RecordByID(ctx, "P1")
	require.NoError(t, err)
	require.Equal(t, "Ana Garcia", rec.ReaderName)
	require.Equal(t, model.ZoneCentral, rec.Zone)
	require.Equal(t, "Benito Lopez", rec.LibrarianName)
	require.Equal(t, "1984", rec.MaterialName)

	rec, err = f.loans.RecordByID(ctx, "P2")
	require.NoError(t, err)
	require.Equal(t, "world globe", rec.MaterialName)
	require.Equal(t, model.KindSpecialItem, rec.MaterialKind)

	_, err = f.loans.RecordByID(ctx, "P999")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListAppliesConjunctiveFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.insert(t, model.Loan{
		Identifier: "P1", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook,
		RequestDate: day(5), Status: model.LoanPending,
	})
	f.insert(t, model.Loan{
		Identifier: "P2", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook,
		RequestDate: day(8), Status: model.LoanInProgress,
	})
	f.insert(t, model.Loan{
		Identifier: "P3", ReaderID: "L2", LibrarianID: "B1",
		MaterialID: "OB1", MaterialKind: model.KindSpecialItem,
		RequestDate: day(8), Status: model.LoanPending,
	})

	all, err := f.loans.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// zone ascending, newest first inside the zone
	require.Equal(t, "P2", all[0].Identifier)
	require.Equal(t, "P1", all[1].Identifier)
	require.Equal(t, "P3", all[2].Identifier)

	zone := model.ZoneCentral
	status := model.LoanPending
	out, err := f.loans.List(ctx, Filter{Zone: &zone, Status: &status})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "P1", out[0].Identifier)

	from, to := day(6), day(9)
	out, err = f.loans.List(ctx, Filter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, out, 2)

	// every criterion at once
	out, err = f.loans.List(ctx, Filter{Zone: &zone, Status: &status, From: &from, To: &to})
	require.NoError(t, err)
	require.Empty(t, out)

	reader := "L2"
	out, err = f.loans.List(ctx, Filter{ReaderID: &reader})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "P3", out[0].Identifier)
}

func TestCountByZoneAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.insert(t, model.Loan{
		Identifier: "P1", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook,
		RequestDate: day(5), Status: model.LoanPending,
	})
	f.insert(t, model.Loan{
		Identifier: "P2", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook,
		RequestDate: day(6), Status: model.LoanPending,
	})
	f.insert(t, model.Loan{
		Identifier: "P3", ReaderID: "L2", LibrarianID: "B1",
		MaterialID: "OB1", MaterialKind: model.KindSpecialItem,
		RequestDate: day(7), Status: model.LoanReturned,
	})

	counts, err := f.loans.CountByZoneAndStatus(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	got := make(map[model.Zone]map[model.LoanStatus]int)
	for _, c := range counts {
		if got[c.Zone] == nil {
			got[c.Zone] = map[model.LoanStatus]int{}
		}
		got[c.Zone][c.Status] = c.Total
	}
	require.Equal(t, 2, got[model.ZoneCentral][model.LoanPending])
	require.Equal(t, 1, got[model.ZoneSur][model.LoanReturned])
}

func TestPendingCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// three pending on the item, two on the book, statuses other than
	// pending never count
	f.insert(t, model.Loan{Identifier: "P1", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "OB1", MaterialKind: model.KindSpecialItem, RequestDate: day(1), Status: model.LoanPending})
	f.insert(t, model.Loan{Identifier: "P2", ReaderID: "L2", LibrarianID: "B1",
		MaterialID: "OB1", MaterialKind: model.KindSpecialItem, RequestDate: day(2), Status: model.LoanPending})
	f.insert(t, model.Loan{Identifier: "P3", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "OB1", MaterialKind: model.KindSpecialItem, RequestDate: day(3), Status: model.LoanPending})
	f.insert(t, model.Loan{Identifier: "P4", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook, RequestDate: day(4), Status: model.LoanPending})
	f.insert(t, model.Loan{Identifier: "P5", ReaderID: "L2", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook, RequestDate: day(5), Status: model.LoanPending})
	f.insert(t, model.Loan{Identifier: "P6", ReaderID: "L2", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook, RequestDate: day(6), Status: model.LoanReturned})

	out, err := f.loans.PendingCounts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "OB1", out[0].MaterialID)
	require.Equal(t, 3, out[0].PendingCount)
	require.Equal(t, "world globe", out[0].MaterialName)
	require.Equal(t, "LI1", out[1].MaterialID)
	require.Equal(t, 2, out[1].PendingCount)

	// a higher floor drops the book
	out, err = f.loans.PendingCounts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "OB1", out[0].MaterialID)

	n, err := f.loans.CountPendingForMaterial(ctx, "OB1")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	rows, err := f.loans.PendingForMaterial(ctx, "OB1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	// newest request first
	require.Equal(t, "Ana Garcia", rows[0].ReaderName)
	require.True(t, rows[0].RequestDate.After(rows[2].RequestDate))
}

func TestStatusMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.insert(t, model.Loan{
		Identifier: "P1", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook,
		RequestDate: day(5), Status: model.LoanInProgress,
	})

	tx, err := f.db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	n, err := f.loans.SetReturned(ctx, tx, "P1", day(7))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = f.loans.UpdateStatus(ctx, tx, "P999", model.LoanPending)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, tx.Commit())

	l, err := f.loans.ByID(ctx, "P1")
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, l.Status)
	require.NotNil(t, l.ReturnDate)
}

func TestMaxLoanNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.loans.MaxLoanNumber(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	f.insert(t, model.Loan{
		Identifier: "P41", ReaderID: "L1", LibrarianID: "B1",
		MaterialID: "LI1", MaterialKind: model.KindBook,
		RequestDate: day(5), Status: model.LoanPending,
	})

	n, err = f.loans.MaxLoanNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, 41, n)
}
