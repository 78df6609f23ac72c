package loan

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	loanrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/loan"
	matrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/material"
	personrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/person"
	matsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/material"
	personsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/person"
	reportsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/report"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/sequence"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
)

// env wires the whole stack over an in-memory store and seeds one reader,
// one librarian, one book and one special item.
type env struct {
	loans   Service
	reports reportsvc.Service

	readerID    string
	librarianID string
	bookID      string
	itemID      string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	mr := matrepo.New(db)
	pr := personrepo.New(db)
	lr := loanrepo.New(db)

	seq := sequence.New()
	seq.Register(sequence.KindReader, "L", pr.MaxReaderNumber)
	seq.Register(sequence.KindLibrarian, "B", pr.MaxLibrarianNumber)
	seq.Register(sequence.KindEmployee, "E", pr.MaxEmployeeNumber)
	seq.Register(sequence.KindLoan, "P", lr.MaxLoanNumber)
	seq.Register(sequence.KindBook, "LI", mr.MaxBookNumber)
	seq.Register(sequence.KindSpecialItem, "OB", mr.MaxItemNumber)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ms := matsvc.New(db, mr, seq, matsvc.NewGuard(mr, matsvc.DefaultWindow), log)
	ps := personsvc.New(db, pr, seq, log)

	rd, err := ps.RegisterReader(ctx, personsvc.ReaderFields{Name: "Ana Garcia", Email: "ana@example.com", Zone: "CENTRAL"})
	require.NoError(t, err)
	lib, err := ps.RegisterLibrarian(ctx, personsvc.LibrarianFields{Name: "Benito Lopez", Email: "benito@example.com"})
	require.NoError(t, err)
	b, err := ms.RegisterBook(ctx, matsvc.BookFields{Title: "1984", Pages: 328})
	require.NoError(t, err)
	it, err := ms.RegisterItem(ctx, matsvc.ItemFields{Description: "world globe", WeightKg: 2.5, Dimensions: "30x30x30 cm"})
	require.NoError(t, err)

	return &env{
		loans:       New(db, lr, pr, pr, mr, seq, log),
		reports:     reportsvc.New(lr),
		readerID:    rd.Identifier,
		librarianID: lib.Identifier,
		bookID:      b.Identifier,
		itemID:      it.Identifier,
	}
}

func today() string {
	return time.Now().UTC().Format(model.LoanDateLayout)
}

func TestCreateLoanValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	base := CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "PENDIENTE",
	}

	f := base
	f.Status = "PERDIDO"
	_, err := e.loans.Create(ctx, f)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))

	f = base
	f.RequestDate = "2026-03-10"
	_, err = e.loans.Create(ctx, f)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))

	f = base
	f.RequestDate = time.Now().UTC().Add(48 * time.Hour).Format(model.LoanDateLayout)
	_, err = e.loans.Create(ctx, f)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))

	f = base
	f.ReaderID = "L999"
	_, err = e.loans.Create(ctx, f)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))
	require.Contains(t, err.Error(), "reader")

	f = base
	f.LibrarianID = "B999"
	_, err = e.loans.Create(ctx, f)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))
	require.Contains(t, err.Error(), "librarian")

	f = base
	f.MaterialID = "LI999"
	_, err = e.loans.Create(ctx, f)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))
	require.Contains(t, err.Error(), "material")
}

func TestCreateLoanTagsMaterialKind(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.loans.Create(ctx, CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "PENDIENTE",
	})
	require.NoError(t, err)
	require.Equal(t, "P1", l.Identifier)
	require.Equal(t, model.KindBook, l.MaterialKind)

	l2, err := e.loans.Create(ctx, CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.itemID,
		RequestDate: today(),
		Status:      "EN_CURSO",
	})
	require.NoError(t, err)
	require.Equal(t, "P2", l2.Identifier)
	require.Equal(t, model.KindSpecialItem, l2.MaterialKind)
}

func TestGetLoanRecord(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.loans.Create(ctx, CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "PENDIENTE",
	})
	require.NoError(t, err)

	rec, err := e.loans.Get(ctx, l.Identifier)
	require.NoError(t, err)
	require.Equal(t, "Ana Garcia", rec.ReaderName)
	require.Equal(t, "Benito Lopez", rec.LibrarianName)
	require.Equal(t, "1984", rec.MaterialName)
	require.Equal(t, model.ZoneCentral, rec.Zone)

	_, err = e.loans.Get(ctx, "P999")
	require.Equal(t, apperr.KindNotFound, apperr.Code(err))
}

func TestChangeState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.loans.Create(ctx, CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "DEVUELTO",
	})
	require.NoError(t, err)

	err = e.loans.ChangeState(ctx, l.Identifier, "ROTO")
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))

	err = e.loans.ChangeState(ctx, "P999", "PENDIENTE")
	require.Equal(t, apperr.KindNotFound, apperr.Code(err))

	// the administrative path moves between arbitrary valid states
	require.NoError(t, e.loans.ChangeState(ctx, l.Identifier, "PENDIENTE"))
	rec, err := e.loans.Get(ctx, l.Identifier)
	require.NoError(t, err)
	require.Equal(t, model.LoanPending, rec.Status)
}

func TestMarkReturnedPreconditions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.loans.Create(ctx, CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "PENDIENTE",
	})
	require.NoError(t, err)

	err = e.loans.MarkReturned(ctx, "P999", today())
	require.Equal(t, apperr.KindNotFound, apperr.Code(err))

	// still pending, not handed out yet
	err = e.loans.MarkReturned(ctx, l.Identifier, today())
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))

	require.NoError(t, e.loans.ChangeState(ctx, l.Identifier, "EN_CURSO"))

	err = e.loans.MarkReturned(ctx, l.Identifier, "31-12-2026")
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))

	yesterday := time.Now().UTC().Add(-48 * time.Hour).Format(model.LoanDateLayout)
	err = e.loans.MarkReturned(ctx, l.Identifier, yesterday)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))
}

func TestLoanLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.loans.Create(ctx, CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "PENDIENTE",
	})
	require.NoError(t, err)

	require.NoError(t, e.loans.ChangeState(ctx, l.Identifier, "EN_CURSO"))

	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format(model.LoanDateLayout)
	require.NoError(t, e.loans.MarkReturned(ctx, l.Identifier, tomorrow))

	rec, err := e.loans.Get(ctx, l.Identifier)
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, rec.Status)
	require.NotNil(t, rec.ReturnDate)
	require.Equal(t, tomorrow, rec.ReturnDate.Format(model.LoanDateLayout))

	// returning twice is rejected
	err = e.loans.MarkReturned(ctx, l.Identifier, tomorrow)
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))

	pending, err := e.reports.ListByState(ctx, "PENDIENTE")
	require.NoError(t, err)
	require.Empty(t, pending)

	returned, err := e.reports.ListByState(ctx, "DEVUELTO")
	require.NoError(t, err)
	require.Len(t, returned, 1)
	require.Equal(t, l.Identifier, returned[0].Identifier)
}

func TestModifyLoan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l, err := e.loans.Create(ctx, CreateFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "PENDIENTE",
	})
	require.NoError(t, err)

	upd, err := e.loans.Modify(ctx, l.Identifier, ModifyFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.itemID,
		RequestDate: today(),
		ReturnDate:  today(),
		Status:      "DEVUELTO",
	})
	require.NoError(t, err)
	require.Equal(t, model.KindSpecialItem, upd.MaterialKind)
	require.Equal(t, model.LoanReturned, upd.Status)
	require.NotNil(t, upd.ReturnDate)

	_, err = e.loans.Modify(ctx, "P999", ModifyFields{
		ReaderID:    e.readerID,
		LibrarianID: e.librarianID,
		MaterialID:  e.bookID,
		RequestDate: today(),
		Status:      "PENDIENTE",
	})
	require.Equal(t, apperr.KindNotFound, apperr.Code(err))
}
