package loan

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	loanrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/loan"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/sequence"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
)

// ReaderSource, LibrarianSource and MaterialSource are the narrow lookups the
// lifecycle needs to resolve a loan's references at creation time.
type ReaderSource interface {
	ReaderByID(ctx context.Context, id string) (*model.Reader, error)
}

type LibrarianSource interface {
	LibrarianByID(ctx context.Context, id string) (*model.Librarian, error)
}

type MaterialSource interface {
	FindRef(ctx context.Context, id string) (*model.MaterialRef, error)
}

type CreateFields struct {
	ReaderID    string
	LibrarianID string
	MaterialID  string
	RequestDate string // dd/mm/yyyy
	Status      string
}

type ModifyFields struct {
	ReaderID    string
	LibrarianID string
	MaterialID  string
	RequestDate string // dd/mm/yyyy
	ReturnDate  string // dd/mm/yyyy, empty clears the date
	Status      string
}

type Service interface {
	Create(ctx context.Context, f CreateFields) (*model.Loan, error)
	Get(ctx context.Context, id string) (*model.LoanRecord, error)

	// ChangeState overwrites the state with any valid value. It deliberately
	// skips transition checks: administrative callers use it to move a loan
	// between arbitrary states. MarkReturned is the guarded path.
	ChangeState(ctx context.Context, id, state string) error

	// MarkReturned moves an in-progress loan to returned, recording the
	// return date. Loans in any other state are rejected.
	MarkReturned(ctx context.Context, id, returnDate string) error

	// Modify is the administrative full-record overwrite. It re-resolves
	// every reference and bypasses the transition rules.
	Modify(ctx context.Context, id string, f ModifyFields) (*model.Loan, error)
}

type service struct {
	db         *database.DB
	r          loanrepo.Repo
	readers    ReaderSource
	librarians LibrarianSource
	materials  MaterialSource
	seq        *sequence.Sequencer
	log        *slog.Logger
}

func New(db *database.DB, r loanrepo.Repo, readers ReaderSource, librarians LibrarianSource, materials MaterialSource, seq *sequence.Sequencer, log *slog.Logger) Service {
	return &service{db: db, r: r, readers: readers, librarians: librarians, materials: materials, seq: seq, log: log}
}

func parseLoanDate(field, value string) (time.Time, error) {
	d, err := time.ParseInLocation(model.LoanDateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, apperr.Invalid("%s %q is not a valid dd/mm/yyyy date", field, value)
	}
	return d, nil
}

// resolveRefs checks the three foreign references and returns the material
// tagged with its kind. Missing references fail as invalid data naming the
// absent entity.
func (s *service) resolveRefs(ctx context.Context, readerID, librarianID, materialID string) (*model.MaterialRef, error) {
	if _, err := s.readers.ReaderByID(ctx, readerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Invalid("reader %s does not exist", readerID)
		}
		return nil, err
	}
	if _, err := s.librarians.LibrarianByID(ctx, librarianID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Invalid("librarian %s does not exist", librarianID)
		}
		return nil, err
	}
	ref, err := s.materials.FindRef(ctx, materialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Invalid("material %s does not exist", materialID)
		}
		return nil, err
	}
	return ref, nil
}

func (s *service) Create(ctx context.Context, f CreateFields) (*model.Loan, error) {
	status, ok := model.ParseLoanStatus(f.Status)
	if !ok {
		return nil, apperr.Invalid("state %q is not valid, expected one of %v", f.Status, model.LoanStatuses())
	}
	reqDate, err := parseLoanDate("request date", f.RequestDate)
	if err != nil {
		return nil, err
	}
	if reqDate.After(time.Now().UTC()) {
		return nil, apperr.Invalid("request date %s must not be in the future", f.RequestDate)
	}

	ref, err := s.resolveRefs(ctx, f.ReaderID, f.LibrarianID, f.MaterialID)
	if err != nil {
		return nil, err
	}

	id, err := s.seq.Next(ctx, sequence.KindLoan)
	if err != nil {
		return nil, err
	}
	l := model.Loan{
		Identifier:   id,
		ReaderID:     f.ReaderID,
		LibrarianID:  f.LibrarianID,
		MaterialID:   ref.Identifier,
		MaterialKind: ref.Kind,
		RequestDate:  reqDate,
		Status:       status,
	}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		return s.r.Insert(ctx, tx, l)
	}); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.LoanRecord, error) {
	rec, err := s.r.RecordByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("loan %s not found", id)
	}
	return rec, err
}

func (s *service) ChangeState(ctx context.Context, id, state string) error {
	status, ok := model.ParseLoanStatus(state)
	if !ok {
		return apperr.Invalid("state %q is not valid, expected one of %v", state, model.LoanStatuses())
	}
	if _, err := s.r.ByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("loan %s not found", id)
		}
		return err
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := s.r.UpdateStatus(ctx, tx, id, status)
		return err
	})
}

func (s *service) MarkReturned(ctx context.Context, id, returnDate string) error {
	l, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("loan %s not found", id)
		}
		return err
	}
	if l.Status != model.LoanInProgress {
		return apperr.Invalid("loan %s cannot be returned in its current state (%s)", id, l.Status)
	}
	ret, err := parseLoanDate("return date", returnDate)
	if err != nil {
		return err
	}
	if ret.Before(l.RequestDate) {
		return apperr.Invalid("return date %s is before the request date", returnDate)
	}
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := s.r.SetReturned(ctx, tx, id, ret)
		return err
	})
}

func (s *service) Modify(ctx context.Context, id string, f ModifyFields) (*model.Loan, error) {
	if _, err := s.r.ByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("loan %s not found", id)
		}
		return nil, err
	}

	status, ok := model.ParseLoanStatus(f.Status)
	if !ok {
		return nil, apperr.Invalid("state %q is not valid, expected one of %v", f.Status, model.LoanStatuses())
	}
	reqDate, err := parseLoanDate("request date", f.RequestDate)
	if err != nil {
		return nil, err
	}
	var retDate *time.Time
	if f.ReturnDate != "" {
		d, err := parseLoanDate("return date", f.ReturnDate)
		if err != nil {
			return nil, err
		}
		retDate = &d
	}

	ref, err := s.resolveRefs(ctx, f.ReaderID, f.LibrarianID, f.MaterialID)
	if err != nil {
		return nil, err
	}

	l := model.Loan{
		Identifier:   id,
		ReaderID:     f.ReaderID,
		LibrarianID:  f.LibrarianID,
		MaterialID:   ref.Identifier,
		MaterialKind: ref.Kind,
		RequestDate:  reqDate,
		ReturnDate:   retDate,
		Status:       status,
	}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		n, err := s.r.Update(ctx, tx, l)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("loan %s not found", id)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *service) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
