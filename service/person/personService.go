package person

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	personrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/person"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/sequence"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/hash"
)

type ReaderFields struct {
	Name    string
	Email   string
	Address string
	Zone    string
	Status  string
}

type LibrarianFields struct {
	Name     string
	Email    string
	Password string
}

type Service interface {
	RegisterReader(ctx context.Context, f ReaderFields) (*model.Reader, error)
	ReaderByID(ctx context.Context, id string) (*model.Reader, error)
	ListReaders(ctx context.Context) ([]model.Reader, error)
	UpdateReader(ctx context.Context, id string, f ReaderFields) (*model.Reader, error)
	DeleteReader(ctx context.Context, id string) error

	RegisterLibrarian(ctx context.Context, f LibrarianFields) (*model.Librarian, error)
	LibrarianByID(ctx context.Context, id string) (*model.Librarian, error)
	ListLibrarians(ctx context.Context) ([]model.Librarian, error)
}

// readerCache is a read-through cache over the readers table. The store is
// the single source of truth: writes invalidate the entry instead of
// mutating it, so the cache can never diverge after a failed write.
type readerCache struct {
	mu sync.RWMutex
	m  map[string]model.Reader
}

func (c *readerCache) get(id string) (model.Reader, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.m[id]
	return r, ok
}

func (c *readerCache) put(r model.Reader) {
	c.mu.Lock()
	c.m[r.Identifier] = r
	c.mu.Unlock()
}

func (c *readerCache) invalidate(id string) {
	c.mu.Lock()
	delete(c.m, id)
	c.mu.Unlock()
}

type service struct {
	db    *database.DB
	r     personrepo.Repo
	seq   *sequence.Sequencer
	cache *readerCache
	log   *slog.Logger
}

func New(db *database.DB, r personrepo.Repo, seq *sequence.Sequencer, log *slog.Logger) Service {
	return &service{
		db:    db,
		r:     r,
		seq:   seq,
		cache: &readerCache{m: make(map[string]model.Reader)},
		log:   log,
	}
}

func parseReaderEnums(f ReaderFields) (model.Zone, model.ReaderStatus, error) {
	z, ok := model.ParseZone(f.Zone)
	if !ok {
		return "", "", apperr.Invalid("zone %q is not valid, expected one of %v", f.Zone, model.Zones())
	}
	st := model.ReaderActive
	if f.Status != "" {
		parsed, ok := model.ParseReaderStatus(f.Status)
		if !ok {
			return "", "", apperr.Invalid("status %q is not valid, expected ACTIVO or SUSPENDIDO", f.Status)
		}
		st = parsed
	}
	return z, st, nil
}

func (s *service) RegisterReader(ctx context.Context, f ReaderFields) (*model.Reader, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, apperr.Invalid("name must not be empty")
	}
	z, st, err := parseReaderEnums(f)
	if err != nil {
		return nil, err
	}

	id, err := s.seq.Next(ctx, sequence.KindReader)
	if err != nil {
		return nil, err
	}
	rd := model.Reader{
		Identifier:   id,
		Name:         f.Name,
		Email:        f.Email,
		Address:      f.Address,
		Zone:         z,
		Status:       st,
		RegisteredAt: time.Now().UTC(),
	}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		return s.r.InsertReader(ctx, tx, rd)
	}); err != nil {
		if derr := mapUniqueViolation(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return &rd, nil
}

func (s *service) ReaderByID(ctx context.Context, id string) (*model.Reader, error) {
	if rd, ok := s.cache.get(id); ok {
		return &rd, nil
	}
	rd, err := s.r.ReaderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("reader %s not found", id)
		}
		return nil, err
	}
	s.cache.put(*rd)
	return rd, nil
}

func (s *service) ListReaders(ctx context.Context) ([]model.Reader, error) {
	return s.r.ListReaders(ctx)
}

func (s *service) UpdateReader(ctx context.Context, id string, f ReaderFields) (*model.Reader, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, apperr.Invalid("name must not be empty")
	}
	z, st, err := parseReaderEnums(f)
	if err != nil {
		return nil, err
	}
	rd := model.Reader{Identifier: id, Name: f.Name, Email: f.Email, Address: f.Address, Zone: z, Status: st}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		n, err := s.r.UpdateReader(ctx, tx, rd)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("reader %s not found", id)
		}
		return nil
	}); err != nil {
		if derr := mapUniqueViolation(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}

	s.cache.invalidate(id)
	return s.ReaderByID(ctx, id)
}

func (s *service) DeleteReader(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		n, err := s.r.DeleteReader(ctx, tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("reader %s not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.invalidate(id)
	return nil
}

func (s *service) RegisterLibrarian(ctx context.Context, f LibrarianFields) (*model.Librarian, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, apperr.Invalid("name must not be empty")
	}
	hashed := ""
	if f.Password != "" {
		h, err := hash.HashPassword(f.Password)
		if err != nil {
			return nil, err
		}
		hashed = h
	}

	id, err := s.seq.Next(ctx, sequence.KindLibrarian)
	if err != nil {
		return nil, err
	}
	emp, err := s.seq.Next(ctx, sequence.KindEmployee)
	if err != nil {
		return nil, err
	}
	l := model.Librarian{
		Identifier:     id,
		EmployeeNumber: emp,
		Name:           f.Name,
		Email:          f.Email,
		PasswordHash:   hashed,
		RegisteredAt:   time.Now().UTC(),
	}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		return s.r.InsertLibrarian(ctx, tx, l)
	}); err != nil {
		if derr := mapUniqueViolation(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return &l, nil
}

func (s *service) LibrarianByID(ctx context.Context, id string) (*model.Librarian, error) {
	l, err := s.r.LibrarianByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("librarian %s not found", id)
	}
	return l, err
}

func (s *service) ListLibrarians(ctx context.Context) ([]model.Librarian, error) {
	return s.r.ListLibrarians(ctx)
}

// mapUniqueViolation turns a postgres unique violation into a domain
// duplicate error. Other drivers fall through to the generic path.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(strings.ToLower(pgErr.Message), "email") {
			return apperr.Duplicate("email already registered")
		}
		return apperr.Duplicate("record already exists")
	}
	return nil
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
