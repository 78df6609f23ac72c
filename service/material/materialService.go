package material

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	matrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/material"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/sequence"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"
)

// Field constraints for donated materials.
const (
	maxTitleLen       = 255
	maxPages          = 10000
	minDescriptionLen = 2
	maxDescriptionLen = 500
	maxWeightKg       = 1000.0
	maxDimensionsLen  = 100
)

// Dimensions are expected to look like "30x20x5 cm". Violations only warn,
// they never reject the donation.
var dimensionsPattern = regexp.MustCompile(`^\d+(\.\d+)?x\d+(\.\d+)?x\d+(\.\d+)?\s*[A-Za-z]*$`)

type BookFields struct {
	Title string
	Pages int
}

type ItemFields struct {
	Description string
	WeightKg    float64
	Dimensions  string
}

type Service interface {
	RegisterBook(ctx context.Context, f BookFields) (*model.Book, error)
	RegisterItem(ctx context.Context, f ItemFields) (*model.SpecialItem, error)
	BookByID(ctx context.Context, id string) (*model.Book, error)
	ItemByID(ctx context.Context, id string) (*model.SpecialItem, error)
	BookByTitle(ctx context.Context, title string) (*model.Book, error)
	ItemByDescription(ctx context.Context, description string) (*model.SpecialItem, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListItems(ctx context.Context) ([]model.SpecialItem, error)
	BooksByPages(ctx context.Context, min, max int) ([]model.Book, error)
	ItemsByWeight(ctx context.Context, min, max float64) ([]model.SpecialItem, error)
	UpdateBook(ctx context.Context, id string, f BookFields) (*model.Book, error)
	UpdateItem(ctx context.Context, id string, f ItemFields) (*model.SpecialItem, error)
}

type service struct {
	db    *database.DB
	r     matrepo.Repo
	seq   *sequence.Sequencer
	guard *DuplicateGuard
	log   *slog.Logger
}

func New(db *database.DB, r matrepo.Repo, seq *sequence.Sequencer, guard *DuplicateGuard, log *slog.Logger) Service {
	return &service{db: db, r: r, seq: seq, guard: guard, log: log}
}

func validateBook(f BookFields) error {
	if strings.TrimSpace(f.Title) == "" {
		return apperr.Invalid("title must not be empty")
	}
	if len(f.Title) > maxTitleLen {
		return apperr.Invalid("title must not exceed %d characters", maxTitleLen)
	}
	if f.Pages <= 0 || f.Pages > maxPages {
		return apperr.Invalid("pages must be between 1 and %d", maxPages)
	}
	return nil
}

func (s *service) validateItem(f ItemFields) error {
	d := strings.TrimSpace(f.Description)
	if d == "" || len(d) < minDescriptionLen {
		return apperr.Invalid("description must have at least %d characters", minDescriptionLen)
	}
	if len(f.Description) > maxDescriptionLen {
		return apperr.Invalid("description must not exceed %d characters", maxDescriptionLen)
	}
	if f.WeightKg <= 0 || f.WeightKg > maxWeightKg {
		return apperr.Invalid("weight must be greater than 0 and at most %.0f kg", maxWeightKg)
	}
	if len(f.Dimensions) > maxDimensionsLen {
		return apperr.Invalid("dimensions must not exceed %d characters", maxDimensionsLen)
	}
	if f.Dimensions != "" && !dimensionsPattern.MatchString(f.Dimensions) {
		s.log.Warn("dimensions do not match the LxWxH pattern", "dimensions", f.Dimensions)
	}
	return nil
}

func (s *service) RegisterBook(ctx context.Context, f BookFields) (*model.Book, error) {
	if err := validateBook(f); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dup, err := s.guard.IsDuplicateBook(ctx, f.Title, f.Pages, now)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, apperr.Duplicate("book %q with %d pages appears repeated within the detection window", f.Title, f.Pages)
	}

	id, err := s.seq.Next(ctx, sequence.KindBook)
	if err != nil {
		return nil, err
	}
	b := model.Book{Identifier: id, Title: f.Title, Pages: f.Pages, IngestedAt: now}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		return s.r.InsertBook(ctx, tx, b)
	}); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *service) RegisterItem(ctx context.Context, f ItemFields) (*model.SpecialItem, error) {
	if err := s.validateItem(f); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dup, err := s.guard.IsDuplicateItem(ctx, f.Description, f.WeightKg, f.Dimensions, now)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, apperr.Duplicate("special item %q appears repeated within the detection window", f.Description)
	}

	id, err := s.seq.Next(ctx, sequence.KindSpecialItem)
	if err != nil {
		return nil, err
	}
	it := model.SpecialItem{
		Identifier:  id,
		Description: f.Description,
		WeightKg:    f.WeightKg,
		Dimensions:  f.Dimensions,
		IngestedAt:  now,
	}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		return s.r.InsertItem(ctx, tx, it)
	}); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *service) BookByID(ctx context.Context, id string) (*model.Book, error) {
	b, err := s.r.BookByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("book %s not found", id)
	}
	return b, err
}

func (s *service) ItemByID(ctx context.Context, id string) (*model.SpecialItem, error) {
	it, err := s.r.ItemByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("special item %s not found", id)
	}
	return it, err
}

func (s *service) BookByTitle(ctx context.Context, title string) (*model.Book, error) {
	b, err := s.r.BookByTitle(ctx, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no book titled %q", title)
	}
	return b, err
}

func (s *service) ItemByDescription(ctx context.Context, description string) (*model.SpecialItem, error) {
	it, err := s.r.ItemByDescription(ctx, description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no special item described as %q", description)
	}
	return it, err
}

func (s *service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.r.ListBooks(ctx)
}

func (s *service) ListItems(ctx context.Context) ([]model.SpecialItem, error) {
	return s.r.ListItems(ctx)
}

// BooksByPages returns books in the inclusive page range. An inverted or
// negative range yields an empty list, not an error.
func (s *service) BooksByPages(ctx context.Context, min, max int) ([]model.Book, error) {
	return s.r.ListBooksByPages(ctx, min, max)
}

func (s *service) ItemsByWeight(ctx context.Context, min, max float64) ([]model.SpecialItem, error) {
	return s.r.ListItemsByWeight(ctx, min, max)
}

func (s *service) UpdateBook(ctx context.Context, id string, f BookFields) (*model.Book, error) {
	if err := validateBook(f); err != nil {
		return nil, err
	}
	b := model.Book{Identifier: id, Title: f.Title, Pages: f.Pages}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		n, err := s.r.UpdateBook(ctx, tx, b)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("book %s not found", id)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.r.BookByID(ctx, id)
}

func (s *service) UpdateItem(ctx context.Context, id string, f ItemFields) (*model.SpecialItem, error) {
	if err := s.validateItem(f); err != nil {
		return nil, err
	}
	it := model.SpecialItem{Identifier: id, Description: f.Description, WeightKg: f.WeightKg, Dimensions: f.Dimensions}

	if err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		n, err := s.r.UpdateItem(ctx, tx, it)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("special item %s not found", id)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.r.ItemByID(ctx, id)
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
