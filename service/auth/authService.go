package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/hash"
	jwtutil "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/jwt"
)

var ErrInvalidCreds = errors.New("invalid credentials")

// Credential verification is a thin collaborator of the core: librarians log
// in with email + password and receive a token for the guarded routes.
type Service interface {
	Login(ctx context.Context, email, password string) (*model.Librarian, string, error)
}

type Repo interface {
	LibrarianByEmail(ctx context.Context, email string) (*model.Librarian, error)
}

type service struct {
	r      Repo
	secret string
}

func New(r Repo, secret string) Service { return &service{r: r, secret: secret} }

func (s *service) Login(ctx context.Context, email, password string) (*model.Librarian, string, error) {
	l, err := s.r.LibrarianByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCreds
		}
		return nil, "", err
	}
	if l.PasswordHash == "" || !hash.Check(l.PasswordHash, password) {
		return nil, "", ErrInvalidCreds
	}
	token, err := jwtutil.Issue(s.secret, l.Identifier, "librarian", 24)
	if err != nil {
		return nil, "", err
	}
	return l, token, nil
}
