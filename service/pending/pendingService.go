package pending

import (
	"context"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	loanrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/loan"
)

// manyThreshold: a material is contended when more than one loan is pending.
const manyThreshold = 2

type Repo interface {
	PendingCounts(ctx context.Context, minCount int) ([]model.PendingMaterial, error)
	CountPendingForMaterial(ctx context.Context, materialID string) (int, error)
	PendingForMaterial(ctx context.Context, materialID string) ([]loanrepo.PendingLoanRow, error)
}

type Service interface {
	// MaterialsWithManyPendingLoans returns materials with two or more
	// pending loans, highest count first, each tagged with kind and name.
	MaterialsWithManyPendingLoans(ctx context.Context) ([]model.PendingMaterial, error)
	CountPendingForMaterial(ctx context.Context, materialID string) (int, error)
	HasManyPendingLoans(ctx context.Context, materialID string) (bool, error)
	PendingLoansForMaterial(ctx context.Context, materialID string) ([]model.PendingLoan, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) MaterialsWithManyPendingLoans(ctx context.Context) ([]model.PendingMaterial, error) {
	return s.r.PendingCounts(ctx, manyThreshold)
}

func (s *service) CountPendingForMaterial(ctx context.Context, materialID string) (int, error) {
	return s.r.CountPendingForMaterial(ctx, materialID)
}

func (s *service) HasManyPendingLoans(ctx context.Context, materialID string) (bool, error) {
	n, err := s.r.CountPendingForMaterial(ctx, materialID)
	if err != nil {
		return false, err
	}
	return n >= manyThreshold, nil
}

func (s *service) PendingLoansForMaterial(ctx context.Context, materialID string) ([]model.PendingLoan, error) {
	rows, err := s.r.PendingForMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	out := make([]model.PendingLoan, len(rows))
	for i, r := range rows {
		out[i] = model.PendingLoan{
			ReaderName:    r.ReaderName,
			LibrarianName: r.LibrarianName,
			RequestDate:   r.RequestDate.Format(model.LoanDateLayout),
		}
	}
	return out, nil
}
