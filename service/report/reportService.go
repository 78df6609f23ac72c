package report

import (
	"context"
	"time"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	loanrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/loan"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
)

// FilterCriteria carries the optional textual criteria exactly as the caller
// sent them; empty string means unconstrained. Dates use yyyy-mm-dd.
type FilterCriteria struct {
	Zone     string
	State    string
	DateFrom string
	DateTo   string
}

type Repo interface {
	List(ctx context.Context, f loanrepo.Filter) ([]model.LoanRecord, error)
	CountByZoneAndStatus(ctx context.Context) ([]loanrepo.ZoneStatusCount, error)
}

type Service interface {
	ListAll(ctx context.Context) ([]model.LoanRecord, error)
	ListByState(ctx context.Context, state string) ([]model.LoanRecord, error)
	ListByReader(ctx context.Context, readerID string) ([]model.LoanRecord, error)
	ListByLibrarian(ctx context.Context, librarianID string) ([]model.LoanRecord, error)
	ListByMaterial(ctx context.Context, materialID string) ([]model.LoanRecord, error)
	Filter(ctx context.Context, c FilterCriteria) ([]model.LoanRecord, error)

	// StatisticsByZone returns one row per defined zone, zones with no loans
	// included with zeroed counters.
	StatisticsByZone(ctx context.Context) ([]model.ZoneStatistics, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) ListAll(ctx context.Context) ([]model.LoanRecord, error) {
	return s.r.List(ctx, loanrepo.Filter{})
}

func (s *service) ListByState(ctx context.Context, state string) ([]model.LoanRecord, error) {
	st, ok := model.ParseLoanStatus(state)
	if !ok {
		return nil, apperr.Invalid("state %q is not valid, expected one of %v", state, model.LoanStatuses())
	}
	return s.r.List(ctx, loanrepo.Filter{Status: &st})
}

func (s *service) ListByReader(ctx context.Context, readerID string) ([]model.LoanRecord, error) {
	return s.r.List(ctx, loanrepo.Filter{ReaderID: &readerID})
}

func (s *service) ListByLibrarian(ctx context.Context, librarianID string) ([]model.LoanRecord, error) {
	return s.r.List(ctx, loanrepo.Filter{LibrarianID: &librarianID})
}

func (s *service) ListByMaterial(ctx context.Context, materialID string) ([]model.LoanRecord, error) {
	return s.r.List(ctx, loanrepo.Filter{MaterialID: &materialID})
}

// Filter validates each supplied criterion, builds the conjunctive filter
// and runs it. Omitted criteria stay unconstrained.
func (s *service) Filter(ctx context.Context, c FilterCriteria) ([]model.LoanRecord, error) {
	var f loanrepo.Filter

	if c.Zone != "" {
		z, ok := model.ParseZone(c.Zone)
		if !ok {
			return nil, apperr.Invalid("zone %q is not valid, expected one of %v", c.Zone, model.Zones())
		}
		f.Zone = &z
	}
	if c.State != "" {
		st, ok := model.ParseLoanStatus(c.State)
		if !ok {
			return nil, apperr.Invalid("state %q is not valid, expected one of %v", c.State, model.LoanStatuses())
		}
		f.Status = &st
	}

	var from, to time.Time
	if c.DateFrom != "" {
		d, err := time.ParseInLocation(model.FilterDateLayout, c.DateFrom, time.UTC)
		if err != nil {
			return nil, apperr.Invalid("dateFrom %q is not a valid yyyy-mm-dd date", c.DateFrom)
		}
		from = d
		f.From = &from
	}
	if c.DateTo != "" {
		d, err := time.ParseInLocation(model.FilterDateLayout, c.DateTo, time.UTC)
		if err != nil {
			return nil, apperr.Invalid("dateTo %q is not a valid yyyy-mm-dd date", c.DateTo)
		}
		// inclusive through the end of the day
		to = d.Add(24*time.Hour - time.Second)
		f.To = &to
	}
	if f.From != nil && f.To != nil && from.After(to) {
		return nil, apperr.Invalid("dateFrom %s must not be after dateTo %s", c.DateFrom, c.DateTo)
	}

	return s.r.List(ctx, f)
}

func (s *service) StatisticsByZone(ctx context.Context) ([]model.ZoneStatistics, error) {
	counts, err := s.r.CountByZoneAndStatus(ctx)
	if err != nil {
		return nil, err
	}

	byZone := make(map[model.Zone]*model.ZoneStatistics)
	out := make([]model.ZoneStatistics, len(model.Zones()))
	for i, z := range model.Zones() {
		out[i] = model.ZoneStatistics{Zone: z}
		byZone[z] = &out[i]
	}

	for _, c := range counts {
		st, ok := byZone[c.Zone]
		if !ok {
			// a reader row carrying an unknown zone value is skipped
			continue
		}
		st.Total += c.Total
		switch c.Status {
		case model.LoanPending:
			st.Pending += c.Total
		case model.LoanInProgress:
			st.InProgress += c.Total
		case model.LoanReturned:
			st.Returned += c.Total
		}
	}
	return out, nil
}
