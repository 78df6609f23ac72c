package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/model"
	loanrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/loan"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
)

type repoMock struct {
	list   func(ctx context.Context, f loanrepo.Filter) ([]model.LoanRecord, error)
	counts func(ctx context.Context) ([]loanrepo.ZoneStatusCount, error)
}

func (m *repoMock) List(ctx context.Context, f loanrepo.Filter) ([]model.LoanRecord, error) {
	return m.list(ctx, f)
}

func (m *repoMock) CountByZoneAndStatus(ctx context.Context) ([]loanrepo.ZoneStatusCount, error) {
	return m.counts(ctx)
}

func TestFilterRejectsBadCriteria(t *testing.T) {
	svc := New(&repoMock{
		list: func(context.Context, loanrepo.Filter) ([]model.LoanRecord, error) {
			t.Fatal("repo must not be reached on invalid criteria")
			return nil, nil
		},
	})
	ctx := context.Background()

	cases := []struct {
		name string
		c    FilterCriteria
	}{
		{"unknown zone", FilterCriteria{Zone: "POLO_NORTE"}},
		{"unknown state", FilterCriteria{State: "PERDIDO"}},
		{"bad dateFrom", FilterCriteria{DateFrom: "10/03/2026"}},
		{"bad dateTo", FilterCriteria{DateTo: "not-a-date"}},
		{"inverted range", FilterCriteria{DateFrom: "2026-03-10", DateTo: "2026-03-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Filter(ctx, tc.c)
			require.Equal(t, apperr.KindInvalid, apperr.Code(err))
		})
	}
}

func TestFilterBuildsConjunctiveCriteria(t *testing.T) {
	var got loanrepo.Filter
	svc := New(&repoMock{
		list: func(_ context.Context, f loanrepo.Filter) ([]model.LoanRecord, error) {
			got = f
			return []model.LoanRecord{}, nil
		},
	})

	_, err := svc.Filter(context.Background(), FilterCriteria{
		Zone:     "CENTRAL",
		State:    "EN_CURSO",
		DateFrom: "2026-03-01",
		DateTo:   "2026-03-10",
	})
	require.NoError(t, err)

	require.NotNil(t, got.Zone)
	require.Equal(t, model.ZoneCentral, *got.Zone)
	require.NotNil(t, got.Status)
	require.Equal(t, model.LoanInProgress, *got.Status)
	require.NotNil(t, got.From)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *got.From)
	require.NotNil(t, got.To)
	// the upper bound covers the whole dateTo day
	require.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC), *got.To)
}

func TestFilterOmittedCriteriaStayUnconstrained(t *testing.T) {
	var got loanrepo.Filter
	svc := New(&repoMock{
		list: func(_ context.Context, f loanrepo.Filter) ([]model.LoanRecord, error) {
			got = f
			return []model.LoanRecord{}, nil
		},
	})

	_, err := svc.Filter(context.Background(), FilterCriteria{State: "PENDIENTE"})
	require.NoError(t, err)
	require.Nil(t, got.Zone)
	require.Nil(t, got.From)
	require.Nil(t, got.To)
	require.NotNil(t, got.Status)
}

func TestListByStateRejectsUnknownState(t *testing.T) {
	svc := New(&repoMock{})
	_, err := svc.ListByState(context.Background(), "EXTRAVIADO")
	require.Equal(t, apperr.KindInvalid, apperr.Code(err))
}

func TestStatisticsByZoneZeroFillsEveryZone(t *testing.T) {
	svc := New(&repoMock{
		counts: func(context.Context) ([]loanrepo.ZoneStatusCount, error) {
			return []loanrepo.ZoneStatusCount{
				{Zone: model.ZoneCentral, Status: model.LoanPending, Total: 2},
				{Zone: model.ZoneCentral, Status: model.LoanReturned, Total: 1},
				{Zone: model.ZoneSur, Status: model.LoanInProgress, Total: 3},
			}, nil
		},
	})

	stats, err := svc.StatisticsByZone(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, len(model.Zones()))

	byZone := make(map[model.Zone]model.ZoneStatistics, len(stats))
	for _, s := range stats {
		byZone[s.Zone] = s
	}

	require.Equal(t, 3, byZone[model.ZoneCentral].Total)
	require.Equal(t, 2, byZone[model.ZoneCentral].Pending)
	require.Equal(t, 1, byZone[model.ZoneCentral].Returned)
	require.Equal(t, 3, byZone[model.ZoneSur].InProgress)

	for _, z := range []model.Zone{model.ZoneNorte, model.ZoneEste, model.ZoneOeste} {
		require.Zero(t, byZone[z].Total)
		require.Zero(t, byZone[z].Pending)
		require.Zero(t, byZone[z].InProgress)
		require.Zero(t, byZone[z].Returned)
	}
}

func TestStatisticsByZoneSkipsUnknownZoneRows(t *testing.T) {
	svc := New(&repoMock{
		counts: func(context.Context) ([]loanrepo.ZoneStatusCount, error) {
			return []loanrepo.ZoneStatusCount{
				{Zone: "ATLANTIDA", Status: model.LoanPending, Total: 9},
			}, nil
		},
	})

	stats, err := svc.StatisticsByZone(context.Background())
	require.NoError(t, err)
	for _, s := range stats {
		require.Zero(t, s.Total)
	}
}
