package search

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) SearchDirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error) {
	args := m.Called(ctx, origin, dest, day, limit)
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

func (m *MockFlightRepository) SearchIndirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error) {
	args := m.Called(ctx, origin, dest, day, limit)
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

type MockItineraryCache struct {
	mock.Mock
}

func (m *MockItineraryCache) PutItineraries(ctx context.Context, token string, itineraries []domain.Itinerary) error {
	args := m.Called(ctx, token, itineraries)
	return args.Error(0)
}

func direct(fid int64, duration int) domain.Itinerary {
	return domain.DirectItinerary(domain.Flight{ID: fid, DayOfMonth: 10, Duration: duration, Price: 100})
}

func layover(fid1, fid2 int64, d1, d2 int) domain.Itinerary {
	return domain.LayoverItinerary(
		domain.Flight{ID: fid1, DayOfMonth: 10, Duration: d1, Price: 100},
		domain.Flight{ID: fid2, DayOfMonth: 10, Duration: d2, Price: 100},
	)
}

var query = Query{Origin: "Seattle WA", Dest: "New York NY", Day: 10, Limit: 5}

func TestSearch_CombinedSortedByDuration(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockItineraryCache{}
	svc := NewSearchService(flights, cache, 100, zerolog.Nop())

	d1 := direct(7, 300)
	d2 := direct(9, 500)
	ind := layover(3, 4, 100, 150) // total 250, shortest overall

	flights.On("SearchDirect", mock.Anything, query.Origin, query.Dest, 10, 5).Return([]domain.Itinerary{d1, d2}, nil)
	flights.On("SearchIndirect", mock.Anything, query.Origin, query.Dest, 10, 3).Return([]domain.Itinerary{ind}, nil)
	cache.On("PutItineraries", mock.Anything, "tok", mock.Anything).Return(nil)

	got, err := svc.Search(context.Background(), "tok", query)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []domain.Itinerary{ind, d1, d2}, got)

	// The cached list is exactly the returned one, so indices agree.
	cache.AssertCalled(t, "PutItineraries", mock.Anything, "tok", got)
}

func TestSearch_DirectOnlySkipsIndirect(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockItineraryCache{}
	svc := NewSearchService(flights, cache, 100, zerolog.Nop())

	q := query
	q.DirectOnly = true
	flights.On("SearchDirect", mock.Anything, q.Origin, q.Dest, 10, 5).Return([]domain.Itinerary{direct(7, 300)}, nil)
	cache.On("PutItineraries", mock.Anything, "tok", mock.Anything).Return(nil)

	got, err := svc.Search(context.Background(), "tok", q)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	flights.AssertNotCalled(t, "SearchIndirect")
}

func TestSearch_LimitReachedByDirects(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockItineraryCache{}
	svc := NewSearchService(flights, cache, 100, zerolog.Nop())

	q := query
	q.Limit = 2
	flights.On("SearchDirect", mock.Anything, q.Origin, q.Dest, 10, 2).Return([]domain.Itinerary{direct(7, 300), direct(9, 500)}, nil)
	cache.On("PutItineraries", mock.Anything, "tok", mock.Anything).Return(nil)

	got, err := svc.Search(context.Background(), "tok", q)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	flights.AssertNotCalled(t, "SearchIndirect")
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockItineraryCache{}
	svc := NewSearchService(flights, cache, 100, zerolog.Nop())

	flights.On("SearchDirect", mock.Anything, query.Origin, query.Dest, 10, 5).Return([]domain.Itinerary{}, nil)
	flights.On("SearchIndirect", mock.Anything, query.Origin, query.Dest, 10, 5).Return([]domain.Itinerary{}, nil)
	cache.On("PutItineraries", mock.Anything, "tok", mock.Anything).Return(nil)

	got, err := svc.Search(context.Background(), "tok", query)
	require.NoError(t, err)
	assert.Empty(t, got)

	// The empty result still replaces the previous session cache, so
	// indices from an earlier search stop resolving.
	cache.AssertNumberOfCalls(t, "PutItineraries", 1)
}

func TestSearch_AnonymousSkipsCache(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockItineraryCache{}
	svc := NewSearchService(flights, cache, 100, zerolog.Nop())

	flights.On("SearchDirect", mock.Anything, query.Origin, query.Dest, 10, 5).Return([]domain.Itinerary{direct(7, 300)}, nil)
	flights.On("SearchIndirect", mock.Anything, query.Origin, query.Dest, 10, 4).Return([]domain.Itinerary{}, nil)

	got, err := svc.Search(context.Background(), "", query)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	cache.AssertNotCalled(t, "PutItineraries")
}

func TestSearch_LimitClampedToMax(t *testing.T) {
	flights := &MockFlightRepository{}
	cache := &MockItineraryCache{}
	svc := NewSearchService(flights, cache, 10, zerolog.Nop())

	q := query
	q.Limit = 5000
	flights.On("SearchDirect", mock.Anything, q.Origin, q.Dest, 10, 10).Return([]domain.Itinerary{}, nil)
	flights.On("SearchIndirect", mock.Anything, q.Origin, q.Dest, 10, 10).Return([]domain.Itinerary{}, nil)
	cache.On("PutItineraries", mock.Anything, "tok", mock.Anything).Return(nil)

	_, err := svc.Search(context.Background(), "tok", q)
	require.NoError(t, err)
	flights.AssertCalled(t, "SearchDirect", mock.Anything, q.Origin, q.Dest, 10, 10)
}
