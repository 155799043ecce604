package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Search(ctx context.Context, sessionToken string, q search.Query) ([]domain.Itinerary, error) {
	args := m.Called(ctx, sessionToken, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

func (m *MockSearchUseCase) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func TestFlightSearch_OK(t *testing.T) {
	service := &MockSearchUseCase{}
	accounts := authedAccounts()
	router := NewRouter(NewFlightHandler(service, accounts))

	second := domain.Flight{ID: 4, DayOfMonth: 10, Duration: 150, Price: 80}
	results := []domain.Itinerary{
		domain.LayoverItinerary(domain.Flight{ID: 3, DayOfMonth: 10, Duration: 100, Price: 100}, second),
		domain.DirectItinerary(domain.Flight{ID: 7, DayOfMonth: 10, Duration: 300, Price: 120}),
	}
	wantQuery := search.Query{Origin: "Seattle WA", Dest: "Boston MA", Day: 10, Limit: 2}
	service.On("Search", mock.Anything, "tok-1", wantQuery).Return(results, nil)

	w := doJSON(t, router, http.MethodGet,
		"/flights/search?origin=Seattle+WA&dest=Boston+MA&day=10&limit=2", "tok-1", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Itineraries []itineraryResponse `json:"itineraries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Itineraries, 2)
	assert.Equal(t, 0, resp.Itineraries[0].Index)
	assert.Equal(t, 250, resp.Itineraries[0].Duration)
	assert.Len(t, resp.Itineraries[0].Flights, 2)
	assert.Equal(t, 1, resp.Itineraries[1].Index)
	assert.Len(t, resp.Itineraries[1].Flights, 1)
}

func TestFlightSearch_AnonymousPassesEmptyToken(t *testing.T) {
	service := &MockSearchUseCase{}
	router := NewRouter(NewFlightHandler(service, authedAccounts()))

	service.On("Search", mock.Anything, "", mock.Anything).Return([]domain.Itinerary{}, nil)

	w := doJSON(t, router, http.MethodGet,
		"/flights/search?origin=Seattle+WA&dest=Boston+MA&day=10", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	service.AssertCalled(t, "Search", mock.Anything, "", mock.Anything)
}

func TestFlightSearch_DirectFlag(t *testing.T) {
	service := &MockSearchUseCase{}
	router := NewRouter(NewFlightHandler(service, authedAccounts()))

	service.On("Search", mock.Anything, "tok-1", mock.MatchedBy(func(q search.Query) bool {
		return q.DirectOnly
	})).Return([]domain.Itinerary{}, nil)

	w := doJSON(t, router, http.MethodGet,
		"/flights/search?origin=Seattle+WA&dest=Boston+MA&day=10&direct=true", "tok-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetFlight(t *testing.T) {
	service := &MockSearchUseCase{}
	router := NewRouter(NewFlightHandler(service, authedAccounts()))

	service.On("GetFlight", mock.Anything, int64(7)).Return(
		&domain.Flight{ID: 7, DayOfMonth: 10, CarrierID: "AA", OriginCity: "Seattle WA", DestCity: "Boston MA"}, nil)
	service.On("GetFlight", mock.Anything, int64(404)).Return(nil, domain.ErrFlightNotFound)

	w := doJSON(t, router, http.MethodGet, "/flights/7", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var flight domain.Flight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flight))
	assert.Equal(t, int64(7), flight.ID)

	w = doJSON(t, router, http.MethodGet, "/flights/404", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/flights/seven", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightSearch_BadRequest(t *testing.T) {
	service := &MockSearchUseCase{}
	router := NewRouter(NewFlightHandler(service, authedAccounts()))

	cases := map[string]string{
		"missing day":    "/flights/search?origin=Seattle+WA&dest=Boston+MA",
		"missing origin": "/flights/search?dest=Boston+MA&day=10",
		"missing dest":   "/flights/search?origin=Seattle+WA&day=10",
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, path, "tok-1", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	service.AssertNotCalled(t, "Search")
}
