package search

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/rs/zerolog"
)

type SearchUseCase interface {
	Search(ctx context.Context, sessionToken string, q Query) ([]domain.Itinerary, error)
	GetFlight(ctx context.Context, id int64) (*domain.Flight, error)
}

type Query struct {
	Origin     string
	Dest       string
	DirectOnly bool
	Day        int
	Limit      int
}

type ItineraryCache interface {
	PutItineraries(ctx context.Context, token string, itineraries []domain.Itinerary) error
}

type SearchService struct {
	flights  repository.FlightRepository
	cache    ItineraryCache
	limitMax int
	logger   zerolog.Logger
}

func NewSearchService(flights repository.FlightRepository, cache ItineraryCache, limitMax int, logger zerolog.Logger) *SearchService {
	if limitMax <= 0 {
		limitMax = 100
	}
	return &SearchService{flights: flights, cache: cache, limitMax: limitMax, logger: logger}
}

// Search fetches direct itineraries first, tops the list up with two-leg
// itineraries when allowed, and sorts the combined result by total duration
// with leg flight ids as tiebreak. The position in the returned slice is the
// index a later booking refers to. An empty result is not an error.
//
// When the caller is authenticated, the result replaces the session's cached
// itinerary list wholesale, so stale indices from an earlier search can
// never resolve.
func (s *SearchService) Search(ctx context.Context, sessionToken string, q Query) ([]domain.Itinerary, error) {
	limit := q.Limit
	if limit <= 0 || limit > s.limitMax {
		limit = s.limitMax
	}

	itineraries, err := s.flights.SearchDirect(ctx, q.Origin, q.Dest, q.Day, limit)
	if err != nil {
		return nil, err
	}

	if !q.DirectOnly && len(itineraries) < limit {
		indirect, err := s.flights.SearchIndirect(ctx, q.Origin, q.Dest, q.Day, limit-len(itineraries))
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries, indirect...)
	}

	domain.SortItineraries(itineraries)

	if sessionToken != "" {
		if err := s.cache.PutItineraries(ctx, sessionToken, itineraries); err != nil {
			return nil, err
		}
	}

	s.logger.Debug().
		Str("origin", q.Origin).
		Str("dest", q.Dest).
		Int("day", q.Day).
		Int("results", len(itineraries)).
		Msg("itinerary search")
	return itineraries, nil
}

// GetFlight returns a single flight by id.
func (s *SearchService) GetFlight(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

var _ SearchUseCase = (*SearchService)(nil)
