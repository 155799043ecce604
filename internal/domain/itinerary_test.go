package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flight(id int64, day, duration int, price int64) Flight {
	return Flight{ID: id, DayOfMonth: day, Duration: duration, Price: price}
}

func TestItinerary_Derived(t *testing.T) {
	direct := DirectItinerary(flight(7, 10, 120, 300))
	assert.Equal(t, 120, direct.Duration())
	assert.Equal(t, int64(300), direct.Price())
	assert.Equal(t, 10, direct.DayOfMonth())
	assert.False(t, direct.Layover())
	assert.Equal(t, ItineraryKey{First: 7, Second: 0}, direct.Key())

	layover := LayoverItinerary(flight(7, 10, 120, 300), flight(9, 10, 60, 150))
	assert.Equal(t, 180, layover.Duration())
	assert.Equal(t, int64(450), layover.Price())
	assert.True(t, layover.Layover())
	assert.Equal(t, ItineraryKey{First: 7, Second: 9}, layover.Key())
}

func TestSortItineraries(t *testing.T) {
	short := DirectItinerary(flight(5, 1, 60, 100))
	long := DirectItinerary(flight(2, 1, 200, 100))
	tieLowFid := DirectItinerary(flight(3, 1, 120, 100))
	tieHighFid := DirectItinerary(flight(8, 1, 120, 100))
	// Same total duration and same first leg as tieLowFid, but a second
	// leg: the absent second leg must sort lower.
	tieLayover := LayoverItinerary(flight(3, 1, 100, 100), flight(11, 1, 20, 50))

	list := []Itinerary{long, tieLayover, tieHighFid, short, tieLowFid}
	SortItineraries(list)

	assert.Equal(t, []Itinerary{short, tieLowFid, tieLayover, tieHighFid, long}, list)
}

func TestSortItineraries_Deterministic(t *testing.T) {
	a := []Itinerary{
		DirectItinerary(flight(4, 1, 90, 10)),
		LayoverItinerary(flight(1, 1, 30, 10), flight(2, 1, 60, 10)),
		DirectItinerary(flight(6, 1, 90, 10)),
	}
	b := make([]Itinerary, len(a))
	copy(b, a)

	SortItineraries(a)
	SortItineraries(b)
	assert.Equal(t, a, b)
}
