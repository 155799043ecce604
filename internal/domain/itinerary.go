package domain

import "sort"

// ItineraryKey is the persistence identity of an itinerary: the ordered leg
// flight ids. Second is zero for a direct itinerary.
type ItineraryKey struct {
	First  int64 `json:"first"`
	Second int64 `json:"second"`
}

// Itinerary is one flight, or two flights connecting through the same city
// on the same day.
type Itinerary struct {
	First  Flight  `json:"first"`
	Second *Flight `json:"second,omitempty"`
}

func DirectItinerary(f Flight) Itinerary {
	return Itinerary{First: f}
}

func LayoverItinerary(f1, f2 Flight) Itinerary {
	return Itinerary{First: f1, Second: &f2}
}

func (it Itinerary) Layover() bool {
	return it.Second != nil
}

func (it Itinerary) Key() ItineraryKey {
	k := ItineraryKey{First: it.First.ID}
	if it.Second != nil {
		k.Second = it.Second.ID
	}
	return k
}

// Duration is the sum of leg durations.
func (it Itinerary) Duration() int {
	d := it.First.Duration
	if it.Second != nil {
		d += it.Second.Duration
	}
	return d
}

// Price is the sum of leg prices.
func (it Itinerary) Price() int64 {
	p := it.First.Price
	if it.Second != nil {
		p += it.Second.Price
	}
	return p
}

// DayOfMonth is the calendar day both legs fly on.
func (it Itinerary) DayOfMonth() int {
	return it.First.DayOfMonth
}

// Less orders itineraries by total duration, then first leg id, then second
// leg id, where a missing second leg sorts lowest.
func (it Itinerary) Less(other Itinerary) bool {
	if it.Duration() != other.Duration() {
		return it.Duration() < other.Duration()
	}
	if it.First.ID != other.First.ID {
		return it.First.ID < other.First.ID
	}
	return it.Key().Second < other.Key().Second
}

// SortItineraries sorts in place by the search output order. The position in
// the sorted slice becomes the itinerary's session-scoped index.
func SortItineraries(list []Itinerary) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Less(list[j])
	})
}
