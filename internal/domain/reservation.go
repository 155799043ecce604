package domain

// Reservation is one booked itinerary. The id is allocated by the store,
// increases monotonically across the whole system and is never reused, even
// after cancellation: a canceled row stays in the table forever.
type Reservation struct {
	ID       int64
	Key      ItineraryKey
	Day      int
	Username string
	Paid     bool
	Canceled bool

	// Legs are populated on reads that join the itinerary back in.
	Legs []Flight
}
