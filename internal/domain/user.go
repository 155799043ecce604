package domain

// User holds the account row. Balance is in integer currency units and is
// only mutated by payment (debit) and cancellation of a paid reservation
// (refund).
type User struct {
	Username     string
	PasswordHash []byte
	Salt         []byte
	Balance      int64
}

// Session is one authenticated caller. Session state (identity, itinerary
// cache) is private to the session and never shared across sessions.
type Session struct {
	Token    string
	Username string
}
