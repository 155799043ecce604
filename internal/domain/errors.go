package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrAlreadyLoggedIn  = errors.New("user already logged in")
	ErrLoginFailed      = errors.New("login failed")
	ErrUsernameTaken    = errors.New("username is already taken")
)

var (
	ErrFlightNotFound      = errors.New("flight not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnknownItinerary    = errors.New("no such itinerary")
	ErrSameDayConflict     = errors.New("cannot book two flights in the same day")
	ErrCapacityExhausted   = errors.New("no seats left on flight")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrReservationNotFound = errors.New("reservation not found")
)

var (
	ErrValidation = errors.New("validation error")
)

// ErrDanglingTransaction means a unit of work returned with the connection
// still inside a transaction. It signals a missed commit/rollback on some
// exit path and is fatal for the operation: it is never retried and
// overrides any business result.
var ErrDanglingTransaction = errors.New("dangling transaction on connection")
