package models

import "errors"

// Common errors used throughout the client
var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrTitleRequired      = errors.New("title is required")
	ErrScheduleRequired   = errors.New("schedule is required")
	ErrLocationRequired   = errors.New("location is required")
	ErrPriceTypeRequired  = errors.New("price type is required")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrInvalidOrderLine   = errors.New("order line requires representation and price identifiers")
	ErrNotLoggedIn        = errors.New("no authenticated session")
)
