package services

import (
	"errors"
)

var (
	// ErrInvalidAmount is returned for zero or negative money amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a debit would overdraw a
	// wallet or a purchase would overdraw a venture. Deductions fail
	// loudly rather than flooring at zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransition is returned for any venture status change
	// outside proposed->ongoing and ongoing->finished.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicatePending is returned when a user already has an
	// undecided join request on the venture.
	ErrDuplicatePending = errors.New("a pending join request already exists")

	// ErrAlreadyDecided is returned when deciding a request that is no
	// longer pending.
	ErrAlreadyDecided = errors.New("join request already decided")

	// ErrVentureFinished is returned when an operation targets a venture
	// that has completed.
	ErrVentureFinished = errors.New("venture is finished")

	// ErrOwnerCannotLeave is returned when the owner attempts a voluntary
	// departure. A venture never exists without an owner member.
	ErrOwnerCannotLeave = errors.New("owner cannot leave their own venture")
)
