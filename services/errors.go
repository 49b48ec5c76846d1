package services

import "errors"

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidSnapshot       = errors.New("invalid cart snapshot")
	ErrSnapshotTooLarge      = errors.New("cart is too large for checkout")
	ErrSignatureVerification = errors.New("webhook signature verification failed")
	ErrPaymentNotCompleted   = errors.New("payment not completed")
	ErrTicketClosed          = errors.New("cannot reply to a closed ticket")

	// errDuplicateOrder marks a lost insert race on the session id; callers
	// convert it into a read of the winning row.
	errDuplicateOrder = errors.New("order already exists for session")
)
