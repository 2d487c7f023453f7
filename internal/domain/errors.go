package domain

import "errors"

var (
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInvalidVariant    = errors.New("no matching variant for product")
	ErrItemNotFound      = errors.New("item not found in cart")
	ErrNoPendingConflict = errors.New("no pending conflict to resolve")
	ErrInvalidDecision   = errors.New("decision not offered for this conflict")
	ErrAddInFlight       = errors.New("add already in progress for this item")
)
