package services

import "errors"

var (
	ErrUnknownDrug       = errors.New("line item references a drug missing from the catalog")
	ErrLineItemCount     = errors.New("line item count out of range")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrImageLimit        = errors.New("image limit reached")
	ErrNotPending        = errors.New("quotation is not pending")
	ErrInvalidTransition = errors.New("invalid quotation state transition")
)
