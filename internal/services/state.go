package services

import (
	"fmt"

	"github.com/diewo77/go-pharmacy/internal/models"
)

// QuotationEvent is a user action on a quotation.
type QuotationEvent string

const EventAccept QuotationEvent = "accept"

var transitions = map[models.QuotationState]map[QuotationEvent]models.QuotationState{
	models.QuotationPending: {EventAccept: models.QuotationApproved},
}

// NextState applies ev to from. Approved is terminal.
func NextState(from models.QuotationState, ev QuotationEvent) (models.QuotationState, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%s on %q: %w", ev, from, ErrInvalidTransition)
}

// CanAccept drives the accept button.
func CanAccept(q models.Quotation) bool {
	return q.State == models.QuotationPending
}
