package services

import "github.com/facilitydesk/backend/internal/models"

// TransitionPolicy decides whether a state change is allowed beyond
// referential validity. The workflow is data-driven, so strictness is a
// deployment choice rather than a hard-coded graph.
type TransitionPolicy interface {
	Validate(from, to *models.State) error
}

type allowAllPolicy struct{}

// AllowAllPolicy permits any state-to-state transition. This mirrors
// the historic behavior where the audit trail, not a guard, records
// what happened.
func AllowAllPolicy() TransitionPolicy {
	return allowAllPolicy{}
}

func (allowAllPolicy) Validate(from, to *models.State) error {
	return nil
}

type forwardOnlyPolicy struct{}

// ForwardOnlyPolicy rejects transitions that leave a terminal state or
// move backwards in workflow order.
func ForwardOnlyPolicy() TransitionPolicy {
	return forwardOnlyPolicy{}
}

func (forwardOnlyPolicy) Validate(from, to *models.State) error {
	if from.ID == to.ID {
		return nil
	}
	if from.IsTerminal {
		return models.NewValidationError("stateId", "report is already in a terminal state")
	}
	if to.Order < from.Order {
		return models.NewValidationError("stateId", "transition would move the report backwards")
	}
	return nil
}
