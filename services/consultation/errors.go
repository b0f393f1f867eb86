// File: services/consultation/errors.go
package consultation

import (
	"fmt"

	"consultly/models"
	"consultly/utils"
)

var (
	ErrNotFound = utils.NewServiceError(utils.CodeNotFound, "consultation not found")

	ErrSlotUnavailable = utils.NewServiceError(utils.CodeSlotUnavailable,
		"slot is already booked, has started, or does not exist")

	ErrDuplicateActive = utils.NewServiceError(utils.CodeDuplicateActiveConsultation,
		"you already have an active consultation with this advisor")

	ErrCancellationWindowExpired = utils.NewServiceError(utils.CodeCancellationWindowExpired,
		"cancellation must be done at least 24 hours before the scheduled start")
)

// NewInvalidTransitionError describes a rejected state-machine edge.
func NewInvalidTransitionError(from, to models.ConsultationStatus) *utils.ServiceError {
	return utils.NewServiceError(utils.CodeInvalidTransition,
		fmt.Sprintf("cannot transition consultation from %s to %s", from, to))
}

// NewValidationError wraps an input validation failure.
func NewValidationError(message string) *utils.ServiceError {
	return utils.NewServiceError(utils.CodeValidationError, message)
}
