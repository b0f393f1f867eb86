// File: services/messagelog/errors.go
package messagelog

import "consultly/utils"

var (
	ErrConsultationNotFound = utils.NewServiceError(utils.CodeNotFound, "consultation not found")
	ErrMessageNotFound      = utils.NewServiceError(utils.CodeNotFound, "message not found")

	ErrForbidden = utils.NewServiceError(utils.CodeForbidden,
		"only the original sender may modify a message")

	ErrEditWindowExpired = utils.NewServiceError(utils.CodeEditWindowExpired,
		"messages can only be modified within 5 minutes of sending")

	ErrConsultationNotActive = utils.NewServiceError(utils.CodeConsultationNotActive,
		"messages can only be sent while the consultation is pending or active")
)
