// internal/resume/errors.go
package resume

import (
	"context"
	stderrors "errors"

	apperrors "resume-screening-workers/internal/common/errors"
	"resume-screening-workers/internal/models"
	"resume-screening-workers/internal/resume/ats"
	"resume-screening-workers/internal/resume/document"
)

// ToStandardError maps pipeline failures onto the shared error codes so the
// worker layer can decide between retrying and throwing a BPMN error.
func ToStandardError(err error) *apperrors.StandardError {
	if err == nil {
		return nil
	}

	var stdErr *apperrors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var extraction *document.ExtractionFailure
	if stderrors.As(err, &extraction) {
		e := apperrors.NewExtractionFailedError(extraction.Error(), extraction.Diagnostics)
		e.Cause = err
		if len(extraction.Missing) > 0 {
			e.WithMetadata("missingBackends", extraction.Missing)
		}
		return e
	}

	var precondition *ats.AnalysisPrecondition
	if stderrors.As(err, &precondition) {
		e := apperrors.NewAnalysisPreconditionError(precondition.CandidateID)
		e.Cause = err
		return e
	}

	var invalid *models.ValidationError
	if stderrors.As(err, &invalid) {
		e := apperrors.NewValidationFailedError(invalid.Message)
		e.Cause = err
		return e
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("resume pipeline", err)
	}
	return apperrors.NewInternalError(err)
}
