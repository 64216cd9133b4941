package apperr

import "errors"

// Sentinel errors for the ingestion and summarization flows. Handlers map
// these to response codes; anything unrecognized becomes a 500.
var (
	// ErrAccessDenied means the acting user id is not a registered account.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound means a referenced entity or association does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means a unique-key creation was attempted twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrExtractionFailed means the article could not be fetched or parsed.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrGenerationFailed means the model stream errored or ended abnormally.
	ErrGenerationFailed = errors.New("generation failed")
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}
