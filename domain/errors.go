package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrValidationFailed     ErrorKind = "ValidationFailed"
	ErrGenerationFailed     ErrorKind = "GenerationFailed"
	ErrGenerationTimeout    ErrorKind = "GenerationTimeout"
	ErrAuthFailed           ErrorKind = "AuthFailed"
	ErrUploadFailed         ErrorKind = "UploadFailed"
	ErrConfigurationMissing ErrorKind = "ConfigurationMissing"
)

// PipelineError classifies every failure the pipeline can surface. Detail
// carries provider-supplied structured diagnostics when available.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Detail  map[string]interface{}
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewPipelineError(kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Message: message,
		Err:     cause,
	}
}

func (e *PipelineError) WithDetail(key string, value interface{}) *PipelineError {
	if e.Detail == nil {
		e.Detail = make(map[string]interface{})
	}
	e.Detail[key] = value
	return e
}

// KindOf extracts the classification of an error, or empty string when the
// error was never classified.
func KindOf(err error) ErrorKind {
	var pipelineErr *PipelineError
	if errors.As(err, &pipelineErr) {
		return pipelineErr.Kind
	}
	return ""
}
