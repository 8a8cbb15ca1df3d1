package inference

import "errors"

// ErrPredictionFailure is the only failure callers of Predict can observe.
// Its text is safe to show to end users.
var ErrPredictionFailure = errors.New("unable to process input")

// PublicMessage is shown to users in place of any failure detail.
const PublicMessage = "Unable to process input. Please try again."

// Kind classifies a failure for diagnostics. It never reaches the user.
type Kind string

const (
	KindUnknownCategory Kind = "unknown_category"
	KindModelInference  Kind = "model_inference"
)

// FailureError is returned by Predict. It matches ErrPredictionFailure and
// keeps the underlying cause for logs and diagnostics.
type FailureError struct {
	kind  Kind
	cause error
}

func (e *FailureError) Error() string { return ErrPredictionFailure.Error() }

func (e *FailureError) Is(target error) bool { return target == ErrPredictionFailure }

func (e *FailureError) Unwrap() error { return e.cause }

// Kind reports which stage failed.
func (e *FailureError) Kind() Kind { return e.kind }

// KindOf extracts the failure kind from err, or "" when err is not a FailureError.
func KindOf(err error) Kind {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe.kind
	}
	return ""
}
