package api

import (
	"errors"
	"fmt"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
	KindStatus     Kind = "status"
	KindDecode     Kind = "decode"
	KindServer     Kind = "server"
)

// Failure is the only error type returned by Client.
type Failure struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (failure *Failure) Error() string {
	if failure.StatusCode != 0 {
		return fmt.Sprintf("%s error (HTTP %d): %s", failure.Kind, failure.StatusCode, failure.Message)
	}
	return fmt.Sprintf("%s error: %s", failure.Kind, failure.Message)
}

func (failure *Failure) Unwrap() error {
	return failure.Err
}

// Severity maps a failure to a notification level: rejected input is a
// warning, everything that reached the network is a danger.
func (failure *Failure) Severity() string {
	if failure.Kind == KindValidation {
		return "warning"
	}
	return "danger"
}

func validationFailure(message string) *Failure {
	return &Failure{Kind: KindValidation, Message: message}
}

func AsFailure(err error) (*Failure, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}

func IsValidation(err error) bool {
	failure, ok := AsFailure(err)
	return ok && failure.Kind == KindValidation
}

// ToResult collapses any client outcome into the {success, error} shape.
func ToResult(err error) model.Result {
	if err == nil {
		return model.Result{Success: true}
	}
	if failure, ok := AsFailure(err); ok {
		return model.Result{Success: false, Error: failure.Message}
	}
	return model.Result{Success: false, Error: err.Error()}
}
