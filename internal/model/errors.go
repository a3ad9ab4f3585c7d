package model

import "fmt"

// ResolutionErrorKind classifies why a coordinate could not be resolved.
type ResolutionErrorKind int

const (
	NetworkFailure ResolutionErrorKind = iota + 1
	BadResponse
	ParseFailure
	BackendError
	NoResults
	NoMeaningfulMatch
)

func (k ResolutionErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case BadResponse:
		return "bad_response"
	case ParseFailure:
		return "parse_failure"
	case BackendError:
		return "backend_error"
	case NoResults:
		return "no_results"
	case NoMeaningfulMatch:
		return "no_meaningful_match"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ResolutionError is terminal for a single resolution attempt.
type ResolutionError struct {
	Kind    ResolutionErrorKind
	Message string
	Err     error
}

func NewResolutionError(kind ResolutionErrorKind, message string, err error) *ResolutionError {
	return &ResolutionError{Kind: kind, Message: message, Err: err}
}

func (e *ResolutionError) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// DisplayMessage is the short string shown in place of a location label.
func (e *ResolutionError) DisplayMessage() string {
	switch e.Kind {
	case NetworkFailure:
		return "Error"
	case BadResponse:
		return "Error while getting a response"
	case ParseFailure:
		return "Error while parsing the response"
	case BackendError:
		if e.Message != "" {
			return e.Message
		}
		return "Error while getting address"
	case NoResults:
		return "No results for location found"
	case NoMeaningfulMatch:
		return "Location unknown"
	default:
		return "Error"
	}
}
