package recordsvc

import (
	"fmt"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/metadata"
	"github.com/rohmanhakim/consents/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout         FetchErrorCause = "timeout"
	ErrCauseNetworkFailure  FetchErrorCause = "network issues"
	ErrCauseRequestInvalid  FetchErrorCause = "invalid request"
	ErrCauseRequestTooMany  FetchErrorCause = "too many requests"
	ErrCauseRequest4xx      FetchErrorCause = "4xx"
	ErrCauseRequest5xx      FetchErrorCause = "5xx"
	ErrCauseBodyUndecodable FetchErrorCause = "undecodable response body"
	ErrCauseRetryExhausted  FetchErrorCause = "retries exhausted"
)

// FetchError means listing a page failed.
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch consents: %s", e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

type SubmitErrorCause string

const (
	ErrCauseSubmitTimeout      SubmitErrorCause = "timeout"
	ErrCauseSubmitNetwork      SubmitErrorCause = "network issues"
	ErrCauseSubmitEncode       SubmitErrorCause = "unencodable record"
	ErrCauseSubmitRejected     SubmitErrorCause = "rejected by validation"
	ErrCauseSubmitStatus       SubmitErrorCause = "unexpected status"
	ErrCauseSubmitUndecodable  SubmitErrorCause = "undecodable response body"
	ErrCauseSubmitServerFailed SubmitErrorCause = "5xx"
)

// SubmitError means appending a record failed. Details carries the
// server's per-field messages when the record was rejected.
type SubmitError struct {
	Message   string
	Retryable bool
	Cause     SubmitErrorCause
	Details   []consent.FieldError
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to add consent: %s", e.Message)
}

func (e *SubmitError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *SubmitError) IsRetryable() bool {
	return e.Retryable
}

// mapFetchErrorToMetadataCause maps local error semantics to the canonical
// metadata.ErrorCause table. Observational only.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout, ErrCauseNetworkFailure, ErrCauseRequest5xx:
		return metadata.CauseNetworkFailure
	case ErrCauseRequestTooMany, ErrCauseRequest4xx, ErrCauseRequestInvalid:
		return metadata.CauseRejected
	case ErrCauseBodyUndecodable:
		return metadata.CauseContentInvalid
	case ErrCauseRetryExhausted:
		return metadata.CauseRetryFailure
	default:
		return metadata.CauseUnknown
	}
}

func mapSubmitErrorToMetadataCause(err *SubmitError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseSubmitTimeout, ErrCauseSubmitNetwork, ErrCauseSubmitServerFailed:
		return metadata.CauseNetworkFailure
	case ErrCauseSubmitRejected, ErrCauseSubmitStatus:
		return metadata.CauseRejected
	case ErrCauseSubmitUndecodable, ErrCauseSubmitEncode:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
