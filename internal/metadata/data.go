package metadata

import (
	"time"
)

type FetchEvent struct {
	Method     string
	URL        string
	HTTPStatus int
	Duration   time.Duration
	Attempts   int
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used for retry or refresh decisions.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

  - The failure does not map cleanly to any known category.

# CauseNetworkFailure

  - Transport failure or remote unavailability (timeouts, resets, 5xx).

# CauseContentInvalid

  - A response arrived but could not be decoded.

# CauseRejected

  - The collection endpoint refused the request (4xx, failed validation).

# CauseRetryFailure

  - Retry attempts were exhausted or interrupted.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseContentInvalid
	CauseRejected
	CauseRetryFailure
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseRejected:
		return "rejected"
	case CauseRetryFailure:
		return "retry_failure"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrMethod     AttributeKey = "method"
	AttrPage       AttributeKey = "page"
	AttrPageSize   AttributeKey = "page_size"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrMessage    AttributeKey = "message"
)
