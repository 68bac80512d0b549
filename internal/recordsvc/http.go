package recordsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rohmanhakim/consents/internal/build"
	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/metadata"
	"github.com/rohmanhakim/consents/pkg/failure"
	"github.com/rohmanhakim/consents/pkg/retry"
	"github.com/rohmanhakim/consents/pkg/urlutil"
)

/*
Responsibilities

- Perform HTTP requests against the collection endpoint
- Apply timeouts
- Classify responses into FetchError / SubmitError
- Record every call with metadata

Listing is idempotent and retried per retryParam. Appending is never
retried: a lost response would otherwise duplicate the record.
*/

const resourcePath = "consents"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

type HTTPService struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	baseURL      url.URL
	retryParam   retry.RetryParam
}

func NewHTTPService(
	metadataSink metadata.MetadataSink,
	baseURL url.URL,
	timeout time.Duration,
	retryParam retry.RetryParam,
) *HTTPService {
	return &HTTPService{
		metadataSink: metadataSink,
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      urlutil.Canonicalize(baseURL),
		retryParam:   retryParam,
	}
}

func (h *HTTPService) List(ctx context.Context, page int, pageSize int) (ListResult, failure.ClassifiedError) {
	callerMethod := "HTTPService.List"

	if page < 1 || pageSize < 1 {
		return ListResult{}, &FetchError{
			Message:   fmt.Sprintf("page %d and page size %d must be positive", page, pageSize),
			Retryable: false,
			Cause:     ErrCauseRequestInvalid,
		}
	}

	endpoint := urlutil.Endpoint(h.baseURL, resourcePath, url.Values{
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(pageSize)},
	})

	startTime := time.Now()
	attempts := 0
	var statusCode int

	listTask := func() (ListResult, failure.ClassifiedError) {
		attempts++
		result, code, err := h.performList(ctx, endpoint, pageSize)
		statusCode = code
		return result, err
	}

	result, err := retry.Retry(ctx, h.retryParam, listTask)

	h.metadataSink.RecordFetch(metadata.FetchEvent{
		Method:     http.MethodGet,
		URL:        endpoint.String(),
		HTTPStatus: statusCode,
		Duration:   time.Since(startTime),
		Attempts:   attempts,
	})

	if err != nil {
		fetchErr := asFetchError(err)
		h.recordFetchError(callerMethod, endpoint, page, fetchErr)
		return ListResult{}, fetchErr
	}

	return result, nil
}

func (h *HTTPService) Append(ctx context.Context, record consent.Record) (consent.Record, failure.ClassifiedError) {
	callerMethod := "HTTPService.Append"
	endpoint := urlutil.Endpoint(h.baseURL, resourcePath, nil)

	startTime := time.Now()
	created, statusCode, err := h.performAppend(ctx, endpoint, record)

	h.metadataSink.RecordFetch(metadata.FetchEvent{
		Method:     http.MethodPost,
		URL:        endpoint.String(),
		HTTPStatus: statusCode,
		Duration:   time.Since(startTime),
		Attempts:   1,
	})

	if err != nil {
		h.metadataSink.RecordError(
			time.Now(),
			"recordsvc",
			callerMethod,
			mapSubmitErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, endpoint.String()),
				metadata.NewAttr(metadata.AttrHTTPStatus, strconv.Itoa(statusCode)),
			},
		)
		return consent.Record{}, err
	}

	return created, nil
}

func (h *HTTPService) recordFetchError(callerMethod string, endpoint url.URL, page int, err *FetchError) {
	h.metadataSink.RecordError(
		time.Now(),
		"recordsvc",
		callerMethod,
		mapFetchErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, endpoint.String()),
			metadata.NewAttr(metadata.AttrPage, strconv.Itoa(page)),
		},
	)
}

// asFetchError folds a retry failure into the FetchError contract.
func asFetchError(err failure.ClassifiedError) *FetchError {
	var retryErr *retry.RetryError
	if errors.As(err, &retryErr) {
		return &FetchError{
			Message:   retryErr.Message,
			Retryable: false,
			Cause:     ErrCauseRetryExhausted,
		}
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}

	return &FetchError{
		Message:   err.Error(),
		Retryable: false,
		Cause:     ErrCauseNetworkFailure,
	}
}

func (h *HTTPService) performList(ctx context.Context, endpoint url.URL, pageSize int) (ListResult, int, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return ListResult{}, 0, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseRequestInvalid,
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", build.UserAgent())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ListResult{}, 0, &FetchError{
				Message:   fmt.Sprintf("request timed out: %v", err),
				Retryable: ctx.Err() == nil,
				Cause:     ErrCauseTimeout,
			}
		}
		return ListResult{}, 0, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: ctx.Err() == nil,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return ListResult{}, resp.StatusCode, &FetchError{
			Message:   fmt.Sprintf("server error: %d", resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseRequest5xx,
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		return ListResult{}, resp.StatusCode, &FetchError{
			Message:   "rate limited (429)",
			Retryable: true,
			Cause:     ErrCauseRequestTooMany,
		}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return ListResult{}, resp.StatusCode, &FetchError{
			Message:   fmt.Sprintf("unexpected status: %d", resp.StatusCode),
			Retryable: false,
			Cause:     ErrCauseRequest4xx,
		}
	}

	var body consent.PageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return ListResult{}, resp.StatusCode, &FetchError{
			Message:   fmt.Sprintf("failed to decode response body: %v", err),
			Retryable: false,
			Cause:     ErrCauseBodyUndecodable,
		}
	}

	if body.Total < 0 {
		return ListResult{}, resp.StatusCode, &FetchError{
			Message:   fmt.Sprintf("negative total: %d", body.Total),
			Retryable: false,
			Cause:     ErrCauseBodyUndecodable,
		}
	}

	records := body.Data
	if len(records) > pageSize {
		records = records[:pageSize]
	}
	if records == nil {
		records = []consent.Record{}
	}

	return NewListResult(records, body.Total, body.Page, body.PageSize), resp.StatusCode, nil
}

func (h *HTTPService) performAppend(ctx context.Context, endpoint url.URL, record consent.Record) (consent.Record, int, *SubmitError) {
	payload, err := json.Marshal(record)
	if err != nil {
		return consent.Record{}, 0, &SubmitError{
			Message:   fmt.Sprintf("failed to encode record: %v", err),
			Retryable: false,
			Cause:     ErrCauseSubmitEncode,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return consent.Record{}, 0, &SubmitError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseSubmitEncode,
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", build.UserAgent())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseSubmitNetwork
		if isTimeout(err) {
			cause = ErrCauseSubmitTimeout
		}
		return consent.Record{}, 0, &SubmitError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     cause,
		}
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		var rejection consent.ErrorResponse
		message := "invalid input"
		if err := json.NewDecoder(body).Decode(&rejection); err == nil && rejection.Error != "" {
			message = rejection.Error
		}
		return consent.Record{}, resp.StatusCode, &SubmitError{
			Message:   message,
			Retryable: false,
			Cause:     ErrCauseSubmitRejected,
			Details:   rejection.Details,
		}

	case resp.StatusCode >= 500:
		return consent.Record{}, resp.StatusCode, &SubmitError{
			Message:   fmt.Sprintf("server error: %d", resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseSubmitServerFailed,
		}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return consent.Record{}, resp.StatusCode, &SubmitError{
			Message:   fmt.Sprintf("unexpected status: %d", resp.StatusCode),
			Retryable: false,
			Cause:     ErrCauseSubmitStatus,
		}
	}

	var created consent.Record
	if err := json.NewDecoder(body).Decode(&created); err != nil {
		return consent.Record{}, resp.StatusCode, &SubmitError{
			Message:   fmt.Sprintf("failed to decode response body: %v", err),
			Retryable: false,
			Cause:     ErrCauseSubmitUndecodable,
		}
	}

	return created, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
