package pagestore

import (
	"errors"
	"fmt"
)

var ErrInvalidPage = errors.New("page must be a positive integer")
var ErrInvalidPageSize = errors.New("page size must be a positive integer")

const (
	MsgFetchFailed   = "Failed to fetch consents"
	MsgRefreshFailed = "Failed to refresh consents"
)

// errorMessage turns a service failure into the text kept in State.Err.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func invalidPage(page int) error {
	return fmt.Errorf("%w: got %d", ErrInvalidPage, page)
}
