package recordsvc

import (
	"context"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/pkg/failure"
)

// Service is the collection endpoint as seen by the page store.
//
// List returns a *FetchError on failure and never more than pageSize
// records. Append returns a *SubmitError on failure.
type Service interface {
	List(ctx context.Context, page int, pageSize int) (ListResult, failure.ClassifiedError)
	Append(ctx context.Context, record consent.Record) (consent.Record, failure.ClassifiedError)
}
