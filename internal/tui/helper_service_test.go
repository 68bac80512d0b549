package tui

import (
	"context"
	"sync"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/recordsvc"
	"github.com/rohmanhakim/consents/pkg/failure"
)

// memService is an in-memory recordsvc.Service.
type memService struct {
	mu            sync.Mutex
	records       []consent.Record
	failLists     bool
	rejectAppends bool
}

func newMemService(records ...consent.Record) *memService {
	return &memService{records: records}
}

func (s *memService) List(_ context.Context, page int, pageSize int) (recordsvc.ListResult, failure.ClassifiedError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failLists {
		return recordsvc.ListResult{}, &recordsvc.FetchError{
			Message: "server error: 500",
			Cause:   recordsvc.ErrCauseRequest5xx,
		}
	}

	start := (page - 1) * pageSize
	out := []consent.Record{}
	for i := start; i < start+pageSize && i < len(s.records); i++ {
		out = append(out, s.records[i].Clone())
	}
	return recordsvc.NewListResult(out, len(s.records), page, pageSize), nil
}

func (s *memService) Append(_ context.Context, r consent.Record) (consent.Record, failure.ClassifiedError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejectAppends {
		return consent.Record{}, &recordsvc.SubmitError{
			Message: "Invalid input",
			Cause:   recordsvc.ErrCauseSubmitRejected,
		}
	}
	s.records = append(s.records, r.Clone())
	return r.Clone(), nil
}

func seed() []consent.Record {
	return []consent.Record{
		{Name: "Bojack Horseman", Email: "bojack@horseman.com", ConsentGivenFor: []string{"Receive newsletter"}},
		{Name: "Princess Carolyn", Email: "princess@manager.com", ConsentGivenFor: []string{"Receive newsletter"}},
		{Name: "Diane Nguyen", Email: "diane@writer.com", ConsentGivenFor: []string{"Be shown targeted ads"}},
	}
}
