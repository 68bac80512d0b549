package pagestore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rohmanhakim/consents/internal/consent"
	"github.com/rohmanhakim/consents/internal/recordsvc"
	"github.com/rohmanhakim/consents/pkg/failure"
	"github.com/stretchr/testify/mock"
)

// serviceMock is a testify mock for the recordsvc.Service
type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) List(ctx context.Context, page int, pageSize int) (recordsvc.ListResult, failure.ClassifiedError) {
	args := m.Called(ctx, page, pageSize)
	result := args.Get(0).(recordsvc.ListResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

func (m *serviceMock) Append(ctx context.Context, record consent.Record) (consent.Record, failure.ClassifiedError) {
	args := m.Called(ctx, record)
	created := args.Get(0).(consent.Record)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return created, err
}

func newServiceMockForTest(t *testing.T) *serviceMock {
	t.Helper()
	m := new(serviceMock)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// records builds n distinguishable records starting at index from.
func records(from int, n int) []consent.Record {
	out := make([]consent.Record, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, consent.Record{
			Name:            fmt.Sprintf("Person %c", 'A'+i),
			Email:           fmt.Sprintf("person%d@example.com", i),
			ConsentGivenFor: []string{"Receive newsletter"},
		})
	}
	return out
}

// collection simulates the endpoint's slicing over an in-memory list.
func collection(all []consent.Record, page int, pageSize int) recordsvc.ListResult {
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return recordsvc.NewListResult(all[start:end], len(all), page, pageSize)
}

func fetchErr(msg string) *recordsvc.FetchError {
	return &recordsvc.FetchError{Message: msg, Cause: recordsvc.ErrCauseRequest5xx}
}

// gatedService blocks every List call until the test releases it, so the
// test can observe state while a fetch is in flight and choose the order in
// which concurrent fetches settle.
type gatedService struct {
	mu      sync.Mutex
	gates   map[int]chan struct{}
	started chan int
	all     []consent.Record
	failOn  map[int]bool
}

func newGatedService(all []consent.Record) *gatedService {
	return &gatedService{
		gates:   make(map[int]chan struct{}),
		started: make(chan int, 16),
		all:     all,
		failOn:  make(map[int]bool),
	}
}

func (g *gatedService) gate(page int) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[page]
	if !ok {
		ch = make(chan struct{})
		g.gates[page] = ch
	}
	return ch
}

func (g *gatedService) release(page int) {
	close(g.gate(page))
}

func (g *gatedService) List(ctx context.Context, page int, pageSize int) (recordsvc.ListResult, failure.ClassifiedError) {
	gate := g.gate(page)
	g.started <- page
	<-gate

	g.mu.Lock()
	fail := g.failOn[page]
	all := g.all
	g.mu.Unlock()
	if fail {
		return recordsvc.ListResult{}, fetchErr("gated failure")
	}
	return collection(all, page, pageSize), nil
}

func (g *gatedService) Append(ctx context.Context, record consent.Record) (consent.Record, failure.ClassifiedError) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.all = append(g.all, record)
	return record, nil
}
