package metadata

import (
	"time"

	"github.com/rs/zerolog"
)

/*
Recorder captures structured client and cache events.
It must not:
- perform I/O decisions
- affect control flow

Metadata is write-only.
No component may read metadata to influence paging or refresh decisions.
*/
type Recorder struct {
	logger zerolog.Logger
}

func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	event := r.logger.Warn().
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Str("cause", cause.String())
	for _, a := range attrs {
		event = event.Str(string(a.Key), a.Value)
	}
	event.Msg(details)
}

func (r *Recorder) RecordFetch(ev FetchEvent) {
	r.logger.Debug().
		Str("method", ev.Method).
		Str("url", ev.URL).
		Int("http_status", ev.HTTPStatus).
		Dur("duration", ev.Duration).
		Int("attempts", ev.Attempts).
		Msg("fetch")
}

func (r *Recorder) RecordCacheAccess(page int, hit bool) {
	r.logger.Trace().
		Int("page", page).
		Bool("hit", hit).
		Msg("page cache access")
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordFetch(ev FetchEvent)
	RecordCacheAccess(page int, hit bool)
}

// NoopSink implements MetadataSink but does nothing.
// Callers (or tests) decide whether to inject a Recorder or a NoopSink.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(ev FetchEvent) {}

func (n *NoopSink) RecordCacheAccess(page int, hit bool) {}
