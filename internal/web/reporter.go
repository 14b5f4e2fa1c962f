package web

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
)

// Reporter forwards failed lookups to an error tracker.
type Reporter interface {
	Report(r *http.Request, err error)
	Flush(timeout time.Duration)
}

type nopReporter struct{}

func (nopReporter) Report(*http.Request, error) {}
func (nopReporter) Flush(time.Duration)         {}

type sentryReporter struct {
	client *sentry.Client
}

// NewReporter returns a Sentry backed reporter, or one that drops everything
// when dsn is empty.
func NewReporter(dsn, environment string) (Reporter, error) {
	if dsn == "" {
		return nopReporter{}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("environment", environment).Msg("Sentry reporting enabled")
	return &sentryReporter{client: client}, nil
}

func (s *sentryReporter) Report(r *http.Request, err error) {
	scope := sentry.NewScope()
	scope.SetRequest(r)
	scope.SetTag("request_id", RequestID(r.Context()))

	s.client.CaptureException(err, &sentry.EventHint{OriginalException: err}, scope)
}

func (s *sentryReporter) Flush(timeout time.Duration) {
	s.client.Flush(timeout)
}
