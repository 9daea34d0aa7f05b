package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind labels a transport failure class for metrics and retry
// accounting.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindConnection  ErrorKind = "connection"
	KindForbidden   ErrorKind = "forbidden"
	KindNotFound    ErrorKind = "not_found"
	KindRateLimited ErrorKind = "rate_limited"
	KindOther       ErrorKind = "other"
)

// TransportError wraps a fetch failure with its classification and the
// URL that produced it.
type TransportError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: fetch %s: %v", e.Kind, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// classifyTransport maps an error and HTTP status to an ErrorKind.
func classifyTransport(err error, statusCode int) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}

	switch statusCode {
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindOther
}

// errorTypeLabel extracts the metrics label from any error.
func errorTypeLabel(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return string(te.Kind)
	}
	return string(KindOther)
}
