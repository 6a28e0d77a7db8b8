package collector

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/sirupsen/logrus"
)

// DefaultRetries is the per-call-site attempt budget for transient
// network failures.
const DefaultRetries = 3

// retryTransient runs fn up to attempts times, retrying only transient
// network and TLS failures. Any other error returns immediately. When the
// budget is exhausted the last observed error is surfaced.
func retryTransient(log logrus.FieldLogger, op string, attempts int, fn func() error) error {
	var last error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}

		last = err
		log.WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt,
		}).Debugf("transient failure: %v", err)
	}

	return fmt.Errorf("no retries left for %s: %w", op, last)
}

// isTransient reports whether an error looks like a transient network or
// TLS failure (connection reset, broken pipe, handshake trouble, timeout).
func isTransient(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
