package collector

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection reset", syscall.ECONNRESET, true},
		{"wrapped reset", fmt.Errorf("get: %w", syscall.ECONNRESET), true},
		{"op error", &net.OpError{Op: "read", Err: errors.New("broken")}, true},
		{"tls record header", tls.RecordHeaderError{Msg: "oops"}, true},
		{"timeout", timeoutErr{}, true},
		{"plain error", errors.New("404 not found"), false},
		{"nil-ish sentinel", errors.New(""), false},
	}

	for _, tt := range tests {
		if got := isTransient(tt.err); got != tt.want {
			t.Errorf("%s: isTransient = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRetryTransient_SurfacesLastError(t *testing.T) {
	calls := 0
	err := retryTransient(testLogger(), "op", 3, func() error {
		calls++
		return syscall.ECONNRESET
	})

	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
	if !errors.Is(err, syscall.ECONNRESET) {
		t.Errorf("terminal error %v does not wrap the last failure", err)
	}
}
