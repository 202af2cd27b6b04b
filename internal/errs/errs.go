// Package errs captures errors from deferred cleanup functions, typically
// Close methods, without losing an error that is already in flight.
package errs

import (
	"fmt"
	"testing"

	"go.uber.org/multierr"
)

// Capture runs errF and folds a non-nil result into *err. If *err is already
// non-nil the two are combined into a MultiError. A non-empty msg wraps the
// errF error. Meant to be deferred:
//
//	defer errs.Capture(&mErr, sock.Close, "close socket")
func Capture(err *error, errF func() error, msg string) {
	fErr := errF()
	if fErr == nil {
		return
	}
	if msg != "" {
		fErr = fmt.Errorf(msg+": %w", fErr)
	}
	multierr.AppendInto(err, fErr)
}

// CaptureT reports a non-nil errF result via t.Error, with an optional msg
// prefix. Meant to be deferred in tests or used from t.Cleanup.
func CaptureT(t *testing.T, errF func() error, msg string) {
	t.Helper()
	if err := errF(); err != nil {
		if msg == "" {
			t.Error(err)
			return
		}
		t.Errorf(msg+": %s", err)
	}
}
