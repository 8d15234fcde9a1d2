package writers

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Useful when downstream consumers (like `head`) close early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// SinkError wraps a failure of the output sink, as opposed to a problem with
// the input data.
type SinkError struct{ Err error }

func (e *SinkError) Error() string { return "write output: " + e.Err.Error() }
func (e *SinkError) Unwrap() error { return e.Err }

func sinkErr(err error) error {
	if err == nil {
		return nil
	}
	return &SinkError{Err: err}
}
