package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

const noCauseDetails = "No cause details available"

// NetworkError is a failure to get any HTTP answer from the upstream.
type NetworkError struct {
	Method string
	URL    string
	Code   string
	Err    error
}

func newNetworkError(method, target string, err error) *NetworkError {
	return &NetworkError{Method: method, URL: target, Code: classify(err), Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Cause is {code, message} when the failure could be classified, otherwise
// a fixed placeholder string.
func (e *NetworkError) Cause() any {
	if e.Code == "" {
		return noCauseDetails
	}
	root := e.Err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	return map[string]string{
		"code":    e.Code,
		"message": root.Error(),
	}
}

func classify(err error) string {
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		return "ENOTFOUND"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return "ETIMEDOUT"
	case errors.Is(err, context.Canceled):
		return "ECANCELED"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ETIMEDOUT"
	}
	return ""
}
