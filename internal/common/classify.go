package common

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// ClassifyTransport maps a transport-level error to a FetchKind. Timeouts
// count as server failures because the remote accepted the connection but did
// not answer in time.
func ClassifyTransport(err error) FetchKind {
	if err == nil {
		return FetchUnknown
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return FetchServer
		}
		return FetchNetwork
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FetchServer
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FetchServer
		}
		return FetchNetwork
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FetchNetwork
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return FetchNetwork
	}

	return FetchUnknown
}

// ClassifyHTTPStatus maps an HTTP status code to a FetchKind. Any client or
// server error status is a server failure; everything else is unknown.
func ClassifyHTTPStatus(code int) FetchKind {
	if code >= 400 {
		return FetchServer
	}
	return FetchUnknown
}

// UserMessage returns the text shown to the user for a failed fetch.
func UserMessage(kind FetchKind, err error) string {
	switch kind {
	case FetchNetwork:
		return "No internet connection. Check your network."
	case FetchServer:
		return "The server is not responding correctly."
	}
	if err == nil {
		return "Unexpected error: unknown"
	}
	return "Unexpected error: " + err.Error()
}
